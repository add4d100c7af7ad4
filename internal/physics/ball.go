package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is the contact state of a ball.
type State int

const (
	Free State = iota
	OnSurface
	OutOfBounds
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case OnSurface:
		return "on_surface"
	case OutOfBounds:
		return "out_of_bounds"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Ball struct {
	ID     int
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	State  State

	// Surface is the index of the surface the ball rests on, -1 when free.
	Surface int
	Normal  r2.Vec

	CollectedStar bool
}

func NewBall(id int, pos r2.Vec, radius float64) *Ball {
	return &Ball{ID: id, Pos: pos, Radius: radius, Surface: -1}
}

// Active reports whether the ball still takes part in the simulation.
func (b *Ball) Active() bool {
	return b.State != OutOfBounds
}

func (b *Ball) Speed() float64 {
	return r2.Norm(b.Vel)
}

func (b *Ball) String() string {
	return fmt.Sprintf("ball#%d %s pos=(%.3f, %.3f) vel=(%.3f, %.3f)",
		b.ID, b.State, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
}
