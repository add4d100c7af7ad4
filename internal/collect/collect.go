// Package collect decides which stars the balls have picked up.
package collect

import (
	"time"

	"github.com/san-kum/curvefall/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const DefaultCaptureRadius = 0.3

type Star struct {
	ID          int
	Pos         r2.Vec
	Collected   bool
	CollectedAt time.Time
	// CollectedBy is the ID of the ball that reached the star first in
	// iteration order.
	CollectedBy int
}

func NewStar(id int, x, y float64) *Star {
	return &Star{ID: id, Pos: r2.Vec{X: x, Y: y}}
}

// Result is the outcome of one Collect call.
type Result struct {
	Count          int
	NewlyCollected bool
	New            []*Star
}

// Collect marks every uncollected star that some active ball touches.
// A star is touched when the ball centre is within the ball radius plus
// captureRadius of it. Collection is never undone.
func Collect(balls []*physics.Ball, stars []*Star, captureRadius float64, now time.Time) Result {
	var res Result
	for _, s := range stars {
		if s.Collected {
			res.Count++
			continue
		}
		for _, b := range balls {
			if !b.Active() {
				continue
			}
			if r2.Norm(r2.Sub(b.Pos, s.Pos)) > b.Radius+captureRadius {
				continue
			}
			if !s.Collected {
				s.Collected = true
				s.CollectedAt = now
				s.CollectedBy = b.ID
				res.Count++
				res.NewlyCollected = true
				res.New = append(res.New, s)
			}
			b.CollectedStar = true
		}
	}
	return res
}

// Remaining returns the number of stars still to be collected.
func Remaining(stars []*Star) int {
	n := 0
	for _, s := range stars {
		if !s.Collected {
			n++
		}
	}
	return n
}

// Reset clears the collected state of every star.
func Reset(stars []*Star) {
	for _, s := range stars {
		s.Collected = false
		s.CollectedAt = time.Time{}
		s.CollectedBy = 0
	}
}
