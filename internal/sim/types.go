package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/curvefall/internal/physics"
)

// BallSnapshot is the state of one ball at the end of a tick.
type BallSnapshot struct {
	ID    int     `csv:"ball" json:"id"`
	X     float64 `csv:"x" json:"x"`
	Y     float64 `csv:"y" json:"y"`
	VX    float64 `csv:"vx" json:"vx"`
	VY    float64 `csv:"vy" json:"vy"`
	State string  `csv:"state" json:"state"`
}

func Snapshot(b *physics.Ball) BallSnapshot {
	return BallSnapshot{
		ID:    b.ID,
		X:     b.Pos.X,
		Y:     b.Pos.Y,
		VX:    b.Vel.X,
		VY:    b.Vel.Y,
		State: b.State.String(),
	}
}

func (b BallSnapshot) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

func (b BallSnapshot) OnSurface() bool {
	return b.State == physics.OnSurface.String()
}

// Frame is everything observable after one tick.
type Frame struct {
	Tick           int            `json:"tick"`
	Time           float64        `json:"time"`
	Balls          []BallSnapshot `json:"balls"`
	Collected      int            `json:"collected"`
	NewlyCollected bool           `json:"newly_collected"`
	Removed        int            `json:"removed"`
	Spawned        int            `json:"spawned"`
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt         float64
	Duration   float64
	SpawnEvery float64
	StopOnWin  bool
	// RecordEvery keeps one frame out of every n ticks. Zero keeps all.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:         1.0 / 60,
		Duration:   10,
		SpawnEvery: 0.5,
		StopOnWin:  true,
	}
}

type Result struct {
	Frames    []Frame
	Metrics   map[string]float64
	Collected int
	Total     int
	Won       bool
	Ticks     int
	Elapsed   float64
	Curves    []string
}

type SimError struct {
	Time    float64
	Tick    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("t=%.4f tick=%d: %s", e.Time, e.Tick, e.Message)
}
