package metrics

import "github.com/san-kum/curvefall/internal/sim"

type StarsCollected struct {
	name  string
	count int
}

func NewStarsCollected() *StarsCollected {
	return &StarsCollected{name: "stars_collected"}
}

func (s *StarsCollected) Name() string { return s.name }

func (s *StarsCollected) Observe(f sim.Frame) {
	s.count = f.Collected
}

func (s *StarsCollected) Value() float64 { return float64(s.count) }
func (s *StarsCollected) Reset()         { s.count = 0 }

// FirstStarTime is the time of the first collection, -1 if none happened.
type FirstStarTime struct {
	name string
	at   float64
	seen bool
}

func NewFirstStarTime() *FirstStarTime {
	return &FirstStarTime{name: "first_star_time"}
}

func (m *FirstStarTime) Name() string { return m.name }

func (m *FirstStarTime) Observe(f sim.Frame) {
	if !m.seen && f.NewlyCollected {
		m.at = f.Time
		m.seen = true
	}
}

func (m *FirstStarTime) Value() float64 {
	if !m.seen {
		return -1
	}
	return m.at
}

func (m *FirstStarTime) Reset() {
	m.at = 0
	m.seen = false
}

type BallsLost struct {
	name string
	lost int
}

func NewBallsLost() *BallsLost {
	return &BallsLost{name: "balls_lost"}
}

func (b *BallsLost) Name() string        { return b.name }
func (b *BallsLost) Observe(f sim.Frame) { b.lost += f.Removed }
func (b *BallsLost) Value() float64      { return float64(b.lost) }
func (b *BallsLost) Reset()              { b.lost = 0 }
