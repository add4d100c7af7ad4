package metrics

import (
	"math"

	"github.com/san-kum/curvefall/internal/sim"
	"gonum.org/v1/gonum/stat"
)

type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(f sim.Frame) {
	for _, b := range f.Balls {
		p.peak = math.Max(p.peak, b.Speed())
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// MeanSpeed averages the speed of every ball over every observed tick.
type MeanSpeed struct {
	name   string
	speeds []float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(f sim.Frame) {
	for _, b := range f.Balls {
		m.speeds = append(m.speeds, b.Speed())
	}
}

func (m *MeanSpeed) Value() float64 {
	if len(m.speeds) == 0 {
		return 0
	}
	return stat.Mean(m.speeds, nil)
}

// StdDev is the spread of the observed speeds.
func (m *MeanSpeed) StdDev() float64 {
	if len(m.speeds) < 2 {
		return 0
	}
	return stat.StdDev(m.speeds, nil)
}

func (m *MeanSpeed) Reset() { m.speeds = m.speeds[:0] }

// ContactRatio is the fraction of ball-ticks spent on a surface.
type ContactRatio struct {
	name      string
	onSurface int
	samples   int
}

func NewContactRatio() *ContactRatio {
	return &ContactRatio{name: "contact_ratio"}
}

func (c *ContactRatio) Name() string { return c.name }

func (c *ContactRatio) Observe(f sim.Frame) {
	for _, b := range f.Balls {
		c.samples++
		if b.OnSurface() {
			c.onSurface++
		}
	}
}

func (c *ContactRatio) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.onSurface) / float64(c.samples)
}

func (c *ContactRatio) Reset() {
	c.onSurface = 0
	c.samples = 0
}
