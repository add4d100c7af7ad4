package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds is the world rectangle in domain units.
type Bounds struct {
	XMin float64 `yaml:"x_min" json:"x_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
}

func (b Bounds) Width() float64  { return b.XMax - b.XMin }
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// Validate rejects empty or inverted rectangles.
func (b Bounds) Validate() error {
	if b.XMax <= b.XMin {
		return fmt.Errorf("bounds: x_max (%g) must exceed x_min (%g)", b.XMax, b.XMin)
	}
	if b.YMax <= b.YMin {
		return fmt.Errorf("bounds: y_max (%g) must exceed y_min (%g)", b.YMax, b.YMin)
	}
	return nil
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Bounds) Contains(p r2.Vec) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}

// CircleOutside reports whether a circle of radius r centred at c lies
// entirely beyond one of the four sides.
func (b Bounds) CircleOutside(c r2.Vec, r float64) bool {
	return c.X+r < b.XMin || c.X-r > b.XMax || c.Y+r < b.YMin || c.Y-r > b.YMax
}
