package viz

import (
	"math"

	"github.com/san-kum/curvefall/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps world coordinates onto a W x H pixel surface with +y up
// in the world and +y down on screen.
type Viewport struct {
	World geom.Bounds
	W, H  float64
}

func NewViewport(world geom.Bounds, w, h float64) Viewport {
	return Viewport{World: world, W: w, H: h}
}

func (v Viewport) ScaleX() float64 { return v.W / v.World.Width() }
func (v Viewport) ScaleY() float64 { return v.H / v.World.Height() }

// ToScreen returns the fractional pixel position of p.
func (v Viewport) ToScreen(p r2.Vec) (float64, float64) {
	x := (p.X - v.World.XMin) * v.ScaleX()
	y := (v.World.YMax - p.Y) * v.ScaleY()
	return x, y
}

// Pixel returns the integer pixel containing p.
func (v Viewport) Pixel(p r2.Vec) (int, int) {
	x, y := v.ToScreen(p)
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToWorld inverts ToScreen.
func (v Viewport) ToWorld(x, y float64) r2.Vec {
	return r2.Vec{
		X: v.World.XMin + x/v.ScaleX(),
		Y: v.World.YMax - y/v.ScaleY(),
	}
}

// Length converts a world distance along x to pixels.
func (v Viewport) Length(d float64) float64 {
	return d * v.ScaleX()
}
