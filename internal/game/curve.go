package game

import (
	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/geom"
)

// Curve is an accepted equation together with its sampled shape. Curves are
// never modified after creation.
type Curve struct {
	ID          int
	Equation    *expr.Equation
	Orientation expr.Orientation
	Samples     geom.Polyline
	Color       string
	Thickness   float64
	Source      string
}

var palette = []string{
	"#4ECDC4",
	"#FF6B6B",
	"#FFE66D",
	"#A78BFA",
	"#F97316",
	"#22C55E",
	"#38BDF8",
	"#F472B6",
}

// PaletteColor returns the hex colour for the i-th curve.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
