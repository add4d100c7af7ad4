package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// DedupeEpsilon is the distance under which two consecutive points are
// considered coincident.
const DedupeEpsilon = 1e-9

// Vertex is one entry of a Polyline: either a point or a break marker.
type Vertex struct {
	Pos   r2.Vec
	Break bool
}

// Pt returns a point vertex.
func Pt(x, y float64) Vertex {
	return Vertex{Pos: r2.Vec{X: x, Y: y}}
}

// BreakVertex returns a break marker.
func BreakVertex() Vertex {
	return Vertex{Break: true}
}

func (v Vertex) String() string {
	if v.Break {
		return "|"
	}
	return fmt.Sprintf("(%.4g, %.4g)", v.Pos.X, v.Pos.Y)
}

// Polyline is an ordered run of points interspersed with break markers.
// Points inside a run are joined by straight segments; a break is never
// joined across.
type Polyline []Vertex

// Segment is a straight piece between two consecutive points of a run.
type Segment struct {
	A, B r2.Vec
}

// Len returns the segment length.
func (s Segment) Len() float64 {
	return r2.Norm(r2.Sub(s.B, s.A))
}

// Param returns the unclamped position of p projected onto the line through
// s, as a fraction of the way from A to B. Values outside [0, 1] mean the
// nearest point of s is an endpoint.
func (s Segment) Param(p r2.Vec) float64 {
	d := r2.Sub(s.B, s.A)
	l2 := r2.Norm2(d)
	if l2 == 0 {
		return 0
	}
	return r2.Dot(r2.Sub(p, s.A), d) / l2
}

// ClosestPoint returns the point on s nearest to p.
func (s Segment) ClosestPoint(p r2.Vec) r2.Vec {
	t := s.Param(p)
	switch {
	case t <= 0:
		return s.A
	case t >= 1:
		return s.B
	}
	return r2.Add(s.A, r2.Scale(t, r2.Sub(s.B, s.A)))
}

// Box returns the axis-aligned bounding box of s expanded by pad on every side.
func (s Segment) Box(pad float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(s.A.X, s.B.X) - pad, Y: math.Min(s.A.Y, s.B.Y) - pad},
		Max: r2.Vec{X: math.Max(s.A.X, s.B.X) + pad, Y: math.Max(s.A.Y, s.B.Y) + pad},
	}
}

// BoxContains reports whether p lies inside b, edges included.
func BoxContains(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Segments calls fn for every segment in order, skipping across breaks.
// Iteration stops early when fn returns false.
func (pl Polyline) Segments(fn func(i int, s Segment) bool) {
	idx := 0
	for i := 1; i < len(pl); i++ {
		a, b := pl[i-1], pl[i]
		if a.Break || b.Break {
			continue
		}
		if !fn(idx, Segment{A: a.Pos, B: b.Pos}) {
			return
		}
		idx++
	}
}

// Runs splits pl into its unbroken point runs.
func (pl Polyline) Runs() [][]r2.Vec {
	var runs [][]r2.Vec
	var cur []r2.Vec
	for _, v := range pl {
		if v.Break {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, v.Pos)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// Points returns the number of point vertices.
func (pl Polyline) Points() int {
	n := 0
	for _, v := range pl {
		if !v.Break {
			n++
		}
	}
	return n
}

// Breaks returns the number of break markers.
func (pl Polyline) Breaks() int {
	return len(pl) - pl.Points()
}

// Validate checks the structural invariants: no leading break, no two
// consecutive breaks and no two consecutive coincident points.
func (pl Polyline) Validate() error {
	for i, v := range pl {
		if v.Break {
			if i == 0 {
				return fmt.Errorf("polyline: leading break")
			}
			if pl[i-1].Break {
				return fmt.Errorf("polyline: consecutive breaks at %d", i)
			}
			continue
		}
		if math.IsNaN(v.Pos.X) || math.IsNaN(v.Pos.Y) || math.IsInf(v.Pos.X, 0) || math.IsInf(v.Pos.Y, 0) {
			return fmt.Errorf("polyline: non-finite point at %d", i)
		}
		if i > 0 && !pl[i-1].Break && Coincident(pl[i-1].Pos, v.Pos) {
			return fmt.Errorf("polyline: coincident points at %d", i)
		}
	}
	return nil
}

// Coincident reports whether a and b are within DedupeEpsilon on both axes.
func Coincident(a, b r2.Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, DedupeEpsilon) && scalar.EqualWithinAbs(a.Y, b.Y, DedupeEpsilon)
}
