package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/curvefall/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// MinSegmentLength is the length under which a segment has no usable
// direction and is ignored by the contact search.
const MinSegmentLength = 1e-4

type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Engine struct {
	Gravity       float64
	ContactSlop   float64
	BroadPhasePad float64
	Friction      float64
	SnapEpsilon   float64
}

func NewEngine() *Engine {
	return &Engine{
		Gravity:       -9.8,
		ContactSlop:   0.02,
		BroadPhasePad: 0.05,
		Friction:      0.995,
		SnapEpsilon:   1e-4,
	}
}

// Stats summarizes one Advance call.
type Stats struct {
	Free      int
	OnSurface int
	Exited    int
}

type contact struct {
	surface int
	seg     geom.Segment
	closest r2.Vec
	// the ball lies beyond an end of seg, not just level with it
	endpoint bool
}

// Advance moves every active ball forward by dt under e.Gravity, read afresh
// on every call: changing Gravity (or SetParam("gravity", ...)) between calls
// is how a caller supplies per-tick gravity. Balls whose bounding circle has
// left bounds are marked OutOfBounds and never move again; removing them is
// left to the caller.
func (e *Engine) Advance(balls []*Ball, surfaces []geom.Polyline, bounds geom.Bounds, dt float64) Stats {
	var st Stats
	for _, b := range balls {
		if b.State == OutOfBounds {
			continue
		}
		if bounds.CircleOutside(b.Pos, b.Radius) {
			b.State = OutOfBounds
			b.Surface = -1
			st.Exited++
			continue
		}

		if c, ok := e.findContact(b, surfaces); ok {
			e.slide(b, c, dt)
		} else {
			e.fall(b, dt)
		}
		if b.State == OnSurface {
			st.OnSurface++
		} else {
			st.Free++
		}
	}
	return st
}

// findContact scans surfaces in order. The last qualifying segment wins.
func (e *Engine) findContact(b *Ball, surfaces []geom.Polyline) (contact, bool) {
	var best contact
	found := false
	reach := b.Radius + e.ContactSlop
	pad := b.Radius + e.BroadPhasePad

	for si, pl := range surfaces {
		pl.Segments(func(_ int, s geom.Segment) bool {
			if s.Len() < MinSegmentLength {
				return true
			}
			if !geom.BoxContains(s.Box(pad), b.Pos) {
				return true
			}
			cp := s.ClosestPoint(b.Pos)
			if r2.Norm(r2.Sub(b.Pos, cp)) <= reach {
				t := s.Param(b.Pos)
				over := max(-t, t-1) * s.Len()
				best = contact{surface: si, seg: s, closest: cp, endpoint: over > e.SnapEpsilon}
				found = true
			}
			return true
		})
	}
	return best, found
}

func (e *Engine) slide(b *Ball, c contact, dt float64) {
	toBall := r2.Sub(b.Pos, c.closest)
	if c.endpoint && r2.Norm(toBall) >= e.SnapEpsilon {
		e.slideAroundEnd(b, c, toBall, dt)
		return
	}

	tangent := r2.Unit(r2.Sub(c.seg.B, c.seg.A))
	normal := r2.Vec{X: -tangent.Y, Y: tangent.X}
	if r2.Norm(toBall) < e.SnapEpsilon {
		if normal.Y < 0 {
			normal = r2.Scale(-1, normal)
		}
	} else if r2.Dot(normal, toBall) < 0 {
		normal = r2.Scale(-1, normal)
	}

	// snap so the surface distance equals the radius exactly
	dist := r2.Dot(toBall, normal)
	b.Pos = r2.Add(b.Pos, r2.Scale(b.Radius-dist, normal))
	e.integrate(b, c, tangent, normal, dt)
}

// slideAroundEnd handles a ball whose nearest surface point is the end of a
// segment. The contact normal points from that end to the ball centre and
// the ball rolls around the end along the perpendicular. It lets go and
// falls once gravity no longer presses it onto the end hard enough to keep
// it on that circular path.
func (e *Engine) slideAroundEnd(b *Ball, c contact, toBall r2.Vec, dt float64) {
	normal := r2.Unit(toBall)
	tangent := r2.Vec{X: normal.Y, Y: -normal.X}
	if r2.Dot(tangent, r2.Sub(c.seg.B, c.seg.A)) < 0 {
		tangent = r2.Scale(-1, tangent)
	}

	g := r2.Vec{Y: e.Gravity}
	vt := r2.Dot(b.Vel, tangent)
	if -r2.Dot(g, normal) < vt*vt/b.Radius {
		e.fall(b, dt)
		return
	}

	b.Pos = r2.Add(c.closest, r2.Scale(b.Radius, normal))
	e.integrate(b, c, tangent, normal, dt)
}

// integrate drops the normal velocity, applies gravity along the tangent
// and friction, then moves the ball along the tangent.
func (e *Engine) integrate(b *Ball, c contact, tangent, normal r2.Vec, dt float64) {
	g := r2.Vec{Y: e.Gravity}
	vt := r2.Dot(b.Vel, tangent)
	vt += r2.Dot(g, tangent) * dt
	vt *= e.Friction

	b.Vel = r2.Scale(vt, tangent)
	b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
	b.State = OnSurface
	b.Surface = c.surface
	b.Normal = normal
}

func (e *Engine) fall(b *Ball, dt float64) {
	b.Vel.Y += e.Gravity * dt
	b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
	b.State = Free
	b.Surface = -1
	b.Normal = r2.Vec{}
}

func (e *Engine) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":         e.Gravity,
		"contact_slop":    e.ContactSlop,
		"broad_phase_pad": e.BroadPhasePad,
		"friction":        e.Friction,
		"snap_epsilon":    e.SnapEpsilon,
	}
}

func (e *Engine) SetParam(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("invalid value for %s: %v", name, value)
	}
	switch name {
	case "gravity":
		e.Gravity = value
	case "contact_slop":
		e.ContactSlop = value
	case "broad_phase_pad":
		e.BroadPhasePad = value
	case "friction":
		if value < 0 || value > 1 {
			return fmt.Errorf("friction must be in [0, 1], got %g", value)
		}
		e.Friction = value
	case "snap_epsilon":
		e.SnapEpsilon = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
