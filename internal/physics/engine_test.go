package physics

import (
	"math"
	"testing"

	"github.com/san-kum/curvefall/internal/geom"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

var testBounds = geom.Bounds{XMin: -10, XMax: 10, YMin: -10, YMax: 10}

func flat(y float64) geom.Polyline {
	return geom.Polyline{geom.Pt(-10, y), geom.Pt(10, y)}
}

func TestAdvance_FreeFall(t *testing.T) {
	eng := NewEngine()
	b := NewBall(1, r2.Vec{X: 0, Y: 5}, 0.1)

	st := eng.Advance([]*Ball{b}, nil, testBounds, 0.1)

	if st.Free != 1 {
		t.Errorf("expected 1 free ball, got %d", st.Free)
	}
	if !scalar.EqualWithinAbs(b.Vel.Y, -0.98, 1e-12) {
		t.Errorf("expected vy -0.98, got %f", b.Vel.Y)
	}
	if !scalar.EqualWithinAbs(b.Pos.Y, 5-0.098, 1e-12) {
		t.Errorf("expected y %f, got %f", 5-0.098, b.Pos.Y)
	}
	if b.State != Free {
		t.Errorf("expected free, got %s", b.State)
	}
}

func TestAdvance_NoBounceAndFriction(t *testing.T) {
	eng := NewEngine()
	b := NewBall(1, r2.Vec{X: 0, Y: 0.1}, 0.1)
	b.Vel = r2.Vec{X: 1, Y: -2}
	surfaces := []geom.Polyline{flat(0)}

	const ticks = 50
	for i := 0; i < ticks; i++ {
		eng.Advance([]*Ball{b}, surfaces, testBounds, 0.01)
		if b.State != OnSurface {
			t.Fatalf("tick %d: expected on_surface, got %s", i, b.State)
		}
		if b.Vel.Y != 0 {
			t.Fatalf("tick %d: expected normal velocity discarded, got vy=%f", i, b.Vel.Y)
		}
		if !scalar.EqualWithinAbs(b.Pos.Y, 0.1, 1e-12) {
			t.Fatalf("tick %d: expected ball resting at y=0.1, got %f", i, b.Pos.Y)
		}
	}

	expected := math.Pow(0.995, ticks)
	if !scalar.EqualWithinAbs(b.Vel.X, expected, 1e-9) {
		t.Errorf("expected vx %f, got %f", expected, b.Vel.X)
	}
}

func TestAdvance_SlidesDownSlope(t *testing.T) {
	eng := NewEngine()
	r := 0.1
	b := NewBall(1, r2.Vec{X: 0, Y: r * math.Sqrt2}, r)
	surfaces := []geom.Polyline{{geom.Pt(-5, 5), geom.Pt(5, -5)}}

	for i := 0; i < 60; i++ {
		eng.Advance([]*Ball{b}, surfaces, testBounds, 1.0/60)
	}

	if b.State != OnSurface {
		t.Fatalf("expected on_surface, got %s", b.State)
	}
	if b.Vel.X <= 0 || b.Vel.Y >= 0 {
		t.Errorf("expected motion down the slope, got vel %v", b.Vel)
	}
	// still resting on the line y = -x
	dist := (b.Pos.X + b.Pos.Y) / math.Sqrt2
	if math.Abs(dist-r) > 0.02 {
		t.Errorf("expected distance %f from slope, got %f", r, dist)
	}
	if !scalar.EqualWithinAbs(b.Normal.X, b.Normal.Y, 1e-9) || b.Normal.Y <= 0 {
		t.Errorf("expected upward normal along (1,1), got %v", b.Normal)
	}
}

func TestAdvance_OutOfBoundsIsPermanent(t *testing.T) {
	eng := NewEngine()
	b := NewBall(1, r2.Vec{X: 0, Y: -10.2}, 0.1)

	st := eng.Advance([]*Ball{b}, nil, testBounds, 0.01)
	if st.Exited != 1 || b.State != OutOfBounds {
		t.Fatalf("expected ball out of bounds, got %s", b.State)
	}

	b.Pos = r2.Vec{X: 0, Y: 0}
	for i := 0; i < 10; i++ {
		eng.Advance([]*Ball{b}, []geom.Polyline{flat(-0.1)}, testBounds, 0.01)
	}
	if b.State != OutOfBounds {
		t.Errorf("expected out_of_bounds to stick, got %s", b.State)
	}
	if b.Pos != (r2.Vec{}) {
		t.Errorf("expected out-of-bounds ball not to move, got %v", b.Pos)
	}
	if b.Active() {
		t.Error("expected inactive ball")
	}
}

func TestAdvance_PartiallyOutsideStaysActive(t *testing.T) {
	eng := NewEngine()
	b := NewBall(1, r2.Vec{X: 10.05, Y: 0}, 0.1)

	eng.Advance([]*Ball{b}, nil, testBounds, 0.01)
	if b.State == OutOfBounds {
		t.Error("expected ball overlapping the edge to stay active")
	}
}

func TestAdvance_LastSegmentWins(t *testing.T) {
	tests := []struct {
		name        string
		surfaces    []geom.Polyline
		wantSurface int
		wantY       float64
	}{
		{"upper last", []geom.Polyline{flat(0), flat(0.01)}, 1, 0.11},
		{"lower last", []geom.Polyline{flat(0.01), flat(0)}, 1, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBall(1, r2.Vec{X: 0, Y: 0.1}, 0.1)
			NewEngine().Advance([]*Ball{b}, tt.surfaces, testBounds, 0.01)

			if b.Surface != tt.wantSurface {
				t.Errorf("expected surface %d, got %d", tt.wantSurface, b.Surface)
			}
			if !scalar.EqualWithinAbs(b.Pos.Y, tt.wantY, 1e-12) {
				t.Errorf("expected y %f, got %f", tt.wantY, b.Pos.Y)
			}
		})
	}
}

func TestAdvance_DegenerateContactUsesUpwardNormal(t *testing.T) {
	b := NewBall(1, r2.Vec{X: 0, Y: 0}, 0.1)
	NewEngine().Advance([]*Ball{b}, []geom.Polyline{flat(0)}, testBounds, 0.01)

	if b.Normal.Y != 1 {
		t.Errorf("expected upward normal, got %v", b.Normal)
	}
	if !scalar.EqualWithinAbs(b.Pos.Y, 0.1, 1e-12) {
		t.Errorf("expected ball snapped to y=0.1, got %f", b.Pos.Y)
	}
}

func TestAdvance_ContactFromBelow(t *testing.T) {
	b := NewBall(1, r2.Vec{X: 0, Y: -0.105}, 0.1)
	NewEngine().Advance([]*Ball{b}, []geom.Polyline{flat(0)}, testBounds, 0.01)

	if b.State != OnSurface {
		t.Fatalf("expected on_surface, got %s", b.State)
	}
	if b.Normal.Y != -1 || !scalar.EqualWithinAbs(b.Pos.Y, -0.1, 1e-12) {
		t.Errorf("expected ball snapped below at y=-0.1 with downward normal, got y=%f n=%v", b.Pos.Y, b.Normal)
	}
}

func TestAdvance_SnapsToSegmentEnd(t *testing.T) {
	r := 0.15
	b := NewBall(1, r2.Vec{X: -0.1, Y: 0.1}, r)
	surface := geom.Polyline{geom.Pt(0, 0), geom.Pt(1, 0)}

	NewEngine().Advance([]*Ball{b}, []geom.Polyline{surface}, testBounds, 0)

	if b.State != OnSurface {
		t.Fatalf("expected on_surface, got %s", b.State)
	}
	if dist := r2.Norm(b.Pos); !scalar.EqualWithinAbs(dist, r, 1e-12) {
		t.Errorf("expected distance %f from the segment end, got %f", r, dist)
	}
	want := 1 / math.Sqrt2
	if !scalar.EqualWithinAbs(b.Normal.X, -want, 1e-12) || !scalar.EqualWithinAbs(b.Normal.Y, want, 1e-12) {
		t.Errorf("expected normal pointing from the end to the ball, got %v", b.Normal)
	}
}

func TestAdvance_RollsOffSegmentEnd(t *testing.T) {
	eng := NewEngine()
	r := 0.15
	b := NewBall(1, r2.Vec{X: -0.05, Y: 0.2}, r)
	surfaces := []geom.Polyline{{geom.Pt(0, 0), geom.Pt(1, 0)}}

	changes, touched := 0, false
	prev := b.State
	for i := 0; i < 100; i++ {
		eng.Advance([]*Ball{b}, surfaces, testBounds, 0.01)
		if b.State != prev {
			changes++
			prev = b.State
		}
		if b.State == OnSurface {
			touched = true
			if d := r2.Norm(b.Pos); d > r+eng.ContactSlop {
				t.Fatalf("tick %d: expected ball within reach of the end, got distance %f", i, d)
			}
		}
	}

	if !touched {
		t.Fatal("expected the ball to touch the segment end")
	}
	if changes != 2 {
		t.Errorf("expected one contact then one release, got %d state changes", changes)
	}
	if b.State != Free || b.Pos.X >= 0 || b.Pos.Y > -0.5 {
		t.Errorf("expected ball to fall away to the left, got %s at %v", b.State, b.Pos)
	}
}

func TestAdvance_SlidesAcrossStraightJoints(t *testing.T) {
	eng := NewEngine()
	r := 0.1
	b := NewBall(1, r2.Vec{X: -4 + r/math.Sqrt2, Y: 4 + r/math.Sqrt2}, r)
	surfaces := []geom.Polyline{{
		geom.Pt(-5, 5), geom.Pt(-2.5, 2.5), geom.Pt(0, 0), geom.Pt(2.5, -2.5), geom.Pt(5, -5),
	}}

	for i := 0; i < 90; i++ {
		eng.Advance([]*Ball{b}, surfaces, testBounds, 1.0/60)
		if b.State != OnSurface {
			t.Fatalf("tick %d: expected on_surface at %v, got %s", i, b.Pos, b.State)
		}
	}
	if b.Pos.X < 0 {
		t.Errorf("expected ball to pass both joints, got x=%f", b.Pos.X)
	}
}

func TestAdvance_ReadsGravityEachCall(t *testing.T) {
	eng := NewEngine()
	b := NewBall(1, r2.Vec{X: 0, Y: 5}, 0.1)

	eng.Advance([]*Ball{b}, nil, testBounds, 0.1)
	eng.Gravity = -1
	eng.Advance([]*Ball{b}, nil, testBounds, 0.1)

	if !scalar.EqualWithinAbs(b.Vel.Y, -0.98-0.1, 1e-12) {
		t.Errorf("expected vy %f, got %f", -0.98-0.1, b.Vel.Y)
	}
}

func TestAdvance_SkipsBreaksAndShortSegments(t *testing.T) {
	tests := []struct {
		name    string
		surface geom.Polyline
	}{
		{"break", geom.Polyline{geom.Pt(-1, 0), geom.BreakVertex(), geom.Pt(1, 0)}},
		{"short", geom.Polyline{geom.Pt(0, 0), geom.Pt(0.00005, 0)}},
		{"far", flat(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBall(1, r2.Vec{X: 0, Y: 0.1}, 0.1)
			NewEngine().Advance([]*Ball{b}, []geom.Polyline{tt.surface}, testBounds, 0.01)
			if b.State != Free {
				t.Errorf("expected free, got %s", b.State)
			}
		})
	}
}

func TestEngine_Params(t *testing.T) {
	var eng Tunable = NewEngine()

	if err := eng.SetParam("gravity", -20); err != nil {
		t.Fatalf("set gravity: %v", err)
	}
	if eng.GetParams()["gravity"] != -20 {
		t.Errorf("expected gravity -20, got %f", eng.GetParams()["gravity"])
	}
	if err := eng.SetParam("friction", 1.5); err == nil {
		t.Error("expected error for friction above 1")
	}
	if err := eng.SetParam("bounce", 1); err == nil {
		t.Error("expected error for unknown param")
	}
	if err := eng.SetParam("gravity", math.NaN()); err == nil {
		t.Error("expected error for NaN")
	}
}
