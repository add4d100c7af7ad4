package sampler

import (
	"math"
	"testing"

	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/geom"
)

func compile(t *testing.T, src string) *expr.Equation {
	t.Helper()
	eq, err := expr.Compile(src)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	return eq
}

func TestSample_PolynomialContinuity(t *testing.T) {
	tests := []string{"y = x^3 - 2x", "y = x^2", "y = 0.5x - 3", "y = sin(x)"}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			eq := compile(t, src)
			pl := SampleEquation(eq, -3, 3, DefaultOptions())

			if err := pl.Validate(); err != nil {
				t.Fatalf("invalid polyline: %v", err)
			}
			if pl.Breaks() != 0 {
				t.Errorf("expected no breaks, got %d", pl.Breaks())
			}
			if pl[0].Pos.X != -3 || pl[len(pl)-1].Pos.X != 3 {
				t.Errorf("expected samples to span [-3, 3], got [%g, %g]", pl[0].Pos.X, pl[len(pl)-1].Pos.X)
			}

			pl.Segments(func(i int, s geom.Segment) bool {
				mid := (s.A.X + s.B.X) / 2
				dev := math.Abs(eq.Eval(mid) - (s.A.Y+s.B.Y)/2)
				if dev > DefaultTolerance {
					t.Errorf("segment %d deviates %g at x=%g", i, dev, mid)
					return false
				}
				return true
			})
		})
	}
}

func TestSample_ReciprocalBreak(t *testing.T) {
	pl := SampleEquation(compile(t, "y = 1/x"), -10, 10, DefaultOptions())

	if err := pl.Validate(); err != nil {
		t.Fatalf("invalid polyline: %v", err)
	}
	if pl.Breaks() != 1 {
		t.Fatalf("expected exactly 1 break, got %d", pl.Breaks())
	}

	runs := pl.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	for _, p := range runs[0] {
		if p.X >= 0 {
			t.Fatalf("left run contains x=%g", p.X)
		}
	}
	for _, p := range runs[1] {
		if p.X <= 0 {
			t.Fatalf("right run contains x=%g", p.X)
		}
	}

	if last := runs[0][len(runs[0])-1]; last.X < -0.01 {
		t.Errorf("expected left run to approach 0, ends at x=%g", last.X)
	}
	if first := runs[1][0]; first.X > 0.01 {
		t.Errorf("expected right run to start near 0, starts at x=%g", first.X)
	}
}

func TestSample_TangentPoles(t *testing.T) {
	pl := SampleEquation(compile(t, "y = tan(x)"), -3, 3, DefaultOptions())

	if err := pl.Validate(); err != nil {
		t.Fatalf("invalid polyline: %v", err)
	}
	if pl.Breaks() < 2 {
		t.Errorf("expected at least 2 breaks, got %d", pl.Breaks())
	}

	for _, pole := range []float64{-math.Pi / 2, math.Pi / 2} {
		pl.Segments(func(i int, s geom.Segment) bool {
			if (s.A.X-pole)*(s.B.X-pole) < 0 {
				t.Errorf("segment %d bridges the pole at %g", i, pole)
				return false
			}
			return true
		})
	}
}

func TestSample_SteepLineStaysConnected(t *testing.T) {
	pl := SampleEquation(compile(t, "y = 50x"), -10, 10, DefaultOptions())

	if pl.Breaks() != 0 {
		t.Errorf("expected no breaks, got %d", pl.Breaks())
	}
	if err := pl.Validate(); err != nil {
		t.Errorf("invalid polyline: %v", err)
	}
}

func TestSample_DomainExit(t *testing.T) {
	pl := SampleEquation(compile(t, "y = sqrt(x)"), -4, 4, DefaultOptions())

	if err := pl.Validate(); err != nil {
		t.Fatalf("invalid polyline: %v", err)
	}
	if pl.Breaks() != 0 {
		t.Errorf("expected leading breaks to be dropped, got %d", pl.Breaks())
	}
	if pl[0].Pos.X != 0 || pl[0].Pos.Y != 0 {
		t.Errorf("expected first point at origin, got %v", pl[0])
	}
	for _, v := range pl {
		if v.Pos.X < 0 {
			t.Fatalf("point outside domain: %v", v)
		}
	}
}

func TestSample_Predicate(t *testing.T) {
	pl := SampleEquation(compile(t, "y = x { x > 0 }"), -5, 5, DefaultOptions())

	if err := pl.Validate(); err != nil {
		t.Fatalf("invalid polyline: %v", err)
	}
	if len(pl) == 0 {
		t.Fatal("expected samples")
	}
	for _, v := range pl {
		if v.Pos.X <= 0 {
			t.Fatalf("point fails the condition: %v", v)
		}
	}
	if pl[0].Pos.X > 0.01 {
		t.Errorf("expected samples to start near 0, got x=%g", pl[0].Pos.X)
	}
}

func TestSample_PanickingPredicate(t *testing.T) {
	opts := DefaultOptions()
	opts.Predicate = func(x, y float64) bool {
		if x < 0 {
			panic("left half")
		}
		return true
	}

	pl := Sample(func(t float64) float64 { return t }, -1, 1, opts)
	if len(pl) == 0 {
		t.Fatal("expected samples")
	}
	for _, v := range pl {
		if v.Pos.X < 0 {
			t.Fatalf("point where predicate panicked: %v", v)
		}
	}
}

func TestSample_PanickingFunc(t *testing.T) {
	f := func(t float64) float64 {
		if t > 0 {
			panic("right half")
		}
		return 1
	}

	pl := Sample(f, -1, 1, DefaultOptions())
	if err := pl.Validate(); err != nil {
		t.Fatalf("invalid polyline: %v", err)
	}
	for _, v := range pl {
		if v.Pos.X > 0 {
			t.Fatalf("point where function panicked: %v", v)
		}
	}
}

func TestSample_XOfY(t *testing.T) {
	pl := SampleEquation(compile(t, "x = y^2"), -2, 2, DefaultOptions())

	if pl.Breaks() != 0 {
		t.Errorf("expected no breaks, got %d", pl.Breaks())
	}
	for _, v := range pl {
		if math.Abs(v.Pos.X-v.Pos.Y*v.Pos.Y) > 1e-12 {
			t.Fatalf("expected (y^2, y), got %v", v)
		}
	}
	if pl[0].Pos.Y != -2 || pl[len(pl)-1].Pos.Y != 2 {
		t.Errorf("expected samples along y in [-2, 2]")
	}
}

func TestSample_SanityBound(t *testing.T) {
	pl := SampleEquation(compile(t, "y = 10000000"), -1, 1, DefaultOptions())
	if len(pl) != 0 {
		t.Errorf("expected empty polyline, got %d vertices", len(pl))
	}
}

func TestSample_Island(t *testing.T) {
	f := func(t float64) float64 {
		if t < 0.4 || t > 0.6 {
			return math.NaN()
		}
		return 1
	}
	opts := DefaultOptions()
	opts.CoarseIntervals = 1

	pl := Sample(f, 0, 1, opts)
	runs := pl.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if math.Abs(run[0].X-0.4) > 1e-3 || math.Abs(run[len(run)-1].X-0.6) > 1e-3 {
		t.Errorf("expected island [0.4, 0.6], got [%g, %g]", run[0].X, run[len(run)-1].X)
	}
}

func TestSample_EmptyInterval(t *testing.T) {
	f := func(t float64) float64 { return t }
	if pl := Sample(f, 1, 1, DefaultOptions()); pl != nil {
		t.Errorf("expected nil for empty interval, got %v", pl)
	}
	if pl := Sample(f, 2, 1, DefaultOptions()); pl != nil {
		t.Errorf("expected nil for inverted interval, got %v", pl)
	}
}

func TestSample_MinStep(t *testing.T) {
	opts := DefaultOptions()
	opts.MinStep = 1
	opts.MaxDepth = 1

	pl := Sample(func(t float64) float64 { return t }, 0, 4, opts)
	// four coarse intervals, each accepted as start/mid/end
	if pl.Points() != 9 {
		t.Errorf("expected 9 points, got %d", pl.Points())
	}
}
