package sampler

import (
	"math"

	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/geom"
)

const (
	DefaultTolerance       = 0.01
	DefaultMaxDepth        = 12
	DefaultCoarseIntervals = 64
	DefaultSanityBound     = 1e6
	DefaultSteepDelta      = 10.0
)

// Func is a curve over its input axis. A panic, a non-finite result or a
// result beyond the sanity bound marks the input as outside the domain.
type Func func(t float64) float64

// Predicate restricts the domain in world coordinates.
type Predicate func(x, y float64) bool

type Options struct {
	MinStep     float64
	Orientation expr.Orientation
	Predicate   Predicate

	Tolerance       float64
	MaxDepth        int
	CoarseIntervals int
	SanityBound     float64
	SteepDelta      float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance:       DefaultTolerance,
		MaxDepth:        DefaultMaxDepth,
		CoarseIntervals: DefaultCoarseIntervals,
		SanityBound:     DefaultSanityBound,
		SteepDelta:      DefaultSteepDelta,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.CoarseIntervals <= 0 {
		o.CoarseIntervals = d.CoarseIntervals
	}
	if o.SanityBound <= 0 {
		o.SanityBound = d.SanityBound
	}
	if o.SteepDelta <= 0 {
		o.SteepDelta = d.SteepDelta
	}
	return o
}

type sample struct {
	t, v float64
	ok   bool
}

type sampler struct {
	f    Func
	opts Options
	out  geom.Polyline
}

// Sample approximates f over [lo, hi] with a polyline in world coordinates.
// Segments deviate from f by at most Tolerance at their midpoints; domain
// exits and discontinuities become breaks.
func Sample(f Func, lo, hi float64, opts Options) geom.Polyline {
	if !(hi > lo) || f == nil {
		return nil
	}
	s := &sampler{f: f, opts: opts.withDefaults()}

	width := math.Max(s.opts.MinStep, (hi-lo)/float64(s.opts.CoarseIntervals))
	n := int(math.Ceil((hi-lo)/width - 1e-9))
	if n < 1 {
		n = 1
	}

	prev := s.at(lo)
	for i := 1; i <= n; i++ {
		t := lo + float64(i)*width
		if i == n || t > hi {
			t = hi
		}
		cur := s.at(t)
		s.refine(prev, cur, 0)
		prev = cur
	}
	return compact(s.out)
}

// SampleEquation samples eq along its input axis, wiring in its orientation
// and condition.
func SampleEquation(eq *expr.Equation, lo, hi float64, opts Options) geom.Polyline {
	opts.Orientation = eq.Orientation
	if pred := eq.Predicate(); pred != nil {
		opts.Predicate = pred
	}
	return Sample(eq.Eval, lo, hi, opts)
}

func (s *sampler) at(t float64) sample {
	v, ok := s.eval(t)
	return sample{t: t, v: v, ok: ok}
}

func (s *sampler) eval(t float64) (v float64, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = math.NaN(), false
		}
	}()
	v = s.f(t)
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > s.opts.SanityBound {
		return v, false
	}
	if s.opts.Predicate != nil {
		x, y := s.point(t, v)
		if !s.opts.Predicate(x, y) {
			return v, false
		}
	}
	return v, true
}

func (s *sampler) point(t, v float64) (x, y float64) {
	if s.opts.Orientation == expr.XOfY {
		return v, t
	}
	return t, v
}

func (s *sampler) refine(a, b sample, depth int) {
	m := s.at((a.t + b.t) / 2)
	last := depth >= s.opts.MaxDepth

	switch {
	case a.ok && b.ok:
		s.refineValid(a, m, b, depth)
	case !a.ok && !b.ok:
		if m.ok && !last {
			s.refine(a, m, depth+1)
			s.refine(m, b, depth+1)
			return
		}
		s.emitBreak()
	default:
		if last {
			if a.ok {
				s.emit(a)
				s.emitBreak()
			} else {
				s.emitBreak()
				s.emit(b)
			}
			return
		}
		s.refine(a, m, depth+1)
		s.refine(m, b, depth+1)
	}
}

func (s *sampler) refineValid(a, m, b sample, depth int) {
	last := depth >= s.opts.MaxDepth

	if !m.ok {
		if last {
			s.emit(a)
			s.emitBreak()
			return
		}
		s.refine(a, m, depth+1)
		s.refine(m, b, depth+1)
		return
	}

	errMid := math.Abs(m.v - (a.v+b.v)/2)
	steep := math.Abs(b.v-a.v) > s.opts.SteepDelta
	if errMid <= s.opts.Tolerance && !steep {
		s.emitSegment(a, m, b)
		return
	}
	if last {
		// a steep jump whose midpoint escapes the endpoints is a pole, not a slope
		if steep && !between(m.v, a.v, b.v) {
			s.emit(a)
			s.emitBreak()
			return
		}
		s.emitSegment(a, m, b)
		return
	}
	s.refine(a, m, depth+1)
	s.refine(m, b, depth+1)
}

func (s *sampler) emitSegment(a, m, b sample) {
	s.emit(a)
	s.emit(m)
	s.emit(b)
}

func (s *sampler) emit(p sample) {
	x, y := s.point(p.t, p.v)
	v := geom.Pt(x, y)
	if n := len(s.out); n > 0 && !s.out[n-1].Break && geom.Coincident(s.out[n-1].Pos, v.Pos) {
		return
	}
	s.out = append(s.out, v)
}

func (s *sampler) emitBreak() {
	s.out = append(s.out, geom.BreakVertex())
}

func between(v, a, b float64) bool {
	return v >= math.Min(a, b) && v <= math.Max(a, b)
}

// compact collapses runs of breaks and trims breaks at either end.
func compact(in geom.Polyline) geom.Polyline {
	out := in[:0]
	for _, v := range in {
		if v.Break && (len(out) == 0 || out[len(out)-1].Break) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 0 && out[len(out)-1].Break {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
