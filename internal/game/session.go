package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/curvefall/internal/collect"
	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/physics"
	"github.com/san-kum/curvefall/internal/sampler"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrNoCurves     = errors.New("game: no curves")
	ErrEmptyCurve   = errors.New("game: equation has no visible points")
	ErrInvalidParam = errors.New("game: invalid parameter")
)

// Session owns the mutable state of one game: the curves drawn so far, the
// live balls and the stars of the current level.
type Session struct {
	cfg    *config.Config
	level  *config.Level
	engine *physics.Engine
	opts   sampler.Options
	log    *slog.Logger
	now    func() time.Time

	curves   []*Curve
	balls    []*physics.Ball
	stars    []*collect.Star
	nextBall int
	nextID   int
	elapsed  float64
	won      bool
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLevel plays an ad-hoc level instead of the one named in the config.
func WithLevel(l *config.Level) Option {
	return func(s *Session) { s.level = l }
}

// TickReport describes what happened during one Advance.
type TickReport struct {
	Collected      int
	NewlyCollected bool
	Removed        int
	Won            bool
	Physics        physics.Stats
}

func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Session{
		cfg:    cfg,
		engine: cfg.Engine(),
		opts:   cfg.SamplerOptions(),
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.level == nil {
		name := cfg.Level
		if name == "" {
			name = config.DefaultLevel
		}
		s.level = config.GetLevel(name)
		if s.level == nil {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownLevel, name)
		}
	}
	if err := cfg.World.Validate(); err != nil {
		return nil, err
	}
	s.resetStars()
	return s, nil
}

// Submit compiles and samples text and appends it as a new curve. Every
// failure is an *expr.Error; one that draws nothing inside the world also
// matches ErrEmptyCurve. On error the session is left untouched.
func (s *Session) Submit(text string) error {
	eq, err := expr.Compile(text)
	if err != nil {
		s.log.Info("equation_rejected", "input", text, "error", err)
		return err
	}
	samples := s.sample(eq)
	if samples.Points() < 2 {
		err := &expr.Error{
			Kind:  expr.ErrCompileFailure,
			Token: text,
			Msg:   fmt.Sprintf("%s has no visible points", eq),
			Err:   ErrEmptyCurve,
		}
		s.log.Info("equation_rejected", "input", text, "error", err)
		return err
	}

	c := &Curve{
		ID:          s.nextID,
		Equation:    eq,
		Orientation: eq.Orientation,
		Samples:     samples,
		Color:       PaletteColor(len(s.curves)),
		Thickness:   s.cfg.Game.CurveThickness,
		Source:      text,
	}
	s.nextID++
	s.curves = append(s.curves, c)
	s.log.Info("curve_added",
		"id", c.ID,
		"equation", eq.String(),
		"points", samples.Points(),
		"breaks", samples.Breaks(),
	)
	return nil
}

// Preview samples text without keeping it. Invalid input yields false.
func (s *Session) Preview(text string) (geom.Polyline, bool) {
	eq, err := expr.Compile(text)
	if err != nil {
		return nil, false
	}
	pl := s.sample(eq)
	return pl, pl.Points() >= 2
}

func (s *Session) sample(eq *expr.Equation) geom.Polyline {
	w := s.cfg.World
	lo, hi := w.XMin, w.XMax
	if eq.Orientation == expr.XOfY {
		lo, hi = w.YMin, w.YMax
	}
	return sampler.SampleEquation(eq, lo, hi, s.opts)
}

// RemoveLastCurve drops the most recent curve.
func (s *Session) RemoveLastCurve() error {
	if len(s.curves) == 0 {
		return ErrNoCurves
	}
	c := s.curves[len(s.curves)-1]
	s.curves = s.curves[:len(s.curves)-1]
	s.log.Info("curve_removed", "id", c.ID, "equation", c.Source)
	return nil
}

// SpawnBall drops a ball from the level spawn point. The oldest balls are
// discarded once the cap is exceeded.
func (s *Session) SpawnBall() *physics.Ball {
	s.nextBall++
	sp := s.level.Spawn
	b := physics.NewBall(s.nextBall, r2.Vec{X: sp.X, Y: sp.Y}, s.cfg.Game.BallRadius)
	s.balls = append(s.balls, b)
	if limit := s.cfg.Game.MaxBalls; limit > 0 && len(s.balls) > limit {
		s.balls = append(s.balls[:0], s.balls[len(s.balls)-limit:]...)
	}
	return b
}

// Advance runs one physics tick, removes balls that left the world and then
// checks for collected stars. Gravity is the engine's current value, set from
// the config and changed between ticks with Tune("gravity", ...).
func (s *Session) Advance(dt float64) TickReport {
	var rep TickReport
	rep.Physics = s.engine.Advance(s.balls, s.Surfaces(), s.cfg.World, dt)

	live := s.balls[:0]
	for _, b := range s.balls {
		if b.Active() {
			live = append(live, b)
			continue
		}
		rep.Removed++
	}
	for i := len(live); i < len(s.balls); i++ {
		s.balls[i] = nil
	}
	s.balls = live

	s.elapsed += dt
	res := collect.Collect(s.balls, s.stars, s.cfg.Game.CaptureRadius, s.now())
	for _, st := range res.New {
		s.log.Info("star_collected", "star", st.ID, "ball", st.CollectedBy, "elapsed", s.elapsed)
	}
	rep.Collected = res.Count
	rep.NewlyCollected = res.NewlyCollected

	if !s.won && len(s.stars) > 0 && res.Count == len(s.stars) {
		s.won = true
		s.log.Info("level_complete", "level", s.level.Name, "elapsed", s.elapsed, "curves", len(s.curves))
	}
	rep.Won = s.won
	return rep
}

// Reset clears curves and balls and restores the level's stars.
func (s *Session) Reset() {
	s.curves = nil
	s.balls = nil
	s.elapsed = 0
	s.won = false
	s.resetStars()
	s.log.Info("session_reset", "level", s.level.Name)
}

// ClearBalls removes every ball but keeps curves and stars.
func (s *Session) ClearBalls() {
	s.balls = nil
}

// SetLevel switches to the named level and resets.
func (s *Session) SetLevel(name string) error {
	lvl := config.GetLevel(name)
	if lvl == nil {
		return fmt.Errorf("%w: %q", config.ErrUnknownLevel, name)
	}
	s.level = lvl
	s.Reset()
	return nil
}

// Tune changes a physics parameter at runtime.
func (s *Session) Tune(name string, value float64) error {
	if err := s.engine.SetParam(name, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	return nil
}

func (s *Session) resetStars() {
	s.stars = make([]*collect.Star, len(s.level.Stars))
	for i, p := range s.level.Stars {
		s.stars[i] = collect.NewStar(i+1, p.X, p.Y)
	}
}

// Surfaces returns the sampled polylines of all curves in submission order.
func (s *Session) Surfaces() []geom.Polyline {
	out := make([]geom.Polyline, len(s.curves))
	for i, c := range s.curves {
		out[i] = c.Samples
	}
	return out
}

func (s *Session) Curves() []*Curve        { return s.curves }
func (s *Session) Balls() []*physics.Ball  { return s.balls }
func (s *Session) Stars() []*collect.Star  { return s.stars }
func (s *Session) Level() *config.Level    { return s.level }
func (s *Session) World() geom.Bounds      { return s.cfg.World }
func (s *Session) Config() *config.Config  { return s.cfg }
func (s *Session) Engine() *physics.Engine { return s.engine }
func (s *Session) Elapsed() float64        { return s.elapsed }
func (s *Session) Won() bool               { return s.won }
func (s *Session) Remaining() int          { return collect.Remaining(s.stars) }
func (s *Session) Collected() int          { return len(s.stars) - s.Remaining() }
