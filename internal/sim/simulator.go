package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/curvefall/internal/game"
)

// Runner drives a game session headlessly, spawning balls on a fixed
// schedule and recording frames.
type Runner struct {
	session   *game.Session
	metrics   []Metric
	observers []Observer
}

func New(session *game.Session) *Runner {
	return &Runner{
		session:   session,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Session() *game.Session { return r.session }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}
	result := &Result{
		Frames:  make([]Frame, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Total:   len(r.session.Stars()),
	}
	for _, c := range r.session.Curves() {
		result.Curves = append(result.Curves, c.Source)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	err := r.loop(ctx, cfg, steps, func(f Frame) bool {
		if f.Tick%every == 0 || f.Tick == steps {
			result.Frames = append(result.Frames, f)
		}
		result.Ticks = f.Tick
		result.Elapsed = f.Time
		return true
	})

	result.Collected = r.session.Collected()
	result.Won = r.session.Won()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// RunWithCallback advances until the duration elapses, the context ends or
// callback returns false.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	return r.loop(ctx, cfg, int(cfg.Duration/cfg.Dt+1e-9), callback)
}

func (r *Runner) loop(ctx context.Context, cfg Config, steps int, callback func(Frame) bool) error {
	t := 0.0
	nextSpawn := 0.0

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		spawned := 0
		if cfg.SpawnEvery > 0 && t >= nextSpawn-1e-9 {
			r.session.SpawnBall()
			spawned++
			nextSpawn += cfg.SpawnEvery
		}

		rep := r.session.Advance(cfg.Dt)
		t += cfg.Dt

		f := Frame{
			Tick:           i,
			Time:           t,
			Collected:      rep.Collected,
			NewlyCollected: rep.NewlyCollected,
			Removed:        rep.Removed,
			Spawned:        spawned,
		}
		balls := r.session.Balls()
		f.Balls = make([]BallSnapshot, len(balls))
		for j, b := range balls {
			f.Balls[j] = Snapshot(b)
		}

		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, obs := range r.observers {
			obs.OnStep(f)
		}

		if !callback(f) {
			return nil
		}
		if cfg.StopOnWin && rep.Won {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SpawnEvery < 0 {
		return fmt.Errorf("spawn interval must not be negative, got %f", cfg.SpawnEvery)
	}
	return nil
}
