package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/game"
	"github.com/san-kum/curvefall/internal/metrics"
	"github.com/san-kum/curvefall/internal/sim"
	"github.com/san-kum/curvefall/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep plays one level with a fixed set of equations.
type ScenarioStep struct {
	Level      string             `yaml:"level"`
	Equations  []string           `yaml:"equations"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	SpawnEvery float64            `yaml:"spawn_every"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a step with its outcome. RunID is set when the step
// was saved.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScenario, path)
	}

	return &scenario, nil
}

// Env holds what every run needs: the base config, a logger and an
// optional store for steps that ask to be saved.
type Env struct {
	Config *config.Config
	Log    *slog.Logger
	Store  *storage.Store
}

func (e Env) logger() *slog.Logger {
	if e.Log == nil {
		return slog.Default()
	}
	return e.Log
}

// NewSession builds a session for level with the given equations submitted
// and the given physics params applied.
func (e Env) NewSession(level string, equations []string, params map[string]float64, opts ...game.Option) (*game.Session, error) {
	cfg := config.DefaultConfig()
	if e.Config != nil {
		c := *e.Config
		cfg = &c
	}
	if level != "" {
		cfg.Level = level
	}

	s, err := game.New(cfg, append([]game.Option{game.WithLogger(e.logger())}, opts...)...)
	if err != nil {
		return nil, err
	}
	for k, v := range params {
		if err := s.Tune(k, v); err != nil {
			return nil, err
		}
	}
	for _, eq := range equations {
		if err := s.Submit(eq); err != nil {
			return nil, fmt.Errorf("%q: %w", eq, err)
		}
	}
	return s, nil
}

func (e Env) simConfig(duration, dt, spawnEvery float64) sim.Config {
	cfg := sim.DefaultConfig()
	if duration > 0 {
		cfg.Duration = duration
	}
	if dt > 0 {
		cfg.Dt = dt
	} else if e.Config != nil {
		cfg.Dt = e.Config.Physics.Dt
	}
	if spawnEvery > 0 {
		cfg.SpawnEvery = spawnEvery
	} else if e.Config != nil {
		cfg.SpawnEvery = e.Config.Game.SpawnInterval
	}
	return cfg
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, env Env) ([]StepResult, error) {
	log := env.logger()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario_step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "level", step.Level)

		s, err := env.NewSession(step.Level, step.Equations, step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		r := sim.New(s)
		for _, m := range metrics.Default() {
			r.AddMetric(m)
		}
		cfg := env.simConfig(step.Duration, step.Dt, step.SpawnEvery)
		result, err := r.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.SaveAs != "" && env.Store != nil {
			id, err := env.Store.Save(step.SaveAs, cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
			log.Info("run_saved", "run_id", id, "level", s.Level().Name)
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one level across evenly spaced values of a physics
// parameter.
type ParameterSweep struct {
	Level      string
	Equations  []string
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Duration   float64
	Dt         float64
	SpawnEvery float64
}

type SweepResult struct {
	ParamValue float64
	Collected  int
	Total      int
	Won        bool
	Elapsed    float64
	FirstStar  float64
	BallsLost  float64
}

// Values returns the parameter values the sweep visits.
func (p *ParameterSweep) Values() []float64 {
	if p.NumSteps <= 1 {
		return []float64{p.ParamMin}
	}
	step := (p.ParamMax - p.ParamMin) / float64(p.NumSteps-1)
	vals := make([]float64, p.NumSteps)
	for i := range vals {
		vals[i] = p.ParamMin + float64(i)*step
	}
	return vals
}

// RunSweep runs every value concurrently through a sim.Ensemble.
func RunSweep(ctx context.Context, sweep *ParameterSweep, env Env) ([]SweepResult, error) {
	vals := sweep.Values()
	factory := func(i int) (*game.Session, error) {
		return env.NewSession(sweep.Level, sweep.Equations, map[string]float64{sweep.ParamName: vals[i]})
	}
	runs, err := sim.NewEnsemble(factory, len(vals), metrics.Default).Run(ctx, env.simConfig(sweep.Duration, sweep.Dt, sweep.SpawnEvery))
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(vals))
	for i, r := range runs {
		results[i] = SweepResult{
			ParamValue: vals[i],
			Collected:  r.Collected,
			Total:      r.Total,
			Won:        r.Won,
			Elapsed:    r.Elapsed,
			FirstStar:  r.Metrics["first_star_time"],
			BallsLost:  r.Metrics["balls_lost"],
		}
		env.logger().Debug("sweep_point", "param", sweep.ParamName, "value", vals[i], "collected", r.Collected)
	}
	return results, nil
}

// MonteCarloConfig checks how robust a solution is to the spawn point
// moving: each trial shifts the spawn by up to Perturbation on both axes.
type MonteCarloConfig struct {
	Level        string
	Equations    []string
	Perturbation float64
	NumTrials    int
	Duration     float64
	Dt           float64
	SpawnEvery   float64
	Seed         int64
}

type MonteCarloResult struct {
	TrialID   int
	Spawn     config.Point
	Collected int
	Won       bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, env Env) ([]MonteCarloResult, error) {
	base := config.GetLevel(cfg.Level)
	if base == nil {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownLevel, cfg.Level)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	levels := make([]*config.Level, cfg.NumTrials)
	for i := range levels {
		lvl := *base
		lvl.Spawn.X += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		lvl.Spawn.Y += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		levels[i] = &lvl
	}

	factory := func(i int) (*game.Session, error) {
		return env.NewSession(cfg.Level, cfg.Equations, nil, game.WithLevel(levels[i]))
	}
	runs, err := sim.NewEnsemble(factory, cfg.NumTrials, nil).Run(ctx, env.simConfig(cfg.Duration, cfg.Dt, cfg.SpawnEvery))
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:   i,
			Spawn:     levels[i].Spawn,
			Collected: r.Collected,
			Won:       r.Won,
		}
	}
	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (won int, lost int) {
	for _, r := range results {
		if r.Won {
			won++
		} else {
			lost++
		}
	}
	return
}
