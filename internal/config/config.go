package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/physics"
	"github.com/san-kum/curvefall/internal/sampler"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = 1.0 / 60
	DefaultGravity       = -9.8
	DefaultMaxBalls      = 150
	DefaultBallRadius    = 0.15
	DefaultCaptureRadius = 0.3
	DefaultSpawnInterval = 0.5
	DefaultThickness     = 2.0
	DefaultLevel         = "tutorial"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Level   string        `yaml:"level"`
	World   geom.Bounds   `yaml:"world"`
	Physics PhysicsConfig `yaml:"physics"`
	Sampler SamplerConfig `yaml:"sampler"`
	Game    GameConfig    `yaml:"game"`
}

type PhysicsConfig struct {
	Dt            float64 `yaml:"dt"`
	Gravity       float64 `yaml:"gravity"`
	ContactSlop   float64 `yaml:"contact_slop"`
	BroadPhasePad float64 `yaml:"broad_phase_pad"`
	Friction      float64 `yaml:"friction"`
	SnapEpsilon   float64 `yaml:"snap_epsilon"`
}

type SamplerConfig struct {
	Tolerance       float64 `yaml:"tolerance"`
	MaxDepth        int     `yaml:"max_depth"`
	CoarseIntervals int     `yaml:"coarse_intervals"`
	SanityBound     float64 `yaml:"sanity_bound"`
	SteepDelta      float64 `yaml:"steep_delta"`
	MinStep         float64 `yaml:"min_step"`
}

type GameConfig struct {
	MaxBalls       int     `yaml:"max_balls"`
	BallRadius     float64 `yaml:"ball_radius"`
	CaptureRadius  float64 `yaml:"capture_radius"`
	SpawnInterval  float64 `yaml:"spawn_interval"`
	CurveThickness float64 `yaml:"curve_thickness"`
}

func DefaultConfig() *Config {
	eng := physics.NewEngine()
	opts := sampler.DefaultOptions()
	return &Config{
		Level: DefaultLevel,
		World: geom.Bounds{XMin: -10, XMax: 10, YMin: -7, YMax: 7},
		Physics: PhysicsConfig{
			Dt:            DefaultDt,
			Gravity:       DefaultGravity,
			ContactSlop:   eng.ContactSlop,
			BroadPhasePad: eng.BroadPhasePad,
			Friction:      eng.Friction,
			SnapEpsilon:   eng.SnapEpsilon,
		},
		Sampler: SamplerConfig{
			Tolerance:       opts.Tolerance,
			MaxDepth:        opts.MaxDepth,
			CoarseIntervals: opts.CoarseIntervals,
			SanityBound:     opts.SanityBound,
			SteepDelta:      opts.SteepDelta,
		},
		Game: GameConfig{
			MaxBalls:       DefaultMaxBalls,
			BallRadius:     DefaultBallRadius,
			CaptureRadius:  DefaultCaptureRadius,
			SpawnInterval:  DefaultSpawnInterval,
			CurveThickness: DefaultThickness,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Physics.Dt > 0, "physics.dt must be positive"},
		{!math.IsNaN(c.Physics.Gravity) && !math.IsInf(c.Physics.Gravity, 0), "physics.gravity must be finite"},
		{c.Physics.Friction >= 0 && c.Physics.Friction <= 1, "physics.friction must be in [0, 1]"},
		{c.Physics.ContactSlop >= 0, "physics.contact_slop must not be negative"},
		{c.Sampler.Tolerance > 0, "sampler.tolerance must be positive"},
		{c.Sampler.MaxDepth > 0, "sampler.max_depth must be positive"},
		{c.Sampler.CoarseIntervals > 0, "sampler.coarse_intervals must be positive"},
		{c.Game.MaxBalls > 0, "game.max_balls must be positive"},
		{c.Game.BallRadius > 0, "game.ball_radius must be positive"},
		{c.Game.CaptureRadius >= 0, "game.capture_radius must not be negative"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.msg)
		}
	}
	if c.Level != "" && GetLevel(c.Level) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, c.Level)
	}
	return nil
}

// Engine builds a physics engine from the physics section.
func (c *Config) Engine() *physics.Engine {
	return &physics.Engine{
		Gravity:       c.Physics.Gravity,
		ContactSlop:   c.Physics.ContactSlop,
		BroadPhasePad: c.Physics.BroadPhasePad,
		Friction:      c.Physics.Friction,
		SnapEpsilon:   c.Physics.SnapEpsilon,
	}
}

func (c *Config) SamplerOptions() sampler.Options {
	return sampler.Options{
		MinStep:         c.Sampler.MinStep,
		Tolerance:       c.Sampler.Tolerance,
		MaxDepth:        c.Sampler.MaxDepth,
		CoarseIntervals: c.Sampler.CoarseIntervals,
		SanityBound:     c.Sampler.SanityBound,
		SteepDelta:      c.Sampler.SteepDelta,
	}
}
