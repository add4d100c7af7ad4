package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvGravity       = "CURVEFALL_GRAVITY"
	EnvDt            = "CURVEFALL_DT"
	EnvMaxBalls      = "CURVEFALL_MAX_BALLS"
	EnvLevel         = "CURVEFALL_LEVEL"
	EnvBallRadius    = "CURVEFALL_BALL_RADIUS"
	EnvCaptureRadius = "CURVEFALL_CAPTURE_RADIUS"
)

// ApplyEnv overlays values from a dotenv file and the process environment.
// Process variables win over the file. A missing file is not an error.
func ApplyEnv(cfg *Config, path string) error {
	vars := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvGravity, &cfg.Physics.Gravity},
		{EnvDt, &cfg.Physics.Dt},
		{EnvBallRadius, &cfg.Game.BallRadius},
		{EnvCaptureRadius, &cfg.Game.CaptureRadius},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v, ok := lookup(EnvMaxBalls); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxBalls, err)
		}
		cfg.Game.MaxBalls = n
	}
	if v, ok := lookup(EnvLevel); ok {
		cfg.Level = v
	}
	return nil
}
