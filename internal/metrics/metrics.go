// Package metrics provides [sim.Metric] implementations for headless runs.
package metrics

import "github.com/san-kum/curvefall/internal/sim"

// Default returns a fresh set of every metric in the package.
func Default() []sim.Metric {
	return []sim.Metric{
		NewStarsCollected(),
		NewFirstStarTime(),
		NewBallsLost(),
		NewPeakSpeed(),
		NewMeanSpeed(),
		NewContactRatio(),
	}
}
