// Package automation runs levels without a terminal: YAML scenarios,
// parameter sweeps and spawn-jitter Monte Carlo trials.
package automation
