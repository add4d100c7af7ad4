package optim

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/curvefall/internal/sim"
)

var ErrNoCandidates = errors.New("optim: no run produced the metric")

// Builder prepares a runner for one point of the grid.
type Builder func(params map[string]float64) (*sim.Runner, error)

// GridSearch tries every combination of parameter values and keeps the one
// with the lowest metric. Set Maximize to keep the highest instead.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size returns the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search returns the best parameters and their metric value. Grid points
// whose runner fails to build or run are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, cfg sim.Config, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, cfg, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, g.sign(best), err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidates
	}
	return bestParams, g.sign(best), nil
}

func (g *GridSearch) sign(v float64) float64 {
	if g.Maximize {
		return -v
	}
	return v
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	cfg sim.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		r, err := build(current)
		if err != nil {
			return
		}

		result, err := r.Run(ctx, cfg)
		if err != nil {
			return
		}

		raw, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(raw) {
			return
		}
		val := g.sign(raw)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, build, cfg, metricName, best, bestParams)
	}
}
