package sim

import (
	"context"
	"sync"

	"github.com/san-kum/curvefall/internal/game"
)

// Factory builds the i-th independent session of an ensemble.
type Factory func(i int) (*game.Session, error)

// Ensemble runs independent sessions concurrently, one goroutine each.
type Ensemble struct {
	factory Factory
	numRuns int
	metrics func() []Metric
}

func NewEnsemble(factory Factory, numRuns int, metrics func() []Metric) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			r := New(s)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
