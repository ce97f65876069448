package sim

import (
	"context"
	"sync"

	"github.com/san-kum/axonsim/internal/axon"
)

// Builder creates a fresh axon for a seed.
type Builder func(seed int64) (*axon.Axon, error)

// Ensemble runs independent axons, one per seed, concurrently. Each run
// owns its axon and random source.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
// metrics, if non-nil, supplies a fresh metric set per run.
func NewEnsemble(build Builder, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			a, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			r := New(a, nil)
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
