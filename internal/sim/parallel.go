package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// Replica builds an independent simulator and initial store for one seed.
type Replica func(seed int64) (*Simulator, *dynamo.Particles, error)

// Ensemble runs independent replicas concurrently, one per seed.
type Ensemble struct {
	build     Replica
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Replica, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per replica in seed order. The first failure
// cancels the remaining replicas.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s, p, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, p, cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
