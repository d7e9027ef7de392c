// Package optim searches run parameters for the fastest force evaluation.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/san-kum/mdforce/internal/config"
	"github.com/san-kum/mdforce/internal/experiment"
)

// Param applies one grid value to a config.
type Param struct {
	Name   string
	Values []float64
	Apply  func(cfg *config.Config, v float64)
}

func Workers(values ...int) Param {
	vs := make([]float64, len(values))
	for i, v := range values {
		vs[i] = float64(v)
	}
	return Param{Name: "workers", Values: vs, Apply: func(c *config.Config, v float64) { c.Workers = int(v) }}
}

func Cutoff(values ...float64) Param {
	return Param{Name: "cutoff", Values: values, Apply: func(c *config.Config, v float64) { c.Cutoff = v }}
}

// Trial is one evaluated grid point. Err is set for configs that could
// not be built.
type Trial struct {
	Params  map[string]float64
	PerEval time.Duration
	Err     error
}

type GridSearch struct {
	params []Param
	reps   int
}

func NewGridSearch(reps int, params ...Param) *GridSearch {
	if reps < 1 {
		reps = 1
	}
	return &GridSearch{params: params, reps: reps}
}

// Search times every grid point on the same seeded configuration and
// returns the trials fastest first. Failed trials sort last.
func (g *GridSearch) Search(ctx context.Context, base *config.Config) ([]Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, base, 0, map[string]float64{}, &trials); err != nil {
		return nil, err
	}
	sort.SliceStable(trials, func(i, j int) bool {
		return rank(trials[i]) < rank(trials[j])
	})
	return trials, nil
}

func rank(t Trial) float64 {
	if t.Err != nil {
		return math.Inf(1)
	}
	return float64(t.PerEval)
}

func (g *GridSearch) searchRecursive(ctx context.Context, base *config.Config, depth int, current map[string]float64, trials *[]Trial) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.params) {
		*trials = append(*trials, g.trial(base, current))
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[p.Name] = val
		if err := g.searchRecursive(ctx, base, depth+1, next, trials); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) trial(base *config.Config, values map[string]float64) Trial {
	t := Trial{Params: values}
	cfg := base.Clone()
	for _, p := range g.params {
		p.Apply(cfg, values[p.Name])
	}

	exp, err := experiment.Build(cfg, cfg.Seed, experiment.WithoutMetrics())
	if err != nil {
		t.Err = err
		return t
	}

	start := time.Now()
	for i := 0; i < g.reps; i++ {
		if _, err := exp.Engine.Compute(exp.Particles); err != nil {
			t.Err = fmt.Errorf("evaluating: %w", err)
			return t
		}
	}
	t.PerEval = time.Since(start) / time.Duration(g.reps)
	return t
}
