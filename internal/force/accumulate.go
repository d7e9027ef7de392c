package force

import (
	"fmt"
	"math"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// accumulator applies the potential to admitted pairs. acc is either the
// store's own acceleration slice or a worker-local buffer of the same size.
type accumulator struct {
	rc      float64
	pot     dynamo.Potential
	params  *dynamo.ParamTable
	mass    []float64
	species []int
	acc     []float64

	energy float64
	tested int
	hits   int
}

func newAccumulator(cfg dynamo.Config, pot dynamo.Potential, p *dynamo.Particles, acc []float64) *accumulator {
	return &accumulator{
		rc:      cfg.Cutoff,
		pot:     pot,
		params:  cfg.Params,
		mass:    p.Mass,
		species: p.Species,
		acc:     acc,
	}
}

// pair handles one unordered pair with separation (dx, dy, dz) measured
// from j to i. Pairs at or beyond the cutoff are ignored.
func (a *accumulator) pair(i, j int, dx, dy, dz float64) error {
	a.tested++
	r := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if r >= a.rc {
		return nil
	}
	if r == 0 {
		return fmt.Errorf("%w: particles %d and %d", dynamo.ErrCoincident, i, j)
	}
	a.hits++

	u, fr := a.pot.Eval(r, a.params.Pair(a.species[i], a.species[j]))
	a.energy += u

	rx, ry, rz := dx/r, dy/r, dz/r
	fi := fr / a.mass[i]
	fj := fr / a.mass[j]

	a.acc[i*3] += rx * fi
	a.acc[i*3+1] += ry * fi
	a.acc[i*3+2] += rz * fi

	a.acc[j*3] -= rx * fj
	a.acc[j*3+1] -= ry * fj
	a.acc[j*3+2] -= rz * fj
	return nil
}

// merge folds a worker-local accumulator into a.
func (a *accumulator) merge(o *accumulator) {
	a.energy += o.energy
	a.tested += o.tested
	a.hits += o.hits
	if len(o.acc) == 0 || &o.acc[0] == &a.acc[0] {
		return
	}
	for k, v := range o.acc {
		a.acc[k] += v
	}
}
