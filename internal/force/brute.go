package force

import (
	"github.com/san-kum/mdforce/internal/dynamo"
)

// traversePairs visits every pair (i, j), i in [start, end), j > i, using a
// single minimum-image correction per axis.
func traversePairs(box dynamo.Box, pos []float64, a *accumulator, start, end int) error {
	n := len(pos) / dynamo.Dim
	lx, ly, lz := box.L[0], box.L[1], box.L[2]

	for i := start; i < end; i++ {
		xi, yi, zi := pos[i*3], pos[i*3+1], pos[i*3+2]

		for j := i + 1; j < n; j++ {
			dx := minimumImage(xi-pos[j*3], lx)
			dy := minimumImage(yi-pos[j*3+1], ly)
			dz := minimumImage(zi-pos[j*3+2], lz)
			if err := a.pair(i, j, dx, dy, dz); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkInBox enforces the [0, L) precondition for the all-pairs path, which
// never computes cell ids.
func checkInBox(box dynamo.Box, pos []float64) error {
	for k, x := range pos {
		a := k % dynamo.Dim
		if !(x >= 0 && x < box.L[a]) {
			return &dynamo.PreconditionError{Op: "minimum image", Particle: k / dynamo.Dim, Axis: a, Value: x, Wrapped: dynamo.ErrOutOfBox}
		}
	}
	return nil
}

func (e *Engine) bruteForce(p *dynamo.Particles) (Result, error) {
	if err := checkInBox(e.cfg.Box, p.Pos); err != nil {
		return Result{}, err
	}

	a, err := e.run(p, p.Len(), func(a *accumulator, start, end int) error {
		return traversePairs(e.cfg.Box, p.Pos, a, start, end)
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Energy:       a.energy,
		Method:       MethodBruteForce,
		Cells:        [dynamo.Dim]int{1, 1, 1},
		Pairs:        a.tested,
		Interactions: a.hits,
	}, nil
}
