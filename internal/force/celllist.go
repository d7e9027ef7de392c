package force

import (
	"github.com/san-kum/mdforce/internal/dynamo"
)

// traverseCells walks home cells [start, end) of g. For every home cell it
// visits the 27-cell stencil with periodic wrap and hands each pair with
// i < j to a. Every unordered cell pair is seen from both sides, so i < j
// keeps exactly one visit per particle pair.
func traverseCells(g *CellGrid, box dynamo.Box, pos []float64, a *accumulator, start, end int) error {
	var shift [dynamo.Dim]float64

	for c := start; c < end; c++ {
		if g.Head[c] == Empty {
			continue
		}
		cx, cy, cz := g.Coords(c)

		for dcz := -1; dcz <= 1; dcz++ {
			czN, sz := neighborShift(cz+dcz, g.N[2], box.L[2])
			shift[2] = sz

			for dcy := -1; dcy <= 1; dcy++ {
				cyN, sy := neighborShift(cy+dcy, g.N[1], box.L[1])
				shift[1] = sy

				for dcx := -1; dcx <= 1; dcx++ {
					cxN, sx := neighborShift(cx+dcx, g.N[0], box.L[0])
					shift[0] = sx

					cN := g.ID(cxN, cyN, czN)
					if g.Head[cN] == Empty {
						continue
					}

					for i := g.Head[c]; i != Empty; i = g.Next[i] {
						xi, yi, zi := pos[i*3], pos[i*3+1], pos[i*3+2]

						for j := g.Head[cN]; j != Empty; j = g.Next[j] {
							if i >= j {
								continue
							}
							dx := xi - (pos[j*3] + shift[0])
							dy := yi - (pos[j*3+1] + shift[1])
							dz := zi - (pos[j*3+2] + shift[2])
							if err := a.pair(i, j, dx, dy, dz); err != nil {
								return err
							}
						}
					}
				}
			}
		}
	}
	return nil
}

func (e *Engine) cellList(p *dynamo.Particles) (Result, error) {
	g := NewCellGrid(e.cfg.Box, e.cfg.Cutoff)
	if !g.Usable() {
		return Result{}, e.tooFewCells(g.N)
	}
	if err := g.Build(p.Pos); err != nil {
		return Result{}, err
	}

	a, err := e.run(p, g.NumCells(), func(a *accumulator, start, end int) error {
		return traverseCells(g, e.cfg.Box, p.Pos, a, start, end)
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Energy:       a.energy,
		Method:       MethodCellList,
		Cells:        g.N,
		Pairs:        a.tested,
		Interactions: a.hits,
	}, nil
}
