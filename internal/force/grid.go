package force

import (
	"github.com/san-kum/mdforce/internal/dynamo"
)

// Empty terminates a cell list.
const Empty = -1

// CellGrid buckets particles into cells at least one cutoff wide. Head[c]
// is one particle of cell c and Next[i] the following particle of the same
// cell; both end with Empty.
type CellGrid struct {
	N     [dynamo.Dim]int
	Width [dynamo.Dim]float64
	Head  []int
	Next  []int

	box dynamo.Box
}

// NewCellGrid sizes a grid for box and cutoff rc: floor(L/rc) cells per
// axis, never fewer than one.
func NewCellGrid(box dynamo.Box, rc float64) *CellGrid {
	g := &CellGrid{box: box, N: cellCounts(box, rc)}
	total := 1
	for a := 0; a < dynamo.Dim; a++ {
		g.Width[a] = box.L[a] / float64(g.N[a])
		total *= g.N[a]
	}
	g.Head = make([]int, total)
	for c := range g.Head {
		g.Head[c] = Empty
	}
	return g
}

func cellCounts(box dynamo.Box, rc float64) [dynamo.Dim]int {
	var n [dynamo.Dim]int
	for a := range n {
		n[a] = int(box.L[a] / rc)
		if n[a] < 1 {
			n[a] = 1
		}
	}
	return n
}

func (g *CellGrid) NumCells() int { return len(g.Head) }

// Usable reports whether every axis has the 3 cells the 27-cell stencil
// needs to visit each neighbor cell once.
func (g *CellGrid) Usable() bool {
	return usable(g.N)
}

func usable(n [dynamo.Dim]int) bool {
	return n[0] >= 3 && n[1] >= 3 && n[2] >= 3
}

func (g *CellGrid) ID(cx, cy, cz int) int {
	return cx + cy*g.N[0] + cz*g.N[0]*g.N[1]
}

func (g *CellGrid) Coords(c int) (cx, cy, cz int) {
	nxy := g.N[0] * g.N[1]
	cz = c / nxy
	rem := c - cz*nxy
	cy = rem / g.N[0]
	cx = rem - cy*g.N[0]
	return
}

// Build assigns every particle of pos (N×3) to its cell. Positions must lie
// in [0, L); anything else fails with dynamo.ErrOutOfBox.
func (g *CellGrid) Build(pos []float64) error {
	n := len(pos) / dynamo.Dim
	if cap(g.Next) < n {
		g.Next = make([]int, n)
	}
	g.Next = g.Next[:n]
	for c := range g.Head {
		g.Head[c] = Empty
	}

	for i := 0; i < n; i++ {
		var cc [dynamo.Dim]int
		for a := 0; a < dynamo.Dim; a++ {
			x := pos[i*dynamo.Dim+a]
			if !(x >= 0 && x < g.box.L[a]) {
				return &dynamo.PreconditionError{Op: "cell index", Particle: i, Axis: a, Value: x, Wrapped: dynamo.ErrOutOfBox}
			}
			k := int(x / g.Width[a])
			if k >= g.N[a] {
				k = g.N[a] - 1
			}
			cc[a] = k
		}
		c := g.ID(cc[0], cc[1], cc[2])
		g.Next[i] = g.Head[c]
		g.Head[c] = i
	}
	return nil
}

// Members lists the particles of cell c in list order.
func (g *CellGrid) Members(c int) []int {
	var out []int
	for i := g.Head[c]; i != Empty; i = g.Next[i] {
		out = append(out, i)
	}
	return out
}
