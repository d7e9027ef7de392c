package particles

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// Species describes one particle population of a store.
type Species struct {
	Name  string
	Mass  float64
	Count int
}

func total(species []Species) (int, error) {
	n := 0
	for i, s := range species {
		if s.Count < 0 {
			return 0, fmt.Errorf("%w: species %d has count %d", dynamo.ErrInvalidConfig, i, s.Count)
		}
		if !(s.Mass > 0) {
			return 0, fmt.Errorf("%w: species %d has mass %g", dynamo.ErrInvalidConfig, i, s.Mass)
		}
		n += s.Count
	}
	return n, nil
}

// alloc lays out species contiguously: all of species 0, then species 1...
func alloc(species []Species) (*dynamo.Particles, error) {
	n, err := total(species)
	if err != nil {
		return nil, err
	}
	p := dynamo.NewParticles(n)
	p.Names = make([]string, len(species))
	i := 0
	for s, sp := range species {
		p.Names[s] = sp.Name
		for k := 0; k < sp.Count; k++ {
			p.Species[i] = s
			p.Mass[i] = sp.Mass
			i++
		}
	}
	return p, nil
}

// Uniform places every particle uniformly at random in [0, L).
func Uniform(species []Species, box dynamo.Box, rng *rand.Rand) (*dynamo.Particles, error) {
	p, err := alloc(species)
	if err != nil {
		return nil, err
	}
	for i := 0; i < p.Len(); i++ {
		for a := 0; a < dynamo.Dim; a++ {
			p.Pos[i*dynamo.Dim+a] = rng.Float64() * box.L[a]
		}
	}
	return p, nil
}

// Lattice places particles on the smallest simple-cubic lattice that holds
// all of them, filling sites in x-fastest order. Sites sit at the cell
// corners, so the spacing on axis a is L[a]/k.
func Lattice(species []Species, box dynamo.Box) (*dynamo.Particles, error) {
	p, err := alloc(species)
	if err != nil {
		return nil, err
	}
	n := p.Len()
	if n == 0 {
		return p, nil
	}

	k := int(math.Round(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}
	var step [dynamo.Dim]float64
	for a := range step {
		step[a] = box.L[a] / float64(k)
	}

	for i := 0; i < n; i++ {
		x := i % k
		y := (i / k) % k
		z := i / (k * k)
		p.SetPosition(i, float64(x)*step[0], float64(y)*step[1], float64(z)*step[2])
	}
	return p, nil
}
