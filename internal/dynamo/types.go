package dynamo

import (
	"fmt"
	"math"
)

// Dim is the spatial dimensionality of every particle store.
const Dim = 3

// Box is a periodic simulation volume with per-axis lengths.
type Box struct {
	L [Dim]float64
}

// Cube returns a cubic box of side l.
func Cube(l float64) Box {
	return Box{L: [Dim]float64{l, l, l}}
}

func (b Box) Min() float64 {
	return math.Min(b.L[0], math.Min(b.L[1], b.L[2]))
}

func (b Box) Half(axis int) float64 { return 0.5 * b.L[axis] }

func (b Box) Volume() float64 { return b.L[0] * b.L[1] * b.L[2] }

// Wrap folds x into [0, L) on axis and reports how many box lengths were
// removed.
func (b Box) Wrap(axis int, x float64) (float64, int) {
	l := b.L[axis]
	if x >= 0 && x < l {
		return x, 0
	}
	k := math.Floor(x / l)
	w := x - k*l
	// x just below a multiple of l can round up to exactly l.
	if w >= l {
		w -= l
		k++
	}
	if w < 0 {
		w = 0
	}
	return w, int(k)
}

func (b Box) String() string {
	return fmt.Sprintf("%gx%gx%g", b.L[0], b.L[1], b.L[2])
}

// Particles stores an ensemble as flat parallel slices. Pos, Vel and Acc are
// row-major N×3; particle i occupies [3i, 3i+3).
type Particles struct {
	Pos     []float64
	Vel     []float64
	Acc     []float64
	Mass    []float64
	Species []int
	Names   []string // species names, indexed by species id
}

// NewParticles allocates a store for n particles with unit masses and
// species 0.
func NewParticles(n int) *Particles {
	p := &Particles{
		Pos:     make([]float64, n*Dim),
		Vel:     make([]float64, n*Dim),
		Acc:     make([]float64, n*Dim),
		Mass:    make([]float64, n),
		Species: make([]int, n),
	}
	for i := range p.Mass {
		p.Mass[i] = 1.0
	}
	return p
}

func (p *Particles) Len() int { return len(p.Mass) }

func (p *Particles) Position(i int) [Dim]float64 {
	return [Dim]float64{p.Pos[i*Dim], p.Pos[i*Dim+1], p.Pos[i*Dim+2]}
}

func (p *Particles) SetPosition(i int, x, y, z float64) {
	p.Pos[i*Dim], p.Pos[i*Dim+1], p.Pos[i*Dim+2] = x, y, z
}

func (p *Particles) Acceleration(i int) [Dim]float64 {
	return [Dim]float64{p.Acc[i*Dim], p.Acc[i*Dim+1], p.Acc[i*Dim+2]}
}

// SpeciesName returns the display name for particle i, falling back to the
// numeric species id.
func (p *Particles) SpeciesName(i int) string {
	id := p.Species[i]
	if id < len(p.Names) && p.Names[id] != "" {
		return p.Names[id]
	}
	return fmt.Sprintf("s%d", id)
}

// Clone returns a deep copy.
func (p *Particles) Clone() *Particles {
	c := &Particles{
		Pos:     append([]float64(nil), p.Pos...),
		Vel:     append([]float64(nil), p.Vel...),
		Acc:     append([]float64(nil), p.Acc...),
		Mass:    append([]float64(nil), p.Mass...),
		Species: append([]int(nil), p.Species...),
		Names:   append([]string(nil), p.Names...),
	}
	return c
}

// Check verifies slice lengths agree with the particle count and that
// every mass is positive.
func (p *Particles) Check() error {
	n := p.Len()
	if len(p.Pos) != n*Dim || len(p.Acc) != n*Dim || len(p.Species) != n {
		return fmt.Errorf("%w: %d masses, %d positions, %d accelerations, %d species",
			ErrDimensionMismatch, n, len(p.Pos), len(p.Acc), len(p.Species))
	}
	if len(p.Vel) != 0 && len(p.Vel) != n*Dim {
		return fmt.Errorf("%w: %d velocities for %d particles", ErrDimensionMismatch, len(p.Vel), n)
	}
	for i, m := range p.Mass {
		if !(m > 0) || math.IsInf(m, 0) {
			return &PreconditionError{Op: "mass", Particle: i, Axis: -1, Value: m, Wrapped: ErrInvalidConfig}
		}
	}
	return nil
}

// ParamTable holds per species-pair potential coefficients indexed by
// (slot, species i, species j). Set keeps the table symmetric in (i, j).
type ParamTable struct {
	slots   int
	species int
	data    []float64 // [i][j][slot]
}

func NewParamTable(slots, species int) *ParamTable {
	return &ParamTable{
		slots:   slots,
		species: species,
		data:    make([]float64, slots*species*species),
	}
}

func (t *ParamTable) Slots() int   { return t.slots }
func (t *ParamTable) Species() int { return t.species }

func (t *ParamTable) offset(i, j int) int {
	return (i*t.species + j) * t.slots
}

// Set writes slot for both (i, j) and (j, i).
func (t *ParamTable) Set(slot, i, j int, v float64) {
	t.data[t.offset(i, j)+slot] = v
	t.data[t.offset(j, i)+slot] = v
}

func (t *ParamTable) Get(slot, i, j int) float64 {
	return t.data[t.offset(i, j)+slot]
}

// Pair returns the parameter slice for species pair (i, j). The slice
// aliases the table and must not be modified.
func (t *ParamTable) Pair(i, j int) []float64 {
	o := t.offset(i, j)
	return t.data[o : o+t.slots : o+t.slots]
}

// Potential evaluates a pair interaction at distance r. It returns the pair
// potential energy and the scalar force magnitude along the separation
// vector (positive means repulsive).
type Potential interface {
	Eval(r float64, params []float64) (u, f float64)
}

// PotentialFunc adapts a plain function to Potential.
type PotentialFunc func(r float64, params []float64) (float64, float64)

func (fn PotentialFunc) Eval(r float64, params []float64) (float64, float64) {
	return fn(r, params)
}

// Config is the immutable per-run force configuration.
type Config struct {
	Box    Box
	Cutoff float64
	Params *ParamTable
}

// Validate checks the geometric and table invariants shared by every force
// path. Cell-count requirements are checked by the engine.
func (c Config) Validate() error {
	for axis, l := range c.Box.L {
		if !(l > 0) || math.IsInf(l, 0) {
			return fmt.Errorf("%w: box length %g on axis %d", ErrInvalidConfig, l, axis)
		}
	}
	if !(c.Cutoff > 0) || math.IsInf(c.Cutoff, 0) {
		return fmt.Errorf("%w: cutoff %g", ErrInvalidConfig, c.Cutoff)
	}
	if c.Cutoff > c.Box.Min()/2 {
		return fmt.Errorf("%w: rc=%g, L/2=%g", ErrCutoffTooLarge, c.Cutoff, c.Box.Min()/2)
	}
	if c.Params == nil {
		return fmt.Errorf("%w: missing parameter table", ErrInvalidConfig)
	}
	return nil
}

// CheckSpecies verifies every species id of p is covered by the table.
func (c Config) CheckSpecies(p *Particles) error {
	for i, s := range p.Species {
		if s < 0 || s >= c.Params.Species() {
			return &PreconditionError{Op: "species", Particle: i, Axis: -1, Value: float64(s), Wrapped: ErrUnknownSpecies}
		}
	}
	return nil
}
