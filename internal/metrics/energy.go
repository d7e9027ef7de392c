package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// KineticEnergy returns Σ ½ m v².
func KineticEnergy(p *dynamo.Particles) float64 {
	if len(p.Vel) == 0 {
		return 0
	}
	var k float64
	for i, m := range p.Mass {
		v := p.Vel[i*dynamo.Dim : i*dynamo.Dim+dynamo.Dim]
		k += 0.5 * m * floats.Dot(v, v)
	}
	return k
}

// Temperature converts a kinetic energy of n particles to a temperature
// through K = 3/2 n kB T.
func Temperature(kinetic float64, n int, kB float64) float64 {
	if n == 0 || kB == 0 {
		return 0
	}
	return 2 * kinetic / (3 * float64(n) * kB)
}

// Energy averages the total (kinetic plus potential) energy.
type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(p *dynamo.Particles, potential, t float64) {
	e.total += KineticEnergy(p) + potential
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation of the total energy
// from its first sample.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(p *dynamo.Particles, potential, t float64) {
	energy := KineticEnergy(p) + potential
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// Drift returns the largest relative deviation of series from its first
// element.
func Drift(series []float64) float64 {
	if len(series) == 0 || series[0] == 0 {
		return 0
	}
	dev := make([]float64, len(series))
	for i, e := range series {
		dev[i] = math.Abs(e-series[0]) / math.Abs(series[0])
	}
	return floats.Max(dev)
}
