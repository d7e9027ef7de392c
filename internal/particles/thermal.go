package particles

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// MaxwellBoltzmann draws velocities from a Gaussian with standard deviation
// sqrt(kB*T/m) per component using the Box-Muller transform, then removes
// the centre-of-mass drift.
func MaxwellBoltzmann(p *dynamo.Particles, temperature, kB float64, rng *rand.Rand) error {
	if temperature < 0 || !(kB > 0) {
		return fmt.Errorf("%w: temperature %g, kB %g", dynamo.ErrInvalidConfig, temperature, kB)
	}
	if len(p.Vel) != p.Len()*dynamo.Dim {
		p.Vel = make([]float64, p.Len()*dynamo.Dim)
	}

	for i := 0; i < p.Len(); i++ {
		sig := math.Sqrt(kB * temperature / p.Mass[i])
		g0, g1 := boxMuller(rng)
		g2, _ := boxMuller(rng)
		p.Vel[i*3] = sig * g0
		p.Vel[i*3+1] = sig * g1
		p.Vel[i*3+2] = sig * g2
	}
	RemoveDrift(p)
	return nil
}

func boxMuller(rng *rand.Rand) (float64, float64) {
	// 1-Float64 lies in (0, 1], keeping the log finite.
	u1 := 1 - rng.Float64()
	u2 := rng.Float64()
	r := math.Sqrt(-2 * math.Log(u1))
	s, c := math.Sincos(2 * math.Pi * u2)
	return r * c, r * s
}

// CenterOfMassVelocity returns Σ m v / Σ m.
func CenterOfMassVelocity(p *dynamo.Particles) r3.Vec {
	var mom r3.Vec
	var mass float64
	for i := 0; i < p.Len(); i++ {
		v := r3.Vec{X: p.Vel[i*3], Y: p.Vel[i*3+1], Z: p.Vel[i*3+2]}
		mom = r3.Add(mom, r3.Scale(p.Mass[i], v))
		mass += p.Mass[i]
	}
	if mass == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/mass, mom)
}

// RemoveDrift subtracts the centre-of-mass velocity so the total momentum
// is zero.
func RemoveDrift(p *dynamo.Particles) {
	if len(p.Vel) == 0 {
		return
	}
	vcm := CenterOfMassVelocity(p)
	for i := 0; i < p.Len(); i++ {
		p.Vel[i*3] -= vcm.X
		p.Vel[i*3+1] -= vcm.Y
		p.Vel[i*3+2] -= vcm.Z
	}
}
