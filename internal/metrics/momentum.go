package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mdforce/internal/dynamo"
)

func vec(s []float64, i int) r3.Vec {
	return r3.Vec{X: s[i*3], Y: s[i*3+1], Z: s[i*3+2]}
}

// TotalForce returns Σ m a, which pair forces obeying Newton's third law
// keep at zero.
func TotalForce(p *dynamo.Particles) r3.Vec {
	var f r3.Vec
	for i, m := range p.Mass {
		f = r3.Add(f, r3.Scale(m, vec(p.Acc, i)))
	}
	return f
}

// NetForce returns |Σ m a|.
func NetForce(p *dynamo.Particles) float64 {
	return r3.Norm(TotalForce(p))
}

// ForceScale returns Σ |m a|, the natural scale for judging NetForce.
func ForceScale(p *dynamo.Particles) float64 {
	var s float64
	for i, m := range p.Mass {
		s += m * r3.Norm(vec(p.Acc, i))
	}
	return s
}

// Momentum returns |Σ m v|.
func Momentum(p *dynamo.Particles) float64 {
	if len(p.Vel) == 0 {
		return 0
	}
	var mom r3.Vec
	for i, m := range p.Mass {
		mom = r3.Add(mom, r3.Scale(m, vec(p.Vel, i)))
	}
	return r3.Norm(mom)
}
