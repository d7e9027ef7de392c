package potential

import (
	"math"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// YukawaTable builds [q_i q_j, kappa] for every species pair.
func YukawaTable(charges []float64, kappa float64) *dynamo.ParamTable {
	t := dynamo.NewParamTable(2, len(charges))
	for i := range charges {
		for j := i; j < len(charges); j++ {
			t.Set(SlotCoupling, i, j, charges[i]*charges[j])
			t.Set(SlotKappa, i, j, kappa)
		}
	}
	return t
}

// CoulombTable builds [q_i q_j] for every species pair.
func CoulombTable(charges []float64) *dynamo.ParamTable {
	t := dynamo.NewParamTable(1, len(charges))
	for i := range charges {
		for j := i; j < len(charges); j++ {
			t.Set(SlotCoupling, i, j, charges[i]*charges[j])
		}
	}
	return t
}

// LennardJonesTable mixes per-species ε and σ with the Lorentz-Berthelot
// rules: ε_ij = sqrt(ε_i ε_j), σ_ij = (σ_i + σ_j)/2.
func LennardJonesTable(eps, sigma []float64) *dynamo.ParamTable {
	t := dynamo.NewParamTable(2, len(eps))
	for i := range eps {
		for j := i; j < len(eps); j++ {
			t.Set(SlotEpsilon, i, j, math.Sqrt(eps[i]*eps[j]))
			t.Set(SlotSigma, i, j, 0.5*(sigma[i]+sigma[j]))
		}
	}
	return t
}
