package potential

import "math"

const (
	SlotCoupling = 0
	SlotKappa    = 1
)

// Yukawa is the screened Coulomb interaction U = A exp(-κr)/r.
type Yukawa struct{}

func (Yukawa) Eval(r float64, p []float64) (float64, float64) {
	a, kappa := p[SlotCoupling], p[SlotKappa]
	u := a * math.Exp(-kappa*r) / r
	return u, u * (1/r + kappa)
}

// Coulomb is U = A/r. Only meaningful as the short-ranged part of a split
// interaction whose remainder the caller handles.
type Coulomb struct{}

func (Coulomb) Eval(r float64, p []float64) (float64, float64) {
	u := p[SlotCoupling] / r
	return u, u / r
}
