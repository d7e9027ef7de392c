package potential

const (
	SlotEpsilon = 0
	SlotSigma   = 1
)

// LennardJones is U = 4ε[(σ/r)^12 - (σ/r)^6].
type LennardJones struct{}

func (LennardJones) Eval(r float64, p []float64) (float64, float64) {
	eps, sigma := p[SlotEpsilon], p[SlotSigma]
	sr := sigma / r
	sr2 := sr * sr
	sr6 := sr2 * sr2 * sr2
	sr12 := sr6 * sr6
	u := 4 * eps * (sr12 - sr6)
	f := 24 * eps * (2*sr12 - sr6) / r
	return u, f
}
