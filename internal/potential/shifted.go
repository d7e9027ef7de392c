package potential

import "github.com/san-kum/mdforce/internal/dynamo"

// Shifted subtracts the pair energy at Cutoff so that U(rc) = 0. Forces are
// unchanged.
type Shifted struct {
	Inner  dynamo.Potential
	Cutoff float64
}

func (s Shifted) Eval(r float64, p []float64) (float64, float64) {
	u, f := s.Inner.Eval(r, p)
	uc, _ := s.Inner.Eval(s.Cutoff, p)
	return u - uc, f
}
