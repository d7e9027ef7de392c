package metrics

import (
	"math"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// Stability is the fraction of samples in which every velocity component
// is finite and below threshold in magnitude.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(p *dynamo.Particles, potential, t float64) {
	s.samples++
	if math.IsNaN(potential) || math.IsInf(potential, 0) {
		s.violations++
		return
	}
	for _, v := range p.Vel {
		if !(math.Abs(v) <= s.threshold) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
