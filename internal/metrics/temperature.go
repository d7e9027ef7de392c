package metrics

import "github.com/san-kum/mdforce/internal/dynamo"

// MeanTemperature averages the kinetic temperature over the run.
type MeanTemperature struct {
	name    string
	kB      float64
	sum     float64
	samples int
}

func NewMeanTemperature(kB float64) *MeanTemperature {
	return &MeanTemperature{name: "temperature", kB: kB}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(p *dynamo.Particles, potential, t float64) {
	m.sum += Temperature(KineticEnergy(p), p.Len(), m.kB)
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.sum = 0
	m.samples = 0
}
