package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/mdforce/internal/dynamo"
)

func movingPair() *dynamo.Particles {
	p := dynamo.NewParticles(2)
	p.Mass[1] = 2
	p.Vel[0] = 1
	p.Vel[4] = 2
	return p
}

func TestKineticEnergy(t *testing.T) {
	p := movingPair()
	// ½·1·1 + ½·2·4
	if got := KineticEnergy(p); got != 4.5 {
		t.Errorf("expected 4.5, got %g", got)
	}

	p.Vel = nil
	if got := KineticEnergy(p); got != 0 {
		t.Errorf("expected 0 without velocities, got %g", got)
	}
}

func TestTemperature(t *testing.T) {
	if got := Temperature(4.5, 2, 1); got != 1.5 {
		t.Errorf("expected 1.5, got %g", got)
	}
	if got := Temperature(4.5, 0, 1); got != 0 {
		t.Errorf("expected 0 for empty store, got %g", got)
	}
}

func TestEnergyMetric(t *testing.T) {
	m := NewEnergy()
	p := movingPair()

	m.Observe(p, -1.5, 0)
	m.Observe(p, -0.5, 1)
	if got := m.Value(); got != 3.5 {
		t.Errorf("expected mean energy 3.5, got %g", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftMetric(t *testing.T) {
	m := NewEnergyDrift()
	p := movingPair()

	m.Observe(p, 0.5, 0) // 5
	m.Observe(p, 1.5, 1) // 6
	m.Observe(p, 0, 2)   // 4.5
	if got := m.Value(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected drift 0.2, got %g", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestDrift(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"constant", []float64{-2, -2, -2}, 0},
		{"excursion", []float64{-2, -2.1, -1.8}, 0.1},
		{"zero start", []float64{0, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Drift(tt.series); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestMeanTemperature(t *testing.T) {
	m := NewMeanTemperature(1)
	m.Observe(movingPair(), 0, 0)
	if got := m.Value(); got != 1.5 {
		t.Errorf("expected 1.5, got %g", got)
	}
	if m.Name() != "temperature" {
		t.Errorf("unexpected name %s", m.Name())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(1.5)
	p := movingPair()

	m.Observe(p, 0, 0)
	if m.Value() != 0 {
		t.Errorf("velocity 2 above threshold should count, got %g", m.Value())
	}

	p.Vel[4] = 1
	m.Observe(p, 0, 1)
	m.Observe(p, math.NaN(), 2)
	if got := m.Value(); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("expected 1/3 stable samples, got %g", got)
	}
}

func TestTotalForce(t *testing.T) {
	p := dynamo.NewParticles(3)
	p.Mass[1] = 2
	p.Mass[2] = 0.5
	p.Acc[0], p.Acc[1], p.Acc[2] = 1, -2, 3
	p.Acc[3], p.Acc[4], p.Acc[5] = -0.5, 1, 0
	p.Acc[6], p.Acc[7], p.Acc[8] = 0, 0, -6

	f := TotalForce(p)
	// 1·(1,-2,3) + 2·(-0.5,1,0) + 0.5·(0,0,-6)
	if f.X != 0 || f.Y != 0 || f.Z != 0 {
		t.Errorf("expected balanced forces, got %+v", f)
	}

	p.Acc[8] = 0
	if f := TotalForce(p); f.X != 0 || f.Y != 0 || f.Z != 3 {
		t.Errorf("expected (0, 0, 3), got %+v", f)
	}
}

func TestNetForceAndMomentum(t *testing.T) {
	p := dynamo.NewParticles(2)
	p.Mass[1] = 4
	p.Acc[0], p.Acc[3] = 2, -0.5
	p.Acc[1] = 1

	if got := NetForce(p); got != 1 {
		t.Errorf("expected net force 1, got %g", got)
	}
	if got := ForceScale(p); math.Abs(got-(math.Sqrt(5)+2)) > 1e-12 {
		t.Errorf("expected force scale %g, got %g", math.Sqrt(5)+2, got)
	}

	p.Vel[0], p.Vel[3] = 4, -1
	if got := Momentum(p); got != 0 {
		t.Errorf("expected zero momentum, got %g", got)
	}
	p.Vel[5] = 1
	if got := Momentum(p); got != 4 {
		t.Errorf("expected momentum 4, got %g", got)
	}
}
