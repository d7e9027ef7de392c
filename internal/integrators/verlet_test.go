package integrators

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/metrics"
	"github.com/san-kum/mdforce/internal/particles"
	"github.com/san-kum/mdforce/internal/potential"
)

// spring pulls every particle toward the box centre with unit stiffness.
type spring struct {
	box   dynamo.Box
	calls int
}

func (s *spring) Config() dynamo.Config { return dynamo.Config{Box: s.box} }

func (s *spring) Compute(p *dynamo.Particles) (force.Result, error) {
	s.calls++
	var u float64
	for k, x := range p.Pos {
		d := x - s.box.Half(k%3)
		p.Acc[k] = -d / p.Mass[k/3]
		u += 0.5 * d * d
	}
	return force.Result{Energy: u}, nil
}

func TestVelocityVerletHarmonic(t *testing.T) {
	ff := &spring{box: dynamo.Cube(10)}
	p := dynamo.NewParticles(1)
	p.SetPosition(0, 6, 5, 5)

	vv := NewVelocityVerlet(ff)
	dt := 0.01
	steps := 628
	for i := 0; i < steps; i++ {
		if _, err := vv.Step(p, dt); err != nil {
			t.Fatal(err)
		}
	}

	tEnd := float64(steps) * dt
	want := 5 + math.Cos(tEnd)
	if math.Abs(p.Pos[0]-want) > 1e-3 {
		t.Errorf("expected x = %g, got %g", want, p.Pos[0])
	}
	if math.Abs(p.Vel[0]+math.Sin(tEnd)) > 1e-3 {
		t.Errorf("expected v = %g, got %g", -math.Sin(tEnd), p.Vel[0])
	}
	// one evaluation to prime, one per step
	if ff.calls != steps+1 {
		t.Errorf("expected %d force calls, got %d", steps+1, ff.calls)
	}
}

func TestVelocityVerletWrapsAndCounts(t *testing.T) {
	ff := &spring{box: dynamo.Cube(10)}
	p := dynamo.NewParticles(1)
	p.SetPosition(0, 9.95, 5, 5)
	p.Vel[0] = 100
	p.Mass[0] = 1e12 // effectively free flight

	vv := NewVelocityVerlet(ff)
	if _, err := vv.Step(p, 0.01); err != nil {
		t.Fatal(err)
	}
	if p.Pos[0] < 0 || p.Pos[0] >= 10 {
		t.Fatalf("position %g not folded into the box", p.Pos[0])
	}
	if math.Abs(p.Pos[0]-0.95) > 1e-9 {
		t.Errorf("expected x = 0.95, got %g", p.Pos[0])
	}
	if vv.Crossings()[0] != 1 {
		t.Errorf("expected one crossing, got %v", vv.Crossings())
	}
}

func TestVelocityVerletConservesEnergy(t *testing.T) {
	box := dynamo.Cube(8)
	cfg := dynamo.Config{Box: box, Cutoff: 3, Params: potential.YukawaTable([]float64{1}, 1)}
	eng, err := force.New(cfg, potential.Shifted{Inner: potential.Yukawa{}, Cutoff: 3})
	if err != nil {
		t.Fatal(err)
	}

	p, err := particles.Lattice([]particles.Species{{Name: "a", Mass: 1, Count: 64}}, box)
	if err != nil {
		t.Fatal(err)
	}
	if err := particles.MaxwellBoltzmann(p, 0.05, 1, rand.New(rand.NewSource(2))); err != nil {
		t.Fatal(err)
	}

	vv := NewVelocityVerlet(eng)
	res, err := vv.Prime(p)
	if err != nil {
		t.Fatal(err)
	}
	e0 := res.Energy + metrics.KineticEnergy(p)

	for i := 0; i < 500; i++ {
		res, err = vv.Step(p, 0.005)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	e1 := res.Energy + metrics.KineticEnergy(p)
	if math.Abs(e1-e0) > 1e-3*math.Abs(e0) {
		t.Errorf("energy drifted from %g to %g", e0, e1)
	}
	if mom := metrics.Momentum(p); mom > 1e-10 {
		t.Errorf("momentum not conserved: %g", mom)
	}
}

func TestVelocityVerletNeedsVelocities(t *testing.T) {
	p := dynamo.NewParticles(2)
	p.Vel = nil
	_, err := NewVelocityVerlet(&spring{box: dynamo.Cube(10)}).Step(p, 0.1)
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
