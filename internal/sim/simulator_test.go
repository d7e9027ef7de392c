package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/integrators"
	"github.com/san-kum/mdforce/internal/metrics"
	"github.com/san-kum/mdforce/internal/particles"
	"github.com/san-kum/mdforce/internal/potential"
)

// drift moves particles at constant velocity and reports a fixed energy.
type drift struct {
	energy float64
	failAt int
	steps  int
}

func (d *drift) Prime(p *dynamo.Particles) (force.Result, error) {
	return force.Result{Energy: d.energy}, nil
}

func (d *drift) Step(p *dynamo.Particles, dt float64) (force.Result, error) {
	d.steps++
	if d.failAt > 0 && d.steps == d.failAt {
		return force.Result{}, dynamo.ErrCoincident
	}
	for k := range p.Pos {
		p.Pos[k] += p.Vel[k] * dt
	}
	return force.Result{Energy: d.energy}, nil
}

func oneMover() *dynamo.Particles {
	p := dynamo.NewParticles(1)
	p.Vel[0] = 1
	return p
}

func TestSimulatorRun(t *testing.T) {
	s := New(&drift{energy: -1})
	p := oneMover()

	result, err := s.Run(context.Background(), p, RunConfig{Steps: 10, Dt: 0.1, DumpEvery: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// t = 0, 0.4, 0.8 and the final step
	wantTimes := []float64{0, 0.4, 0.8, 1.0}
	if len(result.Times) != len(wantTimes) {
		t.Fatalf("expected %d samples, got %v", len(wantTimes), result.Times)
	}
	for i, want := range wantTimes {
		if math.Abs(result.Times[i]-want) > 1e-12 {
			t.Errorf("sample %d: expected t=%g, got %g", i, want, result.Times[i])
		}
		if result.Total[i] != result.Potential[i]+result.Kinetic[i] {
			t.Errorf("sample %d: total is not potential plus kinetic", i)
		}
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if math.Abs(p.Pos[0]-1) > 1e-12 {
		t.Errorf("expected x = 1, got %g", p.Pos[0])
	}
	if result.EnergyDrift != 0 {
		t.Errorf("expected no drift, got %g", result.EnergyDrift)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&drift{})

	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero dt", RunConfig{Dt: 0, Steps: 10}},
		{"negative dt", RunConfig{Dt: -0.1, Steps: 10}},
		{"nan dt", RunConfig{Dt: math.NaN(), Steps: 10}},
		{"negative steps", RunConfig{Dt: 0.1, Steps: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), oneMover(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(p *dynamo.Particles, potential, t float64) {
	c.count++
	c.sum += potential
}
func (c *countMetric) Value() float64 { return float64(c.count) }
func (c *countMetric) Reset() {
	c.count = 0
	c.sum = 0
}

type stepRecorder struct{ steps []int }

func (s *stepRecorder) OnStep(step int, t float64, p *dynamo.Particles, res force.Result) {
	s.steps = append(s.steps, step)
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(&drift{energy: 2})
	m := &countMetric{}
	obs := &stepRecorder{}
	s.AddMetric(m)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), oneMover(), RunConfig{Steps: 5, Dt: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Metrics["count"]; got != 6 {
		t.Errorf("expected 6 observations, got %g", got)
	}
	if len(obs.steps) != 6 || obs.steps[0] != 0 || obs.steps[5] != 5 {
		t.Errorf("unexpected observed steps %v", obs.steps)
	}
	if len(result.Times) != 6 {
		t.Errorf("DumpEvery 0 should record every step, got %d samples", len(result.Times))
	}
}

func TestSimulatorStepError(t *testing.T) {
	s := New(&drift{failAt: 3})
	result, err := s.Run(context.Background(), oneMover(), RunConfig{Steps: 10, Dt: 0.1})

	var se SimError
	if !errors.As(err, &se) || se.Step != 3 {
		t.Fatalf("expected SimError at step 3, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrCoincident) {
		t.Errorf("expected wrapped ErrCoincident, got %v", err)
	}
	if result == nil || result.StepsTaken != 2 {
		t.Errorf("expected partial result with 2 steps, got %+v", result)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	s := New(&drift{energy: math.Inf(1)})
	_, err := s.Run(context.Background(), oneMover(), RunConfig{Steps: 3, Dt: 0.1, ValidateState: true})
	var se SimError
	if !errors.As(err, &se) || se.Step != 1 {
		t.Errorf("expected invalid state at step 1, got %v", err)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(&drift{}).Run(ctx, oneMover(), RunConfig{Steps: 100, Dt: 0.1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 || len(result.Times) != 1 {
		t.Errorf("expected only the initial sample, got %+v", result)
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}

func yukawaReplica(seed int64) (*Simulator, *dynamo.Particles, error) {
	box := dynamo.Cube(9)
	cfg := dynamo.Config{Box: box, Cutoff: 3, Params: potential.YukawaTable([]float64{1}, 1)}
	eng, err := force.New(cfg, potential.Yukawa{})
	if err != nil {
		return nil, nil, err
	}
	p, err := particles.Lattice([]particles.Species{{Name: "a", Mass: 1, Count: 27}}, box)
	if err != nil {
		return nil, nil, err
	}
	if err := particles.MaxwellBoltzmann(p, 0.01, 1, rand.New(rand.NewSource(seed))); err != nil {
		return nil, nil, err
	}
	s := New(integrators.NewVelocityVerlet(eng))
	s.AddMetric(metrics.NewMeanTemperature(1))
	return s, p, nil
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(yukawaReplica, 3, 10)
	results, err := e.Run(context.Background(), RunConfig{Steps: 20, Dt: 0.01, DumpEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 20 {
			t.Errorf("replica %d took %d steps", i, r.StepsTaken)
		}
		if r.Metrics["temperature"] <= 0 {
			t.Errorf("replica %d has no temperature", i)
		}
	}
	if results[0].Kinetic[0] == results[1].Kinetic[0] {
		t.Error("replicas with different seeds should differ")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(seed int64) (*Simulator, *dynamo.Particles, error) {
		if seed == 2 {
			return nil, nil, boom
		}
		return yukawaReplica(seed)
	}, 3, 0)
	if _, err := e.Run(context.Background(), RunConfig{Steps: 5, Dt: 0.01}); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
