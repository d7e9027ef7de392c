package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
)

// Integrator advances a particle store in time. Prime evaluates the forces
// of the initial configuration; Step returns the evaluation at the new
// positions.
type Integrator interface {
	Prime(p *dynamo.Particles) (force.Result, error)
	Step(p *dynamo.Particles, dt float64) (force.Result, error)
}

type Metric interface {
	Name() string
	Observe(p *dynamo.Particles, potential, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, p *dynamo.Particles, res force.Result)
}

type RunConfig struct {
	Steps         int
	Dt            float64
	DumpEvery     int // record energies every n steps; 0 records every step
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Steps:         1000,
		Dt:            0.01,
		DumpEvery:     10,
		ValidateState: true,
	}
}

// Result holds the recorded energy series of a run. Series entries share
// indices with Times.
type Result struct {
	Times     []float64
	Potential []float64
	Kinetic   []float64
	Total     []float64

	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
	Last        force.Result
	Elapsed     time.Duration
}

func (r *Result) record(t, potential, kinetic float64) {
	r.Times = append(r.Times, t)
	r.Potential = append(r.Potential, potential)
	r.Kinetic = append(r.Kinetic, kinetic)
	r.Total = append(r.Total, potential+kinetic)
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d (t=%.4f): %s: %v", e.Step, e.Time, e.Message, e.Err)
	}
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
