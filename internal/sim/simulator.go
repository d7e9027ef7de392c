package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/metrics"
)

type Simulator struct {
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(integrator Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates p in place for cfg.Steps steps. Metrics and observers see
// the initial configuration and every step after it. On cancellation or a
// failed step the partial result is returned with the error.
func (s *Simulator) Run(ctx context.Context, p *dynamo.Particles, cfg RunConfig) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	start := time.Now()

	every := cfg.DumpEvery
	if every <= 0 {
		every = 1
	}
	samples := cfg.Steps/every + 2
	result := &Result{
		Times:     make([]float64, 0, samples),
		Potential: make([]float64, 0, samples),
		Kinetic:   make([]float64, 0, samples),
		Total:     make([]float64, 0, samples),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	res, err := s.integrator.Prime(p)
	if err != nil {
		return nil, SimError{Step: 0, Message: "initial force evaluation", Err: err}
	}
	s.observe(0, 0, p, res)
	result.record(0, res.Energy, metrics.KineticEnergy(p))

	t := 0.0
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, res, start)
			return result, ctx.Err()
		default:
		}

		res, err = s.integrator.Step(p, cfg.Dt)
		t = float64(i) * cfg.Dt
		if err != nil {
			s.finish(result, res, start)
			return result, SimError{Time: t, Step: i, Message: "force evaluation", Err: err}
		}
		if cfg.ValidateState && !finite(p, res.Energy) {
			s.finish(result, res, start)
			return result, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
		}

		result.StepsTaken++
		s.observe(i, t, p, res)
		if i%every == 0 || i == cfg.Steps {
			result.record(t, res.Energy, metrics.KineticEnergy(p))
		}
	}

	s.finish(result, res, start)
	return result, nil
}

func (s *Simulator) observe(step int, t float64, p *dynamo.Particles, res force.Result) {
	for _, m := range s.metrics {
		m.Observe(p, res.Energy, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, t, p, res)
	}
}

func (s *Simulator) finish(result *Result, last force.Result, start time.Time) {
	result.Last = last
	result.EnergyDrift = metrics.Drift(result.Total)
	result.Elapsed = time.Since(start)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", cfg.Steps)
	}
	return nil
}

func finite(p *dynamo.Particles, energy float64) bool {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return false
	}
	for _, x := range p.Vel {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
