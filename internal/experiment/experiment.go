// Package experiment assembles a runnable simulation from a config.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/mdforce/internal/config"
	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/integrators"
	"github.com/san-kum/mdforce/internal/particles"
	"github.com/san-kum/mdforce/internal/sim"
	"github.com/san-kum/mdforce/internal/storage"
)

type options struct {
	recorder  force.Recorder
	observers []sim.Observer
	metrics   bool
}

type Option func(*options)

// WithRecorder reports every force evaluation to r.
func WithRecorder(r force.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

func WithObserver(obs sim.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// WithoutMetrics skips the default metric set.
func WithoutMetrics() Option {
	return func(o *options) { o.metrics = false }
}

// Experiment is one fully wired run: engine, integrator, simulator and
// the initial particle store.
type Experiment struct {
	Config     *config.Config
	Seed       int64
	Engine     *force.Engine
	Integrator *integrators.VelocityVerlet
	Simulator  *sim.Simulator
	Particles  *dynamo.Particles

	initial []float64
}

// Build validates cfg and places particles using seed.
func Build(cfg *config.Config, seed int64, opts ...Option) (*Experiment, error) {
	o := options{metrics: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fc, err := cfg.ForceConfig()
	if err != nil {
		return nil, err
	}
	pot, err := cfg.PairPotential()
	if err != nil {
		return nil, err
	}
	method, err := cfg.ForceMethod()
	if err != nil {
		return nil, err
	}

	engOpts := []force.Option{force.WithMethod(method), force.WithWorkers(cfg.Workers)}
	if o.recorder != nil {
		engOpts = append(engOpts, force.WithRecorder(o.recorder))
	}
	eng, err := force.New(fc, pot, engOpts...)
	if err != nil {
		return nil, err
	}

	p, err := place(cfg, seed)
	if err != nil {
		return nil, err
	}

	vv := integrators.NewVelocityVerlet(eng)
	s := sim.New(vv)
	if o.metrics {
		for _, m := range DefaultMetrics(cfg) {
			s.AddMetric(m)
		}
	}
	for _, obs := range o.observers {
		s.AddObserver(obs)
	}

	return &Experiment{
		Config:     cfg,
		Seed:       seed,
		Engine:     eng,
		Integrator: vv,
		Simulator:  s,
		Particles:  p,
		initial:    append([]float64(nil), p.Pos...),
	}, nil
}

func place(cfg *config.Config, seed int64) (*dynamo.Particles, error) {
	rng := rand.New(rand.NewSource(seed))
	species := cfg.ParticleSpecies()

	var (
		p   *dynamo.Particles
		err error
	)
	switch cfg.Init {
	case "lattice":
		p, err = particles.Lattice(species, cfg.BoxValue())
	default:
		p, err = particles.Uniform(species, cfg.BoxValue(), rng)
	}
	if err != nil {
		return nil, fmt.Errorf("placing particles: %w", err)
	}
	if err := particles.MaxwellBoltzmann(p, cfg.Temperature, cfg.KB, rng); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Experiment) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		Steps:         e.Config.Steps,
		Dt:            e.Config.Dt,
		DumpEvery:     e.Config.DumpEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.Simulator.Run(ctx, e.Particles, e.RunConfig())
}

// MeanSquaredDisplacement is the mean over particles of the squared
// distance travelled since Build, counting boundary crossings.
func (e *Experiment) MeanSquaredDisplacement() float64 {
	n := e.Particles.Len()
	if n == 0 {
		return 0
	}
	pos := particles.Unwrapped(e.Particles, e.Config.BoxValue(), e.Integrator.Crossings())
	var sum float64
	for k, x := range pos {
		d := x - e.initial[k]
		sum += d * d
	}
	return sum / float64(n)
}

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(result *sim.Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Potential: e.Config.Potential,
		Method:    e.Engine.Method().String(),
		Timestamp: time.Now(),
		Seed:      e.Seed,
		Dt:        e.Config.Dt,
		Steps:     e.Config.Steps,
		Particles: e.Particles.Len(),
		Box:       e.Config.Box,
		Cutoff:    e.Config.Cutoff,
	}
	for _, s := range e.Config.Species {
		meta.Species = append(meta.Species, s.Name)
	}
	if result != nil {
		meta.Method = result.Last.Method.String()
		meta.Cells = result.Last.Cells
		meta.EnergyDrift = result.EnergyDrift
		meta.ElapsedMS = result.Elapsed.Milliseconds()
		meta.Metrics = result.Metrics
	}
	return meta
}

// Replica adapts Build to an ensemble member. Observers are shared across
// replicas, so they must be safe for concurrent use.
func Replica(cfg *config.Config, opts ...Option) sim.Replica {
	return func(seed int64) (*sim.Simulator, *dynamo.Particles, error) {
		e, err := Build(cfg, seed, opts...)
		if err != nil {
			return nil, nil, err
		}
		return e.Simulator, e.Particles, nil
	}
}
