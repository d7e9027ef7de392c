package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/particles"
	"github.com/san-kum/mdforce/internal/potential"
)

const (
	DefaultDt          = 0.005
	DefaultSteps       = 1000
	DefaultDumpEvery   = 10
	DefaultBox         = 10.0
	DefaultCutoff      = 3.0
	DefaultKappa       = 1.0
	DefaultTemperature = 0.1
	DefaultCount       = 500
)

type Config struct {
	Potential   string          `yaml:"potential"`
	Method      string          `yaml:"method"`
	Workers     int             `yaml:"workers"`
	Box         [3]float64      `yaml:"box,flow"`
	Cutoff      float64         `yaml:"cutoff"`
	Shift       bool            `yaml:"shift"`
	Kappa       float64         `yaml:"kappa"`
	Species     []SpeciesConfig `yaml:"species"`
	Init        string          `yaml:"init"`
	Temperature float64         `yaml:"temperature"`
	KB          float64         `yaml:"kb"`
	Dt          float64         `yaml:"dt"`
	Steps       int             `yaml:"steps"`
	DumpEvery   int             `yaml:"dump_every"`
	Seed        int64           `yaml:"seed"`
}

type SpeciesConfig struct {
	Name    string  `yaml:"name"`
	Mass    float64 `yaml:"mass"`
	Count   int     `yaml:"count"`
	Charge  float64 `yaml:"charge,omitempty"`
	Epsilon float64 `yaml:"epsilon,omitempty"`
	Sigma   float64 `yaml:"sigma,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Potential:   "yukawa",
		Method:      "auto",
		Workers:     1,
		Box:         [3]float64{DefaultBox, DefaultBox, DefaultBox},
		Cutoff:      DefaultCutoff,
		Kappa:       DefaultKappa,
		Species:     []SpeciesConfig{{Name: "ion", Mass: 1, Count: DefaultCount, Charge: 1}},
		Init:        "uniform",
		Temperature: DefaultTemperature,
		KB:          1,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		DumpEvery:   DefaultDumpEvery,
		Seed:        1,
	}
}

// DefaultFor returns the default config switched to the named potential.
// Lennard-Jones species get unit epsilon and sigma.
func DefaultFor(pot string) *Config {
	cfg := DefaultConfig()
	cfg.Potential = pot
	if pot == "lj" {
		for i := range cfg.Species {
			cfg.Species[i].Epsilon = 1
			cfg.Species[i].Sigma = 1
		}
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be customised safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = append([]SpeciesConfig(nil), c.Species...)
	return &out
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks everything a run needs before any particle is placed.
func (c *Config) Validate() error {
	if _, err := potential.Default.Get(c.Potential); err != nil {
		return invalid("%v", err)
	}
	if _, err := force.ParseMethod(c.Method); err != nil {
		return invalid("%v", err)
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative, got %d", c.Workers)
	}
	if len(c.Species) == 0 {
		return invalid("no species configured")
	}
	for i, s := range c.Species {
		if !(s.Mass > 0) {
			return invalid("species %d (%s): mass must be positive, got %g", i, s.Name, s.Mass)
		}
		if s.Count < 0 {
			return invalid("species %d (%s): negative count", i, s.Name)
		}
		if c.Potential == "lj" && (!(s.Sigma > 0) || s.Epsilon < 0) {
			return invalid("species %d (%s): lj needs sigma > 0 and epsilon >= 0", i, s.Name)
		}
	}
	switch c.Init {
	case "uniform", "lattice":
	default:
		return invalid("unknown init %q", c.Init)
	}
	if c.Temperature < 0 || math.IsNaN(c.Temperature) {
		return invalid("temperature must not be negative, got %g", c.Temperature)
	}
	if !(c.KB > 0) {
		return invalid("kb must be positive, got %g", c.KB)
	}
	if !(c.Dt > 0) {
		return invalid("dt must be positive, got %g", c.Dt)
	}
	if c.Steps < 0 || c.DumpEvery < 0 {
		return invalid("steps and dump_every must not be negative")
	}
	_, err := c.ForceConfig()
	return err
}

// N returns the total particle count.
func (c *Config) N() int {
	n := 0
	for _, s := range c.Species {
		n += s.Count
	}
	return n
}

func (c *Config) BoxValue() dynamo.Box {
	return dynamo.Box{L: c.Box}
}

// Table builds the species-pair parameter table for the configured
// potential.
func (c *Config) Table() *dynamo.ParamTable {
	switch c.Potential {
	case "lj":
		eps := make([]float64, len(c.Species))
		sigma := make([]float64, len(c.Species))
		for i, s := range c.Species {
			eps[i], sigma[i] = s.Epsilon, s.Sigma
		}
		return potential.LennardJonesTable(eps, sigma)
	case "coulomb":
		return potential.CoulombTable(c.charges())
	default:
		return potential.YukawaTable(c.charges(), c.Kappa)
	}
}

func (c *Config) charges() []float64 {
	q := make([]float64, len(c.Species))
	for i, s := range c.Species {
		q[i] = s.Charge
	}
	return q
}

// ForceConfig returns the validated force configuration.
func (c *Config) ForceConfig() (dynamo.Config, error) {
	fc := dynamo.Config{Box: c.BoxValue(), Cutoff: c.Cutoff, Params: c.Table()}
	if err := fc.Validate(); err != nil {
		return dynamo.Config{}, err
	}
	return fc, nil
}

// PairPotential resolves the potential by name, shifted to zero at the
// cutoff when Shift is set.
func (c *Config) PairPotential() (dynamo.Potential, error) {
	pot, err := potential.Default.Get(c.Potential)
	if err != nil {
		return nil, err
	}
	if c.Shift {
		return potential.Shifted{Inner: pot, Cutoff: c.Cutoff}, nil
	}
	return pot, nil
}

func (c *Config) ForceMethod() (force.Method, error) {
	return force.ParseMethod(c.Method)
}

func (c *Config) ParticleSpecies() []particles.Species {
	out := make([]particles.Species, len(c.Species))
	for i, s := range c.Species {
		out[i] = particles.Species{Name: s.Name, Mass: s.Mass, Count: s.Count}
	}
	return out
}
