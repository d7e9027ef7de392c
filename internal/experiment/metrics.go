package experiment

import (
	"math"

	"github.com/san-kum/mdforce/internal/config"
	"github.com/san-kum/mdforce/internal/metrics"
	"github.com/san-kum/mdforce/internal/sim"
)

// DefaultMetrics are attached to every built run. The stability threshold
// is ten thermal speeds of the lightest species.
func DefaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMeanTemperature(cfg.KB),
		metrics.NewStability(speedLimit(cfg)),
	}
}

func speedLimit(cfg *config.Config) float64 {
	minMass := math.Inf(1)
	for _, s := range cfg.Species {
		minMass = math.Min(minMass, s.Mass)
	}
	t := cfg.Temperature
	if t <= 0 {
		t = 1
	}
	return 10 * math.Sqrt(3*cfg.KB*t/minMass)
}
