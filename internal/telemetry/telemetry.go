// Package telemetry exposes force evaluation and simulation progress as
// Prometheus metrics. Label values are bounded to the force method names.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/metrics"
)

// Recorder owns a private registry so several recorders (and tests) never
// collide on the default one.
type Recorder struct {
	reg *prometheus.Registry

	evalDuration *prometheus.HistogramVec
	pairsTested  prometheus.Counter
	interactions prometheus.Counter
	particles    prometheus.Gauge
	step         prometheus.Gauge
	potential    prometheus.Gauge
	kinetic      prometheus.Gauge
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		evalDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mdforce_force_eval_seconds",
			Help:    "Wall time of one force evaluation",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"method"}),
		pairsTested: f.NewCounter(prometheus.CounterOpts{
			Name: "mdforce_pairs_tested_total",
			Help: "Particle pairs whose separation was computed",
		}),
		interactions: f.NewCounter(prometheus.CounterOpts{
			Name: "mdforce_pair_interactions_total",
			Help: "Particle pairs found inside the cutoff",
		}),
		particles: f.NewGauge(prometheus.GaugeOpts{
			Name: "mdforce_particles",
			Help: "Particles in the last evaluated store",
		}),
		step: f.NewGauge(prometheus.GaugeOpts{
			Name: "mdforce_step",
			Help: "Last completed integration step",
		}),
		potential: f.NewGauge(prometheus.GaugeOpts{
			Name: "mdforce_potential_energy",
			Help: "Potential energy at the last step",
		}),
		kinetic: f.NewGauge(prometheus.GaugeOpts{
			Name: "mdforce_kinetic_energy",
			Help: "Kinetic energy at the last step",
		}),
	}
}

// ObserveForce implements force.Recorder.
func (r *Recorder) ObserveForce(res force.Result, particles int) {
	r.evalDuration.WithLabelValues(res.Method.String()).Observe(res.Elapsed.Seconds())
	r.pairsTested.Add(float64(res.Pairs))
	r.interactions.Add(float64(res.Interactions))
	r.particles.Set(float64(particles))
}

// OnStep implements sim.Observer.
func (r *Recorder) OnStep(step int, t float64, p *dynamo.Particles, res force.Result) {
	r.step.Set(float64(step))
	r.potential.Set(res.Energy)

	r.kinetic.Set(metrics.KineticEnergy(p))
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
