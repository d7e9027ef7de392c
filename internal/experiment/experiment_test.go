package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdforce/internal/config"
	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/sim"
)

func small() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Species[0].Count = 64
	cfg.Init = "lattice"
	cfg.Steps = 20
	cfg.DumpEvery = 5
	cfg.Shift = true
	return cfg
}

type counter struct{ calls int }

func (c *counter) ObserveForce(res force.Result, n int) { c.calls++ }

type steps struct{ n int }

func (s *steps) OnStep(step int, t float64, p *dynamo.Particles, res force.Result) { s.n++ }

func TestBuildAndRun(t *testing.T) {
	rec := &counter{}
	obs := &steps{}
	e, err := Build(small(), 7, WithRecorder(rec), WithObserver(obs))
	require.NoError(t, err)
	assert.Equal(t, 64, e.Particles.Len())
	assert.Equal(t, force.MethodCellList, e.Engine.Method())

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, result.StepsTaken)
	assert.Equal(t, 21, rec.calls)
	assert.Equal(t, 21, obs.n)
	assert.Len(t, result.Times, 5)
	for _, name := range []string{"energy", "energy_drift", "temperature", "stability"} {
		assert.Contains(t, result.Metrics, name)
	}
	assert.Equal(t, 1.0, result.Metrics["stability"])

	meta := e.Metadata(result)
	assert.Equal(t, "yukawa", meta.Potential)
	assert.Equal(t, "cell-list", meta.Method)
	assert.Equal(t, [3]int{3, 3, 3}, meta.Cells)
	assert.Equal(t, int64(7), meta.Seed)
	assert.Equal(t, []string{"ion"}, meta.Species)
}

func TestMeanSquaredDisplacement(t *testing.T) {
	cfg := small()
	cfg.Temperature = 0.5
	e, err := Build(cfg, 3, WithoutMetrics())
	require.NoError(t, err)
	assert.Zero(t, e.MeanSquaredDisplacement(), "nothing moved before the run")

	_, err = e.Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, e.MeanSquaredDisplacement())
}

func TestMeanSquaredDisplacementAcrossBoundary(t *testing.T) {
	cfg := small()
	e, err := Build(cfg, 3, WithoutMetrics())
	require.NoError(t, err)
	_, err = e.Integrator.Prime(e.Particles)
	require.NoError(t, err)

	// move particle 0 one unit toward -x, folding it if it leaves the box
	x := e.initial[0] - 1
	if x < 0 {
		x += cfg.Box[0]
		e.Integrator.Crossings()[0]--
	}
	e.Particles.Pos[0] = x

	assert.InDelta(t, 1/float64(e.Particles.Len()), e.MeanSquaredDisplacement(), 1e-12)
}

func TestBuildRejectsInvalid(t *testing.T) {
	cfg := small()
	cfg.Dt = 0
	_, err := Build(cfg, 1)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestBuildSeeds(t *testing.T) {
	cfg := small()
	cfg.Init = "uniform"
	a, err := Build(cfg, 1, WithoutMetrics())
	require.NoError(t, err)
	b, err := Build(cfg, 1)
	require.NoError(t, err)
	c, err := Build(cfg, 2)
	require.NoError(t, err)

	assert.Equal(t, a.Particles.Pos, b.Particles.Pos)
	assert.NotEqual(t, a.Particles.Pos, c.Particles.Pos)
}

func TestHalfBoxPresetFallsBack(t *testing.T) {
	cfg := config.GetPreset("coulomb", "halfbox")
	require.NotNil(t, cfg)
	cfg.Steps = 2
	e, err := Build(cfg, 1)
	require.NoError(t, err)
	assert.Equal(t, force.MethodBruteForce, e.Engine.Method())

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	n := e.Particles.Len()
	assert.Equal(t, n*(n-1)/2, result.Last.Pairs)
}

func TestReplicaEnsemble(t *testing.T) {
	cfg := small()
	results, err := sim.NewEnsemble(Replica(cfg), 2, 3).Run(context.Background(), sim.RunConfig{Steps: 5, Dt: cfg.Dt})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 5, results[1].StepsTaken)
}
