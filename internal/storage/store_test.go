package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:       []float64{0, 0.1, 0.2},
		Potential:   []float64{-1.5, -1.25, -1.75},
		Kinetic:     []float64{0.5, 0.25, 0.75},
		Total:       []float64{-1, -1, -1},
		Metrics:     map[string]float64{"temperature": 0.3},
		StepsTaken:  20,
		EnergyDrift: 1e-6,
		Elapsed:     1500 * time.Millisecond,
	}
}

func sampleStore() *dynamo.Particles {
	p := dynamo.NewParticles(2)
	p.Names = []string{"ion", "dust"}
	p.Species[1] = 1
	p.SetPosition(0, 1, 2, 3)
	p.SetPosition(1, 4.5, 0.125, 9.75)
	p.Vel[2] = -0.5
	p.Acc[4] = 1e-3
	return p
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := RunMetadata{Potential: "yukawa", Method: "cell-list", Seed: 42, Dt: 0.005, Steps: 20, Box: [3]float64{10, 10, 10}}
	runID, err := st.Save(meta, sampleResult(), sampleStore())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "yukawa_"))

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "cell-list", loaded.Method)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, 0.3, loaded.Metrics["temperature"])
	assert.Equal(t, 1e-6, loaded.EnergyDrift)
	assert.Equal(t, int64(1500), loaded.ElapsedMS)

	series, err := st.LoadEnergy(runID)
	require.NoError(t, err)
	assert.Equal(t, SeriesOf(sampleResult()), series)

	final, err := st.LoadFinal(runID)
	require.NoError(t, err)
	want := sampleStore()
	assert.Equal(t, want.Pos, final.Pos)
	assert.Equal(t, want.Vel, final.Vel)
	assert.Equal(t, want.Acc, final.Acc)
	assert.Equal(t, []string{"ion", "dust"}, final.Names)
	assert.Equal(t, []int{0, 1}, final.Species)
}

func TestStoreWithoutFinal(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{ID: "plain"}, sampleResult(), nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", runID)

	_, err = st.LoadFinal(runID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		_, err := st.Save(RunMetadata{ID: name, Timestamp: base.Add(time.Duration(i) * time.Minute)}, sampleResult(), nil)
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadEnergy("../escape")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestXYZLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXYZ(&buf, sampleStore(), dynamo.Cube(10), "t=0"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2", lines[0])
	assert.Contains(t, lines[1], `Lattice="10 0 0 0 10 0 0 0 10"`)
	assert.Contains(t, lines[1], XYZHeader)
	assert.Equal(t, "dust 4.5 0.125 9.75 0 0 0 0 0.001 0", lines[3])

	_, _, err := ReadXYZ(strings.NewReader("3\ncomment\nion 1 2 3 0 0 0 0 0 0\n"))
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, RunMetadata{ID: "x", Potential: "lj"}, sampleResult()))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "lj", out.Meta.Potential)
	assert.Equal(t, 0.3, out.Meta.Metrics["temperature"])
	assert.Equal(t, []float64{-1, -1, -1}, out.Series.Total)
}
