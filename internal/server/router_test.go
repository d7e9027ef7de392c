package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdforce/internal/sim"
	"github.com/san-kum/mdforce/internal/storage"
	"github.com/san-kum/mdforce/internal/telemetry"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	st := storage.New(t.TempDir())
	result := &sim.Result{
		Times:     []float64{0, 1},
		Potential: []float64{-2, -2.5},
		Kinetic:   []float64{1, 1.5},
		Total:     []float64{-1, -1},
	}
	id, err := st.Save(storage.RunMetadata{Potential: "yukawa", Particles: 8}, result, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(NewRouter(RouterConfig{
		Runs:           st,
		Metrics:        telemetry.New().Handler(),
		DisableLogging: true,
	}))
	t.Cleanup(ts.Close)
	return ts, id
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRunsEndpoints(t *testing.T) {
	ts, id := newTestServer(t)

	var runs []storage.RunMetadata
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/runs", &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)

	var meta storage.RunMetadata
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/runs/"+id, &meta))
	assert.Equal(t, 8, meta.Particles)

	var series storage.Series
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/runs/"+id+"/energy", &series))
	assert.Equal(t, []float64{-2, -2.5}, series.Potential)
}

func TestUnknownRun(t *testing.T) {
	ts, _ := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/runs/missing", &body))
	assert.Contains(t, body["error"], "not found")
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/runs/missing/energy", nil))
}

type failingSource struct{}

func (failingSource) List() ([]storage.RunMetadata, error) { return nil, errors.New("disk on fire") }
func (failingSource) Load(string) (*storage.RunMetadata, error) {
	return nil, errors.New("disk on fire")
}
func (failingSource) LoadEnergy(string) (storage.Series, error) {
	return storage.Series{}, errors.New("disk on fire")
}

func TestSourceErrors(t *testing.T) {
	ts := httptest.NewServer(NewRouter(RouterConfig{Runs: failingSource{}, DisableLogging: true}))
	defer ts.Close()

	assert.Equal(t, http.StatusInternalServerError, getJSON(t, ts.URL+"/runs", nil))
	assert.Equal(t, http.StatusInternalServerError, getJSON(t, ts.URL+"/runs/x", nil))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, NewRouter(RouterConfig{Runs: failingSource{}, DisableLogging: true})) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
