// Package server is the read-only HTTP surface over saved runs and the
// live metrics registry.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/san-kum/mdforce/internal/storage"
)

// RunSource is the part of the run store the API reads from.
type RunSource interface {
	List() ([]storage.RunMetadata, error)
	Load(runID string) (*storage.RunMetadata, error)
	LoadEnergy(runID string) (storage.Series, error)
}

// RouterConfig holds the dependencies of the router.
type RouterConfig struct {
	// Runs is the run store (required).
	Runs RunSource

	// Metrics is served on /metrics when set.
	Metrics http.Handler

	// DisableLogging drops the request logger, for tests.
	DisableLogging bool
}

type handlers struct {
	runs RunSource
}

// NewRouter builds the router. It starts no goroutines and opens no
// listeners, so it can be mounted on httptest servers.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	h := &handlers{runs: cfg.Runs}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Get("/{id}/energy", h.handleEnergy)
	})

	return r
}

func (h *handlers) handleList(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.List()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

func (h *handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	meta, err := h.runs.Load(chi.URLParam(r, "id"))
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, meta)
}

func (h *handlers) handleEnergy(w http.ResponseWriter, r *http.Request) {
	series, err := h.runs.LoadEnergy(chi.URLParam(r, "id"))
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, series)
}

func writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrRunNotFound) {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Serve listens on addr until ctx is cancelled, then shuts down with a
// short grace period.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
