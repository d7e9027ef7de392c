package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/sim"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
	finalFile    = "final.xyz"
)

// ErrRunNotFound is returned when a run id has no directory.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Potential   string             `json:"potential"`
	Method      string             `json:"method"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Particles   int                `json:"particles"`
	Species     []string           `json:"species"`
	Box         [3]float64         `json:"box"`
	Cutoff      float64            `json:"cutoff"`
	Cells       [3]int             `json:"cells"`
	EnergyDrift float64            `json:"energy_drift"`
	ElapsedMS   int64              `json:"elapsed_ms"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Series is the energy history of a run.
type Series struct {
	Times     []float64 `json:"times"`
	Potential []float64 `json:"potential"`
	Kinetic   []float64 `json:"kinetic"`
	Total     []float64 `json:"total"`
}

func SeriesOf(r *sim.Result) Series {
	return Series{Times: r.Times, Potential: r.Potential, Kinetic: r.Kinetic, Total: r.Total}
}

// Save writes a run directory and returns its id. Empty ID and Timestamp
// fields of meta are filled in. final may be nil.
func (s *Store) Save(meta RunMetadata, result *sim.Result, final *dynamo.Particles) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%s", meta.Potential, meta.Timestamp.Format("20060102-150405.000000"))
	}
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}
	meta.EnergyDrift = result.EnergyDrift
	meta.ElapsedMS = result.Elapsed.Milliseconds()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergy(filepath.Join(runDir, energyFile), SeriesOf(result)); err != nil {
		return "", err
	}
	if final != nil {
		f, err := os.Create(filepath.Join(runDir, finalFile))
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := WriteXYZ(f, final, dynamo.Box{L: meta.Box}, meta.Timestamp.Format(time.RFC3339)); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergy(path string, series Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "potential", "kinetic", "total"}); err != nil {
		return err
	}
	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'g', -1, 64),
			strconv.FormatFloat(series.Potential[i], 'g', -1, 64),
			strconv.FormatFloat(series.Kinetic[i], 'g', -1, 64),
			strconv.FormatFloat(series.Total[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) open(runID, name string) (*os.File, error) {
	if runID == "" || filepath.Base(runID) != runID {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return f, err
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	f, err := s.open(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta RunMetadata
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadEnergy(runID string) (Series, error) {
	f, err := s.open(runID, energyFile)
	if err != nil {
		return Series{}, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("run %s: %w", runID, err)
	}

	var series Series
	for i, rec := range records {
		if i == 0 {
			continue
		}
		var v [4]float64
		for k := range v {
			v[k], err = strconv.ParseFloat(rec[k], 64)
			if err != nil {
				return Series{}, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
			}
		}
		series.Times = append(series.Times, v[0])
		series.Potential = append(series.Potential, v[1])
		series.Kinetic = append(series.Kinetic, v[2])
		series.Total = append(series.Total, v[3])
	}
	return series, nil
}

// LoadFinal reads the final configuration of a run.
func (s *Store) LoadFinal(runID string) (*dynamo.Particles, error) {
	f, err := s.open(runID, finalFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, _, err := ReadXYZ(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return p, nil
}
