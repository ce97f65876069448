package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/config"
	"github.com/san-kum/axonsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	traceFile    = "trace.csv"
)

var ErrNoRun = errors.New("storage: run not found")

var traceHeader = []string{"step", "filaments", "nodes", "links", "acceptance"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Stats     axon.Stats         `json:"stats"`
}

// NewRunID returns a fresh run id, prefixed with the preset name when
// there is one.
func NewRunID(preset string) string {
	id := uuid.NewString()
	if preset == "" {
		return id
	}
	return preset + "_" + id[:8]
}

// Dir is the directory holding a run's files. Observers write their
// output there during the run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save records the configuration and outcome of a finished run.
func (s *Store) Save(runID string, cfg *config.Config, result *sim.Result) error {
	runDir := s.Dir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    cfg.Preset,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
		Stats:     result.Stats,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("storage: write metadata: %w", err)
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return fmt.Errorf("storage: write config: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(traceHeader); err != nil {
		return err
	}
	for _, smp := range result.Samples {
		row := []string{
			strconv.Itoa(smp.Step),
			strconv.Itoa(smp.Filaments),
			strconv.Itoa(smp.Nodes),
			strconv.Itoa(smp.Links),
			strconv.FormatFloat(smp.Acceptance, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the recorded runs, oldest first.
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

	slices.SortStableFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadConfig returns the configuration a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.Dir(runID), configFile))
}

// LoadTrace reads a run's sampled trace. Malformed rows are skipped.
func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(traceHeader) {
			continue
		}
		var ints [4]int
		ok := true
		for j := range ints {
			v, err := strconv.Atoi(record[j])
			if err != nil {
				ok = false
				break
			}
			ints[j] = v
		}
		acc, err := strconv.ParseFloat(record[4], 64)
		if !ok || err != nil {
			continue
		}
		samples = append(samples, sim.Sample{
			Step: ints[0], Filaments: ints[1], Nodes: ints[2], Links: ints[3], Acceptance: acc,
		})
	}

	return samples, nil
}
