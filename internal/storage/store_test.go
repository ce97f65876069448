package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/config"
	"github.com/san-kum/axonsim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		StepsTaken: 20,
		Samples: []sim.Sample{
			{Step: 10, Filaments: 10, Nodes: 80, Links: 3, Acceptance: 0.5},
			{Step: 20, Filaments: 20, Nodes: 300, Links: 12, Acceptance: 0.625},
		},
		Metrics: map[string]float64{"links": 12},
		Stats:   axon.Stats{Steps: 20, LinksFormed: 15, LinksBroken: 3},
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.GetPreset("bundled")
	cfg.Seed = 7
	id := NewRunID(cfg.Preset)
	if !strings.HasPrefix(id, "bundled_") {
		t.Errorf("run id %q lacks preset prefix", id)
	}

	if err := s.Save(id, cfg, sampleResult()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Seed != 7 || meta.Steps != 20 || meta.Preset != "bundled" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Stats.LinksFormed != 15 || meta.Metrics["links"] != 12 {
		t.Errorf("stats or metrics lost: %+v", meta)
	}

	trace, err := s.LoadTrace(id)
	if err != nil {
		t.Fatalf("LoadTrace: %v", err)
	}
	if len(trace) != 2 || trace[1] != sampleResult().Samples[1] {
		t.Errorf("trace = %+v", trace)
	}

	loaded, err := s.LoadConfig(id)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Seed != 7 {
		t.Errorf("config seed %d, want 7", loaded.Seed)
	}
}

func TestList(t *testing.T) {
	base := t.TempDir()
	s := New(base)

	runs, err := s.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", runs, err)
	}

	for _, id := range []string{"a", "b"} {
		if err := s.Save(id, config.DefaultConfig(), sampleResult()); err != nil {
			t.Fatal(err)
		}
	}
	os.MkdirAll(filepath.Join(base, "junk"), 0755)

	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "a" {
		t.Errorf("expected runs a, b in order, got %+v", runs)
	}
}

func TestMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); !errors.Is(err, ErrNoRun) {
		t.Errorf("Load: expected ErrNoRun, got %v", err)
	}
	if _, err := s.LoadTrace("nope"); !errors.Is(err, ErrNoRun) {
		t.Errorf("LoadTrace: expected ErrNoRun, got %v", err)
	}
}

func TestNewRunIDUnique(t *testing.T) {
	if NewRunID("") == NewRunID("") {
		t.Error("run ids collide")
	}
}
