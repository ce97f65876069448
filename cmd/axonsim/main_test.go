package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/axonsim/internal/config"
)

func parse(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset, seed, steps = "", "", 0, 0
	cmd := &cobra.Command{Use: "test"}
	configFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axon.yaml")
	file := config.GetPreset("straight")
	file.Seed = 5
	file.Steps = 40
	if err := config.Save(path, file); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		args      []string
		wantSeed  int64
		wantSteps int
		wantRad   float64
	}{
		{"defaults", nil, config.DefaultSeed, config.DefaultSteps, 2},
		{"preset", []string{"--preset", "freegrowth"}, config.DefaultSeed, config.DefaultSteps, 200},
		{"file over preset", []string{"--preset", "freegrowth", "--config", path}, 5, 40, 2},
		{"flags over file", []string{"--config", path, "--seed", "9", "--steps", "7"}, 9, 7, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(parse(t, tt.args...))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Seed != tt.wantSeed || cfg.Steps != tt.wantSteps || cfg.Axon.Radius != tt.wantRad {
				t.Errorf("seed=%d steps=%d radius=%g", cfg.Seed, cfg.Steps, cfg.Axon.Radius)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(parse(t, "--preset", "nope")); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("unknown preset: err = %v", err)
	}
	if _, err := loadConfig(parse(t, "--steps", "0")); !errors.Is(err, config.ErrSteps) {
		t.Errorf("zero steps: err = %v", err)
	}
}

func TestNewAxon(t *testing.T) {
	cfg := config.GetPreset("straight")
	a, err := newAxon(cfg, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.Step()
	if a.Stats().Steps != 1 {
		t.Errorf("steps = %d", a.Stats().Steps)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]float64{"b": 1, "a": 2, "c": 3})
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("sortedKeys = %v", got)
	}
}
