package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/filament"
)

const (
	DefaultSteps       = 2000
	DefaultSeed        = 1
	DefaultOutputDir   = "runs"
	DefaultReportEvery = 10
	DefaultLogLevel    = "info"
)

var (
	ErrSteps         = errors.New("config: steps must be positive")
	ErrInterval      = errors.New("config: intervals must not be negative")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

type Config struct {
	Preset   string  `yaml:"preset,omitempty"`
	Steps    int     `yaml:"steps"`
	Seed     int64   `yaml:"seed"`
	LogLevel string  `yaml:"log_level"`
	Axon     Axon    `yaml:"axon"`
	Growth   Growth  `yaml:"growth"`
	Links    Links   `yaml:"links"`
	Grids    Grids   `yaml:"grids"`
	Feature  Feature `yaml:"features"`
	Output   Output  `yaml:"output"`
}

type Axon struct {
	Radius            float64 `yaml:"radius"`
	Length            float64 `yaml:"length"`
	FilamentRadius    float64 `yaml:"filament_radius"`
	PersistenceLength float64 `yaml:"persistence_length"`
	SigmaProposal     float64 `yaml:"sigma_proposal"`
	BirthProb         float64 `yaml:"birth_prob"`
	SeedRadius        float64 `yaml:"seed_radius"`
	MaxNodes          int     `yaml:"max_nodes"`
	MaxFilaments      int     `yaml:"max_filaments"`
	EnergySampleProb  float64 `yaml:"energy_sample_prob"`
}

type Growth struct {
	MeanLength float64 `yaml:"mean_length"`
	StdLength  float64 `yaml:"std_length"`
	StdAngle   float64 `yaml:"std_angle"`
}

type Links struct {
	InteractionLength float64 `yaml:"interaction_length"`
	Length            float64 `yaml:"length"`
	FormProb          float64 `yaml:"form_prob"`
	BreakProb         float64 `yaml:"break_prob"`
	MaxLinks          int     `yaml:"max_links"`
}

// Grids holds cell sizes as [x, y, z].
type Grids struct {
	Link    [3]float64 `yaml:"link"`
	Collide [3]float64 `yaml:"collide"`
}

type Feature struct {
	Collisions   bool `yaml:"collisions"`
	Fluctuations bool `yaml:"fluctuations"`
	FormLinks    bool `yaml:"form_links"`
	BreakLinks   bool `yaml:"break_links"`
	BundleFluct  bool `yaml:"bundle_fluct"`
	SeedGuard    bool `yaml:"seed_guard"`
}

type Output struct {
	Dir           string    `yaml:"dir"`
	ReportEvery   int       `yaml:"report_every"`
	SceneEvery    int       `yaml:"scene_every"`
	Sections      []float64 `yaml:"sections"`
	SectionsEvery int       `yaml:"sections_every"`
}

// DefaultConfig mirrors axon.DefaultParams, the bundled setup.
func DefaultConfig() *Config {
	return FromParams(axon.DefaultParams())
}

// FromParams builds a config carrying p and default run settings.
func FromParams(p axon.Params) *Config {
	return &Config{
		Steps:    DefaultSteps,
		Seed:     DefaultSeed,
		LogLevel: DefaultLogLevel,
		Axon: Axon{
			Radius:            p.Radius,
			Length:            p.Length,
			FilamentRadius:    p.FilamentRadius,
			PersistenceLength: p.PersistenceLength,
			SigmaProposal:     p.SigmaProposal,
			BirthProb:         p.BirthProb,
			SeedRadius:        p.SeedRadius,
			MaxNodes:          p.MaxNodes,
			MaxFilaments:      p.MaxFilaments,
			EnergySampleProb:  p.EnergySampleProb,
		},
		Growth: Growth{
			MeanLength: p.Growth.MeanLength,
			StdLength:  p.Growth.StdLength,
			StdAngle:   p.Growth.StdAngle,
		},
		Links: Links{
			InteractionLength: p.LinkInteraction,
			Length:            p.LinkLength,
			FormProb:          p.LinkFormProb,
			BreakProb:         p.LinkBreakProb,
			MaxLinks:          p.MaxLinks,
		},
		Grids: Grids{
			Link:    [3]float64{p.LinkStep.X, p.LinkStep.Y, p.LinkStep.Z},
			Collide: [3]float64{p.CollideStep.X, p.CollideStep.Y, p.CollideStep.Z},
		},
		Feature: Feature{
			Collisions:   p.Collisions,
			Fluctuations: p.Fluctuations,
			FormLinks:    p.FormLinks,
			BreakLinks:   p.BreakLinks,
			BundleFluct:  p.BundleFluct,
			SeedGuard:    p.SeedGuard,
		},
		Output: Output{
			Dir:         DefaultOutputDir,
			ReportEvery: DefaultReportEvery,
		},
	}
}

// Params converts the config into axon parameters.
func (c *Config) Params() axon.Params {
	return axon.Params{
		Radius:            c.Axon.Radius,
		Length:            c.Axon.Length,
		LinkInteraction:   c.Links.InteractionLength,
		LinkLength:        c.Links.Length,
		FilamentRadius:    c.Axon.FilamentRadius,
		LinkFormProb:      c.Links.FormProb,
		LinkBreakProb:     c.Links.BreakProb,
		BirthProb:         c.Axon.BirthProb,
		SeedRadius:        c.Axon.SeedRadius,
		SeedGuard:         c.Feature.SeedGuard,
		SigmaProposal:     c.Axon.SigmaProposal,
		PersistenceLength: c.Axon.PersistenceLength,
		Growth: filament.Grower{
			MeanLength: c.Growth.MeanLength,
			StdLength:  c.Growth.StdLength,
			StdAngle:   c.Growth.StdAngle,
		},
		MaxLinks:         c.Links.MaxLinks,
		MaxNodes:         c.Axon.MaxNodes,
		MaxFilaments:     c.Axon.MaxFilaments,
		LinkStep:         r3.Vec{X: c.Grids.Link[0], Y: c.Grids.Link[1], Z: c.Grids.Link[2]},
		CollideStep:      r3.Vec{X: c.Grids.Collide[0], Y: c.Grids.Collide[1], Z: c.Grids.Collide[2]},
		Collisions:       c.Feature.Collisions,
		Fluctuations:     c.Feature.Fluctuations,
		FormLinks:        c.Feature.FormLinks,
		BreakLinks:       c.Feature.BreakLinks,
		BundleFluct:      c.Feature.BundleFluct,
		EnergySampleProb: c.Axon.EnergySampleProb,
	}
}

// Validate checks run settings and the axon parameters they produce.
func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("%w (steps = %d)", ErrSteps, c.Steps)
	}
	if c.Output.ReportEvery < 0 || c.Output.SceneEvery < 0 || c.Output.SectionsEvery < 0 {
		return ErrInterval
	}
	for _, z := range c.Output.Sections {
		if math.IsNaN(z) {
			return fmt.Errorf("config: section height is NaN")
		}
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Preset != "" {
		base := GetPreset(cfg.Preset)
		if base == nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownPreset, cfg.Preset)
		}
		// Reapply the file on top of the preset so explicit keys win.
		if err := yaml.Unmarshal(data, base); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = base
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
