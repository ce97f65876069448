package config

import (
	"math"
	"slices"

	"github.com/san-kum/axonsim/internal/axon"
)

// Presets builds the named configurations. Each call returns a fresh
// config so callers may modify it.
var Presets = map[string]func() *Config{
	// bundled: a narrow axon where filaments collide, fluctuate and
	// cross-link into bundles.
	"bundled": func() *Config {
		return DefaultConfig()
	},
	// freegrowth: a wide axon with only growth, sampled through cross
	// sections to study the angular spread of free filaments.
	"freegrowth": func() *Config {
		p := axon.DefaultParams()
		p.Radius = 200
		p.SeedRadius = 0.2
		p.Length = float64(p.MaxNodes) * p.Growth.MeanLength
		p.Growth.StdAngle = math.Pi / 13.5 * 0.1
		p.LinkStep.X, p.LinkStep.Y, p.LinkStep.Z = 100, 100, 100
		p.CollideStep.X, p.CollideStep.Y, p.CollideStep.Z = 100, 100, 100
		p.Collisions = false
		p.Fluctuations = false
		p.FormLinks = false
		p.BreakLinks = false
		p.BundleFluct = false
		p.SeedGuard = true
		p.EnergySampleProb = 0.025
		c := FromParams(p)
		c.Output.Sections = []float64{p.Length / 4, p.Length / 2, 3 * p.Length / 4}
		c.Output.SectionsEvery = c.Steps
		return c
	},
	// straight: noiseless growth with no interactions.
	"straight": func() *Config {
		p := axon.DefaultParams()
		p.Growth.StdLength = 0
		p.Growth.StdAngle = 0
		p.Collisions = false
		p.Fluctuations = false
		p.FormLinks = false
		p.BreakLinks = false
		c := FromParams(p)
		c.Steps = 100
		return c
	},
}

// Descriptions holds a one-line summary per preset.
var Descriptions = map[string]string{
	"bundled":    "collisions, fluctuations and cross-links",
	"freegrowth": "wide axon, growth only, cross sections",
	"straight":   "noiseless growth, no interactions",
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	c := build()
	c.Preset = name
	return c
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
