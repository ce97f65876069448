package axon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/filament"
)

// Params fixes the geometry, physics and feature toggles of an axon.
// Lengths are in microns.
type Params struct {
	Radius float64
	Length float64

	// LinkInteraction is both the largest separation at which two nodes
	// may link and the margin kept from the axon wall.
	LinkInteraction float64
	LinkLength      float64
	FilamentRadius  float64

	LinkFormProb  float64
	LinkBreakProb float64
	BirthProb     float64

	// SeedRadius bounds the disk new filaments are seeded in, before the
	// wall margin is subtracted.
	SeedRadius float64
	// SeedGuard rejects seeds whose first stub would collide.
	SeedGuard bool

	SigmaProposal     float64
	PersistenceLength float64
	Growth            filament.Grower

	MaxLinks     int
	MaxNodes     int
	MaxFilaments int

	LinkStep    r3.Vec
	CollideStep r3.Vec

	Collisions   bool
	Fluctuations bool
	FormLinks    bool
	BreakLinks   bool
	BundleFluct  bool

	// EnergySampleProb is the chance that a fluctuation's energy is kept
	// for the energy histogram.
	EnergySampleProb float64
}

// DefaultParams returns the bundled-axon setup: a narrow axon with
// collisions, fluctuations and cross-linking all on.
func DefaultParams() Params {
	return Params{
		Radius:            2,
		Length:            200,
		LinkInteraction:   0.1,
		LinkLength:        0.025,
		FilamentRadius:    0.0125,
		LinkFormProb:      0.9,
		LinkBreakProb:     0.5,
		BirthProb:         1,
		SeedRadius:        2,
		SigmaProposal:     0.0006125,
		PersistenceLength: 30,
		Growth: filament.Grower{
			MeanLength: 0.1,
			StdLength:  0,
			StdAngle:   math.Pi / 40 * math.Sqrt(0.1),
		},
		MaxLinks:     13,
		MaxNodes:     2000,
		MaxFilaments: 2000,
		LinkStep:     r3.Vec{X: 0.1, Y: 0.1, Z: 0.1},
		CollideStep:  r3.Vec{X: 0.3, Y: 0.3, Z: 1},
		Collisions:   true,
		Fluctuations: true,
		FormLinks:    true,
		BreakLinks:   true,
		BundleFluct:  true,
	}
}

// RestLength is the center-to-center separation of two linked nodes.
func (p Params) RestLength() float64 {
	return p.LinkLength + 2*p.FilamentRadius
}

// Validate checks the invariants New relies on.
func (p Params) Validate() error {
	if !(p.Radius > 0) || !(p.Length > 0) {
		return &ParamError{Name: "radius/length", Value: [2]float64{p.Radius, p.Length}, Wrapped: ErrGeometry}
	}
	for _, pr := range []struct {
		name string
		v    float64
	}{
		{"link_form_prob", p.LinkFormProb},
		{"link_break_prob", p.LinkBreakProb},
		{"birth_prob", p.BirthProb},
		{"energy_sample_prob", p.EnergySampleProb},
	} {
		if !(pr.v >= 0 && pr.v <= 1) {
			return &ParamError{Name: pr.name, Value: pr.v, Wrapped: ErrProbability}
		}
	}
	if p.MaxLinks < 0 {
		return &ParamError{Name: "max_links", Value: p.MaxLinks, Wrapped: ErrCapacity}
	}
	if p.MaxNodes < 1 {
		return &ParamError{Name: "max_nodes", Value: p.MaxNodes, Wrapped: ErrCapacity}
	}
	if p.MaxFilaments < 0 {
		return &ParamError{Name: "max_filaments", Value: p.MaxFilaments, Wrapped: ErrCapacity}
	}
	if minAxis(p.LinkStep) < p.LinkInteraction || !(minAxis(p.LinkStep) > 0) {
		return &ParamError{Name: "link_step", Value: p.LinkStep, Wrapped: ErrGridTooFine}
	}
	if minAxis(p.CollideStep) < 2*p.FilamentRadius || !(minAxis(p.CollideStep) > 0) {
		return &ParamError{Name: "collide_step", Value: p.CollideStep, Wrapped: ErrGridTooFine}
	}
	return nil
}

func minAxis(v r3.Vec) float64 {
	return math.Min(v.X, math.Min(v.Y, v.Z))
}
