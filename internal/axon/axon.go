// Package axon grows, links and thermally fluctuates a population of
// microtubule filaments confined to a cylinder.
//
// An Axon owns its filaments and two uniform grids over the cylinder's
// bounding box: a fine link grid used to find linking partners and a
// coarser collision grid used for excluded-volume checks. Every node is
// addressed by a filament.Ref and every random decision draws from one
// injected random.Source, so a seed fixes the trajectory.
//
// An Axon is not safe for concurrent use.
package axon

import (
	"context"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/energy"
	"github.com/san-kum/axonsim/internal/filament"
	"github.com/san-kum/axonsim/internal/grid"
	"github.com/san-kum/axonsim/internal/logging"
	"github.com/san-kum/axonsim/internal/random"
)

type Axon struct {
	p Params

	filaments []*filament.Filament
	links     *grid.Grid[filament.Ref]
	collide   *grid.Grid[filament.Ref]

	rng *random.Sampler
	ham energy.Hamiltonian
	log *slog.Logger

	nextID     int
	totalNodes int
	stats      Stats
	energies   []float64
}

// Option configures an Axon.
type Option func(*Axon)

// WithHamiltonian replaces the default curvature energy.
func WithHamiltonian(h energy.Hamiltonian) Option {
	return func(a *Axon) { a.ham = h }
}

// WithLogger sets the logger for dropped inserts and refused links.
func WithLogger(l *slog.Logger) Option {
	return func(a *Axon) { a.log = logging.OrDiscard(l) }
}

// New builds an empty axon. src supplies every random draw.
func New(p Params, src random.Source, opts ...Option) (*Axon, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.SeedRadius <= 0 {
		p.SeedRadius = p.Radius
	}
	b := grid.Bounds{
		Min: r3.Vec{X: -p.Radius, Y: -p.Radius, Z: 0},
		Max: r3.Vec{X: p.Radius, Y: p.Radius, Z: p.Length},
	}
	a := &Axon{
		p:       p,
		links:   grid.New[filament.Ref](b, p.LinkStep),
		collide: grid.New[filament.Ref](b, p.CollideStep),
		rng:     random.NewSampler(src),
		ham:     energy.NewCurvature(p.PersistenceLength),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Axon) Params() Params { return a.p }

func (a *Axon) NumFilaments() int { return len(a.filaments) }

// TotalNodes counts nodes over all filaments, seeds included.
func (a *Axon) TotalNodes() int { return a.totalNodes }

// Filament returns the filament in the given slot.
func (a *Axon) Filament(slot int) *filament.Filament { return a.filaments[slot] }

// Filaments returns the filaments in slot order. The slice must not be
// modified.
func (a *Axon) Filaments() []*filament.Filament { return a.filaments }

func (a *Axon) Node(r filament.Ref) *filament.Node {
	return a.filaments[r.Filament].Node(r.Index)
}

func (a *Axon) Point(r filament.Ref) r3.Vec {
	return a.filaments[r.Filament].Point(r.Index)
}

// LinkGrid and CollideGrid expose the spatial indexes for inspection.
func (a *Axon) LinkGrid() *grid.Grid[filament.Ref]    { return a.links }
func (a *Axon) CollideGrid() *grid.Grid[filament.Ref] { return a.collide }

// InCylinder reports whether p may hold a node. Only points at a height
// within [0, Length] and closer to the wall than the interaction margin
// are excluded; heights outside that range are left to the grid bounds.
func (a *Axon) InCylinder(p r3.Vec) bool {
	r := a.p.Radius - a.p.LinkInteraction
	if p.X*p.X+p.Y*p.Y > r*r && p.Z >= 0 && p.Z <= a.p.Length {
		return false
	}
	return true
}

// AtWall reports whether p lies in the margin band just inside the wall.
func (a *Axon) AtWall(p r3.Vec) bool {
	d := math.Hypot(p.X, p.Y)
	return d > a.p.Radius-a.p.LinkInteraction && d < a.p.Radius
}

// Step advances the axon by one update: birth, growth, fluctuation and
// link breaking, in that order.
func (a *Axon) Step() {
	a.NewFilament()
	a.GrowFilaments()
	if a.p.Fluctuations {
		a.FluctuateFilaments()
	}
	if a.p.BreakLinks {
		a.BreakLinks()
	}
	a.stats.Steps++
}

// index adds r to both grids.
func (a *Axon) index(r filament.Ref) {
	p := a.Point(r)
	if !a.links.Insert(r, p) {
		a.log.Debug("link grid insert dropped", "filament", r.Filament, "index", r.Index)
	}
	if !a.collide.Insert(r, p) {
		a.log.Debug("collide grid insert dropped", "filament", r.Filament, "index", r.Index)
	}
}

// move displaces r to p and reindexes it. It is refused, leaving the node
// where it was, when p is outside either grid or outside the cylinder.
func (a *Axon) move(r filament.Ref, p r3.Vec) bool {
	if !a.links.Covers(p) || !a.collide.Covers(p) || !a.InCylinder(p) {
		return false
	}
	n := a.Node(r)
	old := n.Point
	n.Point = p
	if oc := a.links.CellOf(old); oc != a.links.CellOf(p) {
		a.links.Relocate(r, oc, p)
	}
	if oc := a.collide.CellOf(old); oc != a.collide.CellOf(p) {
		a.collide.Relocate(r, oc, p)
	}
	return true
}

func (a *Axon) trace(msg string, r filament.Ref, args ...any) {
	if !a.log.Enabled(context.Background(), logging.LevelTrace) {
		return
	}
	args = append([]any{"filament", r.Filament, "index", r.Index}, args...)
	a.log.Log(context.Background(), logging.LevelTrace, msg, args...)
}
