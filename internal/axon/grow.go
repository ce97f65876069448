package axon

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/filament"
)

// seedStub is the length of the segment checked when guarding a new seed.
const seedStub = 0.01

// NewFilament seeds a filament at the base with probability BirthProb.
// The seed is uniform over the disk of radius SeedRadius less the wall
// margin. It reports whether a filament was added.
func (a *Axon) NewFilament() bool {
	if !a.rng.Bernoulli(a.p.BirthProb) {
		return false
	}
	id := a.nextID
	a.nextID++
	x, y := a.rng.Disk()
	r := a.p.SeedRadius - a.p.LinkInteraction
	seed := r3.Vec{X: r * x, Y: r * y}
	if a.p.SeedGuard && a.CheckCollisions(seed, r3.Add(seed, r3.Vec{Z: seedStub}), id) {
		a.stats.SeedCollisions++
		return false
	}
	_, ok := a.add(id, seed)
	return ok
}

// AddFilament seeds a filament at an explicit point. It returns false when
// the axon already holds MaxFilaments filaments.
func (a *Axon) AddFilament(seed r3.Vec) (*filament.Filament, bool) {
	id := a.nextID
	a.nextID++
	return a.add(id, seed)
}

func (a *Axon) add(id int, seed r3.Vec) (*filament.Filament, bool) {
	if len(a.filaments) >= a.p.MaxFilaments {
		return nil, false
	}
	f := filament.New(id, len(a.filaments), seed, a.p.MaxNodes)
	a.filaments = append(a.filaments, f)
	a.totalNodes++
	// Seeds are anchors: they collide but never link, so they stay out of
	// the link grid.
	if !a.collide.Insert(f.Ref(0), seed) {
		a.log.Debug("collide grid insert dropped", "filament", f.Slot, "index", 0)
	}
	a.stats.Births++
	return f, true
}

// GrowFilaments makes one growth attempt per filament. Filaments are
// picked uniformly with replacement, so some may grow twice in a round
// and others not at all.
func (a *Axon) GrowFilaments() {
	n := len(a.filaments)
	for range n {
		f := a.filaments[a.rng.Intn(n)]
		a.Grow(f.Slot, a.p.Growth.Propose(f, a.rng))
	}
}

// Grow tries to extend the filament in slot by delta from its tip. The
// new tip must lie in the cylinder and both grids, and its segment must
// not collide with another filament when collisions are on.
func (a *Axon) Grow(slot int, delta r3.Vec) bool {
	f := a.filaments[slot]
	a.stats.GrowthAttempts++
	if f.Full() {
		return false
	}
	tip := f.Tip()
	next := r3.Add(tip, delta)
	if a.p.Collisions && a.CheckCollisions(tip, next, f.ID) {
		a.stats.GrowthCollisions++
		return false
	}
	if !a.InCylinder(next) || !a.links.Covers(next) || !a.collide.Covers(next) {
		a.stats.GrowthOutOfBounds++
		return false
	}
	f.Append(next)
	r := f.Ref(f.Len() - 1)
	a.totalNodes++
	a.index(r)
	a.stats.GrowthAccepted++
	if a.p.FormLinks {
		a.SeekLinks(r)
	}
	return true
}
