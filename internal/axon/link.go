package axon

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/filament"
	"github.com/san-kum/axonsim/internal/geom"
	"github.com/san-kum/axonsim/internal/grid"
)

// SeekLinks tries to link r to nodes of other filaments in the link-grid
// neighborhood of its cell. Within one cell scanning stops at the first
// link formed; every neighboring cell gets its own chance.
func (a *Axon) SeekLinks(r filament.Ref) {
	a.links.Block(a.links.CellOf(a.Point(r)), func(c grid.Cell) bool {
		for _, cand := range a.links.Bucket(c) {
			// A successful link may move nodes between buckets, so the
			// scan of this bucket must not continue past it.
			if a.link(cand, r) {
				break
			}
		}
		return true
	})
}

// SeekAllLinks runs SeekLinks for every node of every filament except the
// seeds.
func (a *Axon) SeekAllLinks() {
	for _, f := range a.filaments {
		for i := 1; i < f.Len(); i++ {
			a.SeekLinks(f.Ref(i))
		}
	}
}

// Link attempts the link between cand and r under the same rules
// SeekLinks applies, including the LinkFormProb draw. Seeds never link.
func (a *Axon) Link(cand, r filament.Ref) bool {
	return a.link(cand, r)
}

func (a *Axon) link(cand, r filament.Ref) bool {
	if cand == r || cand.Index == 0 || r.Index == 0 {
		return false
	}
	fc, fr := a.filaments[cand.Filament], a.filaments[r.Filament]
	if fc.ID == fr.ID {
		return false
	}
	pc, pr := fc.Point(cand.Index), fr.Point(r.Index)
	dist := geom.Distance(pc, pr)
	if dist > a.p.LinkInteraction {
		return false
	}
	if !a.rng.Bernoulli(a.p.LinkFormProb) {
		return false
	}
	nc, nr := fc.Node(cand.Index), fr.Node(r.Index)
	if nc.NumLinks() >= a.p.MaxLinks || nr.NumLinks() >= a.p.MaxLinks || nc.HasLink(r) {
		return false
	}
	if dist == 0 {
		a.stats.LinksRefused++
		a.trace("link refused: coincident nodes", r, "with", cand)
		return false
	}

	// Pull or push the pair along their axis toward rest separation.
	delta := r3.Unit(r3.Sub(pc, pr))
	shift := 0.5 * (a.p.RestLength() - dist)
	switch {
	case nc.Free() && nr.Free():
		a.move(cand, r3.Add(pc, r3.Scale(shift, delta)))
		a.move(r, r3.Sub(pr, r3.Scale(shift, delta)))
	case nr.Free():
		a.move(r, r3.Sub(pr, r3.Scale(2*shift, delta)))
	case nc.Free():
		a.move(cand, r3.Add(pc, r3.Scale(2*shift, delta)))
	default:
		a.stats.LinksRefused++
		a.trace("link refused: both pinned", r, "with", cand)
		return false
	}
	nc.AddLink(r, a.p.MaxLinks)
	nr.AddLink(cand, a.p.MaxLinks)
	a.stats.LinksFormed++
	return true
}

// BreakLinks gives every link end an independent chance LinkBreakProb of
// dissociating. A link is visited from both of its nodes, so its overall
// break chance per round is 1-(1-p)^2.
func (a *Axon) BreakLinks() {
	for _, f := range a.filaments {
		for i := 0; i < f.Len(); i++ {
			self := f.Ref(i)
			n := f.Node(i)
			for k := 0; k < n.NumLinks(); k++ {
				if !a.rng.Bernoulli(a.p.LinkBreakProb) {
					continue
				}
				other := n.Links()[k]
				a.Node(other).RemoveLink(self)
				n.RemoveLink(other)
				a.stats.LinksBroken++
			}
		}
	}
}

// CountLinks returns the number of links, counting each pair once.
func (a *Axon) CountLinks() int {
	ends := 0
	for _, f := range a.filaments {
		for i := 0; i < f.Len(); i++ {
			ends += f.Node(i).NumLinks()
		}
	}
	return ends / 2
}
