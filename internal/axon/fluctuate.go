package axon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/filament"
	"github.com/san-kum/axonsim/internal/geom"
)

// Outcome is the result of one fluctuation attempt.
type Outcome int

const (
	// NoFrame means the node has too few neighbors to define a local frame.
	NoFrame Outcome = iota
	Collided
	OutOfBounds
	Accepted
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case NoFrame:
		return "no-frame"
	case Collided:
		return "collided"
	case OutOfBounds:
		return "out-of-bounds"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// FluctuateFilaments makes TotalNodes fluctuation attempts, each on a node
// picked by drawing a filament and then an index along it. Seeds never
// move, and linked nodes move only when BundleFluct is on.
func (a *Axon) FluctuateFilaments() {
	nf := len(a.filaments)
	if nf == 0 {
		return
	}
	for range a.totalNodes {
		f := a.filaments[a.rng.Intn(nf)]
		i := a.rng.Intn(f.Len())
		if i == 0 {
			continue
		}
		r := f.Ref(i)
		if a.p.BundleFluct || f.Node(i).Free() {
			a.Fluctuate(r)
			if a.p.FormLinks {
				a.SeekLinks(r)
			}
		}
	}
}

// Fluctuate proposes a small displacement of r, perpendicular to the
// filament, and applies it rigidly to r's whole bundle under the
// Metropolis rule.
func (a *Axon) Fluctuate(r filament.Ref) Outcome {
	fr, ok := a.frame(r)
	if !ok {
		return NoFrame
	}
	a.stats.FluctAttempts++
	x, y := a.rng.Gauss2(a.p.SigmaProposal)
	disp := fr.ToGlobal(r3.Vec{X: x, Y: y})

	bundle := a.Bundle(r)
	moved := make([]r3.Vec, len(bundle))
	for k, m := range bundle {
		f := a.filaments[m.Filament]
		np := r3.Add(f.Point(m.Index), disp)
		if a.p.Collisions && a.neighborsCollide(f, m.Index, np) {
			a.stats.FluctCollisions++
			return Collided
		}
		if !a.InCylinder(np) {
			a.stats.FluctOutOfBounds++
			return OutOfBounds
		}
		moved[k] = np
	}

	var before, after float64
	for k, m := range bundle {
		f := a.filaments[m.Filament]
		before += a.ham.Energy(f.Window(m.Index, f.Point(m.Index)))
		after += a.ham.Energy(f.Window(m.Index, moved[k]))
	}

	out := Rejected
	e := before
	if a.rng.Uniform() < math.Min(1, math.Exp(-(after-before))) {
		for k, m := range bundle {
			a.move(m, moved[k])
		}
		out = Accepted
		e = after
		a.stats.FluctAccepted++
	} else {
		a.stats.FluctRejected++
	}
	if a.p.EnergySampleProb > 0 && a.rng.Bernoulli(a.p.EnergySampleProb) {
		a.energies = append(a.energies, e)
	}
	return out
}

// neighborsCollide checks the segments from node i's chain neighbors to np.
func (a *Axon) neighborsCollide(f *filament.Filament, i int, np r3.Vec) bool {
	if up, ok := f.Up(i); ok && a.CheckCollisions(f.Point(up), np, f.ID) {
		return true
	}
	if down, ok := f.Down(i); ok && a.CheckCollisions(f.Point(down), np, f.ID) {
		return true
	}
	return false
}

// frame returns the local frame whose third axis follows the filament at
// r. An interior node uses the chord from its down to its up neighbor; a
// tip uses its last segment. Straight chains fall back to an arbitrary
// frame around that axis.
func (a *Axon) frame(r filament.Ref) (geom.Frame, bool) {
	f := a.filaments[r.Filament]
	i := r.Index
	down, hasDown := f.Down(i)
	if !hasDown {
		return geom.Frame{}, false
	}
	node := f.Point(i)
	var axis, q1, q2 r3.Vec
	if up, ok := f.Up(i); ok {
		axis = r3.Sub(f.Point(up), f.Point(down))
		q1 = r3.Cross(axis, r3.Sub(node, f.Point(up)))
		q2 = r3.Cross(axis, q1)
	} else {
		dd, ok := f.Down(down)
		if !ok {
			return geom.Frame{}, false
		}
		axis = r3.Sub(node, f.Point(down))
		q1 = r3.Cross(r3.Sub(f.Point(down), f.Point(dd)), axis)
		// The tip's second axis is q1×axis, mirrored from the interior one.
		q2 = r3.Cross(q1, axis)
	}
	if r3.Norm(axis) == 0 {
		return geom.Frame{}, false
	}
	if r3.Norm(q1) < 1e-12*r3.Norm(axis) {
		return geom.Around(axis), true
	}
	return geom.NewFrame(q1, q2, axis), true
}

// EnergySamples returns the energies kept by fluctuation sampling.
func (a *Axon) EnergySamples() []float64 {
	return append([]float64(nil), a.energies...)
}
