// Package filament models one polymer as an append-only chain of nodes.
//
// The chain is a doubly linked list by index: the up neighbor of node i
// is i+1 and the down neighbor is i-1, with no neighbor past either end.
// Index 0 is the seed node anchored at the axon base.
package filament

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Filament is an ordered, capacity-bounded sequence of nodes.
type Filament struct {
	ID   int
	Slot int

	nodes    []Node
	maxNodes int
}

// New seeds a filament with a single node at seed.
func New(id, slot int, seed r3.Vec, maxNodes int) *Filament {
	if maxNodes < 1 {
		maxNodes = 1
	}
	f := &Filament{
		ID:       id,
		Slot:     slot,
		nodes:    make([]Node, 0, min(maxNodes, 64)),
		maxNodes: maxNodes,
	}
	f.nodes = append(f.nodes, Node{Point: seed})
	return f
}

func (f *Filament) Len() int      { return len(f.nodes) }
func (f *Filament) Cap() int      { return f.maxNodes }
func (f *Filament) Full() bool    { return len(f.nodes) >= f.maxNodes }
func (f *Filament) Ref(i int) Ref { return Ref{Filament: f.Slot, Index: i} }

// Node returns the i-th node. The pointer is invalidated by Append.
func (f *Filament) Node(i int) *Node { return &f.nodes[i] }

func (f *Filament) Point(i int) r3.Vec { return f.nodes[i].Point }

func (f *Filament) Tip() r3.Vec { return f.nodes[len(f.nodes)-1].Point }

// Up returns the index of the node above i along the chain.
func (f *Filament) Up(i int) (int, bool) {
	if i+1 < len(f.nodes) {
		return i + 1, true
	}
	return -1, false
}

// Down returns the index of the node below i along the chain.
func (f *Filament) Down(i int) (int, bool) {
	if i > 0 {
		return i - 1, true
	}
	return -1, false
}

// Append adds a new tip at p. It is a no-op returning false once the
// filament holds its maximum number of nodes.
func (f *Filament) Append(p r3.Vec) bool {
	if f.Full() {
		return false
	}
	f.nodes = append(f.nodes, Node{Point: p})
	return true
}

// Points copies out the node positions in chain order.
func (f *Filament) Points() []r3.Vec {
	pts := make([]r3.Vec, len(f.nodes))
	for i := range f.nodes {
		pts[i] = f.nodes[i].Point
	}
	return pts
}

// Window returns the chain of up to five consecutive points centered on
// node i (two below, i itself at p, two above) that determines the
// bending energy around i.
func (f *Filament) Window(i int, p r3.Vec) []r3.Vec {
	w := make([]r3.Vec, 0, 5)
	for j := i - 2; j <= i+2; j++ {
		switch {
		case j < 0 || j >= len(f.nodes):
		case j == i:
			w = append(w, p)
		default:
			w = append(w, f.nodes[j].Point)
		}
	}
	return w
}

// Contour returns the summed segment length.
func (f *Filament) Contour() float64 {
	l := 0.0
	for i := 1; i < len(f.nodes); i++ {
		l += r3.Norm(r3.Sub(f.nodes[i].Point, f.nodes[i-1].Point))
	}
	return l
}

// Bracket returns the index of the node immediately below height z by
// binary search, assuming node heights increase along the chain.
//
// The filament must have at least two nodes with z strictly between the
// first and last heights; otherwise the result is not meaningful.
func (f *Filament) Bracket(z float64) int {
	start, end := 0, len(f.nodes)-1
	if start == end {
		return start
	}
	for start != end-1 {
		mid := (start + end) / 2
		if f.nodes[mid].Point.Z > z {
			end = mid
		} else {
			start = mid
		}
	}
	return start
}

// Crossing returns the point where the segment bracketing z meets the
// plane at height z, and that segment's direction. ok is false when the
// filament does not reach above z.
func (f *Filament) Crossing(z float64) (p, dir r3.Vec, ok bool) {
	below := f.Bracket(z)
	above := below + 1
	if above >= len(f.nodes) {
		return r3.Vec{}, r3.Vec{}, false
	}
	a, b := f.nodes[below].Point, f.nodes[above].Point
	if b.Z <= z || a.Z == b.Z {
		return r3.Vec{}, r3.Vec{}, false
	}
	d := r3.Sub(b, a)
	t := (z - a.Z) / d.Z
	return r3.Add(a, r3.Scale(t, d)), d, !math.IsNaN(t)
}
