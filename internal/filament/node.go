package filament

import "gonum.org/v1/gonum/spatial/r3"

// Ref is a stable handle to a node: the filament's slot in its axon and
// the node's index along the filament. Refs are plain values; holding
// one never keeps a node alive.
type Ref struct {
	Filament int
	Index    int
}

// Less orders refs by filament slot, then index.
func (r Ref) Less(o Ref) bool {
	if r.Filament != o.Filament {
		return r.Filament < o.Filament
	}
	return r.Index < o.Index
}

// Node is one discretized position along a filament plus its
// cross-filament links.
type Node struct {
	Point r3.Vec
	links []Ref
}

func (n *Node) NumLinks() int { return len(n.links) }

// Links returns the node's link list. The slice must not be modified.
func (n *Node) Links() []Ref { return n.links }

// Free reports whether the node has no links and may be displaced to
// satisfy a new link.
func (n *Node) Free() bool { return len(n.links) == 0 }

func (n *Node) HasLink(r Ref) bool {
	for _, l := range n.links {
		if l == r {
			return true
		}
	}
	return false
}

// AddLink records a link to r unless the node already holds max links
// or is already linked to r.
func (n *Node) AddLink(r Ref, max int) bool {
	if len(n.links) >= max || n.HasLink(r) {
		return false
	}
	n.links = append(n.links, r)
	return true
}

// RemoveLink drops the link to r, keeping the order of the others.
func (n *Node) RemoveLink(r Ref) bool {
	for i, l := range n.links {
		if l == r {
			n.links = append(n.links[:i], n.links[i+1:]...)
			return true
		}
	}
	return false
}
