package axon

import (
	"github.com/tidwall/btree"

	"github.com/san-kum/axonsim/internal/filament"
)

// Bundle returns r and every node reachable from it over links, ordered
// by Ref. The walk is breadth first.
func (a *Axon) Bundle(r filament.Ref) []filament.Ref {
	seen := btree.NewBTreeG(func(x, y filament.Ref) bool { return x.Less(y) })
	seen.Set(r)
	queue := []filament.Ref{r}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, l := range a.Node(cur).Links() {
			if _, ok := seen.Get(l); ok {
				continue
			}
			seen.Set(l)
			queue = append(queue, l)
		}
	}
	out := make([]filament.Ref, 0, seen.Len())
	seen.Scan(func(x filament.Ref) bool {
		out = append(out, x)
		return true
	})
	return out
}
