package axon

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/filament"
	"github.com/san-kum/axonsim/internal/geom"
	"github.com/san-kum/axonsim/internal/grid"
)

// CheckCollisions reports whether segment p-q passes within two filament
// radii of any segment of another filament. id is the filament the
// segment belongs to; its own segments are ignored.
func (a *Axon) CheckCollisions(p, q r3.Vec, id int) bool {
	hit := false
	a.collide.Span(a.collide.CellOf(p), a.collide.CellOf(q), func(c grid.Cell) bool {
		for _, r := range a.collide.Bucket(c) {
			if a.segmentsHit(r, p, q, id) {
				hit = true
				return false
			}
		}
		return true
	})
	return hit
}

func (a *Axon) segmentsHit(r filament.Ref, p, q r3.Vec, id int) bool {
	f := a.filaments[r.Filament]
	if f.ID == id {
		return false
	}
	pt := f.Point(r.Index)
	rad := a.p.FilamentRadius
	if up, ok := f.Up(r.Index); ok && geom.SegmentsCollide(p, q, f.Point(up), pt, rad) {
		return true
	}
	if down, ok := f.Down(r.Index); ok && geom.SegmentsCollide(p, q, f.Point(down), pt, rad) {
		return true
	}
	return false
}
