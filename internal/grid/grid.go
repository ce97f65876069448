// Package grid implements a uniform 3D bucket grid used to bound
// neighbor and collision searches.
//
// A grid covers a fixed box with a fixed per-axis cell size. Each cell
// holds an unordered bucket of item handles; the grid never owns the
// items it references. An item's bucket is a pure function of its
// coordinates, so callers must Relocate an item whenever it moves.
//
// Neighbor queries visit the 3x3x3 block around a cell, which caps the
// search radius at one cell width per axis. Cell sizes must therefore be
// at least the largest interaction radius served by the grid.
package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cell is an integer cell index.
type Cell struct {
	I, J, K int
}

// Bounds is the axis-aligned box covered by a grid.
type Bounds struct {
	Min, Max r3.Vec
}

// Grid maps points to buckets of T.
type Grid[T comparable] struct {
	bounds     Bounds
	step       r3.Vec
	ni, nj, nk int
	cells      [][]T
	count      int
}

// New allocates a grid over b with cell size step. The number of cells
// per axis is ceil((max-min)/step).
func New[T comparable](b Bounds, step r3.Vec) *Grid[T] {
	ni := int(math.Ceil((b.Max.X - b.Min.X) / step.X))
	nj := int(math.Ceil((b.Max.Y - b.Min.Y) / step.Y))
	nk := int(math.Ceil((b.Max.Z - b.Min.Z) / step.Z))
	if ni < 1 {
		ni = 1
	}
	if nj < 1 {
		nj = 1
	}
	if nk < 1 {
		nk = 1
	}

	return &Grid[T]{
		bounds: b,
		step:   step,
		ni:     ni,
		nj:     nj,
		nk:     nk,
		cells:  make([][]T, ni*nj*nk),
	}
}

// NewUniform is New with the same cell size on every axis.
func NewUniform[T comparable](b Bounds, step float64) *Grid[T] {
	return New[T](b, r3.Vec{X: step, Y: step, Z: step})
}

func (g *Grid[T]) Bounds() Bounds      { return g.bounds }
func (g *Grid[T]) Step() r3.Vec        { return g.step }
func (g *Grid[T]) Size() (i, j, k int) { return g.ni, g.nj, g.nk }

// Len returns the number of items stored across all buckets.
func (g *Grid[T]) Len() int { return g.count }

// CellOf returns the cell containing p. The result may be out of range.
func (g *Grid[T]) CellOf(p r3.Vec) Cell {
	return Cell{
		I: int(math.Floor((p.X - g.bounds.Min.X) / g.step.X)),
		J: int(math.Floor((p.Y - g.bounds.Min.Y) / g.step.Y)),
		K: int(math.Floor((p.Z - g.bounds.Min.Z) / g.step.Z)),
	}
}

// InRange reports whether c addresses an allocated cell.
func (g *Grid[T]) InRange(c Cell) bool {
	return c.I >= 0 && c.I < g.ni &&
		c.J >= 0 && c.J < g.nj &&
		c.K >= 0 && c.K < g.nk
}

// Covers reports whether p falls in an allocated cell.
func (g *Grid[T]) Covers(p r3.Vec) bool {
	return g.InRange(g.CellOf(p))
}

func (g *Grid[T]) index(c Cell) int {
	return (c.I*g.nj+c.J)*g.nk + c.K
}

// Bucket returns the items in c, or nil when c is out of range. The
// slice is owned by the grid and is invalidated by the next mutation.
func (g *Grid[T]) Bucket(c Cell) []T {
	if !g.InRange(c) {
		return nil
	}
	return g.cells[g.index(c)]
}

// Insert appends item to the bucket containing p. Points outside the
// grid are dropped and reported with false.
func (g *Grid[T]) Insert(item T, p r3.Vec) bool {
	c := g.CellOf(p)
	if !g.InRange(c) {
		return false
	}
	idx := g.index(c)
	g.cells[idx] = append(g.cells[idx], item)
	g.count++
	return true
}

// Remove deletes the first occurrence of item from the bucket at c,
// keeping the order of the remaining entries.
func (g *Grid[T]) Remove(item T, c Cell) bool {
	if !g.InRange(c) {
		return false
	}
	idx := g.index(c)
	bucket := g.cells[idx]
	for i, it := range bucket {
		if it == item {
			copy(bucket[i:], bucket[i+1:])
			var zero T
			bucket[len(bucket)-1] = zero
			g.cells[idx] = bucket[:len(bucket)-1]
			g.count--
			return true
		}
	}
	return false
}

// Relocate moves item from the bucket at old to the bucket containing
// p. It reports whether the item ended up indexed.
func (g *Grid[T]) Relocate(item T, old Cell, p r3.Vec) bool {
	g.Remove(item, old)
	return g.Insert(item, p)
}

// Block calls fn for every in-range cell of the 3x3x3 block centered on
// c, k varying fastest. It stops early when fn returns false and reports
// whether the walk completed.
func (g *Grid[T]) Block(c Cell, fn func(Cell) bool) bool {
	return g.Span(c, c, fn)
}

// Span calls fn for every in-range cell of the box spanning the blocks
// around a and b, i.e. [min(a,b)-1, max(a,b)+1] per axis.
func (g *Grid[T]) Span(a, b Cell, fn func(Cell) bool) bool {
	lo := Cell{min(a.I, b.I) - 1, min(a.J, b.J) - 1, min(a.K, b.K) - 1}
	hi := Cell{max(a.I, b.I) + 1, max(a.J, b.J) + 1, max(a.K, b.K) + 1}

	for i := lo.I; i <= hi.I; i++ {
		for j := lo.J; j <= hi.J; j++ {
			for k := lo.K; k <= hi.K; k++ {
				c := Cell{i, j, k}
				if !g.InRange(c) {
					continue
				}
				if !fn(c) {
					return false
				}
			}
		}
	}
	return true
}

// Each calls fn for every item in the 3x3x3 block around c.
func (g *Grid[T]) Each(c Cell, fn func(T) bool) bool {
	return g.Block(c, func(cell Cell) bool {
		for _, it := range g.cells[g.index(cell)] {
			if !fn(it) {
				return false
			}
		}
		return true
	})
}
