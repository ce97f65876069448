package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parallelTol bounds | |a.b| - |a||b| | below which two segments are
// treated as parallel.
const parallelTol = 1e-9

// SegmentsCollide reports whether the capsules of radius r around
// segments [s,e] and [p,q] overlap, i.e. whether their closest distance
// is below 2r. Parallel and zero-length segments never collide.
func SegmentsCollide(s, e, p, q r3.Vec, r float64) bool {
	d, ok := SegmentDistance(s, e, p, q)
	return ok && d < 2*r
}

// SegmentDistance returns the minimum distance between segments [s,e]
// and [p,q] using the clamped parametric closest-point method. ok is
// false for parallel or degenerate input.
func SegmentDistance(s, e, p, q r3.Vec) (float64, bool) {
	es := r3.Sub(e, s)
	qp := r3.Sub(q, p)
	sp := r3.Sub(s, p)

	esqp := r3.Dot(es, qp)
	if math.Abs(math.Abs(esqp)-r3.Norm(es)*r3.Norm(qp)) < parallelTol {
		return 0, false
	}

	eses := r3.Dot(es, es)
	numv := r3.Dot(es, sp)*esqp - r3.Dot(sp, qp)*eses
	denomv := esqp*esqp - r3.Dot(qp, qp)*eses
	v := Clamp(numv/denomv, 0, 1)

	u := Clamp((v*esqp-r3.Dot(es, sp))/eses, 0, 1)

	diff := r3.Add(sp, r3.Sub(r3.Scale(u, es), r3.Scale(v, qp)))
	return r3.Norm(diff), true
}
