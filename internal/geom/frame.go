package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is an orthonormal basis. Q3 is the axis that the canonical +z
// direction maps onto.
type Frame struct {
	Q1, Q2, Q3 r3.Vec
}

// Canonical is the identity frame.
var Canonical = Frame{Q1: r3.Vec{X: 1}, Q2: r3.Vec{Y: 1}, Q3: r3.Vec{Z: 1}}

// NewFrame normalizes the three axes. The caller guarantees they are
// mutually orthogonal and non-zero.
func NewFrame(q1, q2, q3 r3.Vec) Frame {
	return Frame{Q1: r3.Unit(q1), Q2: r3.Unit(q2), Q3: r3.Unit(q3)}
}

// Along builds a frame whose third axis is dir. The first axis is
// aux×dir and the second (aux×dir)×dir, so aux must not be parallel to
// dir.
func Along(dir, aux r3.Vec) Frame {
	q3 := r3.Unit(dir)
	q1 := r3.Unit(r3.Cross(aux, q3))
	q2 := r3.Unit(r3.Cross(q1, q3))
	return Frame{Q1: q1, Q2: q2, Q3: q3}
}

// ToGlobal maps a vector expressed in the frame to canonical coordinates.
func (f Frame) ToGlobal(v r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(v.X, f.Q1), r3.Scale(v.Y, f.Q2)), r3.Scale(v.Z, f.Q3))
}

// ToLocal is the inverse of ToGlobal.
func (f Frame) ToLocal(v r3.Vec) r3.Vec {
	return r3.Vec{X: r3.Dot(f.Q1, v), Y: r3.Dot(f.Q2, v), Z: r3.Dot(f.Q3, v)}
}

// Valid reports whether all three axes are finite, which fails when the
// frame was built from degenerate (parallel or zero) vectors.
func (f Frame) Valid() bool {
	return IsFinite(f.Q1) && IsFinite(f.Q2) && IsFinite(f.Q3)
}

// Around builds a frame whose third axis is dir, using the canonical
// axis least aligned with dir as the auxiliary vector.
func Around(dir r3.Vec) Frame {
	ax, ay, az := math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)
	aux := r3.Vec{Z: 1}
	switch {
	case ax <= ay && ax <= az:
		aux = r3.Vec{X: 1}
	case ay <= az:
		aux = r3.Vec{Y: 1}
	}
	return Along(dir, aux)
}
