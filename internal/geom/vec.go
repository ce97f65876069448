package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Zero is the origin.
var Zero = r3.Vec{}

// ZAxis is the canonical "straight ahead" direction for filament growth.
var ZAxis = r3.Vec{Z: 1}

// Distance returns |a-b|.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Radial returns the distance of p from the z axis.
func Radial(p r3.Vec) float64 {
	return math.Hypot(p.X, p.Y)
}

// Midpoint returns (a+b)/2.
func Midpoint(a, b r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(a, b))
}

// Lerp returns a + t(b-a).
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// AngleDeg returns the angle between a and b in degrees.
func AngleDeg(a, b r3.Vec) float64 {
	c := r3.Dot(r3.Unit(a), r3.Unit(b))
	return 180 * math.Acos(Clamp(c, -1, 1)) / math.Pi
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether every component of v is a real number.
func IsFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
