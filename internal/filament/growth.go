package filament

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/geom"
	"github.com/san-kum/axonsim/internal/random"
)

// Grower proposes tip extensions biased toward the previous growth
// direction. StdAngle sets the spread of the polar deviation and with it
// the filament stiffness.
type Grower struct {
	MeanLength float64
	StdLength  float64
	StdAngle   float64
}

// Propose draws the displacement of the next tip. The step is generated
// in a frame where straight ahead is +z and rotated onto the direction
// of the last segment. A filament holding only its seed grows in the
// canonical frame.
//
// Draw order: step length, azimuth, polar angle, then three draws for the
// auxiliary vector of the rotation.
func (g Grower) Propose(f *Filament, s *random.Sampler) r3.Vec {
	r := math.Max(0, g.MeanLength+s.Gauss(g.StdLength))
	phi := 2 * math.Pi * s.Uniform()
	theta := s.Gauss(g.StdAngle)

	step := r3.Vec{
		X: r * math.Sin(theta) * math.Sin(phi),
		Y: r * math.Sin(theta) * math.Cos(phi),
		Z: r * math.Cos(theta),
	}
	if f.Len() < 2 {
		return step
	}

	n := f.Len()
	prev := r3.Sub(f.nodes[n-1].Point, f.nodes[n-2].Point)
	aux := r3.Vec{X: s.Uniform(), Y: s.Uniform(), Z: s.Uniform()}
	return geom.Along(prev, aux).ToGlobal(step)
}
