// Package energy holds the Hamiltonians used to weigh filament
// fluctuations.
package energy

import "gonum.org/v1/gonum/spatial/r3"

// Hamiltonian scores a short run of consecutive chain points.
type Hamiltonian interface {
	Energy(chain []r3.Vec) float64
}

// Func adapts a plain function to Hamiltonian.
type Func func(chain []r3.Vec) float64

func (f Func) Energy(chain []r3.Vec) float64 { return f(chain) }

// Curvature is the discrete bending energy
//
//	Lp * sum_i (1 - t_i.t_{i+1}) / b_i
//
// over consecutive unit tangents t_i with segment lengths b_i. Chains of
// two points or fewer carry no energy.
type Curvature struct {
	PersistenceLength float64
}

func NewCurvature(lp float64) *Curvature {
	return &Curvature{PersistenceLength: lp}
}

func (c *Curvature) Energy(chain []r3.Vec) float64 {
	if len(chain) <= 2 {
		return 0
	}

	t1 := r3.Sub(chain[1], chain[0])
	b1 := r3.Norm(t1)
	t1 = r3.Scale(1/b1, t1)

	h := 0.0
	for i := 2; i < len(chain); i++ {
		t2 := r3.Sub(chain[i], chain[i-1])
		b2 := r3.Norm(t2)
		t2 = r3.Scale(1/b2, t2)

		h += (1 - r3.Dot(t1, t2)) / b1
		t1, b1 = t2, b2
	}
	return h * c.PersistenceLength
}
