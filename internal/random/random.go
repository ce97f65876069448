// Package random threads a single stream of uniform draws through every
// stochastic decision of a simulation.
//
// Every distribution is derived from [Source.Float64] so that the draw
// order, and with it the whole trajectory, is fixed by the seed.
package random

import (
	"math"
	"math/rand/v2"
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a seeded PCG source.
func New(seed int64) Source {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Sampler derives distributions from a Source.
type Sampler struct {
	src Source
}

func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Uniform returns a draw in [0, 1).
func (s *Sampler) Uniform() float64 {
	return s.src.Float64()
}

// Intn returns floor(n*u), a uniform index in [0, n).
func (s *Sampler) Intn(n int) int {
	i := int(math.Floor(float64(n) * s.src.Float64()))
	if i >= n {
		i = n - 1
	}
	return i
}

// Bernoulli reports success with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	return s.src.Float64() < p
}

// Gauss2 returns two independent N(0, sigma) draws using the Marsaglia
// polar method.
func (s *Sampler) Gauss2(sigma float64) (float64, float64) {
	for {
		x := 2*s.src.Float64() - 1
		y := 2*s.src.Float64() - 1
		r2 := x*x + y*y
		if r2 > 1 || r2 == 0 {
			continue
		}
		f := sigma * math.Sqrt(-2*math.Log(r2)/r2)
		return f * x, f * y
	}
}

// Gauss returns one N(0, sigma) draw. The second polar variate is
// discarded.
func (s *Sampler) Gauss(sigma float64) float64 {
	x, _ := s.Gauss2(sigma)
	return x
}

// Disk returns a uniform point of the unit disk.
func (s *Sampler) Disk() (float64, float64) {
	x := s.Gauss(1)
	y := s.Gauss(1)
	n := math.Sqrt(x*x + y*y)
	r := math.Sqrt(s.src.Float64())
	return x * r / n, y * r / n
}
