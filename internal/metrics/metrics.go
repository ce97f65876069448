// Package metrics summarizes axon runs: scalar metrics accumulated by the
// run driver and Prometheus instruments for watching a run live.
package metrics

import (
	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/energy"
)

// LinkDensity is the mean number of links per node over the observed
// steps.
type LinkDensity struct {
	name    string
	sum     float64
	samples int
}

func NewLinkDensity() *LinkDensity {
	return &LinkDensity{name: "link_density"}
}

func (l *LinkDensity) Name() string { return l.name }

func (l *LinkDensity) Observe(step int, a *axon.Axon) {
	if n := a.TotalNodes(); n > 0 {
		l.sum += float64(a.CountLinks()) / float64(n)
	}
	l.samples++
}

func (l *LinkDensity) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.sum / float64(l.samples)
}

func (l *LinkDensity) Reset() {
	l.sum = 0
	l.samples = 0
}

// Acceptance is the axon's fluctuation acceptance rate at the latest
// step.
type Acceptance struct {
	name string
	rate float64
}

func NewAcceptance() *Acceptance {
	return &Acceptance{name: "acceptance"}
}

func (m *Acceptance) Name() string { return m.name }

func (m *Acceptance) Observe(step int, a *axon.Axon) {
	m.rate = a.Stats().AcceptanceRate()
}

func (m *Acceptance) Value() float64 { return m.rate }
func (m *Acceptance) Reset()         { m.rate = 0 }

// MeanLength is the mean filament contour length at the latest step.
type MeanLength struct {
	name  string
	value float64
}

func NewMeanLength() *MeanLength {
	return &MeanLength{name: "mean_length"}
}

func (m *MeanLength) Name() string { return m.name }

func (m *MeanLength) Observe(step int, a *axon.Axon) {
	fs := a.Filaments()
	if len(fs) == 0 {
		m.value = 0
		return
	}
	total := 0.0
	for _, f := range fs {
		total += f.Contour()
	}
	m.value = total / float64(len(fs))
}

func (m *MeanLength) Value() float64 { return m.value }
func (m *MeanLength) Reset()         { m.value = 0 }

// Bending is the time-averaged total bending energy of all filaments.
type Bending struct {
	name    string
	ham     energy.Hamiltonian
	sum     float64
	samples int
}

func NewBending(h energy.Hamiltonian) *Bending {
	return &Bending{name: "bending_energy", ham: h}
}

func (b *Bending) Name() string { return b.name }

func (b *Bending) Observe(step int, a *axon.Axon) {
	e := 0.0
	for _, f := range a.Filaments() {
		e += b.ham.Energy(f.Points())
	}
	b.sum += e
	b.samples++
}

func (b *Bending) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *Bending) Reset() {
	b.sum = 0
	b.samples = 0
}
