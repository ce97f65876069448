package sim

import (
	"fmt"

	"github.com/san-kum/axonsim/internal/axon"
)

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(step int, a *axon.Axon)
	Value() float64
	Reset()
}

// Observer is notified after every step. A returned error stops the run.
type Observer interface {
	OnStep(step int, a *axon.Axon) error
}

type Config struct {
	Steps int
	// ReportEvery is the sampling interval of the trace; 0 keeps only the
	// final sample.
	ReportEvery int
}

// Sample is one row of a run trace.
type Sample struct {
	Step       int
	Filaments  int
	Nodes      int
	Links      int
	Acceptance float64
}

// SampleOf summarizes a after the given step.
func SampleOf(step int, a *axon.Axon) Sample {
	return Sample{
		Step:       step,
		Filaments:  a.NumFilaments(),
		Nodes:      a.TotalNodes(),
		Links:      a.CountLinks(),
		Acceptance: a.Stats().AcceptanceRate(),
	}
}

type Result struct {
	StepsTaken int
	Samples    []Sample
	Metrics    map[string]float64
	Stats      axon.Stats
}

// StepError reports an observer failure and the step it happened on.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
