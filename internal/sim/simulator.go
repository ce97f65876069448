package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/logging"
)

// Runner steps one axon and feeds its metrics and observers.
type Runner struct {
	axon      *axon.Axon
	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

func New(a *axon.Axon, log *slog.Logger) *Runner {
	return &Runner{
		axon:      a,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.OrDiscard(log),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Axon() *axon.Axon { return r.axon }

// Run advances the axon cfg.Steps times. On cancellation it returns the
// partial result along with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.ReportEvery < 0 {
		return nil, fmt.Errorf("report interval must not be negative, got %d", cfg.ReportEvery)
	}

	result := &Result{
		Samples: make([]Sample, 0),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	finish := func() {
		last := result.StepsTaken
		if n := len(result.Samples); n == 0 || result.Samples[n-1].Step != last {
			result.Samples = append(result.Samples, SampleOf(last, r.axon))
		}
		for _, m := range r.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
		result.Stats = r.axon.Stats()
	}

	for step := 1; step <= cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			finish()
			return result, ctx.Err()
		default:
		}

		r.axon.Step()
		result.StepsTaken++

		for _, m := range r.metrics {
			m.Observe(step, r.axon)
		}
		for _, obs := range r.observers {
			if err := obs.OnStep(step, r.axon); err != nil {
				finish()
				return result, &StepError{Step: step, Wrapped: err}
			}
		}

		if cfg.ReportEvery > 0 && step%cfg.ReportEvery == 0 {
			s := SampleOf(step, r.axon)
			result.Samples = append(result.Samples, s)
			r.log.Debug("step", "step", step, "filaments", s.Filaments, "nodes", s.Nodes, "links", s.Links)
		}
	}

	finish()
	last := result.Samples[len(result.Samples)-1]
	r.log.Info("run complete", "steps", result.StepsTaken, "filaments", last.Filaments,
		"links", last.Links, "acceptance", last.Acceptance)
	return result, nil
}

// RunWithCallback steps the axon until callback returns false, steps is
// reached (when positive) or ctx is done.
func (r *Runner) RunWithCallback(ctx context.Context, steps int, callback func(step int, a *axon.Axon) bool) error {
	for step := 1; steps <= 0 || step <= steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.axon.Step()
		for _, m := range r.metrics {
			m.Observe(step, r.axon)
		}
		if !callback(step, r.axon) {
			return nil
		}
	}
	return nil
}
