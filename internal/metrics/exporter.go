package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/axonsim/internal/axon"
)

// Exporter mirrors an axon's counters into Prometheus instruments. It is
// a run observer: the run goroutine updates it and scrapes read it
// concurrently.
type Exporter struct {
	steps      prometheus.Counter
	moves      *prometheus.CounterVec
	linkEvents *prometheus.CounterVec
	population *prometheus.GaugeVec
	acceptance prometheus.Gauge
	stepTime   prometheus.Histogram

	last     axon.Stats
	lastStep time.Time
	now      func() time.Time
}

// NewExporter registers the axon instruments with reg.
func NewExporter(reg prometheus.Registerer) *Exporter {
	f := promauto.With(reg)
	return &Exporter{
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "axonsim_steps_total",
			Help: "Simulation steps completed",
		}),
		moves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "axonsim_moves_total",
			Help: "Growth and fluctuation attempts by outcome",
		}, []string{"kind", "outcome"}),
		linkEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "axonsim_link_events_total",
			Help: "Links formed, refused and broken",
		}, []string{"event"}),
		population: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "axonsim_population",
			Help: "Current number of filaments, nodes and links",
		}, []string{"quantity"}),
		acceptance: f.NewGauge(prometheus.GaugeOpts{
			Name: "axonsim_fluctuation_acceptance_ratio",
			Help: "Accepted over energy-evaluated fluctuations",
		}),
		stepTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "axonsim_step_duration_seconds",
			Help:    "Wall time between observed steps",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		now: time.Now,
	}
}

func (e *Exporter) OnStep(step int, a *axon.Axon) error {
	s := a.Stats()
	d := e.last
	add := func(v *prometheus.CounterVec, n int, labels ...string) {
		if n > 0 {
			v.WithLabelValues(labels...).Add(float64(n))
		}
	}

	if s.Steps > d.Steps {
		e.steps.Add(float64(s.Steps - d.Steps))
	}
	add(e.moves, s.GrowthAccepted-d.GrowthAccepted, "growth", "accepted")
	add(e.moves, s.GrowthCollisions-d.GrowthCollisions, "growth", "collided")
	add(e.moves, s.GrowthOutOfBounds-d.GrowthOutOfBounds, "growth", "out_of_bounds")
	add(e.moves, s.FluctAccepted-d.FluctAccepted, "fluctuation", "accepted")
	add(e.moves, s.FluctRejected-d.FluctRejected, "fluctuation", "rejected")
	add(e.moves, s.FluctCollisions-d.FluctCollisions, "fluctuation", "collided")
	add(e.moves, s.FluctOutOfBounds-d.FluctOutOfBounds, "fluctuation", "out_of_bounds")
	add(e.linkEvents, s.LinksFormed-d.LinksFormed, "formed")
	add(e.linkEvents, s.LinksRefused-d.LinksRefused, "refused")
	add(e.linkEvents, s.LinksBroken-d.LinksBroken, "broken")

	e.population.WithLabelValues("filaments").Set(float64(a.NumFilaments()))
	e.population.WithLabelValues("nodes").Set(float64(a.TotalNodes()))
	e.population.WithLabelValues("links").Set(float64(a.CountLinks()))
	e.acceptance.Set(s.AcceptanceRate())

	now := e.now()
	if !e.lastStep.IsZero() {
		e.stepTime.Observe(now.Sub(e.lastStep).Seconds())
	}
	e.lastStep = now
	e.last = s
	return nil
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
