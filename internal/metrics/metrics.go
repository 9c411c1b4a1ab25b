// Package metrics exposes Prometheus collectors for digest runs. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	eventsRendered  *prometheus.CounterVec
	headlineWeight  prometheus.Gauge
	publishFailures *prometheus.CounterVec
	lastSuccessTS   prometheus.Gauge
	runDuration     prometheus.Summary
}

// Run results recorded by ObserveRun.
const (
	ResultSent    = "sent"
	ResultNoEvent = "no_events"
	ResultFailed  = "failed"
)

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astro_feed",
		Name:      "runs_total",
		Help:      "Digest runs by result",
	}, []string{"result"})
	m.eventsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astro_feed",
		Name:      "events_rendered_total",
		Help:      "Events rendered into a digest, by kind",
	}, []string{"kind"})
	m.headlineWeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "astro_feed",
		Name:      "headline_weight",
		Help:      "Weight of the headline event of the last digest",
	})
	m.publishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "astro_feed",
		Name:      "publish_failures_total",
		Help:      "Failed publish attempts by publisher",
	}, []string{"publisher"})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "astro_feed",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run",
	})
	m.runDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "astro_feed",
		Name:      "run_duration_seconds",
		Help:      "Time spent in a digest run",
	})

	m.registry.MustRegister(
		m.runsTotal,
		m.eventsRendered,
		m.headlineWeight,
		m.publishFailures,
		m.lastSuccessTS,
		m.runDuration,
	)
	return m
}

// Gatherer returns the registry holding the collectors, for /metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) ObserveRun(result string, started time.Time) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(result).Inc()
	m.runDuration.Observe(time.Since(started).Seconds())
	if result != ResultFailed {
		m.lastSuccessTS.Set(float64(time.Now().Unix()))
	}
}

func (m *Metrics) EventRendered(kind string) {
	if m == nil {
		return
	}
	m.eventsRendered.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetHeadlineWeight(w int) {
	if m == nil {
		return
	}
	m.headlineWeight.Set(float64(w))
}

func (m *Metrics) PublishFailed(publisher string) {
	if m == nil {
		return
	}
	m.publishFailures.WithLabelValues(publisher).Inc()
}
