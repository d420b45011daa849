// Package metrics holds the Prometheus collectors for transcript acquisition,
// summarization and the request gate.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

const namespace = "tubedigest"

// Metrics is registered against its own registry so that several instances
// (tests, one-shot CLI runs) never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	AcquisitionsTotal   *prometheus.CounterVec
	AcquisitionFailures *prometheus.CounterVec
	AcquisitionDuration *prometheus.HistogramVec

	DownloadAttempts *prometheus.CounterVec

	SummarizationsTotal   *prometheus.CounterVec
	SummarizationDuration *prometheus.HistogramVec

	RateLimitDecisions *prometheus.CounterVec

	CleanupFailures *prometheus.CounterVec

	EventsPublished *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		AcquisitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisitions_total",
			Help:      "Successful transcript acquisitions by source",
		}, []string{"source"}),
		AcquisitionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisition_failures_total",
			Help:      "Failed transcript acquisitions by failing stage",
		}, []string{"stage"}),
		AcquisitionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "acquisition_duration_seconds",
			Help:      "Wall time of a transcript acquisition",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
		}, []string{"outcome"}),

		DownloadAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_attempts_total",
			Help:      "Audio download attempts by outcome",
		}, []string{"outcome"}),

		SummarizationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarizations_total",
			Help:      "Summarization attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		SummarizationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summarization_duration_seconds",
			Help:      "Latency of a single provider call",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}, []string{"provider"}),

		RateLimitDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Request gate decisions",
		}, []string{"decision"}),

		CleanupFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_failures_total",
			Help:      "Temporary or archived files that could not be removed or moved",
		}, []string{"kind"}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events handed to the publisher by topic and result",
		}, []string{"topic", "result"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AcquisitionSucceeded records a successful acquisition.
func (m *Metrics) AcquisitionSucceeded(source models.Source, elapsed time.Duration) {
	m.AcquisitionsTotal.WithLabelValues(string(source)).Inc()
	m.AcquisitionDuration.WithLabelValues("success").Observe(elapsed.Seconds())
}

// AcquisitionFailed records a failed acquisition.
func (m *Metrics) AcquisitionFailed(stage string, elapsed time.Duration) {
	m.AcquisitionFailures.WithLabelValues(stage).Inc()
	m.AcquisitionDuration.WithLabelValues("failure").Observe(elapsed.Seconds())
}

// DownloadAttempt counts a single yt-dlp invocation.
func (m *Metrics) DownloadAttempt(outcome string) {
	m.DownloadAttempts.WithLabelValues(outcome).Inc()
}

// SummarizationAttempt records one provider call.
func (m *Metrics) SummarizationAttempt(provider, outcome string, elapsed time.Duration) {
	m.SummarizationsTotal.WithLabelValues(provider, outcome).Inc()
	m.SummarizationDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RateLimitDecision records whether the gate admitted a request.
func (m *Metrics) RateLimitDecision(allowed bool) {
	decision := "rejected"
	if allowed {
		decision = "allowed"
	}
	m.RateLimitDecisions.WithLabelValues(decision).Inc()
}

// CleanupFailure records a file that could not be removed or archived.
func (m *Metrics) CleanupFailure(kind string) {
	m.CleanupFailures.WithLabelValues(kind).Inc()
}

// EventPublished records the result of a publish call.
func (m *Metrics) EventPublished(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(topic, result).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
