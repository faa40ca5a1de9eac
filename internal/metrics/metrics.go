package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the monitor. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	Degraded           *prometheus.CounterVec
	UpstreamFailures   *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monitor_evaluations_total",
				Help: "Total number of symbol evaluations by result",
			},
			[]string{"result"},
		),

		EvaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "monitor_evaluation_duration_seconds",
				Help:    "Duration of one symbol evaluation in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),

		Degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monitor_degraded_total",
				Help: "Number of times a component fell back to its default",
			},
			[]string{"component"},
		),

		UpstreamFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monitor_upstream_failures_total",
				Help: "Failed calls to upstream data providers",
			},
			[]string{"upstream"},
		),
	}

	m.registry.MustRegister(m.Evaluations, m.EvaluationDuration, m.Degraded, m.UpstreamFailures)
	return m
}

// ObserveEvaluation records the outcome of one evaluation.
func (m *Metrics) ObserveEvaluation(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(result).Inc()
	m.EvaluationDuration.Observe(elapsed.Seconds())
}

// Degrade counts a fallback to a default value.
func (m *Metrics) Degrade(component string) {
	if m == nil {
		return
	}
	m.Degraded.WithLabelValues(component).Inc()
}

// UpstreamFailure counts a failed upstream call.
func (m *Metrics) UpstreamFailure(upstream string) {
	if m == nil {
		return
	}
	m.UpstreamFailures.WithLabelValues(upstream).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
