// Package metrics exposes run progress as Prometheus metrics. It observes
// the traversal through the progress.Reporter interface.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/gridwords/internal/progress"
)

const namespace = "gridwords"

// Metrics holds the collectors of one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	Iterations   prometheus.Counter
	Paths        prometheus.Counter
	Pruned       prometheus.Counter
	Malformed    prometheus.Counter
	Attempts     prometheus.Counter
	Accepted     prometheus.Counter
	Runs         *prometheus.CounterVec
	PassDuration prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		Iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Committed traversal passes.",
		}),
		Paths: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paths_total",
			Help:      "Records emitted by traversal passes.",
		}),
		Pruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_total",
			Help:      "Candidate paths rejected by the prefix filter.",
		}),
		Malformed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_records_total",
			Help:      "Input records dropped because they could not be parsed.",
		}),
		Attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partition_attempts_total",
			Help:      "Partition attempts, retries included.",
		}),
		Accepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accepted_words_total",
			Help:      "Records accepted as dictionary words.",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by stop reason.",
		}, []string{"reason"}),
		PassDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of one traversal pass.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
		}),
	}
}

// Iteration implements progress.Reporter.
func (m *Metrics) Iteration(_ context.Context, ev progress.Event) {
	m.Iterations.Inc()
	m.Paths.Add(float64(ev.Paths))
	m.Pruned.Add(float64(ev.Pruned))
	m.Malformed.Add(float64(ev.Malformed))
	m.Attempts.Add(float64(ev.Attempts))
	m.PassDuration.Observe(ev.Duration.Seconds())
}

// Finished implements progress.Reporter.
func (m *Metrics) Finished(_ context.Context, s progress.Summary) {
	m.Accepted.Add(float64(s.Accepted))
	m.Runs.WithLabelValues(s.Reason).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
