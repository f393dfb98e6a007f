// Package metrics exposes prometheus counters for repository mutations,
// persistence failures, chart builds and HTTP requests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	Mutations       *prometheus.CounterVec
	PersistFailures prometheus.Counter
	ChartBuilds     *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "milestones_mutations_total",
				Help: "Repository mutations by operation",
			},
			[]string{"op"},
		),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "milestones_persist_failures_total",
			Help: "Saves of the milestone collection that failed",
		}),
		ChartBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "milestones_chart_builds_total",
				Help: "Chart dataset builds by result",
			},
			[]string{"result"}, // ok, invalid_date
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "milestones_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path", "status"},
		),
	}

	m.Registry.MustRegister(
		m.Mutations,
		m.PersistFailures,
		m.ChartBuilds,
		m.HTTPDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Mutated implements milestone.Observer.
func (m *Metrics) Mutated(op string) {
	m.Mutations.WithLabelValues(op).Inc()
}

// PersistFailed implements milestone.Observer.
func (m *Metrics) PersistFailed(err error) {
	m.PersistFailures.Inc()
}

// RecordChartBuild counts a dataset build.
func (m *Metrics) RecordChartBuild(err error) {
	if err != nil {
		m.ChartBuilds.WithLabelValues("invalid_date").Inc()
		return
	}
	m.ChartBuilds.WithLabelValues("ok").Inc()
}

// RecordHTTPRequest observes one request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, d time.Duration) {
	m.HTTPDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}
