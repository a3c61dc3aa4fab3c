// Package monitoring records per-run collection metrics and writes them in the
// Prometheus text format for the node exporter textfile collector.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

const namespace = "taco_index"

// Metrics holds the counters of a single collection run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	searchRequests *prometheus.CounterVec
	detailRequests *prometheus.CounterVec
	softFailures   *prometheus.CounterVec
	candidates     *prometheus.GaugeVec
	entities       *prometheus.CounterVec
	runDuration    prometheus.Gauge
	lastRun        prometheus.Gauge
}

// NewMetrics creates Metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searchRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "places", Name: "search_requests_total", Help: "Nearby Search calls by API status."},
			[]string{"status"},
		),
		detailRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "places", Name: "detail_requests_total", Help: "Place Details calls by API status."},
			[]string{"status"},
		),
		softFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "soft_failures_total", Help: "Recoverable failures by stage."},
			[]string{"stage"},
		),
		candidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "candidates", Help: "Candidates found and qualified in the last run."},
			[]string{"phase"},
		),
		entities: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "store", Name: "rows_total", Help: "Insert outcomes by table."},
			[]string{"table", "outcome"},
		),
		runDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "run_duration_seconds", Help: "Wall time of the last run."},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "last_run_timestamp_seconds", Help: "Completion time of the last run."},
		),
	}
	m.registry.MustRegister(m.searchRequests, m.detailRequests, m.softFailures, m.candidates, m.entities, m.runDuration, m.lastRun)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) SearchRequest(status string) {
	if m == nil {
		return
	}
	m.searchRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) DetailRequest(status string) {
	if m == nil {
		return
	}
	m.detailRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) SoftFailure(stage string) {
	if m == nil {
		return
	}
	m.softFailures.WithLabelValues(stage).Inc()
}

// Candidates sets the candidate count for phase ("found" or "qualified").
func (m *Metrics) Candidates(phase string, n int) {
	if m == nil {
		return
	}
	m.candidates.WithLabelValues(phase).Set(float64(n))
}

// Row counts an insert outcome ("inserted", "ignored" or "failed") for table.
func (m *Metrics) Row(table, outcome string) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(table, outcome).Inc()
}

// RunFinished records the run's wall time and completion timestamp.
func (m *Metrics) RunFinished(d time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.runDuration.Set(d.Seconds())
	m.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "monitoring: write textfile %s", path)
	}
	return nil
}
