package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus collectors for pipeline runs. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	unitsTotal  *prometheus.CounterVec

	// Decode quality metrics
	correctedTotal     prometheus.Counter
	uncorrectableTotal prometheus.Counter
	alternationTotal   prometheus.Counter
	unrecognizedTotal  prometheus.Counter
}

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helix_pipeline_runs_total",
				Help: "Total number of pipeline runs",
			},
			[]string{"direction", "status"},
		),

		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helix_pipeline_run_duration_seconds",
				Help:    "Pipeline run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"direction"},
		),

		unitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helix_units_processed_total",
				Help: "Total number of units encoded or decoded",
			},
			[]string{"direction"},
		),

		correctedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "helix_units_corrected_total",
				Help: "Units repaired by single-bit correction",
			},
		),

		uncorrectableTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "helix_units_uncorrectable_total",
				Help: "Units replaced by the placeholder after failed correction",
			},
		),

		alternationTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "helix_alternation_violations_total",
				Help: "Symbol groups that broke the class alternation rule",
			},
		),

		unrecognizedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "helix_unrecognized_groups_total",
				Help: "Symbol groups substituted because of an unrecognized symbol",
			},
		),
	}
}

// Registry exposes the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRun records a finished run
func (m *Metrics) RecordRun(dir Direction, success bool, units int, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.runsTotal.WithLabelValues(dir.String(), status).Inc()
	m.runDuration.WithLabelValues(dir.String()).Observe(duration.Seconds())
	if success {
		m.unitsTotal.WithLabelValues(dir.String()).Add(float64(units))
	}
}

// RecordReport records the decode quality counters of a report
func (m *Metrics) RecordReport(r *Report) {
	if m == nil || r == nil {
		return
	}
	m.correctedTotal.Add(float64(r.Corrected))
	m.uncorrectableTotal.Add(float64(len(r.Uncorrectable)))
	m.alternationTotal.Add(float64(len(r.AlternationViolations)))
	m.unrecognizedTotal.Add(float64(len(r.Unrecognized)))
}

// WriteToTextfile writes every metric in the text exposition format, for
// pickup by a node exporter textfile collector
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
