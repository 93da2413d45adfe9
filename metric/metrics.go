package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the build pipeline metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	PassDuration     *prometheus.HistogramVec
	Builds           *prometheus.CounterVec
	LogEntries       *prometheus.CounterVec
	GeneratedClasses prometheus.Gauge
	SourcesLoaded    prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg. A nil
// registerer yields nil metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &Metrics{
		PassDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semonto",
				Subsystem: "postprocess",
				Name:      "pass_duration_seconds",
				Help:      "Duration of each post-processing pass in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"pass"},
		),

		Builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semonto",
				Name:      "builds_total",
				Help:      "Total number of vocabulary builds",
			},
			[]string{"status"},
		),

		LogEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semonto",
				Subsystem: "parse",
				Name:      "log_entries_total",
				Help:      "Total number of parse log entries by severity",
			},
			[]string{"level"},
		),

		GeneratedClasses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semonto",
				Subsystem: "codegen",
				Name:      "classes",
				Help:      "Number of classes in the last generated module",
			},
		),

		SourcesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semonto",
				Name:      "sources",
				Help:      "Number of sources in the last build",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.PassDuration, m.Builds, m.LogEntries, m.GeneratedClasses, m.SourcesLoaded,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordPass records the duration of one pipeline pass.
func (m *Metrics) RecordPass(pass string, d time.Duration) {
	if m == nil {
		return
	}
	m.PassDuration.WithLabelValues(pass).Observe(d.Seconds())
}

// RecordBuild counts a build by status ("ok" or "error").
func (m *Metrics) RecordBuild(status string, sources int) {
	if m == nil {
		return
	}
	m.Builds.WithLabelValues(status).Inc()
	if status == "ok" {
		m.SourcesLoaded.Set(float64(sources))
	}
}

// RecordLogEntry counts one parse log entry.
func (m *Metrics) RecordLogEntry(level string) {
	if m == nil {
		return
	}
	m.LogEntries.WithLabelValues(level).Inc()
}

// RecordGenerated records the size of a generated module.
func (m *Metrics) RecordGenerated(classes int) {
	if m == nil {
		return
	}
	m.GeneratedClasses.Set(float64(classes))
}
