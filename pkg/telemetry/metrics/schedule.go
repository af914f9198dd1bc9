package metrics

import (
	"time"

	"contentworks/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ScheduleMetrics tracks scheduled export runs.
type ScheduleMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
}

// NewScheduleMetrics creates and registers scheduled run metrics.
func NewScheduleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ScheduleMetrics {
	sm := &ScheduleMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "scheduled_runs_total",
				Help:      "Total number of scheduled export runs by job and status",
			},
			[]string{"job", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "scheduled_run_duration_seconds",
				Help:      "Duration of scheduled export runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"job"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "scheduled_run_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful run per job",
			},
			[]string{"job"},
		),
	}

	registry.MustRegister(sm.runsTotal, sm.runDuration, sm.lastSuccess)

	return sm
}

// Record records one run. Status is "ok" or "error".
func (sm *ScheduleMetrics) Record(job, status string, duration time.Duration) {
	sm.runsTotal.WithLabelValues(job, status).Inc()
	sm.runDuration.WithLabelValues(job).Observe(duration.Seconds())
	if status == "ok" {
		sm.lastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}
