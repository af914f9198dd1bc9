package metrics

import (
	"time"

	"contentworks/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks CSV export outcomes.
//
// Metrics:
//   - csvexport_exports_total: exports by content type and status
//   - csvexport_export_rows_total: data rows written by content type
//   - csvexport_export_duration_seconds: time spent building exports
//   - csvexport_export_size_bytes: export body sizes
type ExportMetrics struct {
	exportsTotal   *prometheus.CounterVec
	rowsTotal      *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	sizeBytes      *prometheus.HistogramVec
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "exports_total",
				Help:      "Total number of CSV exports by content type and status",
			},
			[]string{"content_type", "status"},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "export_rows_total",
				Help:      "Total number of data rows written to CSV exports",
			},
			[]string{"content_type"},
		),

		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "export_duration_seconds",
				Help:      "Time spent building CSV exports in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"content_type"},
		),

		sizeBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "export_size_bytes",
				Help:      "Size of CSV export bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
			},
			[]string{"content_type"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.rowsTotal,
		em.exportDuration,
		em.sizeBytes,
	)

	return em
}

// Record records one export.
func (em *ExportMetrics) Record(contentType, status string, rows, size int, duration time.Duration) {
	em.exportsTotal.WithLabelValues(contentType, status).Inc()
	if rows > 0 {
		em.rowsTotal.WithLabelValues(contentType).Add(float64(rows))
	}
	em.exportDuration.WithLabelValues(contentType).Observe(duration.Seconds())
	em.sizeBytes.WithLabelValues(contentType).Observe(float64(size))
}
