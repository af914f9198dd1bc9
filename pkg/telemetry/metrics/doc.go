// Package metrics provides Prometheus metrics collection for csvexport.
//
// # Overview
//
// Collector registers export and scheduled run metrics on its own
// registry and serves them through Handler. It implements export.Observer,
// so an Exporter reports every outcome without knowing about Prometheus.
//
// # Metrics
//
//   - csvexport_exports_total{content_type,status}
//   - csvexport_export_rows_total{content_type}
//   - csvexport_export_duration_seconds{content_type}
//   - csvexport_export_size_bytes{content_type}
//   - csvexport_scheduled_runs_total{job,status}
//   - csvexport_scheduled_run_duration_seconds{job}
//   - csvexport_scheduled_run_last_success_timestamp_seconds{job}
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	exporter := export.NewExporter(settings, export.WithObserver(collector))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// # Cardinality
//
// Content type keys arrive from request paths. Once MaxContentTypes distinct
// keys have been seen, further keys are recorded under the "other" label.
package metrics
