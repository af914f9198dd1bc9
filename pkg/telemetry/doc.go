// Package telemetry groups the observability packages of the export service.
//
// # Components
//
//   - logging: structured slog logging with request and job fields
//   - metrics: Prometheus counters and histograms for exports and scheduled runs
//   - tracing: OpenTelemetry spans for HTTP requests, exports and scheduled runs
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
//	exporter := export.NewExporter(settings,
//		export.WithLogger(logger.Slog()),
//		export.WithObserver(collector),
//		export.WithTracer(tracer.Tracer()),
//	)
package telemetry
