// Package server provides the HTTP server exposing CSV exports.
//
// # Routes
//
//	GET {mount_prefix}                 export listing (JSON)
//	GET {mount_prefix}/{contenttype}   CSV download
//	GET /health                        liveness probe
//	GET /ready                         readiness probe, 503 when a check fails
//	GET /version                       build information
//	GET {metrics_path}                 Prometheus metrics, when enabled
//
// Downloads carry Content-Type text/csv (unless already set further up the
// chain) and Content-Disposition: attachment; filename="<name>.csv". Unknown
// or disabled content types return 200 with a body holding only the byte
// order mark.
//
// # Usage
//
//	exporter := export.NewExporter(export.NewSettings(&cfg.Export))
//	srv := server.NewServer(&cfg.Server, exporter, recordStore,
//	    server.WithMetrics(cfg.Telemetry.Metrics.Path, collector.Handler()))
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until the context is cancelled, SIGINT or SIGTERM arrives, or
// Stop is called, then shuts down gracefully within ShutdownTimeout.
//
// Export settings are read from the Exporter on every request, so a
// configuration reload only needs Exporter.Reload.
package server
