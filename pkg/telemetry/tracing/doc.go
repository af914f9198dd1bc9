// Package tracing provides OpenTelemetry distributed tracing for exports.
//
// Spans are exported over OTLP gRPC. Three span sources exist: the HTTP
// middleware (one server span per request, continuing W3C traceparent
// headers), the exporter (export.run with a child export.build) and the scheduler (one
// span per scheduled run). With tracing disabled every span is a noop.
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    sampler: ratio
//	    sample_ratio: 0.25
//	    otlp:
//	      insecure: true
package tracing
