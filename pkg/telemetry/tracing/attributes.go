package tracing

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on export spans.
const (
	AttrContentType = "csvexport.content_type"
	AttrStatus      = "csvexport.export.status"
	AttrRecords     = "csvexport.export.records"
	AttrBytes       = "csvexport.export.bytes"
	AttrSince       = "csvexport.query.since"
	AttrLimit       = "csvexport.query.limit"
	AttrJob         = "csvexport.job"
	AttrRunID       = "csvexport.run_id"
	AttrRequestID   = "csvexport.request_id"
)

// QueryAttributes describes a record query.
func QueryAttributes(contentType string, since *time.Time, limit int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(AttrContentType, contentType)}
	if since != nil {
		attrs = append(attrs, attribute.String(AttrSince, since.UTC().Format(time.RFC3339)))
	}
	if limit > 0 {
		attrs = append(attrs, attribute.Int(AttrLimit, limit))
	}
	return attrs
}

// SetExportResult records the outcome of an export on span.
func SetExportResult(span trace.Span, status string, records, bytes int) {
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrRecords, records),
		attribute.Int(AttrBytes, bytes),
	)
}

// JobAttributes describes a scheduled run.
func JobAttributes(job, runID, contentType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrJob, job),
		attribute.String(AttrRunID, runID),
		attribute.String(AttrContentType, contentType),
	}
}
