package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ContentTypeKey is the context key for the content type being exported.
	ContentTypeKey contextKey = "content_type"

	// JobKey is the context key for scheduled job names.
	JobKey contextKey = "job"

	// RunIDKey is the context key for scheduled run identifiers.
	RunIDKey contextKey = "run_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithContentType adds a content type key to the context.
func WithContentType(ctx context.Context, contentType string) context.Context {
	return context.WithValue(ctx, ContentTypeKey, contentType)
}

// GetContentType retrieves the content type key from the context.
func GetContentType(ctx context.Context) string {
	if ct, ok := ctx.Value(ContentTypeKey).(string); ok {
		return ct
	}
	return ""
}

// WithJob adds a scheduled job name and run ID to the context.
func WithJob(ctx context.Context, job, runID string) context.Context {
	ctx = context.WithValue(ctx, JobKey, job)
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetJob retrieves the scheduled job name from the context.
func GetJob(ctx context.Context) string {
	if job, ok := ctx.Value(JobKey).(string); ok {
		return job
	}
	return ""
}

// GetRunID retrieves the scheduled run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if ct := GetContentType(ctx); ct != "" {
		fields = append(fields, "content_type", ct)
	}
	if job := GetJob(ctx); job != "" {
		fields = append(fields, "job", job)
	}
	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, "run_id", runID)
	}

	return fields
}
