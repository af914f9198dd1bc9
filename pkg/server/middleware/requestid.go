package middleware

import (
	"context"
	"net/http"

	"contentworks/csvexport/pkg/telemetry/logging"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware assigns a request ID to every request and adds it to
// the context and the X-Request-ID response header. A request ID supplied by
// the client is reused.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)

		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}
