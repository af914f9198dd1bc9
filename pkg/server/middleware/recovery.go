package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an error reply.
type ErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes a JSON error reply.
func WriteError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{
		Message:   message,
		Type:      errType,
		RequestID: GetRequestID(r.Context()),
	}})
}

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// Internal Server Error response. The panic is logged with its stack trace;
// clients only see a generic message.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				WriteError(w, r, http.StatusInternalServerError, "server_error",
					"An internal error occurred. Please try again later.")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
