// Package middleware provides HTTP middleware for the export server.
//
// # Middleware Chain
//
//	handler = Recovery(RequestID(Logging(handler)))
//
// Order (innermost to outermost):
//  1. Logging: Log request/response details, including the request ID
//  2. RequestID: Generate and propagate request ID
//  3. Recovery: Recover from panics
//
// The request ID is stored with logging.WithRequestID, so every record
// logged with the request context carries it.
package middleware
