// Package logging provides structured logging on top of log/slog.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with request IDs, content types and job runs
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "export served")  // includes request_id
//
// Fields stored in the context are added to every record logged with that
// context, whether through Logger or through the installed slog default.
package logging
