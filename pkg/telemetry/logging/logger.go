package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"contentworks/csvexport/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in human-readable console format.
	FormatConsole LogFormat = "console"
)

// Logger provides structured logging with context field extraction.
type Logger struct {
	slog   *slog.Logger
	level  slog.Level
	format LogFormat
}

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text", "console")
	Format string

	// AddSource includes file and line number in logs
	AddSource bool

	// Writer is the output writer (defaults to os.Stdout)
	Writer io.Writer
}

// FromConfig converts the telemetry logging section into a logger Config.
func FromConfig(cfg config.LoggingConfig, w io.Writer) Config {
	return Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
		Writer:    w,
	}
}

// New creates a new Logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatText, FormatConsole:
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	return &Logger{
		slog:   slog.New(&contextHandler{Handler: handler}),
		level:  level,
		format: format,
	}, nil
}

// Slog returns the underlying slog logger. Installing it with slog.SetDefault
// makes components that log through slog pick up context fields too.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelError, msg, args...)
}

// DebugContext logs a debug message with context fields.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slog.Log(ctx, slog.LevelDebug, msg, args...)
}

// InfoContext logs an info message with context fields.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.Log(ctx, slog.LevelInfo, msg, args...)
}

// WarnContext logs a warning message with context fields.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slog.Log(ctx, slog.LevelWarn, msg, args...)
}

// ErrorContext logs an error message with context fields.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.Log(ctx, slog.LevelError, msg, args...)
}

// With creates a new logger with additional fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		level:  l.level,
		format: l.format,
	}
}

// WithContext creates a new logger carrying the fields stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	args := extractContextFields(ctx)
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}

// Level returns the minimum enabled level.
func (l *Logger) Level() slog.Level {
	return l.level
}

// contextHandler adds the fields stored in the record context to every record.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if fields := extractContextFields(ctx); len(fields) > 0 {
			r.Add(fields...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch strings.ToLower(formatStr) {
	case "json", "":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
