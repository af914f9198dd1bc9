package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "export.separator").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateExport validates export rules.
func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	// encoding/csv needs a single rune that cannot be confused with quoting
	// or line breaks.
	if cfg.Separator != "" {
		r, size := utf8.DecodeRuneInString(cfg.Separator)
		switch {
		case size != len(cfg.Separator) || r == utf8.RuneError:
			errs = append(errs, FieldError{
				Field:   "export.separator",
				Message: fmt.Sprintf("separator must be a single character, got %q", cfg.Separator),
			})
		case r == '"' || r == '\r' || r == '\n':
			errs = append(errs, FieldError{
				Field:   "export.separator",
				Message: fmt.Sprintf("separator %q is not allowed", cfg.Separator),
			})
		}
	}

	seen := make(map[string]bool, len(cfg.ContentTypes))
	for i, ct := range cfg.ContentTypes {
		field := fmt.Sprintf("export.content_types[%d].key", i)
		if ct.Key == "" {
			errs = append(errs, FieldError{Field: field, Message: "content type key is required"})
			continue
		}
		if seen[ct.Key] {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("duplicate content type %q", ct.Key),
			})
		}
		seen[ct.Key] = true
	}

	for key, name := range cfg.FileNames {
		if strings.ContainsAny(name, "/\\\"\r\n") {
			errs = append(errs, FieldError{
				Field:   "export.file_names." + key,
				Message: fmt.Sprintf("file name %q contains forbidden characters", name),
			})
		}
	}

	return errs
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if !strings.HasPrefix(cfg.MountPrefix, "/") {
		errs = append(errs, FieldError{
			Field:   "server.mount_prefix",
			Message: "mount prefix must start with /",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	return errs
}

// validateStorage validates record store configuration.
func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Driver {
	case "sqlite3", "sqlite":
		if cfg.Path == "" {
			errs = append(errs, FieldError{
				Field:   "storage.path",
				Message: "path is required for sqlite storage",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.driver",
			Message: fmt.Sprintf("unsupported driver %q (supported: sqlite3, sqlite, memory)", cfg.Driver),
		})
	}

	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.busy_timeout",
			Message: "busy timeout must be positive",
		})
	}

	return errs
}

// validateSchedule validates scheduled export jobs.
func validateSchedule(cfg *ScheduleConfig) []FieldError {
	var errs []FieldError

	names := make(map[string]bool, len(cfg.Jobs))
	for i, job := range cfg.Jobs {
		prefix := fmt.Sprintf("schedule.jobs[%d]", i)

		if job.ContentType == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".content_type",
				Message: "content type is required",
			})
		}
		if _, err := cron.ParseStandard(job.Cron); err != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".cron",
				Message: fmt.Sprintf("invalid cron expression %q: %v", job.Cron, err),
			})
		}
		if job.Since < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".since",
				Message: "since must be positive",
			})
		}
		if job.Name != "" && names[job.Name] {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate job name %q", job.Name),
			})
		}
		names[job.Name] = true
	}

	if len(cfg.Jobs) > 0 && cfg.OutputDir == "" {
		errs = append(errs, FieldError{
			Field:   "schedule.output_dir",
			Message: "output directory is required when jobs are configured",
		})
	}

	return errs
}

// validateTelemetry validates logging and metrics configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("unknown sampler %q (supported: always, never, ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}

	return errs
}
