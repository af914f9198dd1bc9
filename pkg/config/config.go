package config

import "time"

// Config is the root configuration structure for csvexport.
// It contains the export rules, the HTTP server, the record store, scheduled
// exports and telemetry settings.
type Config struct {
	// Export contains the content type export rules: which types are
	// exportable, how their fields are mapped and how files are named.
	Export ExportConfig `yaml:"export"`

	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Storage contains record store configuration.
	Storage StorageConfig `yaml:"storage"`

	// Schedule contains scheduled export jobs.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ExportConfig contains the export rules. It is read-only once loaded.
type ExportConfig struct {
	// Permission is the permission tag a host checks before offering exports.
	// Default: "contenttype-action"
	Permission string `yaml:"permission"`

	// Separator is the CSV field delimiter. Must be a single character.
	// Default: ","
	Separator string `yaml:"separator"`

	// FileNames overrides the download file name (without ".csv") per content type.
	FileNames map[string]string `yaml:"file_names"`

	// Disabled lists content type keys that may not be exported. When the
	// list is absent every known content type is exportable.
	Disabled []string `yaml:"disabled"`

	// ContentTypes lists the known content types in menu order. When absent
	// any key is treated as known.
	ContentTypes []ContentTypeConfig `yaml:"content_types"`

	// Mappings holds field mappings by content type, then by field name.
	Mappings map[string]map[string]FieldMappingConfig `yaml:"mappings"`
}

// ContentTypeConfig describes one known content type.
type ContentTypeConfig struct {
	// Key is the content type identifier used in URLs and mappings.
	Key string `yaml:"key"`

	// Name is the display name. Default: the key.
	Name string `yaml:"name"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// MountPrefix is the path under which exports are served.
	// Default: "/export"
	MountPrefix string `yaml:"mount_prefix"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Large exports need a generous value.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// WatchConfig reloads export rules when the configuration file changes.
	// Default: false
	WatchConfig bool `yaml:"watch_config"`
}

// StorageConfig contains configuration for the record store.
type StorageConfig struct {
	// Driver selects the store: "sqlite3" (cgo driver), "sqlite" (pure Go
	// driver) or "memory".
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/records.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ScheduleConfig contains scheduled export configuration.
type ScheduleConfig struct {
	// OutputDir is where scheduled exports are written.
	// Default: "data/exports"
	OutputDir string `yaml:"output_dir"`

	// Jobs lists the scheduled exports.
	Jobs []JobConfig `yaml:"jobs"`
}

// JobConfig describes one scheduled export.
type JobConfig struct {
	// Name identifies the job in logs and metrics. Default: the content type.
	Name string `yaml:"name"`

	// ContentType is the content type to export.
	ContentType string `yaml:"content_type"`

	// Cron is a standard five-field cron expression (e.g. "0 3 * * *").
	Cron string `yaml:"cron"`

	// Since limits each run to records created within this window before
	// the run. Zero exports every record.
	Since time.Duration `yaml:"since"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "csvexport"
	Namespace string `yaml:"namespace"`

	// DurationBuckets are the histogram buckets for export durations in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// MaxContentTypes caps the number of distinct content type label values.
	// Default: 200
	MaxContentTypes int `yaml:"max_content_types"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded and exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "csvexport"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for span exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
