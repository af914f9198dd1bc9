package config

import "time"

// Default values for configuration fields.
const (
	// Export defaults
	DefaultPermission = "contenttype-action"
	DefaultSeparator  = ","

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultMountPrefix     = "/export"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Storage defaults
	DefaultStorageDriver       = "sqlite3"
	DefaultStoragePath         = "data/records.db"
	DefaultStorageMaxOpenConns = 10
	DefaultStorageMaxIdleConns = 5
	DefaultStorageWALMode      = true
	DefaultStorageBusyTimeout  = 5 * time.Second

	// Schedule defaults
	DefaultScheduleOutputDir = "data/exports"

	// Telemetry defaults
	DefaultLoggingLevel           = "info"
	DefaultLoggingFormat          = "json"
	DefaultMetricsEnabled         = true
	DefaultMetricsPath            = "/metrics"
	DefaultMetricsNamespace       = "csvexport"
	DefaultMetricsMaxContentTypes = 200
	DefaultTracingSampler         = "ratio"
	DefaultTracingSampleRatio     = 1.0
	DefaultTracingEndpoint        = "localhost:4317"
	DefaultTracingServiceName     = "csvexport"
	DefaultTracingOTLPTimeout     = 10 * time.Second
)

// DefaultDurationBuckets are histogram buckets for export durations (1ms - 30s).
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 30}

// NewDefault returns a configuration with every default applied. Loading
// starts from this value so that booleans defaulting to true can still be
// switched off in YAML.
func NewDefault() *Config {
	cfg := &Config{}
	cfg.Storage.WALMode = DefaultStorageWALMode
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Export defaults
	if cfg.Export.Permission == "" {
		cfg.Export.Permission = DefaultPermission
	}
	if cfg.Export.Separator == "" {
		cfg.Export.Separator = DefaultSeparator
	}
	for i, ct := range cfg.Export.ContentTypes {
		if ct.Name == "" {
			cfg.Export.ContentTypes[i].Name = ct.Key
		}
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.MountPrefix == "" {
		cfg.Server.MountPrefix = DefaultMountPrefix
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Storage defaults
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = DefaultStorageMaxOpenConns
	}
	if cfg.Storage.MaxIdleConns == 0 {
		cfg.Storage.MaxIdleConns = DefaultStorageMaxIdleConns
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultStorageBusyTimeout
	}

	// Schedule defaults
	if cfg.Schedule.OutputDir == "" {
		cfg.Schedule.OutputDir = DefaultScheduleOutputDir
	}
	for i, job := range cfg.Schedule.Jobs {
		if job.Name == "" {
			cfg.Schedule.Jobs[i].Name = job.ContentType
		}
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Metrics.MaxContentTypes == 0 {
		cfg.Telemetry.Metrics.MaxContentTypes = DefaultMetricsMaxContentTypes
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultTracingOTLPTimeout
	}
}
