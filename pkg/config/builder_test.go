package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with sensible defaults for testing.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	cfg := NewDefault()

	cfg.Export.ContentTypes = []ContentTypeConfig{
		{Key: "pages", Name: "Pages"},
		{Key: "entries", Name: "Entries"},
	}
	cfg.Storage.Driver = "memory"

	return &ConfigBuilder{cfg: *cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithListenAddress sets the server listen address.
func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

// WithSeparator sets the CSV field separator.
func (b *ConfigBuilder) WithSeparator(sep string) *ConfigBuilder {
	b.cfg.Export.Separator = sep
	return b
}

// WithDisabled replaces the disabled content types.
func (b *ConfigBuilder) WithDisabled(keys ...string) *ConfigBuilder {
	b.cfg.Export.Disabled = keys
	return b
}

// WithFileName sets the export file name of a content type.
func (b *ConfigBuilder) WithFileName(key, name string) *ConfigBuilder {
	if b.cfg.Export.FileNames == nil {
		b.cfg.Export.FileNames = make(map[string]string)
	}
	b.cfg.Export.FileNames[key] = name
	return b
}

// WithJob adds a scheduled export job.
func (b *ConfigBuilder) WithJob(name, contentType, cron string, since time.Duration) *ConfigBuilder {
	b.cfg.Schedule.Jobs = append(b.cfg.Schedule.Jobs, JobConfig{
		Name:        name,
		ContentType: contentType,
		Cron:        cron,
		Since:       since,
	})
	return b
}

// WithStorage sets the storage driver and path.
func (b *ConfigBuilder) WithStorage(driver, path string) *ConfigBuilder {
	b.cfg.Storage.Driver = driver
	b.cfg.Storage.Path = path
	return b
}

// WithLogLevel sets the logging level.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// MinimalConfig returns a valid configuration with defaults applied.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
