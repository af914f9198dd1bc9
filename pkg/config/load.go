package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CSVEXPORT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CSVEXPORT_SECTION_FIELD (e.g., CSVEXPORT_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Export overrides
	if val := os.Getenv(EnvPrefix + "EXPORT_SEPARATOR"); val != "" {
		cfg.Export.Separator = val
	}
	if val := os.Getenv(EnvPrefix + "EXPORT_PERMISSION"); val != "" {
		cfg.Export.Permission = val
	}
	if val, ok := os.LookupEnv(EnvPrefix + "EXPORT_DISABLED"); ok {
		cfg.Export.Disabled = splitList(val)
	}

	// Server overrides
	if val := os.Getenv(EnvPrefix + "SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv(EnvPrefix + "SERVER_MOUNT_PREFIX"); val != "" {
		cfg.Server.MountPrefix = val
	}
	if val := os.Getenv(EnvPrefix + "SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv(EnvPrefix + "SERVER_WATCH_CONFIG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.WatchConfig = b
		}
	}

	// Storage overrides
	if val := os.Getenv(EnvPrefix + "STORAGE_DRIVER"); val != "" {
		cfg.Storage.Driver = val
	}
	if val := os.Getenv(EnvPrefix + "STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}
	if val := os.Getenv(EnvPrefix + "STORAGE_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Storage.MaxOpenConns = i
		}
	}

	// Schedule overrides
	if val := os.Getenv(EnvPrefix + "SCHEDULE_OUTPUT_DIR"); val != "" {
		cfg.Schedule.OutputDir = val
	}

	// Telemetry overrides
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

// splitList splits a comma-separated environment value, dropping blanks.
func splitList(val string) []string {
	out := []string{}
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
