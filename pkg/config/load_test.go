package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfigFile(t, `
export:
  separator: ";"
  permission: "export-csv"
  content_types:
    - key: pages
      name: Pages
    - key: entries
  disabled: [entries]
  file_names:
    pages: site-pages
  mappings:
    pages:
      id: false
      title: Title
      status:
        title: State
        values:
          1: Draft
          2: Published

server:
  listen_address: "0.0.0.0:9000"
  mount_prefix: "/csv"
  write_timeout: "60s"

storage:
  driver: sqlite
  path: "./records.db"
  wal_mode: false

schedule:
  output_dir: "./out"
  jobs:
    - content_type: pages
      cron: "0 3 * * *"
      since: 24h

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Separator != ";" {
		t.Errorf("expected separator %q, got %q", ";", cfg.Export.Separator)
	}
	if cfg.Export.Permission != "export-csv" {
		t.Errorf("expected permission %q, got %q", "export-csv", cfg.Export.Permission)
	}
	if len(cfg.Export.ContentTypes) != 2 {
		t.Fatalf("expected 2 content types, got %d", len(cfg.Export.ContentTypes))
	}
	if cfg.Export.ContentTypes[1].Name != "entries" {
		t.Errorf("expected missing name to default to key, got %q", cfg.Export.ContentTypes[1].Name)
	}
	if cfg.Export.FileNames["pages"] != "site-pages" {
		t.Errorf("expected file name %q, got %q", "site-pages", cfg.Export.FileNames["pages"])
	}

	pages := cfg.Export.Mappings["pages"]
	if !pages["id"].Omit {
		t.Error("expected id mapping to omit the field")
	}
	if pages["title"].Title != "Title" {
		t.Errorf("expected title mapping %q, got %q", "Title", pages["title"].Title)
	}
	if pages["status"].Title != "State" || pages["status"].Values["2"] != "Published" {
		t.Errorf("unexpected status mapping: %+v", pages["status"])
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9000", cfg.Server.ListenAddress)
	}
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("expected write timeout 60s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.WALMode {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if len(cfg.Schedule.Jobs) != 1 || cfg.Schedule.Jobs[0].Name != "pages" {
		t.Errorf("expected one job named after its content type, got %+v", cfg.Schedule.Jobs)
	}
	if cfg.Schedule.Jobs[0].Since != 24*time.Hour {
		t.Errorf("expected since 24h, got %v", cfg.Schedule.Jobs[0].Since)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to be disabled")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	configPath := writeConfigFile(t, "export:\n  content_types:\n    - key: pages\n")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Separator != DefaultSeparator {
		t.Errorf("expected separator %q, got %q", DefaultSeparator, cfg.Export.Separator)
	}
	if cfg.Server.MountPrefix != DefaultMountPrefix {
		t.Errorf("expected mount prefix %q, got %q", DefaultMountPrefix, cfg.Server.MountPrefix)
	}
	if cfg.Storage.Driver != DefaultStorageDriver {
		t.Errorf("expected storage driver %q, got %q", DefaultStorageDriver, cfg.Storage.Driver)
	}
	if !cfg.Storage.WALMode {
		t.Error("expected WAL mode to default to true")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to default to enabled")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to read configuration file") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfigFile(t, "export:\n  separator: [unclosed\n")

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadConfig_ValidationError(t *testing.T) {
	configPath := writeConfigFile(t, "export:\n  separator: \"ab\"\n")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "export.separator") {
		t.Errorf("expected error to name export.separator, got: %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	configPath := writeConfigFile(t, `
export:
  disabled: [pages]
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("CSVEXPORT_SERVER_LISTEN_ADDRESS", "0.0.0.0:9999")
	t.Setenv("CSVEXPORT_EXPORT_SEPARATOR", "\t")
	t.Setenv("CSVEXPORT_EXPORT_DISABLED", "entries, users,")
	t.Setenv("CSVEXPORT_STORAGE_DRIVER", "memory")
	t.Setenv("CSVEXPORT_SERVER_WRITE_TIMEOUT", "5m")
	t.Setenv("CSVEXPORT_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("CSVEXPORT_TELEMETRY_TRACING_ENABLED", "true")
	t.Setenv("CSVEXPORT_TELEMETRY_TRACING_ENDPOINT", "otel-collector:4317")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("expected env override for listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Export.Separator != "\t" {
		t.Errorf("expected tab separator, got %q", cfg.Export.Separator)
	}
	if len(cfg.Export.Disabled) != 2 || cfg.Export.Disabled[0] != "entries" || cfg.Export.Disabled[1] != "users" {
		t.Errorf("unexpected disabled list: %v", cfg.Export.Disabled)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("expected memory driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Server.WriteTimeout != 5*time.Minute {
		t.Errorf("expected write timeout 5m, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled by env override")
	}
	if !cfg.Telemetry.Tracing.Enabled || cfg.Telemetry.Tracing.Endpoint != "otel-collector:4317" {
		t.Errorf("unexpected tracing config: %+v", cfg.Telemetry.Tracing)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	configPath := writeConfigFile(t, "server:\n  listen_address: \"127.0.0.1:8080\"\n")

	t.Setenv("CSVEXPORT_STORAGE_DRIVER", "postgres")

	_, err := LoadConfigWithEnvOverrides(configPath)
	if err == nil {
		t.Fatal("expected validation error after env override")
	}
	if !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("unexpected error message: %v", err)
	}
}
