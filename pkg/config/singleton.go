package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the process-wide configuration snapshot.
	globalConfig *Config

	// globalPath is the file globalConfig was loaded from.
	globalPath string

	// configMutex protects globalConfig and globalPath.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads configuration from path with environment variable
// overrides and stores it as the process-wide configuration. Subsequent calls
// are ignored.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}

		configMutex.Lock()
		globalConfig = cfg
		globalPath = path
		configMutex.Unlock()
	})

	return initErr
}

// GetConfig returns the process-wide configuration, or nil before Initialize.
// The returned value must be treated as read-only.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration. Intended for tests.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig loads a fresh configuration from the path given to Initialize
// and swaps it in. The previous snapshot stays in place when loading fails;
// snapshots are never modified in place, so readers holding the old one are
// unaffected.
func ReloadConfig() (*Config, error) {
	configMutex.RLock()
	path := globalPath
	configMutex.RUnlock()

	if path == "" {
		return nil, fmt.Errorf("failed to reload configuration: not initialized from a file")
	}

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()

	return cfg, nil
}

// MustGetConfig returns the process-wide configuration and panics if it has
// not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
