package store

import (
	"context"
	"fmt"

	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/export"
)

// Store persists raw records per content type and serves them to the
// exporter. Implementations must be safe for concurrent use.
type Store interface {
	export.Source

	// Put inserts or replaces a record of the given content type.
	Put(ctx context.Context, contentType string, record export.Record) error

	// ContentTypes returns the content type keys that have stored records,
	// sorted.
	ContentTypes(ctx context.Context) ([]string, error)

	// Count returns the number of stored records of a content type.
	Count(ctx context.Context, contentType string) (int64, error)

	// Close releases resources held by the store.
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case DriverMattn, DriverModernc:
		return NewSQLiteStore(&SQLiteConfig{
			Driver:       cfg.Driver,
			Path:         cfg.Path,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
			WALMode:      cfg.WALMode,
			BusyTimeout:  cfg.BusyTimeout,
		})
	default:
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
}
