package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"contentworks/csvexport/pkg/export"
)

// Supported database/sql driver names.
const (
	// DriverMattn is the cgo driver from github.com/mattn/go-sqlite3.
	DriverMattn = "sqlite3"

	// DriverModernc is the pure Go driver from modernc.org/sqlite.
	DriverModernc = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Driver is the database/sql driver name: "sqlite3" or "sqlite".
	// Default: "sqlite3"
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverMattn,
		Path:         "data/records.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	closed bool
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewSQLiteStore opens the database and initializes the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverMattn
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "store.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, NewStorageError(config.Driver, "open", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets pragmas and creates the schema.
func (s *SQLiteStore) initialize() error {
	backend := s.config.Driver

	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError(backend, "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError(backend, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(backend, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(backend, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError(backend, "get_schema_version", err)
	}

	if version != SchemaVersion {
		return NewStorageError(backend, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Put inserts or replaces a record.
func (s *SQLiteStore) Put(ctx context.Context, contentType string, record export.Record) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NewStorageError(s.config.Driver, "put", ErrClosed)
	}

	if record.ID == "" {
		return NewStorageError(s.config.Driver, "put", fmt.Errorf("record id is required"))
	}

	created := record.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.ExecContext(ctx, upsertRecord,
		record.ID, contentType, formatTimestamp(created), string(EncodeFields(record.Fields)))
	if err != nil {
		return NewStorageError(s.config.Driver, "put", err)
	}

	return nil
}

// Records returns the records of a content type ordered by creation time,
// then ID.
func (s *SQLiteStore) Records(ctx context.Context, contentType string, q export.Query) ([]export.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageError(s.config.Driver, "records", ErrClosed)
	}

	var sb strings.Builder
	args := []interface{}{contentType}

	sb.WriteString("SELECT id, created_at, fields FROM records WHERE content_type = ?")
	if q.CreatedSince != nil {
		sb.WriteString(" AND created_at >= ?")
		args = append(args, formatTimestamp(*q.CreatedSince))
	}
	sb.WriteString(" ORDER BY created_at ASC, id ASC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "records", err)
	}
	defer rows.Close()

	var records []export.Record
	for rows.Next() {
		record, err := s.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "records", err)
	}

	return records, nil
}

// ContentTypes returns the distinct content types with stored records.
func (s *SQLiteStore) ContentTypes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageError(s.config.Driver, "content_types", ErrClosed)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT content_type FROM records ORDER BY content_type")
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "content_types", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var ct string
		if err := rows.Scan(&ct); err != nil {
			return nil, NewStorageError(s.config.Driver, "content_types", err)
		}
		types = append(types, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "content_types", err)
	}

	return types, nil
}

// Count returns the number of records of a content type.
func (s *SQLiteStore) Count(ctx context.Context, contentType string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, NewStorageError(s.config.Driver, "count", ErrClosed)
	}

	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE content_type = ?", contentType).Scan(&count)
	if err != nil {
		return 0, NewStorageError(s.config.Driver, "count", err)
	}

	return count, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return NewStorageError(s.config.Driver, "close", err)
	}

	s.logger.Info("SQLite store closed")
	return nil
}

func (s *SQLiteStore) scanRecord(rows *sql.Rows) (export.Record, error) {
	var (
		id      string
		created string
		fields  string
	)
	if err := rows.Scan(&id, &created, &fields); err != nil {
		return export.Record{}, NewStorageError(s.config.Driver, "scan", err)
	}

	createdAt, err := parseTimestamp(created)
	if err != nil {
		return export.Record{}, NewStorageError(s.config.Driver, "scan", err)
	}

	record, err := DecodeRecord(id, createdAt, []byte(fields))
	if err != nil {
		return export.Record{}, NewStorageError(s.config.Driver, "scan", err)
	}

	return record, nil
}
