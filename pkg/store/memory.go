package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"contentworks/csvexport/pkg/export"
)

// MemoryStore implements Store using in-memory maps.
// This implementation is intended for testing and demos.
type MemoryStore struct {
	records map[string]map[string]export.Record
	closed  bool
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]export.Record),
	}
}

// Put inserts or replaces a record.
func (s *MemoryStore) Put(ctx context.Context, contentType string, record export.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError("memory", "put", ErrClosed)
	}
	if record.ID == "" {
		return NewStorageError("memory", "put", fmt.Errorf("record id is required"))
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	// Normalize to UTC like the SQLite store.
	record.CreatedAt = record.CreatedAt.UTC()

	// Copy fields to avoid mutation
	record.Fields = append([]export.Field(nil), record.Fields...)

	byID, ok := s.records[contentType]
	if !ok {
		byID = make(map[string]export.Record)
		s.records[contentType] = byID
	}
	byID[record.ID] = record

	return nil
}

// Records returns the records of a content type ordered by creation time,
// then ID.
func (s *MemoryStore) Records(ctx context.Context, contentType string, q export.Query) ([]export.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageError("memory", "records", ErrClosed)
	}

	var results []export.Record
	for _, record := range s.records[contentType] {
		if q.CreatedSince != nil && record.CreatedAt.Before(*q.CreatedSince) {
			continue
		}
		record.Fields = append([]export.Field(nil), record.Fields...)
		results = append(results, record)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}

	return results, nil
}

// ContentTypes returns the content types with stored records, sorted.
func (s *MemoryStore) ContentTypes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageError("memory", "content_types", ErrClosed)
	}

	types := make([]string, 0, len(s.records))
	for ct, byID := range s.records {
		if len(byID) > 0 {
			types = append(types, ct)
		}
	}
	sort.Strings(types)

	return types, nil
}

// Count returns the number of records of a content type.
func (s *MemoryStore) Count(ctx context.Context, contentType string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, NewStorageError("memory", "count", ErrClosed)
	}

	return int64(len(s.records[contentType])), nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}
