package store

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite3", "sqlite", "memory")
	Operation string // Operation that failed ("put", "records", "count", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// DecodeError reports a malformed record document.
type DecodeError struct {
	Index int   // Position of the document in its batch, or -1
	Cause error // Underlying error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode error [index=%d]: %v", e.Index, e.Cause)
	}
	return fmt.Sprintf("decode error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
