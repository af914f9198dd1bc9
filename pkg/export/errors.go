package export

import "fmt"

// ExportError represents an error while producing an export.
type ExportError struct {
	Format      string // Export format ("csv")
	RecordCount int    // Number of records being exported
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// SourceError represents a failure to fetch records for a content type.
type SourceError struct {
	ContentType string
	Cause       error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("record source error [content_type=%s]: %v", e.ContentType, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SourceError) Unwrap() error {
	return e.Cause
}
