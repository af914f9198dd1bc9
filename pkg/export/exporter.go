package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// MIMETypeCSV is the media type of every export body.
const MIMETypeCSV = "text/csv"

// Export statuses reported to the Observer.
const (
	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusDenied = "denied"
	StatusError  = "error"
)

// Export is a finished CSV export ready to be sent to a client or written to
// disk.
type Export struct {
	// Key is the requested content type key.
	Key string

	// Filename is the download name without the ".csv" extension.
	Filename string

	// MIMEType is always MIMETypeCSV.
	MIMEType string

	// Body holds the BOM-prefixed CSV bytes.
	Body []byte

	// Records is the number of data rows in Body.
	Records int
}

// FullFilename returns the file name including the ".csv" extension.
func (e *Export) FullFilename() string {
	return e.Filename + ".csv"
}

// Disposition returns the Content-Disposition header value for the export.
func (e *Export) Disposition() string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '\r', '\n':
			return -1
		}
		return r
	}, e.FullFilename())
	return fmt.Sprintf(`attachment; filename="%s"`, name)
}

// Query narrows the records fetched from a Source.
type Query struct {
	// CreatedSince keeps records created at or after this time.
	CreatedSince *time.Time

	// Limit caps the number of records. Zero means no limit.
	Limit int
}

// Source supplies raw records for a content type in their export order.
type Source interface {
	Records(ctx context.Context, contentType string, q Query) ([]Record, error)
}

// Observer receives the outcome of every export.
type Observer interface {
	RecordExport(contentType, status string, rows, size int, duration time.Duration)
}

// Settings is an immutable snapshot of the export configuration.
type Settings struct {
	Policy    *Policy
	Projector *Projector
}

// NewSettings compiles the export configuration into a settings snapshot.
func NewSettings(cfg *config.ExportConfig) *Settings {
	return &Settings{
		Policy:    NewPolicy(cfg),
		Projector: NewProjector(CompileMappings(cfg.Mappings)),
	}
}

// Exporter turns raw records into CSV exports. It is safe for concurrent use;
// settings can be swapped with Reload while exports are running, and each
// export sees a single snapshot.
type Exporter struct {
	settings atomic.Pointer[Settings]
	observer Observer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithObserver reports export outcomes to o.
func WithObserver(o Observer) Option {
	return func(e *Exporter) {
		e.observer = o
	}
}

// WithLogger sets the exporter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithTracer sets the tracer used for export spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Exporter) {
		e.tracer = tracer
	}
}

// NewExporter creates an exporter using settings.
func NewExporter(settings *Settings, opts ...Option) *Exporter {
	e := &Exporter{
		logger: slog.Default().With("component", "export"),
		tracer: otel.Tracer(tracing.TracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.settings.Store(settings)
	return e
}

// Reload replaces the settings used by subsequent exports.
func (e *Exporter) Reload(settings *Settings) {
	e.settings.Store(settings)
}

// Settings returns the current settings snapshot.
func (e *Exporter) Settings() *Settings {
	return e.settings.Load()
}

// AvailableExports returns the content types offered for export.
func (e *Exporter) AvailableExports() []ContentType {
	return e.settings.Load().Policy.AvailableExports()
}

// ExportableKeys returns the keys of the content types offered for export.
func (e *Exporter) ExportableKeys() []string {
	available := e.AvailableExports()
	keys := make([]string, 0, len(available))
	for _, ct := range available {
		keys = append(keys, ct.Key)
	}
	return keys
}

// Permission returns the configured permission tag.
func (e *Exporter) Permission() string {
	return e.settings.Load().Policy.Permission()
}

// BuildExport transforms records of contentType into a CSV export. An unknown
// or disabled content type produces an empty export rather than an error.
func (e *Exporter) BuildExport(ctx context.Context, contentType string, records []Record) (*Export, error) {
	ctx, span := e.tracer.Start(ctx, "export.build",
		trace.WithAttributes(tracing.QueryAttributes(contentType, nil, 0)...))
	defer span.End()

	start := time.Now()
	s := e.settings.Load()

	status := StatusOK
	var table Table
	if !s.Policy.IsExportable(contentType) {
		e.logger.WarnContext(ctx, "content type not exportable, producing empty export",
			"content_type", contentType,
		)
		status = StatusDenied
		table = Table{}
	} else {
		table = Assemble(s.Projector.ProjectAll(contentType, records))
		if len(table) == 0 {
			status = StatusEmpty
		}
	}

	var buf bytes.Buffer
	encoder := NewCSVEncoder(s.Policy.DelimiterFor(contentType))
	if err := encoder.Encode(&buf, table); err != nil {
		e.observe(contentType, StatusError, 0, 0, time.Since(start))
		tracing.SetError(span, err)
		return nil, err
	}

	out := &Export{
		Key:      contentType,
		Filename: s.Policy.FilenameFor(contentType),
		MIMEType: MIMETypeCSV,
		Body:     buf.Bytes(),
		Records:  table.DataRows(),
	}

	e.observe(contentType, status, out.Records, len(out.Body), time.Since(start))
	tracing.SetExportResult(span, status, out.Records, len(out.Body))
	e.logger.DebugContext(ctx, "export built",
		"content_type", contentType,
		"status", status,
		"records", out.Records,
		"bytes", len(out.Body),
	)

	return out, nil
}

// Run fetches records of contentType from src and builds the export. Records
// are not fetched for content types that may not be exported.
func (e *Exporter) Run(ctx context.Context, src Source, contentType string, q Query) (*Export, error) {
	ctx, span := e.tracer.Start(ctx, "export.run",
		trace.WithAttributes(tracing.QueryAttributes(contentType, q.CreatedSince, q.Limit)...))
	defer span.End()

	if !e.settings.Load().Policy.IsExportable(contentType) {
		return e.BuildExport(ctx, contentType, nil)
	}

	records, err := src.Records(ctx, contentType, q)
	if err != nil {
		e.observe(contentType, StatusError, 0, 0, 0)
		err = &SourceError{ContentType: contentType, Cause: err}
		tracing.SetError(span, err)
		return nil, err
	}

	return e.BuildExport(ctx, contentType, records)
}

func (e *Exporter) observe(contentType, status string, rows, size int, d time.Duration) {
	if e.observer == nil {
		return
	}
	e.observer.RecordExport(contentType, status, rows, size, d)
}
