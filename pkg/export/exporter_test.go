package export

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contentworks/csvexport/pkg/config"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type staticSource struct {
	records map[string][]Record
	err     error
	calls   int
	last    Query
}

func (s *staticSource) Records(_ context.Context, contentType string, q Query) ([]Record, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	return s.records[contentType], nil
}

type exportEvent struct {
	contentType string
	status      string
	rows        int
	size        int
}

type recordingObserver struct {
	mu     sync.Mutex
	events []exportEvent
}

func (o *recordingObserver) RecordExport(contentType, status string, rows, size int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, exportEvent{contentType, status, rows, size})
}

func (o *recordingObserver) last() exportEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.events) == 0 {
		return exportEvent{}
	}
	return o.events[len(o.events)-1]
}

func pagesConfig() *config.ExportConfig {
	return &config.ExportConfig{
		FileNames: map[string]string{"pages": "site pages"},
		Disabled:  []string{"entries"},
		ContentTypes: []config.ContentTypeConfig{
			{Key: "pages", Name: "Pages"},
			{Key: "entries", Name: "Entries"},
		},
		Mappings: map[string]map[string]config.FieldMappingConfig{
			"pages": {
				"id":    {Omit: true},
				"title": {Title: "Title"},
			},
		},
	}
}

func pagesSource() *staticSource {
	return &staticSource{records: map[string][]Record{
		"pages": {
			NewRecord(F("id", 1), F("title", "Home")),
			NewRecord(F("id", 2), F("title", "About")),
		},
	}}
}

func TestExporter_Run(t *testing.T) {
	observer := &recordingObserver{}
	e := NewExporter(NewSettings(pagesConfig()), WithObserver(observer))

	out, err := e.Run(context.Background(), pagesSource(), "pages", Query{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := append(append([]byte{}, BOM...), lines("Title\nHome\nAbout\n")...)
	if !bytes.Equal(out.Body, want) {
		t.Errorf("Body = %q, want %q", out.Body, want)
	}
	if out.Records != 2 {
		t.Errorf("Records = %d, want 2", out.Records)
	}
	if out.FullFilename() != "site pages.csv" {
		t.Errorf("FullFilename() = %q", out.FullFilename())
	}
	if out.MIMEType != MIMETypeCSV {
		t.Errorf("MIMEType = %q", out.MIMEType)
	}

	got := observer.last()
	if got != (exportEvent{"pages", StatusOK, 2, len(out.Body)}) {
		t.Errorf("observer event = %+v", got)
	}
}

func TestExporter_RunPassesQuery(t *testing.T) {
	e := NewExporter(NewSettings(pagesConfig()))
	src := pagesSource()

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := e.Run(context.Background(), src, "pages", Query{CreatedSince: &since, Limit: 5}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if src.last.Limit != 5 || src.last.CreatedSince == nil || !src.last.CreatedSince.Equal(since) {
		t.Errorf("source received query %+v", src.last)
	}
}

func TestExporter_EmptyRecords(t *testing.T) {
	observer := &recordingObserver{}
	e := NewExporter(NewSettings(pagesConfig()), WithObserver(observer))

	out, err := e.Run(context.Background(), &staticSource{}, "pages", Query{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !bytes.Equal(out.Body, BOM) {
		t.Errorf("Body = %q, want BOM only", out.Body)
	}
	if out.Records != 0 {
		t.Errorf("Records = %d, want 0", out.Records)
	}
	if observer.last().status != StatusEmpty {
		t.Errorf("status = %q, want %q", observer.last().status, StatusEmpty)
	}
}

func TestExporter_NotExportable(t *testing.T) {
	tests := []string{"entries", "unknown", "Pages"}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			observer := &recordingObserver{}
			e := NewExporter(NewSettings(pagesConfig()), WithObserver(observer))
			src := pagesSource()

			out, err := e.Run(context.Background(), src, key, Query{})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !bytes.Equal(out.Body, BOM) {
				t.Errorf("Body = %q, want BOM only", out.Body)
			}
			if out.Filename != key {
				t.Errorf("Filename = %q, want %q", out.Filename, key)
			}
			if src.calls != 0 {
				t.Error("records fetched for a content type that is not exportable")
			}
			if observer.last().status != StatusDenied {
				t.Errorf("status = %q, want %q", observer.last().status, StatusDenied)
			}
		})
	}
}

func TestExporter_SourceError(t *testing.T) {
	observer := &recordingObserver{}
	e := NewExporter(NewSettings(pagesConfig()), WithObserver(observer))
	cause := errors.New("database is locked")

	_, err := e.Run(context.Background(), &staticSource{err: cause}, "pages", Query{})
	if err == nil {
		t.Fatal("expected error")
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.ContentType != "pages" {
		t.Errorf("expected SourceError for pages, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("SourceError does not wrap its cause")
	}
	if observer.last().status != StatusError {
		t.Errorf("status = %q, want %q", observer.last().status, StatusError)
	}
}

func TestExporter_BuildExportTranslates(t *testing.T) {
	cfg := &config.ExportConfig{
		Separator: ";",
		Mappings: map[string]map[string]config.FieldMappingConfig{
			"products": {
				"colour": {Title: "Colour", Values: map[string]string{"1": "Red", "2": "Blue"}},
			},
		},
	}
	e := NewExporter(NewSettings(cfg))

	records := []Record{
		NewRecord(F("name", "Shirt"), F("colour", `["1","2"]`)),
		NewRecord(F("colour", "9"), F("name", "Hat")),
	}

	out, err := e.BuildExport(context.Background(), "products", records)
	if err != nil {
		t.Fatalf("BuildExport() error = %v", err)
	}

	want := lines("name;Colour\nShirt;\"Red\nBlue\"\nHat;9\n")
	if got := string(out.Body[len(BOM):]); got != want {
		t.Errorf("Body = %q, want %q", got, want)
	}
}

func TestExporter_Reload(t *testing.T) {
	e := NewExporter(NewSettings(pagesConfig()))

	if keys := e.ExportableKeys(); len(keys) != 1 || keys[0] != "pages" {
		t.Fatalf("ExportableKeys() = %v", keys)
	}

	cfg := pagesConfig()
	cfg.Disabled = []string{"pages"}
	e.Reload(NewSettings(cfg))

	if keys := e.ExportableKeys(); len(keys) != 1 || keys[0] != "entries" {
		t.Errorf("ExportableKeys() after reload = %v", keys)
	}

	out, err := e.Run(context.Background(), pagesSource(), "pages", Query{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !bytes.Equal(out.Body, BOM) {
		t.Error("disabled content type still exported after reload")
	}
}

func TestExporter_ConcurrentReload(t *testing.T) {
	e := NewExporter(NewSettings(pagesConfig()))
	src := pagesSource()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.Reload(NewSettings(pagesConfig()))
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := e.BuildExport(context.Background(), "pages", src.records["pages"]); err != nil {
					t.Errorf("BuildExport() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestExport_Disposition(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"pages", `attachment; filename="pages.csv"`},
		{"site pages", `attachment; filename="site pages.csv"`},
		{`bad"name`, `attachment; filename="badname.csv"`},
		{"line\r\nbreak", `attachment; filename="linebreak.csv"`},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			out := &Export{Filename: tt.filename}
			if got := out.Disposition(); got != tt.want {
				t.Errorf("Disposition() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExporter_Listing(t *testing.T) {
	e := NewExporter(NewSettings(pagesConfig()))

	available := e.AvailableExports()
	if len(available) != 1 || available[0].Name != "Pages" {
		t.Errorf("AvailableExports() = %+v", available)
	}
	if e.Permission() != "" {
		t.Errorf("Permission() = %q, want empty", e.Permission())
	}
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) string {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestExporter_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	e := NewExporter(NewSettings(pagesConfig()), WithTracer(provider.Tracer("test")))

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := e.Run(context.Background(), pagesSource(), "pages", Query{CreatedSince: &since}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	build, run := ended[0], ended[1]
	if build.Name() != "export.build" || run.Name() != "export.run" {
		t.Fatalf("span names = %q, %q", build.Name(), run.Name())
	}
	if build.Parent().SpanID() != run.SpanContext().SpanID() {
		t.Error("export.build is not a child of export.run")
	}
	if got := spanAttr(run, "csvexport.query.since"); got != "2024-01-01T00:00:00Z" {
		t.Errorf("since attribute = %q", got)
	}
	if got := spanAttr(build, "csvexport.export.status"); got != StatusOK {
		t.Errorf("status attribute = %q", got)
	}
	if got := spanAttr(build, "csvexport.export.records"); got != "2" {
		t.Errorf("records attribute = %q", got)
	}
}

func TestExporter_SourceErrorSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	e := NewExporter(NewSettings(pagesConfig()), WithTracer(provider.Tracer("test")))

	_, err := e.Run(context.Background(), &staticSource{err: errors.New("database is locked")}, "pages", Query{})
	if err == nil {
		t.Fatal("expected error")
	}

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want error", ended[0].Status().Code)
	}
}
