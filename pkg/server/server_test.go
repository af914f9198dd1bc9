package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/server/handlers"
	"contentworks/csvexport/pkg/store"
	"contentworks/csvexport/pkg/telemetry/health"

	"github.com/google/go-cmp/cmp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type failingSource struct{}

func (failingSource) Records(context.Context, string, export.Query) ([]export.Record, error) {
	return nil, errors.New("database unavailable")
}

func testServer(t *testing.T, src export.Source) (*Server, *export.Exporter) {
	t.Helper()

	exportCfg := &config.ExportConfig{
		Permission: "contenttype-action",
		FileNames:  map[string]string{"pages": "site pages"},
		Disabled:   []string{"entries"},
		ContentTypes: []config.ContentTypeConfig{
			{Key: "pages", Name: "Pages"},
			{Key: "entries", Name: "Entries"},
			{Key: "showcases", Name: "Showcases"},
		},
		Mappings: map[string]map[string]config.FieldMappingConfig{
			"pages": {
				"id":    {Omit: true},
				"title": {Title: "Title"},
			},
		},
	}
	exporter := export.NewExporter(export.NewSettings(exportCfg))

	cfg := &config.ServerConfig{
		ListenAddress:   "127.0.0.1:0",
		MountPrefix:     "/export",
		ShutdownTimeout: time.Second,
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})

	return NewServer(cfg, exporter, src, WithMetrics("/metrics", metrics)), exporter
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	for i, title := range []string{"Home", "About"} {
		r := export.Record{
			ID:        string(rune('1' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Fields:    []export.Field{export.F("id", i+1), export.F("title", title)},
		}
		if err := s.Put(ctx, "pages", r); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_ExportDownload(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))
	w := get(t, srv.Handler(), "/export/pages")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="site pages.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	body := w.Body.Bytes()
	if !bytes.HasPrefix(body, export.BOM) {
		t.Fatal("body does not start with the byte order mark")
	}
	lines := strings.Fields(strings.ReplaceAll(string(body[len(export.BOM):]), "\r\n", "\n"))
	if diff := cmp.Diff([]string{"Title", "Home", "About"}, lines); diff != "" {
		t.Errorf("csv lines mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_ExportLimitAndSince(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))

	w := get(t, srv.Handler(), "/export/pages?limit=1")
	if !strings.Contains(w.Body.String(), "Home") || strings.Contains(w.Body.String(), "About") {
		t.Errorf("limit=1 body = %q", w.Body.String())
	}

	w = get(t, srv.Handler(), "/export/pages?since=2024-01-01T00:30:00Z")
	if strings.Contains(w.Body.String(), "Home") || !strings.Contains(w.Body.String(), "About") {
		t.Errorf("since body = %q", w.Body.String())
	}

	for _, target := range []string{"/export/pages?since=yesterday", "/export/pages?limit=-1"} {
		if w := get(t, srv.Handler(), target); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestServer_ExportNotExportable(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))

	for _, ct := range []string{"entries", "unknown", "Pages"} {
		t.Run(ct, func(t *testing.T) {
			w := get(t, srv.Handler(), "/export/"+ct)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if !bytes.Equal(w.Body.Bytes(), export.BOM) {
				t.Errorf("body = %q, want BOM only", w.Body.Bytes())
			}
		})
	}
}

func TestServer_ExportSourceError(t *testing.T) {
	srv, _ := testServer(t, failingSource{})
	w := get(t, srv.Handler(), "/export/pages")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "database unavailable") {
		t.Error("internal error leaked to the client")
	}
}

func TestServer_Listing(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))

	for _, target := range []string{"/export", "/export/"} {
		w := get(t, srv.Handler(), target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", target, w.Code)
		}

		var resp handlers.ListResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode listing: %v", err)
		}

		want := handlers.ListResponse{
			Permission: "contenttype-action",
			Exports: []handlers.ListEntry{
				{Key: "pages", Name: "Pages", URL: "/export/pages"},
				{Key: "showcases", Name: "Showcases", URL: "/export/showcases"},
			},
		}
		if diff := cmp.Diff(want, resp); diff != "" {
			t.Errorf("%s: listing mismatch (-want +got):\n%s", target, diff)
		}
	}
}

func TestServer_ReloadChangesExports(t *testing.T) {
	srv, exporter := testServer(t, seededStore(t))

	exporter.Reload(export.NewSettings(&config.ExportConfig{
		Disabled:     []string{"pages"},
		ContentTypes: []config.ContentTypeConfig{{Key: "pages"}},
	}))

	w := get(t, srv.Handler(), "/export/pages")
	if !bytes.Equal(w.Body.Bytes(), export.BOM) {
		t.Errorf("body after reload = %q, want BOM only", w.Body.Bytes())
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))

	w := get(t, srv.Handler(), "/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("health: status = %d, body = %q", w.Code, w.Body.String())
	}

	w = get(t, srv.Handler(), "/metrics")
	if w.Body.String() != "metrics" {
		t.Errorf("metrics body = %q", w.Body.String())
	}
}

func TestServer_ReadinessAndVersion(t *testing.T) {
	exporter := export.NewExporter(export.NewSettings(&config.ExportConfig{}))
	checker := health.New(time.Second)
	ready := true
	checker.RegisterCheck("store", func(context.Context) error {
		if !ready {
			return errors.New("database unavailable")
		}
		return nil
	})

	srv := NewServer(&config.ServerConfig{MountPrefix: "/export"}, exporter, seededStore(t),
		WithHealth(checker),
		WithVersion("1.2.3", "abc123", "2024-03-01"),
	)

	if w := get(t, srv.Handler(), "/ready"); w.Code != http.StatusOK {
		t.Errorf("ready: status = %d, body = %q", w.Code, w.Body.String())
	}

	ready = false
	if w := get(t, srv.Handler(), "/ready"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready after failure: status = %d, want 503", w.Code)
	}

	w := get(t, srv.Handler(), "/version")
	if !strings.Contains(w.Body.String(), `"version":"1.2.3"`) {
		t.Errorf("version body = %q", w.Body.String())
	}
}

func TestServer_TracesExports(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	exporter := export.NewExporter(export.NewSettings(&config.ExportConfig{}), export.WithTracer(tracer))
	srv := NewServer(&config.ServerConfig{MountPrefix: "/export"}, exporter, seededStore(t), WithTracer(tracer))

	w := get(t, srv.Handler(), "/export/pages")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Trace-ID") == "" {
		t.Error("X-Trace-ID header not set")
	}

	spans := make(map[string]sdktrace.ReadOnlySpan)
	for _, span := range recorder.Ended() {
		spans[span.Name()] = span
	}
	for _, name := range []string{http.MethodGet, "export.run", "export.build"} {
		if _, ok := spans[name]; !ok {
			t.Fatalf("span %q not recorded; got %d spans", name, len(spans))
		}
	}

	root := spans[http.MethodGet]
	if spans["export.run"].Parent().SpanID() != root.SpanContext().SpanID() {
		t.Error("export.run is not a child of the request span")
	}
	if spans["export.build"].SpanContext().TraceID() != root.SpanContext().TraceID() {
		t.Error("export.build is not in the request trace")
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))

	req := httptest.NewRequest(http.MethodPost, "/export/pages", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestServer_StartAndStop(t *testing.T) {
	srv, _ := testServer(t, seededStore(t))

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !srv.IsRunning() {
		t.Fatal("server did not start")
	}

	srv.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	if srv.IsRunning() {
		t.Error("server still running after Stop()")
	}
}
