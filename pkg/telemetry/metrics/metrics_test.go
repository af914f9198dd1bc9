package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contentworks/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Path:            "/metrics",
		Namespace:       "test",
		DurationBuckets: []float64{0.01, 0.1, 1},
		MaxContentTypes: 3,
	}
}

func TestNewCollector(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}
	if collector.Registry() == nil {
		t.Error("Registry() returned nil")
	}
}

func TestNewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("DurationBuckets not defaulted")
	}
	if cfg.MaxContentTypes != config.DefaultMetricsMaxContentTypes {
		t.Errorf("MaxContentTypes = %d, want %d", cfg.MaxContentTypes, config.DefaultMetricsMaxContentTypes)
	}
}

func TestRecordExport(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordExport("pages", "ok", 2, 40, 5*time.Millisecond)
	collector.RecordExport("pages", "ok", 3, 50, 5*time.Millisecond)
	collector.RecordExport("pages", "empty", 0, 3, time.Millisecond)

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("pages", "ok")); got != 2 {
		t.Errorf("exports_total{pages,ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("pages", "empty")); got != 1 {
		t.Errorf("exports_total{pages,empty} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(em.rowsTotal.WithLabelValues("pages")); got != 5 {
		t.Errorf("export_rows_total{pages} = %v, want 5", got)
	}
}

func TestRecordExport_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordExport("pages", "ok", 1, 10, time.Millisecond)

	if got := testutil.ToFloat64(collector.exportMetrics.exportsTotal.WithLabelValues("pages", "ok")); got != 0 {
		t.Errorf("exports_total = %v, want 0 when disabled", got)
	}
}

func TestRecordExport_CardinalityOverflow(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	for _, ct := range []string{"a", "b", "c", "d", "e"} {
		collector.RecordExport(ct, "denied", 0, 3, 0)
	}

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("other", "denied")); got != 2 {
		t.Errorf("exports_total{other,denied} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("a", "denied")); got != 1 {
		t.Errorf("exports_total{a,denied} = %v, want 1", got)
	}
	if got := collector.cardinalityLimiter.Count(); got != 3 {
		t.Errorf("cardinality = %d, want 3", got)
	}
}

func TestRecordScheduledRun(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordScheduledRun("nightly-pages", "ok", time.Second)
	collector.RecordScheduledRun("nightly-pages", "error", time.Second)

	sm := collector.scheduleMetrics
	if got := testutil.ToFloat64(sm.runsTotal.WithLabelValues("nightly-pages", "ok")); got != 1 {
		t.Errorf("scheduled_runs_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sm.runsTotal.WithLabelValues("nightly-pages", "error")); got != 1 {
		t.Errorf("scheduled_runs_total{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sm.lastSuccess.WithLabelValues("nightly-pages")); got <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("first two labels should be allowed")
	}
	if cl.Allow("c") {
		t.Error("third label should be rejected")
	}
	if !cl.Allow("a") {
		t.Error("known label should still be allowed")
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}

func TestHandler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordExport("pages", "ok", 2, 40, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `test_exports_total{content_type="pages",status="ok"} 1`) {
		t.Errorf("metrics output missing exports_total sample:\n%s", body)
	}
}
