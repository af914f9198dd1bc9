package metrics

import (
	"sync"
	"time"

	"contentworks/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// overflowLabel replaces content type labels once the cardinality cap is hit.
const overflowLabel = "other"

// Collector owns the Prometheus registry and every csvexport metric. It
// satisfies export.Observer so the exporter can report outcomes directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics   *ExportMetrics
	scheduleMetrics *ScheduleMetrics

	// Content type keys come from request URLs, so they are capped.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector registering its metrics with registry. If
// registry is nil a fresh one is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "csvexport"}
//	collector := metrics.NewCollector(cfg, nil)
//	exporter := export.NewExporter(settings, export.WithObserver(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}
	if cfg.MaxContentTypes <= 0 {
		cfg.MaxContentTypes = config.DefaultMetricsMaxContentTypes
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		exportMetrics:      NewExportMetrics(cfg, registry),
		scheduleMetrics:    NewScheduleMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(cfg.MaxContentTypes),
	}
}

// RecordExport records the outcome of one export.
//
// Parameters:
//   - contentType: requested content type key
//   - status: "ok", "empty", "denied" or "error"
//   - rows: data rows written
//   - size: body size in bytes
//   - duration: time spent building the export
func (c *Collector) RecordExport(contentType, status string, rows, size int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(contentType) {
		contentType = overflowLabel
	}

	c.exportMetrics.Record(contentType, status, rows, size, duration)
}

// RecordScheduledRun records the outcome of one scheduled export run.
func (c *Collector) RecordScheduledRun(job, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.scheduleMetrics.Record(job, status, duration)
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether label may be used: it was seen before or the limit
// has not been reached yet.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[label]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
