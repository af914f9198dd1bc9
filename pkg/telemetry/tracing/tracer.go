package tracing

import (
	"context"
	"errors"
	"fmt"

	"contentworks/csvexport/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope of every span the service creates.
const TracerName = "contentworks/csvexport"

// Tracer wraps the OpenTelemetry tracer provider set up from configuration.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New creates a Tracer exporting spans to the configured OTLP gRPC collector.
// When tracing is disabled a noop tracer is returned.
//
// An enabled tracer is installed as the global provider, and W3C trace
// context propagation is enabled. It must be shut down to flush spans:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *config.TracingConfig, version string) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}

	if !cfg.Enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	exporter, err := createExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	t, err := NewWithExporter(cfg, version, exporter)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return t, nil
}

// NewWithExporter creates an enabled Tracer sending spans to exporter. It
// does not touch the global provider.
func NewWithExporter(cfg *config.TracingConfig, version string, exporter sdktrace.SpanExporter) (*Tracer, error) {
	sampler, err := createSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	return &Tracer{
		tracer:   provider.Tracer(TracerName),
		provider: provider,
		enabled:  true,
	}, nil
}

// Tracer returns the OpenTelemetry tracer used to start spans.
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// Start creates a new span as a child of any span in ctx.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// ForceFlush exports all finished spans without shutting down.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.ForceFlush(ctx)
}

// Shutdown flushes any pending spans and shuts down the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled returns whether tracing is enabled.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// createExporter creates an OTLP gRPC exporter. The connection is made
// lazily, so an unreachable collector does not prevent startup.
func createExporter(cfg *config.TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.OTLP.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if cfg.OTLP.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.OTLP.Timeout))
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return exporter, nil
}

// TraceID returns the trace ID from the context as a string.
// Returns empty string if no trace context exists.
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SetError marks the span as failed and records the error. A nil error
// leaves the span untouched.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
