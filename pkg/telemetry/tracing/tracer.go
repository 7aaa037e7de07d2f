package tracing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name of every proxyforge span.
const InstrumentationName = "proxyforge"

// Config configures span export.
type Config struct {
	// Endpoint is the OTLP gRPC collector address. Empty disables tracing.
	Endpoint string

	// Insecure disables transport security towards the collector.
	Insecure bool

	// Sampler is the sampling strategy ("always", "never", "ratio").
	Sampler string

	// SampleRatio is the sampling ratio for the "ratio" strategy.
	SampleRatio float64

	// Timeout bounds each export. Zero uses the exporter default.
	Timeout time.Duration

	// ServiceName and ServiceVersion describe the emitting process.
	ServiceName    string
	ServiceVersion string
}

// Tracer wraps an OpenTelemetry tracer and the provider that owns it.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New creates a Tracer from cfg. Without an endpoint a noop tracer is
// returned.
//
// The sampler is checked even without an endpoint, so a bad --trace-sampler
// fails every run alike.
func New(ctx context.Context, cfg Config) (*Tracer, error) {
	sampler, err := newSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return Noop(), nil
	}

	// Create exporter
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}
	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// Create resource
	name := cfg.ServiceName
	if name == "" {
		name = InstrumentationName
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(name),
			semconv.ServiceVersion(cfg.ServiceVersion),
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

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return &Tracer{
		tracer:   provider.Tracer(InstrumentationName),
		provider: provider,
		enabled:  true,
	}, nil
}

// NewWithProvider creates a Tracer on an existing SDK provider. The caller
// keeps ownership of provider; Shutdown flushes it.
func NewWithProvider(provider *sdktrace.TracerProvider) *Tracer {
	return &Tracer{
		tracer:   provider.Tracer(InstrumentationName),
		provider: provider,
		enabled:  true,
	}
}

// Noop returns a Tracer that records nothing.
func Noop() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}
}

// Start creates a span named name as a child of the span in ctx.
//
//	ctx, span := tracer.Start(ctx, "proxyforge.render")
//	defer span.End()
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled reports whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// End records err (if any) on span, sets its status and ends it. class is
// the error class label attached to failed spans.
func End(span trace.Span, err error, class string) {
	if err != nil {
		span.SetAttributes(attribute.String("error.class", class))
		if !errors.Is(err, context.Canceled) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
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
