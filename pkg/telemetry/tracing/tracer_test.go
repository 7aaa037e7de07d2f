package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorded(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return NewWithProvider(provider), recorder
}

func TestNew_WithoutEndpointIsNoop(t *testing.T) {
	tracer, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("Enabled() = true, want false")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if id := TraceID(ctx); id != "" {
		t.Errorf("TraceID() = %q, want empty", id)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{name: "with endpoint", endpoint: "localhost:4317"},
		{name: "without endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), Config{Endpoint: tt.endpoint, Sampler: "sometimes"})
			if !errors.Is(err, ErrInvalidSampler) {
				t.Fatalf("New() error = %v, want ErrInvalidSampler", err)
			}
		})
	}
}

func TestStart_ParentChild(t *testing.T) {
	tracer, recorder := newRecorded(t)

	ctx, root := tracer.Start(context.Background(), "proxyforge.generate")
	_, child := tracer.Start(ctx, "proxyforge.render")
	End(child, nil, "")
	End(root, nil, "")

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "proxyforge.render" {
		t.Errorf("first ended span = %q, want proxyforge.render", spans[0].Name())
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("render span is not a child of the generate span")
	}
	if TraceID(ctx) == "" {
		t.Error("TraceID() is empty inside a recorded span")
	}
}

func TestEnd_RecordsErrorClass(t *testing.T) {
	tracer, recorder := newRecorded(t)

	_, span := tracer.Start(context.Background(), "proxyforge.config.build")
	End(span, errors.New("required key SERVICE_COUNT is not set"), "missing-configuration")

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status().Code)
	}

	var class string
	for _, kv := range got.Attributes() {
		if kv.Key == "error.class" {
			class = kv.Value.AsString()
		}
	}
	if class != "missing-configuration" {
		t.Errorf("error.class = %q, want missing-configuration", class)
	}
	if len(got.Events()) != 1 {
		t.Errorf("events = %d, want the recorded error", len(got.Events()))
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{name: "default", strategy: ""},
		{name: "always", strategy: SamplerAlways},
		{name: "never", strategy: SamplerNever},
		{name: "half", strategy: SamplerRatio, ratio: 0.5},
		{name: "negative ratio", strategy: SamplerRatio, ratio: -0.1, wantErr: true},
		{name: "ratio above one", strategy: SamplerRatio, ratio: 1.5, wantErr: true},
		{name: "unknown strategy", strategy: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := newSampler(tt.strategy, tt.ratio)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSampler) {
					t.Errorf("newSampler() error = %v, want ErrInvalidSampler", err)
				}
				return
			}
			if err != nil || sampler == nil {
				t.Errorf("newSampler() = %v, %v", sampler, err)
			}
		})
	}
}

func TestNew_NeverSamplerDropsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	sampler, err := newSampler(SamplerNever, 0)
	if err != nil {
		t.Fatalf("newSampler() error = %v", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(recorder),
		sdktrace.WithSampler(sampler),
	)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, span := NewWithProvider(provider).Start(context.Background(), "proxyforge.generate")
	End(span, nil, "")

	if n := len(recorder.Ended()); n != 0 {
		t.Errorf("ended spans = %d, want 0", n)
	}
}
