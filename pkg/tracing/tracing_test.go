package tracing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type recordingExporter struct {
	mu       sync.Mutex
	endpoint string
	spans    []sdktrace.ReadOnlySpan
}

func (r *recordingExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, spans...)
	return nil
}

func (r *recordingExporter) Shutdown(context.Context) error { return nil }

func stubExporter(t *testing.T) *recordingExporter {
	t.Helper()
	orig := newTraceExporter
	t.Cleanup(func() { newTraceExporter = orig })

	rec := &recordingExporter{}
	newTraceExporter = func(_ context.Context, endpoint string) (sdktrace.SpanExporter, error) {
		rec.endpoint = endpoint
		return rec, nil
	}
	return rec
}

func TestDisabledTracerNeverExports(t *testing.T) {
	rec := stubExporter(t)

	tp, tracer, err := InitTracer(context.Background(), Config{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	_, span := tracer.Start(context.Background(), "analysis-service.analyze")
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if rec.endpoint != "" || len(rec.spans) != 0 {
		t.Fatalf("disabled tracer must not build an exporter, got endpoint=%q spans=%d", rec.endpoint, len(rec.spans))
	}
}

func TestEnabledTracerExportsWithServiceResource(t *testing.T) {
	rec := stubExporter(t)

	tp, tracer, err := InitTracer(context.Background(), Config{
		Enabled:     true,
		Endpoint:    " collector:4317 ",
		ServiceName: "pumpradar-mcp",
		Version:     "1.0.0",
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	_, span := tracer.Start(context.Background(), "mcp.analyze-ticker")
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if rec.endpoint != "collector:4317" {
		t.Fatalf("expected trimmed endpoint, got %q", rec.endpoint)
	}
	if len(rec.spans) != 1 {
		t.Fatalf("expected 1 exported span, got %d", len(rec.spans))
	}
	attrs := rec.spans[0].Resource().Set()
	if v, ok := attrs.Value(semconv.ServiceNameKey); !ok || v.AsString() != "pumpradar-mcp" {
		t.Fatalf("expected service name resource, got %v", v)
	}
	if v, _ := attrs.Value(semconv.ServiceVersionKey); v.AsString() != "1.0.0" {
		t.Fatalf("expected service version, got %v", v)
	}
}

func TestExporterErrorAndDefaultEndpoint(t *testing.T) {
	orig := newTraceExporter
	defer func() { newTraceExporter = orig }()

	var got string
	newTraceExporter = func(_ context.Context, endpoint string) (sdktrace.SpanExporter, error) {
		got = endpoint
		return nil, errors.New("collector unreachable")
	}
	if _, _, err := InitTracer(context.Background(), Config{Enabled: true}); err == nil {
		t.Fatal("expected exporter error")
	}
	if got != defaultEndpoint {
		t.Fatalf("expected default endpoint, got %q", got)
	}
}

func TestSampler(t *testing.T) {
	cases := map[float64]string{
		0:    "AlwaysOnSampler",
		1:    "AlwaysOnSampler",
		0.25: "TraceIDRatioBased{0.25}",
	}
	for ratio, want := range cases {
		desc := Config{SampleRatio: ratio}.sampler().Description()
		if !strings.Contains(desc, want) {
			t.Fatalf("ratio %v: expected %s in %q", ratio, want, desc)
		}
	}
	if (Config{}).serviceName() != defaultServiceName {
		t.Fatal("expected default service name")
	}
}
