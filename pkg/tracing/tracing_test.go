package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInitTracerWithoutEndpoint(t *testing.T) {
	tp, tracer, err := InitTracer(context.Background(), Config{ServiceName: "signal-desk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	if tracer == nil {
		t.Fatal("expected tracer")
	}
	if otel.GetTracerProvider() != tp {
		t.Fatal("expected global tracer provider to be installed")
	}

	_, span := tracer.Start(context.Background(), "test.span")
	if !span.SpanContext().IsValid() {
		t.Fatal("expected a recording span with valid context")
	}
	span.End()
}

func TestInitTracerWithEndpoint(t *testing.T) {
	// The gRPC exporter connects lazily so no collector is needed here.
	tp, _, err := InitTracer(context.Background(), Config{Endpoint: "127.0.0.1:4317"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tp.Shutdown(ctx)
}
