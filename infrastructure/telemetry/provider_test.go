package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	p, err := Setup(context.Background(), Options{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Enabled() {
		t.Error("Enabled() = true, want false")
	}

	_, span := p.Tracer("test").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("noop provider produced a valid span context")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export succeeds.
	p, err := Setup(context.Background(), Options{
		ServiceName: "test-service",
		Endpoint:    "http://192.0.2.1:4318",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Enabled() {
		t.Error("Enabled() = false, want true")
	}

	_, span := p.Tracer("test").Start(context.Background(), "exported")
	if !span.SpanContext().IsValid() {
		t.Error("sdk provider produced an invalid span context")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// The span is never ended, so shutdown has nothing to export.
	_ = p.Shutdown(ctx)
}
