package eventbus

import (
	"context"
	"errors"
	"testing"

	"notifier-go/core/event"
)

// cartObserver is a plain observer identified by its type.
type cartObserver struct {
	name string
}

func (o *cartObserver) Update(ctx context.Context, n *Notifier, eventID string, p *event.Params) error {
	return nil
}

// instanceObserver opts into per-instance identity.
type instanceObserver struct {
	id string
}

func (o *instanceObserver) Update(ctx context.Context, n *Notifier, eventID string, p *event.Params) error {
	return nil
}

func (o *instanceObserver) ObserverID() string {
	return "instance:" + o.id
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	if r == nil {
		t.Fatal("expected non-nil registry")
	}
	if r.Len() != 0 {
		t.Errorf("expected len 0, got %d", r.Len())
	}
	if r.Snapshot() != nil {
		t.Error("expected nil snapshot for empty registry")
	}
}

func TestRegistry_Attach_Idempotent(t *testing.T) {
	r := NewRegistry()
	obs := &cartObserver{}

	if err := r.Attach(obs, "ORDER_PLACED"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := r.Attach(obs, "ORDER_PLACED"); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if r.Len() != 1 {
		t.Errorf("expected 1 registration, got %d", r.Len())
	}
}

func TestRegistry_Attach_SameTypeCollides(t *testing.T) {
	r := NewRegistry()
	first := &cartObserver{name: "first"}
	second := &cartObserver{name: "second"}

	_ = r.Attach(first, "ORDER_PLACED")
	_ = r.Attach(second, "ORDER_PLACED")

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(snap))
	}
	if snap[0].Observer != second {
		t.Error("second instance should replace the first")
	}
}

func TestRegistry_Attach_PerInstanceIdentity(t *testing.T) {
	r := NewRegistry()

	_ = r.Attach(&instanceObserver{id: "a"}, "ORDER_PLACED")
	_ = r.Attach(&instanceObserver{id: "b"}, "ORDER_PLACED")

	if r.Len() != 2 {
		t.Errorf("expected 2 registrations, got %d", r.Len())
	}
}

func TestRegistry_Attach_Nil(t *testing.T) {
	r := NewRegistry()

	if err := r.Attach(nil, "X"); !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver, got %v", err)
	}

	var typedNil *cartObserver
	if err := r.Attach(typedNil, "X"); !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver for typed nil, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}

	r.Detach(nil, "X")
	if r.Contains(nil, "X") {
		t.Error("nil observer should never be contained")
	}
}

func TestRegistry_Order(t *testing.T) {
	r := NewRegistry()
	obs := &cartObserver{}

	_ = r.Attach(obs, "A", "B", "C")
	_ = r.Attach(obs, "A") // replace in place

	assertOrder(t, r, "A", "B", "C")

	r.Detach(obs, "A")
	_ = r.Attach(obs, "A")

	assertOrder(t, r, "B", "C", "A")
}

func assertOrder(t *testing.T, r *Registry, expected ...string) {
	t.Helper()

	snap := r.Snapshot()
	if len(snap) != len(expected) {
		t.Fatalf("expected %d registrations, got %d", len(expected), len(snap))
	}
	for i, rec := range snap {
		if rec.EventID != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], rec.EventID)
		}
	}
}

func TestRegistry_Detach(t *testing.T) {
	r := NewRegistry()
	obs := &cartObserver{}

	_ = r.Attach(obs, "A", "B")
	r.Detach(obs, "A")

	if r.Contains(obs, "A") {
		t.Error("A should be detached")
	}
	if !r.Contains(obs, "B") {
		t.Error("B should remain attached")
	}

	// Detaching unknown pairs is a no-op
	r.Detach(obs, "A", "NEVER_ATTACHED")
	r.Detach(&instanceObserver{id: "x"}, "B")

	if r.Len() != 1 {
		t.Errorf("expected 1 registration, got %d", r.Len())
	}
}

func TestRegistry_AttachDetachRoundTrip(t *testing.T) {
	r := NewRegistry()
	other := &instanceObserver{id: "keep"}
	_ = r.Attach(other, "KEEP")

	before := r.Snapshot()

	obs := &cartObserver{}
	events := []string{"ORDER_PLACED", event.Wildcard, "LEGACY_EVT"}
	_ = r.Attach(obs, events...)
	r.Detach(obs, events...)

	after := r.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("expected %d registrations after round trip, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Key != after[i].Key {
			t.Errorf("position %d: key changed", i)
		}
	}
}

func TestRegistry_SnapshotIsolated(t *testing.T) {
	r := NewRegistry()
	obs := &cartObserver{}
	_ = r.Attach(obs, "A", "B")

	snap := r.Snapshot()
	r.Detach(obs, "A")
	_ = r.Attach(obs, "C")

	if len(snap) != 2 || snap[0].EventID != "A" || snap[1].EventID != "B" {
		t.Errorf("snapshot changed after mutation: %+v", snap)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	obs := &cartObserver{}
	_ = r.Attach(obs, "A")

	rec, ok := r.Get(ObserverIdentity(obs), "A")
	if !ok {
		t.Fatal("expected registration")
	}
	if rec.Key != KeyFor(ObserverIdentity(obs), "A") {
		t.Error("unexpected key")
	}
	if rec.ObserverID != "notifier-go/core/eventbus.cartObserver" {
		t.Errorf("ObserverID = %s", rec.ObserverID)
	}

	if _, ok := r.Get(ObserverIdentity(obs), "B"); ok {
		t.Error("expected no registration for B")
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	_ = r.Attach(&cartObserver{}, "A", "B")
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("expected empty registry after Clear, got %d", r.Len())
	}
}

func TestKeyFor(t *testing.T) {
	if KeyFor("obs", "A") != KeyFor("obs", "A") {
		t.Error("keys should be deterministic")
	}
	if KeyFor("obs", "A") == KeyFor("obs", "B") {
		t.Error("different events should have different keys")
	}
	if KeyFor("ob", "sA") == KeyFor("obs", "A") {
		t.Error("identity and event must not run together")
	}
}

func TestObserverIdentity(t *testing.T) {
	fn := ObserverFunc(func(ctx context.Context, n *Notifier, eventID string, p *event.Params) error {
		return nil
	})

	tests := []struct {
		name     string
		obs      Observer
		expected string
	}{
		{"pointer type", &cartObserver{}, "notifier-go/core/eventbus.cartObserver"},
		{"identifier", &instanceObserver{id: "7"}, "instance:7"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObserverIdentity(tt.obs); got != tt.expected {
				t.Errorf("ObserverIdentity() = %q, want %q", got, tt.expected)
			}
		})
	}

	if got := ObserverIdentity(fn); got == "" {
		t.Error("ObserverFunc should be identified by its function name")
	}
}
