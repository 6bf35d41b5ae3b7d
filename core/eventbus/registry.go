package eventbus

import (
	"sync"

	"github.com/google/uuid"
)

// Registration records one observer attached to one event name.
type Registration struct {
	Key        uuid.UUID
	ObserverID string
	EventID    string
	Observer   Observer
}

// Registry holds registrations keyed by (observer identity, event name).
// Registrations keep the order they were first attached in; re-attaching an
// existing key replaces the observer in place. Registry is safe for
// concurrent use, and handlers may attach or detach while a dispatch is
// iterating a snapshot.
type Registry struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Registration
	order   []uuid.UUID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[uuid.UUID]*Registration),
	}
}

// Attach registers obs for each event name.
// Attaching an already registered (identity, event) pair replaces it.
func (r *Registry) Attach(obs Observer, eventIDs ...string) error {
	if isNil(obs) {
		return ErrNilObserver
	}

	id := ObserverIdentity(obs)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventID := range eventIDs {
		key := KeyFor(id, eventID)
		if rec, exists := r.records[key]; exists {
			rec.Observer = obs
			continue
		}
		r.records[key] = &Registration{
			Key:        key,
			ObserverID: id,
			EventID:    eventID,
			Observer:   obs,
		}
		r.order = append(r.order, key)
	}
	return nil
}

// Detach removes obs from each event name. Unknown pairs are ignored.
func (r *Registry) Detach(obs Observer, eventIDs ...string) {
	if isNil(obs) {
		return
	}

	id := ObserverIdentity(obs)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventID := range eventIDs {
		key := KeyFor(id, eventID)
		if _, exists := r.records[key]; !exists {
			continue
		}
		delete(r.records, key)
		for i, k := range r.order {
			if k == key {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
}

// Snapshot returns the current registrations in attach order.
// The result is a copy and is unaffected by later Attach or Detach calls.
func (r *Registry) Snapshot() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}

	result := make([]Registration, len(r.order))
	for i, key := range r.order {
		result[i] = *r.records[key]
	}
	return result
}

// Get returns the registration for an observer identity and event name.
func (r *Registry) Get(observerID, eventID string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[KeyFor(observerID, eventID)]
	if !exists {
		return Registration{}, false
	}
	return *rec, true
}

// Contains reports whether obs is attached to eventID.
func (r *Registry) Contains(obs Observer, eventID string) bool {
	if isNil(obs) {
		return false
	}
	_, ok := r.Get(ObserverIdentity(obs), eventID)
	return ok
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear removes all registrations.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[uuid.UUID]*Registration)
	r.order = nil
}
