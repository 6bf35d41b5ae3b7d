// Package event defines event names, the legacy alias table, the handler
// naming convention and the parameter bundle shared by one dispatch.
package event

// Wildcard is the event name that subscribes an observer to every event.
const Wildcard = "*"

// Event is implemented by typed events that carry their own name.
// Publishing an Event notifies its EventName with the event itself as the
// by-value payload.
type Event interface {
	// EventName returns the name observers subscribe to
	EventName() string
}

// Named is a minimal Event built from a name and a payload.
type Named struct {
	Name    string
	Payload any
}

// NewNamed creates a Named event.
func NewNamed(name string, payload any) *Named {
	return &Named{Name: name, Payload: payload}
}

func (e *Named) EventName() string {
	return e.Name
}
