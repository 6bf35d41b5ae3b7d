// Package eventbus provides the in-process notifier: a deduplicating observer
// registry and a synchronous dispatcher shared by every notifier built from
// the same Bus.
//
// Observers attach to event names (or to event.Wildcard). When a notifier
// announces an event, every matching observer is called in registration
// order with the same *event.Params, so values set by one observer are seen
// by the next and by the caller after Notify returns.
//
// An observer always implements the generic Update handler. It may also
// provide event-specific handlers, either through HandlerProvider or as a
// method named after the event (see event.MethodName); specific handlers take
// precedence over Update.
package eventbus

import (
	"context"

	"notifier-go/core/event"
)

// Observer receives events it attached to.
type Observer interface {
	// Update is the generic handler, called when no event-specific handler exists.
	Update(ctx context.Context, n *Notifier, eventID string, p *event.Params) error
}

// HandlerFunc is the signature of every observer handler.
type HandlerFunc func(ctx context.Context, n *Notifier, eventID string, p *event.Params) error

// HandlerProvider is implemented by observers that register event-specific
// handlers explicitly. Keys are event names as attached.
type HandlerProvider interface {
	Handlers() map[string]HandlerFunc
}

// Identifier is implemented by observers that supply their own identity.
// By default an observer is identified by its type, so two instances of one
// type attaching to the same event replace each other.
type Identifier interface {
	ObserverID() string
}

// ObserverFunc adapts a function to an Observer.
// Its identity is the function's name.
type ObserverFunc HandlerFunc

// Update calls f.
func (f ObserverFunc) Update(ctx context.Context, n *Notifier, eventID string, p *event.Params) error {
	return f(ctx, n, eventID, p)
}
