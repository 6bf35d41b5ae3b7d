package eventbus

import (
	"context"

	"notifier-go/core/event"
)

// Notifier announces events on behalf of one component. Notifiers are cheap;
// all notifiers of a Bus share its registry, so an observer attached through
// one notifier receives events announced by any of them.
type Notifier struct {
	bus    *Bus
	source any
}

// Source returns the component the notifier announces for.
func (n *Notifier) Source() any {
	return n.source
}

// Bus returns the bus the notifier dispatches through.
func (n *Notifier) Bus() *Bus {
	return n.bus
}

// Attach registers obs for the given event names.
func (n *Notifier) Attach(obs Observer, eventIDs ...string) error {
	return n.bus.registry.Attach(obs, eventIDs...)
}

// Detach unregisters obs from the given event names.
func (n *Notifier) Detach(obs Observer, eventIDs ...string) {
	n.bus.registry.Detach(obs, eventIDs...)
}

// Notify announces eventID to every matching observer, in attach order, and
// returns once all of them ran. p is shared by all observers; nil means no
// parameters. The first handler error stops delivery and is returned as a
// *HandlerError.
func (n *Notifier) Notify(ctx context.Context, eventID string, p *event.Params) error {
	return n.bus.notify(ctx, n, eventID, p)
}

// Publish notifies e.EventName() with e as the payload, or with the payload
// of an *event.Named.
func (n *Notifier) Publish(ctx context.Context, e event.Event) error {
	var payload any = e
	if named, ok := e.(*event.Named); ok {
		payload = named.Payload
	}
	return n.Notify(ctx, e.EventName(), event.NewParams(payload))
}
