package eventbus

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"notifier-go/core/event"
	"notifier-go/core/tracelog"
)

const instrumentationName = "notifier-go/core/eventbus"

// Config holds the collaborators of a Bus. Nil fields get defaults.
type Config struct {
	// Registry is shared by every notifier of the bus. Defaults to a new registry.
	Registry *Registry
	// Aliases maps legacy event names to canonical ones. Defaults to event.DefaultAliases.
	Aliases *event.Aliases
	// Tracer records every dispatch. Defaults to a disabled tracer.
	Tracer *tracelog.Tracer
	// TracerProvider supplies OpenTelemetry spans. Defaults to the global provider.
	TracerProvider trace.TracerProvider
	Logger         *slog.Logger
}

// Bus dispatches events announced by its notifiers to the observers in its
// registry.
type Bus struct {
	registry *Registry
	aliases  *event.Aliases
	tracer   *tracelog.Tracer
	spans    trace.Tracer
	methods  methodCache
	logger   *slog.Logger

	// Stats
	notified  atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
}

// New creates a Bus.
func New(cfg *Config) *Bus {
	if cfg == nil {
		cfg = &Config{}
	}

	b := &Bus{
		registry: cfg.Registry,
		aliases:  cfg.Aliases,
		tracer:   cfg.Tracer,
		logger:   cfg.Logger,
	}
	if b.registry == nil {
		b.registry = NewRegistry()
	}
	if b.aliases == nil {
		b.aliases = event.DefaultAliases()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	b.spans = provider.Tracer(instrumentationName)

	return b
}

// Registry returns the registry shared by the bus's notifiers.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// Aliases returns the alias table used for matching.
func (b *Bus) Aliases() *event.Aliases {
	return b.aliases
}

// NewNotifier creates a notifier announcing events on behalf of source.
// Observers receive the notifier and can reach source through it.
func (b *Bus) NewNotifier(source any) *Notifier {
	return &Notifier{bus: b, source: source}
}

// notify runs one dispatch of eventID for n.
func (b *Bus) notify(ctx context.Context, n *Notifier, eventID string, p *event.Params) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if p == nil {
		p = event.NewParams(nil)
	}

	ctx, span := b.spans.Start(ctx, "notify "+eventID,
		trace.WithAttributes(attribute.String("notifier.event", eventID)))
	defer span.End()

	b.notified.Add(1)
	b.tracer.Record(ctx, eventID, p)

	if b.registry.Len() == 0 {
		return nil
	}

	records := b.registry.Snapshot()
	hasAlias := b.aliases.HasAlias(eventID)

	b.logger.Debug("Dispatching event", "event", eventID, "registrations", len(records))

	// Slot 1 is passed by value: every handler starts from the caller's
	// payload and the caller gets it back unchanged.
	value := p.Value
	defer func() { p.Value = value }()

	delivered := 0
	for _, rec := range records {
		actualEventID, ok := b.match(rec, eventID, hasAlias)
		if !ok {
			continue
		}

		handler := b.methods.resolve(rec.Observer, actualEventID)
		delivered++
		b.delivered.Add(1)

		p.Value = value
		if err := handler(ctx, n, actualEventID, p); err != nil {
			b.failed.Add(1)
			herr := &HandlerError{ObserverID: rec.ObserverID, EventID: actualEventID, Err: err}
			span.SetAttributes(attribute.Int("notifier.delivered", delivered))
			span.RecordError(herr)
			span.SetStatus(codes.Error, herr.Error())
			return herr
		}
	}

	span.SetAttributes(attribute.Int("notifier.delivered", delivered))
	return nil
}

// match reports whether rec receives eventID and the event name its handler
// is called with. Direct and wildcard registrations receive eventID as is; a
// registration for a legacy alias of eventID receives its own legacy name.
func (b *Bus) match(rec Registration, eventID string, hasAlias bool) (string, bool) {
	if rec.EventID == eventID || rec.EventID == event.Wildcard {
		return eventID, true
	}
	if !hasAlias {
		return "", false
	}
	if canonical, ok := b.aliases.Substitute(rec.EventID); ok && canonical == eventID {
		return rec.EventID, true
	}
	return "", false
}

// Stats returns dispatch statistics.
func (b *Bus) Stats() Stats {
	return Stats{
		Notified:  b.notified.Load(),
		Delivered: b.delivered.Load(),
		Failed:    b.failed.Load(),
	}
}

// Stats contains dispatch counters of a Bus.
type Stats struct {
	// Notified is the number of Notify calls.
	Notified uint64

	// Delivered is the number of handler invocations.
	Delivered uint64

	// Failed is the number of handlers that returned errors.
	Failed uint64
}
