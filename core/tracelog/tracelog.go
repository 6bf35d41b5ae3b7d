// Package tracelog records notifier dispatches to an append-only trace log.
//
// Tracing is controlled by a process-wide mode (see ParseMode). When enabled,
// every dispatch produces one Entry holding the event name, the page the
// dispatch happened on and the non-empty parameters rendered in the
// configured format. Trace failures are logged and swallowed: tracing never
// changes the outcome of a dispatch.
package tracelog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"notifier-go/core/event"
)

// Config holds Tracer options.
type Config struct {
	Mode   Mode
	Sink   Sink
	Logger *slog.Logger
	// Now returns the entry timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Tracer renders dispatches into trace entries.
type Tracer struct {
	mode   Mode
	sink   Sink
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Tracer. A nil config or a nil sink yields a disabled tracer.
func New(cfg *Config) *Tracer {
	if cfg == nil {
		cfg = &Config{}
	}

	t := &Tracer{
		mode:   cfg.Mode,
		sink:   cfg.Sink,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
	if t.sink == nil {
		t.mode = ModeOff
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// Mode returns the active trace mode.
func (t *Tracer) Mode() Mode {
	if t == nil {
		return ModeOff
	}
	return t.mode
}

// Enabled reports whether Record writes entries.
func (t *Tracer) Enabled() bool {
	return t.Mode().Enabled()
}

// Record traces one dispatch of eventID. It is a no-op when tracing is off.
func (t *Tracer) Record(ctx context.Context, eventID string, p *event.Params) {
	if !t.Enabled() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("Trace record panicked", "event", eventID, "panic", fmt.Sprint(r))
		}
	}()

	entry := t.entry(ctx, eventID, p)
	if err := t.sink.Append(ctx, entry); err != nil {
		t.logger.Warn("Failed to append trace entry", "event", eventID, "error", err)
	}
}

func (t *Tracer) entry(ctx context.Context, eventID string, p *event.Params) Entry {
	entry := Entry{
		Time:    t.now(),
		Page:    PageFrom(ctx),
		EventID: eventID,
		Mode:    t.mode,
		Fields:  Fields(p),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
	}

	rendered, err := Render(t.mode, entry.Fields)
	if err != nil {
		t.logger.Warn("Failed to render trace params", "event", eventID, "error", err)
	}
	entry.Rendered = rendered
	return entry
}
