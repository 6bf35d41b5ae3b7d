// Package main is the entry point for the notifier demo, configured from
// NOTIFIER_* environment variables.
//
//	notifier [EVENT...]            announce events (a demo set when none given)
//	notifier history EVENT [N]     print the N most recent stored traces of EVENT
//	notifier aliases               print the alias table
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"notifier-go/application"
	"notifier-go/core/event"
	"notifier-go/core/eventbus"
	"notifier-go/core/tracelog"
	"notifier-go/infrastructure/config"
	"notifier-go/infrastructure/logging"
	"notifier-go/infrastructure/telemetry"
)

const defaultHistoryLimit = 20

// defaultEvents are announced when no event names are given.
var defaultEvents = []string{
	"NOTIFY_HEADER_START",
	event.OrderCartSubtotal,
	"NOTIFY_HEADER_END",
}

// subtotalObserver applies a fixed discount to the cart subtotal passed by
// reference in slot 2. It is registered under the legacy event name.
type subtotalObserver struct {
	discount float64
}

func (o *subtotalObserver) UpdateNotifiyOrderCartSubtotalCalculate(ctx context.Context, n *eventbus.Notifier, eventID string, p *event.Params) error {
	subtotal, _ := p.Ref(2).(float64)
	logging.From(ctx).Info("Applying discount", "event", eventID, "subtotal", subtotal, "discount", o.discount)
	return p.SetRef(2, subtotal-o.discount)
}

func (o *subtotalObserver) Update(ctx context.Context, n *eventbus.Notifier, eventID string, p *event.Params) error {
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.L().Error("Notifier failed", "error", err)
		os.Exit(1)
	}
}

// run sets up logging, telemetry and the runtime, executes the command in
// args and releases everything before returning.
func run(args []string) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Dir = settings.LogDir
	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer closeLog()

	ctx := logging.With(context.Background(), logger)

	provider, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: settings.ServiceName,
		Endpoint:    settings.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	rt, err := application.NewRuntime(ctx, &application.RuntimeConfig{
		Settings:       settings,
		TracerProvider: provider,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("initialize runtime: %w", err)
	}
	defer rt.Close(ctx)

	return execute(ctx, rt, os.Stdout, args)
}

// execute dispatches one command against rt.
func execute(ctx context.Context, rt *application.Runtime, out io.Writer, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "history":
			return history(ctx, rt, out, args[1:])
		case "aliases":
			return printAliases(out, rt.Aliases())
		}
	}
	return dispatch(tracelog.WithPage(ctx, tracelog.HomePage), rt, args)
}

// dispatch attaches the demo observers and announces events in order.
func dispatch(ctx context.Context, rt *application.Runtime, events []string) error {
	if len(events) == 0 {
		events = defaultEvents
	}

	ctx = logging.WithAttrs(ctx, "source", "cli")
	n := rt.NewNotifier("cli")

	auditor := eventbus.ObserverFunc(func(ctx context.Context, n *eventbus.Notifier, eventID string, p *event.Params) error {
		logging.From(ctx).Info("Event observed", "event", eventID)
		return nil
	})
	if err := n.Attach(auditor, event.Wildcard); err != nil {
		return err
	}
	if err := n.Attach(&subtotalObserver{discount: 5}, event.LegacyOrderCartSubtotal); err != nil {
		return err
	}

	logger := logging.From(ctx)
	for _, eventID := range events {
		p := event.NewParams(nil)
		if eventID == event.OrderCartSubtotal {
			p = event.NewParams(nil, 100.0)
		}

		if err := n.Notify(ctx, eventID, p); err != nil {
			return err
		}
		if p.HasRef(2) {
			logger.Info("Event dispatched", "event", eventID, "subtotal", p.Ref(2))
		}
	}

	stats := rt.Bus().Stats()
	logger.Info("Dispatch complete", "notified", stats.Notified, "delivered", stats.Delivered)
	return nil
}

// history prints stored trace lines for one event, newest first.
func history(ctx context.Context, rt *application.Runtime, out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("history: missing event name")
	}
	eventID := args[0]

	limit := int64(defaultHistoryLimit)
	if len(args) > 1 {
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("history: invalid limit %q: %w", args[1], err)
		}
		limit = n
	}

	total, err := rt.TraceCount(ctx, eventID)
	if err != nil {
		return err
	}
	entries, err := rt.RecentTraces(ctx, eventID, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d stored, showing %d\n", eventID, total, len(entries))
	for _, e := range entries {
		io.WriteString(out, e.Line())
	}
	return nil
}

// printAliases prints one "legacy -> canonical" line per alias, sorted by
// legacy name.
func printAliases(out io.Writer, aliases *event.Aliases) error {
	pairs := aliases.Pairs()
	for _, legacy := range aliases.Legacy() {
		if _, err := fmt.Fprintf(out, "%s -> %s\n", legacy, pairs[legacy]); err != nil {
			return err
		}
	}
	return nil
}
