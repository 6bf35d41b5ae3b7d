// Package application wires configuration, trace sinks and the event bus
// into a Runtime shared by the components of one process.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"

	"notifier-go/core/event"
	"notifier-go/core/eventbus"
	"notifier-go/core/tracelog"
	"notifier-go/infrastructure/config"
	"notifier-go/infrastructure/logging"
	"notifier-go/infrastructure/repository"
)

// ErrNoTraceStore is returned when trace history is requested from a runtime
// without a MongoDB trace store.
var ErrNoTraceStore = errors.New("no trace store configured")

// RuntimeConfig holds configuration for the Runtime.
type RuntimeConfig struct {
	// Settings are the parsed process settings. Defaults to the zero Config
	// (tracing off, built-in aliases, no MongoDB).
	Settings *config.Config
	// AliasFS resolves Settings.AliasFile. Defaults to the directory of the
	// alias file on disk.
	AliasFS fs.FS
	// TraceWriter replaces the rotating trace file when set.
	TraceWriter io.Writer
	// TraceSinks are appended to the sinks built from Settings.
	TraceSinks     []tracelog.Sink
	TracerProvider trace.TracerProvider
	Logger         *slog.Logger
	// Now stamps trace entries. Defaults to time.Now.
	Now func() time.Time
}

// Runtime owns the registry, alias table, tracer and bus of a process and
// the resources behind its trace sinks.
type Runtime struct {
	settings *config.Config
	aliases  *event.Aliases
	registry *eventbus.Registry
	tracer   *tracelog.Tracer
	bus      *eventbus.Bus
	store    *repository.MongoTraceStore
	logger   *slog.Logger

	closers []func(context.Context) error
}

// NewRuntime builds a Runtime. Resources opened before a failure are
// released before the error is returned.
func NewRuntime(ctx context.Context, cfg *RuntimeConfig) (*Runtime, error) {
	if cfg == nil {
		cfg = &RuntimeConfig{}
	}

	r := &Runtime{
		settings: cfg.Settings,
		logger:   cfg.Logger,
	}
	if r.settings == nil {
		r.settings = &config.Config{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	aliases, err := loadAliases(cfg.AliasFS, r.settings.AliasFile)
	if err != nil {
		return nil, err
	}
	r.aliases = aliases

	if r.settings.MongoEnabled() {
		store, err := r.openMongoStore(ctx)
		if err != nil {
			_ = r.Close(ctx)
			return nil, err
		}
		r.store = store
	}

	sink, err := r.openSinks(cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}

	r.tracer = tracelog.New(&tracelog.Config{
		Mode:   r.settings.TraceMode,
		Sink:   sink,
		Logger: r.logger,
		Now:    cfg.Now,
	})
	r.registry = eventbus.NewRegistry()
	r.bus = eventbus.New(&eventbus.Config{
		Registry:       r.registry,
		Aliases:        r.aliases,
		Tracer:         r.tracer,
		TracerProvider: cfg.TracerProvider,
		Logger:         r.logger,
	})

	r.logger.Info("Runtime started",
		"trace_mode", r.tracer.Mode().String(),
		"aliases", r.aliases.Len())

	return r, nil
}

// loadAliases reads the alias file, resolving it on disk when fsys is nil.
func loadAliases(fsys fs.FS, path string) (*event.Aliases, error) {
	if path != "" && fsys == nil {
		fsys = os.DirFS(filepath.Dir(path))
		path = filepath.Base(path)
	}
	return config.LoadAliases(fsys, path)
}

// openSinks builds the trace sinks for an enabled trace mode. It returns nil
// when tracing is off.
func (r *Runtime) openSinks(cfg *RuntimeConfig) (tracelog.Sink, error) {
	if !r.settings.TraceMode.Enabled() {
		return nil, nil
	}

	var sinks []tracelog.Sink

	if cfg.TraceWriter != nil {
		sinks = append(sinks, tracelog.NewWriterSink(cfg.TraceWriter))
	} else {
		fileCfg := logging.DefaultTraceFileConfig()
		fileCfg.Dir = r.settings.LogDir
		file, err := logging.OpenTraceFile(fileCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		r.closers = append(r.closers, func(context.Context) error { return file.Close() })
		sinks = append(sinks, tracelog.NewWriterSink(file))
		r.logger.Info("Trace file opened", "path", file.Filename)
	}

	if r.store != nil {
		sinks = append(sinks, r.store)
	}

	sinks = append(sinks, cfg.TraceSinks...)
	return tracelog.NewMultiSink(sinks...), nil
}

func (r *Runtime) openMongoStore(ctx context.Context) (*repository.MongoTraceStore, error) {
	mongoCfg := repository.DefaultMongoDBConfig()
	mongoCfg.URI = r.settings.MongoURI
	if r.settings.MongoDatabase != "" {
		mongoCfg.Database = r.settings.MongoDatabase
	}
	if r.settings.ServiceName != "" {
		mongoCfg.AppName = r.settings.ServiceName
	}

	db, err := repository.NewMongoDB(ctx, mongoCfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace store: %w", err)
	}
	r.closers = append(r.closers, db.Close)

	store := repository.NewMongoTraceStore(db, r.logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		r.logger.Warn("Failed to create trace indexes", "error", err)
	}
	return store, nil
}

// Settings returns the settings the runtime was built from.
func (r *Runtime) Settings() *config.Config {
	return r.settings
}

// Aliases returns the alias table.
func (r *Runtime) Aliases() *event.Aliases {
	return r.aliases
}

// Registry returns the observer registry shared by all notifiers.
func (r *Runtime) Registry() *eventbus.Registry {
	return r.registry
}

// Tracer returns the dispatch tracer.
func (r *Runtime) Tracer() *tracelog.Tracer {
	return r.tracer
}

// Bus returns the event bus.
func (r *Runtime) Bus() *eventbus.Bus {
	return r.bus
}

// RecentTraces returns up to limit stored trace entries for eventID, newest
// first. It needs a MongoDB trace store; traces are stored only while the
// trace mode is enabled.
func (r *Runtime) RecentTraces(ctx context.Context, eventID string, limit int64) ([]tracelog.Entry, error) {
	if r.store == nil {
		return nil, ErrNoTraceStore
	}
	return r.store.FindByEvent(ctx, eventID, limit)
}

// TraceCount returns the number of stored trace entries for eventID, or of
// all events when eventID is empty.
func (r *Runtime) TraceCount(ctx context.Context, eventID string) (int64, error) {
	if r.store == nil {
		return 0, ErrNoTraceStore
	}
	return r.store.Count(ctx, eventID)
}

// NewNotifier creates a notifier for source on the runtime's bus.
func (r *Runtime) NewNotifier(source any) *eventbus.Notifier {
	return r.bus.NewNotifier(source)
}

// Close releases the trace sinks in reverse order of opening. It is safe to
// call more than once.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil

	if r.bus != nil {
		stats := r.bus.Stats()
		r.logger.Info("Runtime stopped",
			"notified", stats.Notified,
			"delivered", stats.Delivered,
			"failed", stats.Failed)
	}
	return errors.Join(errs...)
}
