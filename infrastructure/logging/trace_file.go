package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// TraceFileName is the file notifier trace lines are appended to.
const TraceFileName = "notifier_trace.log"

// TraceFileConfig controls the rotating notifier trace log.
type TraceFileConfig struct {
	// Dir is the directory of the trace file. Defaults to DefaultLogDir().
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultTraceFileConfig returns defaults for the trace log.
// Trace output is verbose, so it rotates sooner and keeps fewer backups than
// the application log.
func DefaultTraceFileConfig() *TraceFileConfig {
	return &TraceFileConfig{
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// OpenTraceFile opens the rotating trace log. The caller closes it.
func OpenTraceFile(cfg *TraceFileConfig) (*lumberjack.Logger, error) {
	if cfg == nil {
		cfg = DefaultTraceFileConfig()
	}

	dir := cfg.Dir
	if dir == "" {
		dir = DefaultLogDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create trace log dir: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, TraceFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}, nil
}
