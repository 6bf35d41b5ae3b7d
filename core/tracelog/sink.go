package tracelog

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Sink is an append-only destination for trace entries.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// WriterSink appends formatted trace lines to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Append writes e.Line() to the underlying writer.
func (s *WriterSink) Append(ctx context.Context, e Entry) error {
	line := e.Line()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line)
	return err
}

// MultiSink fans entries out to several sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink over all non-nil sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &MultiSink{sinks: filtered}
}

// Append appends e to every sink, even when an earlier one fails.
// The returned error joins all failures.
func (m *MultiSink) Append(ctx context.Context, e Entry) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Append(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of wrapped sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

// NopSink discards all entries.
type NopSink struct{}

func (NopSink) Append(ctx context.Context, e Entry) error { return nil }
