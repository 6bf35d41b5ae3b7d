package eventbus

import "errors"

// ErrNilObserver is returned when a nil observer is attached.
var ErrNilObserver = errors.New("observer cannot be nil")

// HandlerError wraps an error returned by an observer handler.
// Delivery stops at the first failing handler.
type HandlerError struct {
	// ObserverID identifies the observer whose handler failed.
	ObserverID string

	// EventID is the event name passed to the handler.
	EventID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return "observer " + e.ObserverID + " failed handling " + e.EventID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
