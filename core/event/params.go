package event

import (
	"errors"
	"fmt"
)

// Slot bounds. Slot 1 is the by-value payload; slots 2 through 9 are shared
// references every observer of a dispatch reads and writes.
const (
	FirstSlot = 1
	FirstRef  = 2
	LastSlot  = 9
	refCount  = LastSlot - FirstRef + 1
)

// ErrInvalidSlot is returned when a slot number is outside 2..9.
var ErrInvalidSlot = errors.New("invalid parameter slot")

// Params is the parameter bundle handed to every observer of one dispatch.
// The same *Params is shared by all observers, so a reference slot set by one
// observer is seen by the observers after it and by the notifying caller once
// Notify returns. Value is reset to the caller's payload before each observer
// and after the dispatch. A nil slot means the slot is absent.
type Params struct {
	// Value is the by-value payload (slot 1). Assignments made by an
	// observer are local to its own call.
	Value any

	refs [refCount]any
}

// NewParams creates a bundle with the given payload and reference slots
// filled in order starting at slot 2. Extra refs beyond slot 9 are ignored.
func NewParams(value any, refs ...any) *Params {
	p := &Params{Value: value}
	for i, r := range refs {
		if i >= refCount {
			break
		}
		p.refs[i] = r
	}
	return p
}

// Ref returns the value in reference slot n (2..9).
// Returns nil for absent or out-of-range slots.
func (p *Params) Ref(n int) any {
	if n < FirstRef || n > LastSlot {
		return nil
	}
	return p.refs[n-FirstRef]
}

// SetRef stores v in reference slot n (2..9).
func (p *Params) SetRef(n int, v any) error {
	if n < FirstRef || n > LastSlot {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, n)
	}
	p.refs[n-FirstRef] = v
	return nil
}

// HasRef reports whether reference slot n holds a value.
func (p *Params) HasRef(n int) bool {
	return p.Ref(n) != nil
}

// Slot returns slot n in 1..9, slot 1 being Value.
func (p *Params) Slot(n int) any {
	if n == FirstSlot {
		return p.Value
	}
	return p.Ref(n)
}

// Refs returns a copy of reference slots 2..9, in order.
func (p *Params) Refs() []any {
	result := make([]any, refCount)
	copy(result, p.refs[:])
	return result
}
