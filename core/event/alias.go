package event

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrAliasConflict is returned when a legacy name is already mapped to a
// different canonical name.
var ErrAliasConflict = errors.New("legacy event name already aliased")

// LegacyOrderCartSubtotal is the misspelled event name kept alive for
// observers written against older releases.
const LegacyOrderCartSubtotal = "NOTIFIY_ORDER_CART_SUBTOTAL_CALCULATE"

// OrderCartSubtotal is the canonical name of LegacyOrderCartSubtotal.
const OrderCartSubtotal = "NOTIFY_ORDER_CART_SUBTOTAL_CALCULATE"

// Aliases maps legacy event names to their canonical names.
// Lookups run in both directions: a dispatched canonical name is checked for
// legacy names pointing at it, and a registered legacy name is substituted
// with its canonical target.
type Aliases struct {
	mu        sync.RWMutex
	canonical map[string]string   // legacy -> canonical
	legacy    map[string][]string // canonical -> legacy names
}

// NewAliases creates an empty alias table.
func NewAliases() *Aliases {
	return &Aliases{
		canonical: make(map[string]string),
		legacy:    make(map[string][]string),
	}
}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() *Aliases {
	a := NewAliases()
	_ = a.Add(LegacyOrderCartSubtotal, OrderCartSubtotal)
	return a
}

// Add maps legacy to canonical. Re-adding an identical pair is a no-op.
func (a *Aliases) Add(legacy, canonical string) error {
	if legacy == "" || canonical == "" {
		return fmt.Errorf("alias %q -> %q: empty event name", legacy, canonical)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.canonical[legacy]; ok {
		if existing == canonical {
			return nil
		}
		return fmt.Errorf("%w: %q -> %q (have %q)", ErrAliasConflict, legacy, canonical, existing)
	}

	a.canonical[legacy] = canonical
	a.legacy[canonical] = append(a.legacy[canonical], legacy)
	return nil
}

// HasAlias reports whether some legacy name resolves to eventID.
func (a *Aliases) HasAlias(eventID string) bool {
	if a == nil {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.legacy[eventID]) > 0
}

// Substitute returns the canonical name for a legacy name.
// ok is false when legacy is not aliased; check HasAlias on the dispatched
// name before relying on the result.
func (a *Aliases) Substitute(legacy string) (canonical string, ok bool) {
	if a == nil {
		return "", false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	canonical, ok = a.canonical[legacy]
	return canonical, ok
}

// AliasesOf returns the legacy names that resolve to canonical.
func (a *Aliases) AliasesOf(canonical string) []string {
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := a.legacy[canonical]
	if len(names) == 0 {
		return nil
	}
	result := make([]string, len(names))
	copy(result, names)
	return result
}

// Pairs returns a copy of all legacy -> canonical entries.
func (a *Aliases) Pairs() map[string]string {
	if a == nil {
		return map[string]string{}
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make(map[string]string, len(a.canonical))
	for k, v := range a.canonical {
		result[k] = v
	}
	return result
}

// Legacy returns all legacy names, sorted alphabetically.
func (a *Aliases) Legacy() []string {
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.canonical))
	for name := range a.canonical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of alias entries.
func (a *Aliases) Len() int {
	if a == nil {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.canonical)
}
