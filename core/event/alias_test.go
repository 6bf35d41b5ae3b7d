package event

import (
	"errors"
	"testing"
)

func TestDefaultAliases(t *testing.T) {
	a := DefaultAliases()

	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	if !a.HasAlias(OrderCartSubtotal) {
		t.Error("expected canonical subtotal event to have an alias")
	}
	if a.HasAlias(LegacyOrderCartSubtotal) {
		t.Error("legacy name should not itself be an alias target")
	}

	canonical, ok := a.Substitute(LegacyOrderCartSubtotal)
	if !ok || canonical != OrderCartSubtotal {
		t.Errorf("Substitute() = %q, %v, want %q, true", canonical, ok, OrderCartSubtotal)
	}
}

func TestAliases_Substitute_Unknown(t *testing.T) {
	a := DefaultAliases()

	if _, ok := a.Substitute("NOT_ALIASED"); ok {
		t.Error("expected ok=false for unaliased name")
	}
}

func TestAliases_MultipleEntries(t *testing.T) {
	a := NewAliases()
	if err := a.Add("OLD_A", "NEW_EVT"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Add("OLD_B", "NEW_EVT"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Add("OLD_C", "OTHER_EVT"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}

	got := a.AliasesOf("NEW_EVT")
	if len(got) != 2 || got[0] != "OLD_A" || got[1] != "OLD_B" {
		t.Errorf("AliasesOf(NEW_EVT) = %v, want [OLD_A OLD_B]", got)
	}

	legacy := a.Legacy()
	if len(legacy) != 3 || legacy[0] != "OLD_A" || legacy[2] != "OLD_C" {
		t.Errorf("Legacy() = %v", legacy)
	}
}

func TestAliases_Add(t *testing.T) {
	a := NewAliases()

	if err := a.Add("OLD", "NEW"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Add("OLD", "NEW"); err != nil {
		t.Errorf("re-adding identical pair: %v", err)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}

	err := a.Add("OLD", "OTHER")
	if !errors.Is(err, ErrAliasConflict) {
		t.Errorf("expected ErrAliasConflict, got %v", err)
	}

	if err := a.Add("", "NEW"); err == nil {
		t.Error("expected error for empty legacy name")
	}
}

func TestAliases_Nil(t *testing.T) {
	var a *Aliases

	if a.HasAlias("X") {
		t.Error("nil table should report no aliases")
	}
	if _, ok := a.Substitute("X"); ok {
		t.Error("nil table should not substitute")
	}
	if a.Len() != 0 {
		t.Error("nil table should be empty")
	}
	if got := a.Pairs(); len(got) != 0 {
		t.Errorf("Pairs() = %v, want empty", got)
	}
	if got := a.Legacy(); got != nil {
		t.Errorf("Legacy() = %v, want nil", got)
	}
	if got := a.AliasesOf("X"); got != nil {
		t.Errorf("AliasesOf() = %v, want nil", got)
	}
}

func TestAliases_Pairs(t *testing.T) {
	a := DefaultAliases()
	if err := a.Add("OLD", "NEW"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	pairs := a.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("Pairs() = %v, want 2 entries", pairs)
	}
	if pairs[LegacyOrderCartSubtotal] != OrderCartSubtotal || pairs["OLD"] != "NEW" {
		t.Errorf("Pairs() = %v", pairs)
	}

	pairs["OLD"] = "CHANGED"
	if got, _ := a.Substitute("OLD"); got != "NEW" {
		t.Errorf("Substitute(OLD) = %q after mutating the copy, want NEW", got)
	}
}
