package placement

import (
	"errors"
	"testing"

	"macdisp/internal/display"
)

// notchCatalog models a 14" MacBook panel: the 1964 px tall modes include
// the area beside the notch, the 1890 px ones do not.
func notchCatalog() []display.Mode {
	return []display.Mode{
		mode(1, 3024, 1964, 120),
		mode(2, 3024, 1890, 120),
		mode(3, 3024, 1964, 60),
		mode(4, 3024, 1890, 60),
		scaled(mode(5, 1512, 982, 120)),
		scaled(mode(6, 1512, 945, 120)),
	}
}

func TestPlanNotch_Hide(t *testing.T) {
	catalog := notchCatalog()
	plan, err := PlanNotch(NotchHide, catalog[0], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Target.Number != 2 || plan.NoOp {
		t.Fatalf("expected switch to mode 2, got %+v", plan)
	}
	if len(plan.Family) != 2 {
		t.Fatalf("expected family of 2, got %d", len(plan.Family))
	}
	if len(plan.Warnings) != 0 {
		t.Fatalf("expected no warnings for built-in display, got %v", plan.Warnings)
	}
}

func TestPlanNotch_Show(t *testing.T) {
	catalog := notchCatalog()
	plan, err := PlanNotch(NotchShow, catalog[5], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Target.Number != 5 {
		t.Fatalf("expected switch to mode 5, got %d", plan.Target.Number)
	}
}

func TestPlanNotch_AlreadyInState(t *testing.T) {
	catalog := notchCatalog()

	plan, err := PlanNotch(NotchHide, catalog[1], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.NoOp || plan.Target.Number != 2 {
		t.Fatalf("expected no-op on mode 2, got %+v", plan)
	}

	plan, err = PlanNotch(NotchShow, catalog[0], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.NoOp || plan.Target.Number != 1 {
		t.Fatalf("expected no-op on mode 1, got %+v", plan)
	}
}

func TestPlanNotch_Toggle(t *testing.T) {
	catalog := notchCatalog()

	plan, err := PlanNotch(NotchToggle, catalog[2], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Action != NotchHide || plan.Target.Number != 4 {
		t.Fatalf("expected toggle to hide into mode 4, got action %v target %d", plan.Action, plan.Target.Number)
	}

	plan, err = PlanNotch(NotchToggle, catalog[3], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Action != NotchShow || plan.Target.Number != 3 {
		t.Fatalf("expected toggle to show into mode 3, got action %v target %d", plan.Action, plan.Target.Number)
	}
}

func TestPlanNotch_PicksNearestHeight(t *testing.T) {
	catalog := []display.Mode{
		mode(1, 2000, 1200, 60),
		mode(2, 2000, 1000, 60),
		mode(3, 2000, 1100, 60),
	}

	plan, err := PlanNotch(NotchHide, catalog[0], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Target.Number != 3 {
		t.Fatalf("expected hide to pick the tallest shorter mode 3, got %d", plan.Target.Number)
	}

	plan, err = PlanNotch(NotchShow, catalog[1], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Target.Number != 3 {
		t.Fatalf("expected show to pick the shortest taller mode 3, got %d", plan.Target.Number)
	}
}

func TestPlanNotch_DuplicateHeightsStayPut(t *testing.T) {
	catalog := []display.Mode{
		mode(1, 3024, 1964, 120),
		mode(2, 3024, 1890, 120),
		mode(7, 3024, 1890, 120),
	}

	plan, err := PlanNotch(NotchHide, catalog[2], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.NoOp || plan.Target.Number != 7 {
		t.Fatalf("expected to stay on mode 7, got %+v", plan.Target)
	}
}

func TestPlanNotch_SingleHeight(t *testing.T) {
	catalog := []display.Mode{mode(1, 1920, 1080, 60), mode(2, 1920, 1080, 60)}

	_, err := PlanNotch(NotchHide, catalog[0], catalog, true)
	if !errors.Is(err, ErrNotNotchCapable) {
		t.Fatalf("expected ErrNotNotchCapable, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || !perr.Builtin {
		t.Fatalf("expected built-in flag on error, got %+v", perr)
	}

	_, err = PlanNotch(NotchShow, catalog[0], catalog, false)
	if !errors.As(err, &perr) || perr.Builtin || perr.Kind != KindNotNotchCapable {
		t.Fatalf("expected external not-capable error, got %v", err)
	}
}

func TestPlanNotch_NoSimilarModes(t *testing.T) {
	current := mode(9, 1280, 800, 75)
	_, err := PlanNotch(NotchHide, current, notchCatalog(), true)
	if !errors.Is(err, ErrNoSimilarModes) {
		t.Fatalf("expected ErrNoSimilarModes, got %v", err)
	}
}

func TestPlanNotch_ExternalSpreadWarning(t *testing.T) {
	catalog := []display.Mode{mode(1, 2560, 1600, 60), mode(2, 2560, 1440, 60)}

	plan, err := PlanNotch(NotchHide, catalog[0], catalog, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", plan.Warnings)
	}

	plan, err = PlanNotch(NotchHide, catalog[0], catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Warnings) != 0 {
		t.Fatalf("expected no warning for built-in display, got %v", plan.Warnings)
	}
}

func TestFamily_HzTolerance(t *testing.T) {
	catalog := []display.Mode{
		mode(1, 3024, 1964, 120),
		mode(2, 3024, 1890, 119.96),
		mode(3, 3024, 1890, 119.5),
	}
	family := Family(catalog[0], catalog)
	if len(family) != 2 || family[0].Number != 2 || family[1].Number != 1 {
		t.Fatalf("expected family [2 1], got %+v", family)
	}
}

func TestParseNotchAction(t *testing.T) {
	for s, want := range map[string]NotchAction{"hide": NotchHide, "SHOW": NotchShow, "Toggle": NotchToggle} {
		got, err := ParseNotchAction(s)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
		if got != want {
			t.Fatalf("%s: expected %v, got %v", s, want, got)
		}
	}
	if _, err := ParseNotchAction("flip"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}
