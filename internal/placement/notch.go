package placement

import (
	"fmt"
	"sort"
	"strings"

	"macdisp/internal/display"
)

// NotchWarnSpread is the height difference, in pixels, above which a mode
// family on an external display is unlikely to be a notch pair.
const NotchWarnSpread = 100

type NotchAction int

const (
	NotchHide NotchAction = iota
	NotchShow
	NotchToggle
)

func (a NotchAction) String() string {
	switch a {
	case NotchHide:
		return "hide"
	case NotchShow:
		return "show"
	case NotchToggle:
		return "toggle"
	}
	return fmt.Sprintf("NotchAction(%d)", int(a))
}

// State is the label for the display state an action leads to.
func (a NotchAction) State() string {
	if a == NotchShow {
		return "shown"
	}
	return "hidden"
}

func ParseNotchAction(s string) (NotchAction, error) {
	switch strings.ToLower(s) {
	case "hide":
		return NotchHide, nil
	case "show":
		return NotchShow, nil
	case "toggle":
		return NotchToggle, nil
	}
	return 0, fmt.Errorf("unknown notch action %q (want hide, show or toggle)", s)
}

// NotchPlan is the outcome of PlanNotch.
type NotchPlan struct {
	// Action is the requested action with toggle resolved.
	Action   NotchAction
	Current  display.Mode
	Target   display.Mode
	Family   []display.Mode
	NoOp     bool
	Warnings []string
}

// Family returns the catalog entries that share the current mode's width,
// refresh rate, color depth and scaling, sorted by height. Entries of equal
// height keep their catalog order.
func Family(current display.Mode, catalog []display.Mode) []display.Mode {
	var family []display.Mode
	for _, m := range catalog {
		if m.Width == current.Width && sameHz(m.RefreshRate, current.RefreshRate) &&
			m.Depth == current.Depth && m.Scaled == current.Scaled {
			family = append(family, m)
		}
	}
	sort.SliceStable(family, func(i, j int) bool {
		return family[i].Height < family[j].Height
	})
	return family
}

// PlanNotch picks the mode that hides or shows the notch area of a display.
func PlanNotch(action NotchAction, current display.Mode, catalog []display.Mode, builtin bool) (NotchPlan, error) {
	family := Family(current, catalog)
	if len(family) == 0 {
		return NotchPlan{}, &Error{Kind: KindNoSimilarModes}
	}

	shortest, tallest := family[0], family[len(family)-1]
	if shortest.Height == tallest.Height {
		return NotchPlan{}, &Error{Kind: KindNotNotchCapable, Builtin: builtin}
	}

	plan := NotchPlan{Action: action, Current: current, Family: family}
	if spread := tallest.Height - shortest.Height; !builtin && spread > NotchWarnSpread {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"display is not built-in and its %d px wide modes differ in height by %d px; this may not be a notch",
			current.Width, spread))
	}

	if action == NotchToggle {
		plan.Action = NotchHide
		if current.Height == shortest.Height {
			plan.Action = NotchShow
		}
	}

	switch plan.Action {
	case NotchHide:
		plan.Target = lower(current, family)
	case NotchShow:
		plan.Target = higher(current, family)
	}
	plan.NoOp = plan.Target.Number == current.Number

	return plan, nil
}

// lower returns the tallest family member shorter than current, or the
// shortest member.
func lower(current display.Mode, family []display.Mode) display.Mode {
	for i := len(family) - 1; i >= 0; i-- {
		if family[i].Height < current.Height {
			return family[i]
		}
	}
	return fallback(current, family[0])
}

// higher returns the shortest family member taller than current, or the
// tallest member.
func higher(current display.Mode, family []display.Mode) display.Mode {
	for _, m := range family {
		if m.Height > current.Height {
			return m
		}
	}
	return fallback(current, family[len(family)-1])
}

// fallback picks edge when no family member is strictly shorter or taller.
func fallback(current, edge display.Mode) display.Mode {
	// An edge of the current height yields current rather than edge, so
	// duplicates of the current height never trigger a switch.
	if edge.Height == current.Height {
		return current
	}
	return edge
}
