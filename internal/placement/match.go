package placement

import (
	"math"

	"macdisp/internal/display"
)

// HzTolerance is how far a mode's refresh rate may be from the requested one
// and still match.
const HzTolerance = 0.1

// Criteria selects modes from a catalog. Nil fields match anything.
type Criteria struct {
	Resolution *Size
	Hz         *float64
	Depth      *uint32
	Scaling    *bool
}

// Empty reports whether no resolution, refresh rate or depth was requested.
// Scaling alone does not start a search.
func (c Criteria) Empty() bool {
	return c.Resolution == nil && c.Hz == nil && c.Depth == nil
}

func (c Criteria) Matches(m display.Mode) bool {
	if c.Resolution != nil && (m.Width != c.Resolution.Width || m.Height != c.Resolution.Height) {
		return false
	}
	if c.Hz != nil && !sameHz(m.RefreshRate, *c.Hz) {
		return false
	}
	if c.Depth != nil && m.Depth != *c.Depth {
		return false
	}
	if c.Scaling != nil && m.Scaled != *c.Scaling {
		return false
	}
	return true
}

// Match returns the first catalog entry, in enumeration order, that
// satisfies c.
func Match(catalog []display.Mode, c Criteria) (display.Mode, error) {
	for _, m := range catalog {
		if c.Matches(m) {
			return m, nil
		}
	}
	return display.Mode{}, &Error{Kind: KindNoMatchingMode}
}

func sameHz(a, b float64) bool {
	return math.Abs(a-b) < HzTolerance
}
