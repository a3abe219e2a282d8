package display

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by NewBackend on platforms without a display
// backend.
var ErrUnsupported = errors.New("display configuration is not supported on this platform")

// Backend is the platform display API. Implementations do not cache: every
// call reflects the current OS state.
type Backend interface {
	// ActiveDisplays returns the IDs of all active displays in OS order.
	ActiveDisplays() ([]ID, error)
	// DisplayInfo returns the current state of a display, or false if the
	// display is gone.
	DisplayInfo(id ID) (Info, bool)
	// Modes returns the full mode catalog of a display, possibly empty.
	Modes(id ID) []Mode
	// CurrentMode returns the active mode of a display.
	CurrentMode(id ID) (Mode, bool)
	// SetMode switches a display to the catalog entry with the given number.
	SetMode(id ID, number uint32) error
	// Configure applies origin, rotation, mirroring and enablement in one
	// platform transaction.
	Configure(id ID, g Geometry) error
	Close() error
}

// StatusError carries the non-zero status a platform call returned.
type StatusError struct {
	Op     string
	Code   int32
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s failed: %s (error code %d)", e.Op, e.Reason, e.Code)
	}
	return fmt.Sprintf("%s failed: error code %d", e.Op, e.Code)
}
