//go:build darwin && cgo

package display

// #cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework IOKit -framework ApplicationServices
// #include <stdlib.h>
// #include "bridge.h"
import "C"
import (
	"fmt"
	"unsafe"
)

// CoreGraphics error codes worth a readable message.
var cgErrors = map[int32]string{
	-1:   "mode not found",
	1000: "general failure",
	1001: "illegal argument",
	1002: "invalid connection",
	1004: "cannot complete",
	1006: "not implemented",
	1007: "value out of range",
	1010: "invalid operation",
	1011: "none available",
}

// CoreGraphicsBackend talks to the window server through the CoreGraphics
// display configuration API.
type CoreGraphicsBackend struct{}

var _ Backend = (*CoreGraphicsBackend)(nil)

// NewBackend returns the CoreGraphics backend.
func NewBackend() (Backend, error) {
	return &CoreGraphicsBackend{}, nil
}

func (b *CoreGraphicsBackend) ActiveDisplays() ([]ID, error) {
	var ids [C.MAX_DISPLAYS]C.uint32_t
	var count C.uint32_t
	if res := C.get_active_displays(&ids[0], &count); res != 0 {
		return nil, statusError("CGGetActiveDisplayList", int32(res))
	}
	if count == 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	displays := make([]ID, int(count))
	for i := range displays {
		displays[i] = ID(ids[i])
	}
	return displays, nil
}

func (b *CoreGraphicsBackend) DisplayInfo(id ID) (Info, bool) {
	mode, ok := b.CurrentMode(id)
	if !ok {
		return Info{}, false
	}

	var ci C.DisplayInfo
	if C.get_display_info(C.uint32_t(id), &ci) != 0 {
		return Info{}, false
	}

	info := Info{
		ID:           id,
		UUID:         displayUUID(id),
		ContextualID: uint32(id),
		Serial:       uint32(ci.serial),
		Origin:       Point{X: int32(ci.x), Y: int32(ci.y)},
		Width:        mode.Width,
		Height:       mode.Height,
		RefreshRate:  mode.RefreshRate,
		Depth:        mode.Depth,
		Rotation:     uint32(ci.rotation),
		Scaled:       mode.Scaled,
		ModeNumber:   mode.Number,
		Main:         ci.is_main != 0,
		Enabled:      ci.is_active != 0,
		Builtin:      ci.is_builtin != 0,
	}
	if ci.is_mirror != 0 && ci.mirror_of != 0 {
		of := ID(ci.mirror_of)
		info.SetMirror(&of)
	}
	info.Type = screenLabel(info.Builtin, float64(ci.width_mm), float64(ci.height_mm))
	if info.Builtin {
		info.Type = "MacBook " + info.Type
	}

	return info, true
}

func (b *CoreGraphicsBackend) Modes(id ID) []Mode {
	var cModes *C.DisplayMode
	var count C.int
	if C.get_display_modes(C.uint32_t(id), &cModes, &count) != 0 || cModes == nil {
		return nil
	}
	defer C.free_display_modes(cModes)

	modes := make([]Mode, int(count))
	cModeSlice := (*[1 << 20]C.DisplayMode)(unsafe.Pointer(cModes))[:count:count]
	for i, cm := range cModeSlice {
		modes[i] = modeFromC(cm)
	}
	return modes
}

func (b *CoreGraphicsBackend) CurrentMode(id ID) (Mode, bool) {
	var cm C.DisplayMode
	if C.get_current_mode(C.uint32_t(id), &cm) != 0 {
		return Mode{}, false
	}
	return modeFromC(cm), true
}

func (b *CoreGraphicsBackend) SetMode(id ID, number uint32) error {
	if res := C.set_display_mode(C.uint32_t(id), C.uint32_t(number)); res != 0 {
		return statusError("set display mode", int32(res))
	}
	return nil
}

func (b *CoreGraphicsBackend) Configure(id ID, g Geometry) error {
	var setOrigin, setMirror, setEnabled, enabled C.int
	var x, y C.int32_t
	var mirrorOf C.uint32_t

	if g.Origin != nil {
		setOrigin, x, y = 1, C.int32_t(g.Origin.X), C.int32_t(g.Origin.Y)
	}
	if g.MirrorOf != nil {
		setMirror, mirrorOf = 1, C.uint32_t(*g.MirrorOf)
	}
	if g.Enabled != nil {
		setEnabled = 1
		if *g.Enabled {
			enabled = 1
		}
	}

	if setOrigin != 0 || setMirror != 0 || setEnabled != 0 {
		res := C.configure_display(C.uint32_t(id), setOrigin, x, y, setMirror, mirrorOf, setEnabled, enabled)
		if res != 0 {
			return statusError("configure display", int32(res))
		}
	}

	// Rotation goes through IOKit, outside the configuration transaction.
	if g.Rotation != nil {
		if res := C.rotate_display(C.uint32_t(id), C.uint32_t(*g.Rotation)); res != 0 {
			return statusError("rotate display", int32(res))
		}
	}
	return nil
}

func (b *CoreGraphicsBackend) Close() error {
	return nil
}

func modeFromC(cm C.DisplayMode) Mode {
	return Mode{
		Width:           uint32(cm.width),
		Height:          uint32(cm.height),
		RefreshRate:     float64(cm.refresh_rate),
		Depth:           uint32(cm.depth),
		Number:          uint32(cm.mode_number),
		Stretched:       cm.is_stretched != 0,
		Interlaced:      cm.is_interlaced != 0,
		TVMode:          cm.is_tv_mode != 0,
		SafeForHardware: cm.is_safe_for_hardware != 0,
		Scaled:          cm.is_scaled != 0,
	}
}

func displayUUID(id ID) string {
	cs := C.copy_display_uuid(C.uint32_t(id))
	if cs == nil {
		return fmt.Sprintf("%d", id)
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs)
}

func statusError(op string, code int32) error {
	return &StatusError{Op: op, Code: code, Reason: cgErrors[code]}
}
