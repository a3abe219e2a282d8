package placement

import (
	"fmt"

	"macdisp/internal/display"
)

type call struct {
	op   string
	id   display.ID
	mode uint32
	geo  display.Geometry
}

// fakeBackend is an in-memory display set that records every mutating call.
type fakeBackend struct {
	infos   []display.Info
	modes   map[display.ID][]display.Mode
	current map[display.ID]uint32
	failSet map[display.ID]int32
	calls   []call
}

func newFakeBackend(infos ...display.Info) *fakeBackend {
	return &fakeBackend{
		infos:   infos,
		modes:   map[display.ID][]display.Mode{},
		current: map[display.ID]uint32{},
		failSet: map[display.ID]int32{},
	}
}

func (f *fakeBackend) withModes(id display.ID, current uint32, modes ...display.Mode) *fakeBackend {
	f.modes[id] = modes
	f.current[id] = current
	return f
}

func (f *fakeBackend) ActiveDisplays() ([]display.ID, error) {
	ids := make([]display.ID, len(f.infos))
	for i, info := range f.infos {
		ids[i] = info.ID
	}
	return ids, nil
}

func (f *fakeBackend) DisplayInfo(id display.ID) (display.Info, bool) {
	for _, info := range f.infos {
		if info.ID == id {
			return info, true
		}
	}
	return display.Info{}, false
}

func (f *fakeBackend) Modes(id display.ID) []display.Mode {
	return f.modes[id]
}

func (f *fakeBackend) CurrentMode(id display.ID) (display.Mode, bool) {
	number, ok := f.current[id]
	if !ok {
		return display.Mode{}, false
	}
	return findMode(f.modes[id], number)
}

func (f *fakeBackend) SetMode(id display.ID, number uint32) error {
	f.calls = append(f.calls, call{op: "set", id: id, mode: number})
	if code, ok := f.failSet[id]; ok {
		return &display.StatusError{Op: "set display mode", Code: code}
	}
	if _, ok := findMode(f.modes[id], number); !ok {
		return &display.StatusError{Op: "set display mode", Code: -1, Reason: fmt.Sprintf("mode %d not found", number)}
	}
	f.current[id] = number
	return nil
}

func (f *fakeBackend) Configure(id display.ID, g display.Geometry) error {
	f.calls = append(f.calls, call{op: "configure", id: id, geo: g})
	return nil
}

func (f *fakeBackend) Close() error {
	return nil
}

func mode(number, w, h uint32, hz float64) display.Mode {
	return display.Mode{Width: w, Height: h, RefreshRate: hz, Depth: 8, Number: number, SafeForHardware: true}
}

func scaled(m display.Mode) display.Mode {
	m.Scaled = true
	return m
}
