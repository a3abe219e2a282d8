package display

import (
	"errors"
	"testing"
)

type listBackend struct {
	ids   []ID
	infos map[ID]Info
	err   error
}

func (b listBackend) ActiveDisplays() ([]ID, error) { return b.ids, b.err }
func (b listBackend) DisplayInfo(id ID) (Info, bool) {
	info, ok := b.infos[id]
	return info, ok
}
func (b listBackend) Modes(ID) []Mode { return nil }
func (b listBackend) CurrentMode(ID) (Mode, bool) { return Mode{}, false }
func (b listBackend) SetMode(ID, uint32) error { return nil }
func (b listBackend) Configure(ID, Geometry) error { return nil }
func (b listBackend) Close() error { return nil }

func TestNewSnapshot_Order(t *testing.T) {
	s := NewSnapshot(Info{ID: 3}, Info{ID: 1}, Info{ID: 2})
	got := s.Displays()
	if len(got) != 3 || got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Fatalf("expected OS order [3 1 2], got %+v", got)
	}
}

func TestNewSnapshot_DuplicateUUIDFirstWins(t *testing.T) {
	s := NewSnapshot(Info{ID: 1, UUID: "A"}, Info{ID: 2, UUID: "A"}, Info{ID: 3})
	if id, ok := s.LookupUUID("A"); !ok || id != 1 {
		t.Fatalf("expected UUID A to map to display 1, got %d (%v)", id, ok)
	}
	if _, ok := s.LookupUUID(""); ok {
		t.Fatalf("expected empty UUID not to be indexed")
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 displays, got %d", s.Len())
	}
}

func TestNewSnapshot_DuplicateIDSkipped(t *testing.T) {
	s := NewSnapshot(Info{ID: 1, Width: 100}, Info{ID: 1, Width: 200})
	info, ok := s.Lookup(1)
	if !ok || info.Width != 100 || s.Len() != 1 {
		t.Fatalf("expected first display 1 to win, got %+v (len %d)", info, s.Len())
	}
}

func TestSnapshot_MainAndBuiltin(t *testing.T) {
	s := NewSnapshot(Info{ID: 5}, Info{ID: 6, Main: true}, Info{ID: 7, Builtin: true})
	if m, ok := s.Main(); !ok || m.ID != 6 {
		t.Fatalf("expected main display 6, got %+v", m)
	}
	if b, ok := s.Builtin(); !ok || b.ID != 7 {
		t.Fatalf("expected built-in display 7, got %+v", b)
	}

	empty := NewSnapshot()
	if _, ok := empty.Main(); ok {
		t.Fatalf("expected no main display in empty snapshot")
	}
	if _, ok := empty.Builtin(); ok {
		t.Fatalf("expected no built-in display in empty snapshot")
	}
}

func TestTakeSnapshot_SkipsVanishedDisplays(t *testing.T) {
	b := listBackend{
		ids:   []ID{1, 2, 3},
		infos: map[ID]Info{1: {ID: 1, UUID: "A"}, 3: {ID: 3, UUID: "C"}},
	}
	s, err := TakeSnapshot(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 displays, got %d", s.Len())
	}
	if _, ok := s.Lookup(2); ok {
		t.Fatalf("expected display 2 to be skipped")
	}
}

func TestTakeSnapshot_Error(t *testing.T) {
	status := &StatusError{Op: "get active displays", Code: 1001}
	_, err := TakeSnapshot(listBackend{err: status})
	if !errors.Is(err, status) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if got := err.Error(); got != "failed to get displays: get active displays failed: error code 1001" {
		t.Fatalf("unexpected message %q", got)
	}
}
