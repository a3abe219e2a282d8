package display

import "fmt"

// Snapshot is an immutable view of the active displays taken at one instant.
type Snapshot struct {
	order  []ID
	byID   map[ID]Info
	byUUID map[string]ID
}

// NewSnapshot builds a snapshot from already queried displays, keeping their
// order. When two displays report the same UUID the first one wins.
func NewSnapshot(infos ...Info) Snapshot {
	s := Snapshot{
		order:  make([]ID, 0, len(infos)),
		byID:   make(map[ID]Info, len(infos)),
		byUUID: make(map[string]ID, len(infos)),
	}
	for _, info := range infos {
		if _, dup := s.byID[info.ID]; dup {
			continue
		}
		s.order = append(s.order, info.ID)
		s.byID[info.ID] = info
		if info.UUID == "" {
			continue
		}
		if _, taken := s.byUUID[info.UUID]; !taken {
			s.byUUID[info.UUID] = info.ID
		}
	}
	return s
}

// TakeSnapshot queries every active display from b. Displays that vanish
// between the list and the info query are skipped.
func TakeSnapshot(b Backend) (Snapshot, error) {
	ids, err := b.ActiveDisplays()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get displays: %w", err)
	}

	infos := make([]Info, 0, len(ids))
	for _, id := range ids {
		if info, ok := b.DisplayInfo(id); ok {
			infos = append(infos, info)
		}
	}
	return NewSnapshot(infos...), nil
}

func (s Snapshot) Len() int {
	return len(s.order)
}

func (s Snapshot) Lookup(id ID) (Info, bool) {
	info, ok := s.byID[id]
	return info, ok
}

func (s Snapshot) LookupUUID(uuid string) (ID, bool) {
	id, ok := s.byUUID[uuid]
	return id, ok
}

// Displays returns the displays in OS order.
func (s Snapshot) Displays() []Info {
	out := make([]Info, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Main returns the main display, if any.
func (s Snapshot) Main() (Info, bool) {
	for _, id := range s.order {
		if s.byID[id].Main {
			return s.byID[id], true
		}
	}
	return Info{}, false
}

// Builtin returns the first built-in display, if any.
func (s Snapshot) Builtin() (Info, bool) {
	for _, id := range s.order {
		if s.byID[id].Builtin {
			return s.byID[id], true
		}
	}
	return Info{}, false
}
