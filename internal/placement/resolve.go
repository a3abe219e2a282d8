package placement

import (
	"strconv"

	"github.com/google/uuid"

	"macdisp/internal/display"
)

// Resolve maps a display token to a live display ID.
//
// A token that parses as an unsigned integer is a display ID and must exist
// in snap; it is never retried as a persistent id. Any other token is looked
// up as a persistent id, first verbatim and then in canonical UUID form so
// that lowercase UUIDs match the uppercase ones macOS reports.
func Resolve(token string, snap display.Snapshot) (display.ID, error) {
	if n, err := strconv.ParseUint(token, 10, 32); err == nil {
		id := display.ID(n)
		if _, ok := snap.Lookup(id); ok {
			return id, nil
		}
		return 0, notFound(token)
	}

	if id, ok := snap.LookupUUID(token); ok {
		return id, nil
	}

	if want, err := uuid.Parse(token); err == nil {
		for _, info := range snap.Displays() {
			if got, err := uuid.Parse(info.UUID); err == nil && got == want {
				return info.ID, nil
			}
		}
	}

	return 0, notFound(token)
}
