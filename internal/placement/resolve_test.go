package placement

import (
	"errors"
	"testing"

	"macdisp/internal/display"
)

const (
	builtinUUID  = "37D8832A-2D66-02CA-B9F7-8F30A301B230"
	externalUUID = "E3F1A5C2-0B7D-4E5A-9C11-6A2B3C4D5E6F"
)

func testSnapshot() display.Snapshot {
	return display.NewSnapshot(
		display.Info{ID: 1, UUID: builtinUUID, Builtin: true, Main: true, Enabled: true},
		display.Info{ID: 2, UUID: externalUUID, Enabled: true},
		// A display whose persistent id happens to look like a number.
		display.Info{ID: 3, UUID: "99", Enabled: true},
	)
}

func TestResolve_NumericID(t *testing.T) {
	id, err := Resolve("2", testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected display 2, got %d", id)
	}
}

func TestResolve_NumericIDBeforeUUID(t *testing.T) {
	snap := display.NewSnapshot(
		display.Info{ID: 1, UUID: "2", Enabled: true},
		display.Info{ID: 2, UUID: externalUUID, Enabled: true},
	)
	id, err := Resolve("2", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected the numeric id to win, got display %d", id)
	}
}

func TestResolve_NumericIDMustExist(t *testing.T) {
	_, err := Resolve("99", testSnapshot())
	if !errors.Is(err, ErrDisplayNotFound) {
		t.Fatalf("expected ErrDisplayNotFound, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Token != "99" {
		t.Fatalf("expected token 99 in error, got %+v", perr)
	}
	if got := err.Error(); got != "display 99 not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestResolve_UUID(t *testing.T) {
	id, err := Resolve(externalUUID, testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected display 2, got %d", id)
	}
}

func TestResolve_LowercaseUUID(t *testing.T) {
	id, err := Resolve("37d8832a-2d66-02ca-b9f7-8f30a301b230", testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected display 1, got %d", id)
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, token := range []string{"DEADBEEF", "00000000-0000-0000-0000-000000000000", "-1"} {
		if _, err := Resolve(token, testSnapshot()); !errors.Is(err, ErrDisplayNotFound) {
			t.Fatalf("%q: expected ErrDisplayNotFound, got %v", token, err)
		}
	}
}

func TestResolve_EmptySnapshot(t *testing.T) {
	if _, err := Resolve("1", display.NewSnapshot()); !errors.Is(err, ErrDisplayNotFound) {
		t.Fatalf("expected ErrDisplayNotFound, got %v", err)
	}
}
