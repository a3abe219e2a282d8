package placement

import (
	"errors"
	"fmt"

	"macdisp/internal/display"
)

// Kind classifies why applying a configuration failed.
type Kind int

const (
	KindInvalidConfig Kind = iota + 1
	KindMissingIdentifier
	KindDisplayNotFound
	KindNoMatchingMode
	KindNoSimilarModes
	KindNotNotchCapable
	KindFacade
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMissingIdentifier = errors.New("display id is required")
	ErrDisplayNotFound   = errors.New("display not found")
	ErrNoMatchingMode    = errors.New("no matching mode")
	ErrNoSimilarModes    = errors.New("no similar modes")
	ErrNotNotchCapable   = errors.New("display is not notch capable")
	ErrFacade            = errors.New("display API call failed")
)

var sentinels = map[Kind]error{
	KindInvalidConfig:     ErrInvalidConfig,
	KindMissingIdentifier: ErrMissingIdentifier,
	KindDisplayNotFound:   ErrDisplayNotFound,
	KindNoMatchingMode:    ErrNoMatchingMode,
	KindNoSimilarModes:    ErrNoSimilarModes,
	KindNotNotchCapable:   ErrNotNotchCapable,
	KindFacade:            ErrFacade,
}

func (k Kind) String() string {
	if err, ok := sentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type returned by this package.
type Error struct {
	Kind Kind
	// Token is the offending configuration key, spec or display token.
	Token   string
	Display display.ID
	// Code is the platform status code for KindFacade.
	Code    int32
	Builtin bool
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidConfig:
		if e.Err != nil {
			return fmt.Sprintf("invalid configuration %q: %v", e.Token, e.Err)
		}
		return fmt.Sprintf("unknown configuration key: %s", e.Token)
	case KindMissingIdentifier:
		return "display id is required"
	case KindDisplayNotFound:
		if e.Token == "" {
			return "no active display found"
		}
		return fmt.Sprintf("display %s not found", e.Token)
	case KindNoMatchingMode:
		return fmt.Sprintf("no matching mode found for display %d with specified parameters", e.Display)
	case KindNoSimilarModes:
		return fmt.Sprintf("no modes of display %d share the current width, refresh rate, color depth and scaling", e.Display)
	case KindNotNotchCapable:
		if e.Builtin {
			return fmt.Sprintf("built-in display %d has no alternative heights at the current width; the notch cannot be toggled", e.Display)
		}
		return fmt.Sprintf("display %d is not a built-in display and has no modes that differ only in height", e.Display)
	case KindFacade:
		if e.Err == nil {
			return e.Kind.String()
		}
		if e.Display == 0 {
			return e.Err.Error()
		}
		return fmt.Sprintf("display %d: %v", e.Display, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(token string) error {
	return &Error{Kind: KindDisplayNotFound, Token: token}
}

// facadeError wraps a Backend failure, keeping its numeric status.
func facadeError(id display.ID, err error) error {
	code := int32(-1)
	var se *display.StatusError
	if errors.As(err, &se) {
		code = se.Code
	}
	return &Error{Kind: KindFacade, Display: id, Code: code, Err: err}
}

// withDisplay records the display an error refers to.
func withDisplay(err error, id display.ID) error {
	var perr *Error
	if errors.As(err, &perr) && perr.Display == 0 {
		perr.Display = id
	}
	return err
}
