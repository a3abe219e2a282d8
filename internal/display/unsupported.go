//go:build !linux && !(darwin && cgo)

package display

// NewBackend reports that this platform has no display backend.
func NewBackend() (Backend, error) {
	return nil, ErrUnsupported
}
