package display

import (
	"fmt"
	"math"
)

// ID is the ephemeral numeric handle the OS assigns to a display for the
// current session.
type ID uint32

// Mode is one entry of a display's mode catalog.
type Mode struct {
	Width           uint32  `json:"width" yaml:"width"`
	Height          uint32  `json:"height" yaml:"height"`
	RefreshRate     float64 `json:"refresh_rate" yaml:"refresh_rate"`
	Depth           uint32  `json:"color_depth" yaml:"color_depth"`
	Number          uint32  `json:"mode_number" yaml:"mode_number"`
	Stretched       bool    `json:"stretched" yaml:"stretched"`
	Interlaced      bool    `json:"interlaced" yaml:"interlaced"`
	TVMode          bool    `json:"tv_mode" yaml:"tv_mode"`
	SafeForHardware bool    `json:"safe_for_hardware" yaml:"safe_for_hardware"`
	Scaled          bool    `json:"scaled" yaml:"scaled"`
}

// Point is a position in the global display coordinate space.
type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

// Info is an instant-in-time view of one display.
type Info struct {
	ID           ID      `json:"id" yaml:"id"`
	UUID         string  `json:"persistent_id" yaml:"persistent_id"`
	ContextualID uint32  `json:"contextual_id" yaml:"contextual_id"`
	Serial       uint32  `json:"serial" yaml:"serial"`
	Origin       Point   `json:"origin" yaml:"origin"`
	Width        uint32  `json:"width" yaml:"width"`
	Height       uint32  `json:"height" yaml:"height"`
	RefreshRate  float64 `json:"hz" yaml:"hz"`
	Depth        uint32  `json:"color_depth" yaml:"color_depth"`
	Rotation     uint32  `json:"rotation" yaml:"rotation"`
	Scaled       bool    `json:"scaling" yaml:"scaling"`
	ModeNumber   uint32  `json:"mode_number" yaml:"mode_number"`
	Main         bool    `json:"is_main" yaml:"is_main"`
	Mirror       bool    `json:"is_mirror" yaml:"is_mirror"`
	MirrorOf     *ID     `json:"mirror_of,omitempty" yaml:"mirror_of,omitempty"`
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	Builtin      bool    `json:"builtin" yaml:"builtin"`
	Type         string  `json:"type" yaml:"type"`
}

// Geometry holds the optional parts of a configure call. Nil fields are
// left unchanged.
type Geometry struct {
	Origin   *Point
	Rotation *uint32
	MirrorOf *ID
	Enabled  *bool
}

// Empty reports whether g changes nothing.
func (g Geometry) Empty() bool {
	return g.Origin == nil && g.Rotation == nil && g.MirrorOf == nil && g.Enabled == nil
}

// SetMirror keeps Mirror and MirrorOf consistent.
func (i *Info) SetMirror(of *ID) {
	i.MirrorOf = of
	i.Mirror = of != nil
}

func (m Mode) Resolution() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Kind returns "scaled" for HiDPI modes and "native" otherwise.
func (m Mode) Kind() string {
	if m.Scaled {
		return "scaled"
	}
	return "native"
}

func (m Mode) AspectRatio() string {
	gcd := func(a, b uint32) uint32 {
		for b != 0 {
			a, b = b, a%b
		}
		return a
	}

	divisor := gcd(m.Width, m.Height)
	if divisor == 0 {
		return "0:0"
	}
	return fmt.Sprintf("%d:%d", m.Width/divisor, m.Height/divisor)
}

// screenLabel describes a panel for listings, e.g.
// "built in screen" or "27 inch external screen".
func screenLabel(builtin bool, widthMM, heightMM float64) string {
	if builtin {
		return "built in screen"
	}
	diagonal := math.Hypot(widthMM, heightMM) / 25.4
	if diagonal < 1 {
		return "external screen"
	}
	return fmt.Sprintf("%.0f inch external screen", diagonal)
}
