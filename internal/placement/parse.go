package placement

import (
	"fmt"
	"strconv"
	"strings"

	"macdisp/internal/display"
)

// Size is a resolution in pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// Config is one parsed configuration string. Nil fields mean "leave
// unchanged", never zero.
type Config struct {
	ID         string
	Mode       *uint32
	Resolution *Size
	Hz         *float64
	Depth      *uint32
	Scaling    *bool
	Origin     *display.Point
	Degree     *uint32
	Mirror     *string
	Enabled    *bool
}

// Parse reads a whitespace separated list of key:value tokens, e.g.
//
//	id:1 res:1920x1080 hz:60 color_depth:8 scaling:on origin:(0,0) degree:0
//
// Values that fail to parse leave their field unset. Tokens without a colon
// are skipped.
func Parse(s string) (Config, error) {
	var cfg Config

	for _, part := range strings.Fields(s) {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}

		switch key {
		case "id":
			cfg.ID = value
		case "mode":
			cfg.Mode = parseUint(value)
		case "res":
			if w, h, ok := strings.Cut(value, "x"); ok {
				width, height := parseUint(w), parseUint(h)
				if width != nil && height != nil {
					cfg.Resolution = &Size{Width: *width, Height: *height}
				}
			}
		case "hz":
			if hz, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.Hz = &hz
			}
		case "color_depth":
			cfg.Depth = parseUint(value)
		case "scaling":
			on := value == "on"
			cfg.Scaling = &on
		case "origin":
			cleaned := strings.Trim(value, "()")
			if x, y, ok := strings.Cut(cleaned, ","); ok {
				xv, errX := strconv.ParseInt(x, 10, 32)
				yv, errY := strconv.ParseInt(y, 10, 32)
				if errX == nil && errY == nil {
					cfg.Origin = &display.Point{X: int32(xv), Y: int32(yv)}
				}
			}
		case "degree":
			cfg.Degree = parseUint(value)
		case "mirror":
			mirror := value
			cfg.Mirror = &mirror
		case "enabled":
			switch value {
			case "true":
				cfg.Enabled = ptr(true)
			case "false":
				cfg.Enabled = ptr(false)
			}
		default:
			return Config{}, &Error{Kind: KindInvalidConfig, Token: key}
		}
	}

	if cfg.ID == "" {
		return Config{}, &Error{Kind: KindMissingIdentifier}
	}
	return cfg, nil
}

// ParseAll parses a batch, stopping at the first invalid string.
func ParseAll(raw []string) ([]Config, error) {
	configs := make([]Config, 0, len(raw))
	for _, s := range raw {
		cfg, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// ParseShorthand builds a Config from the compact forms accepted by
// "macdisp set":
//
//	12                 mode number
//	1920x1080          resolution
//	1920x1080@120      resolution and refresh rate
//	1440x900@2x        HiDPI (scaled) variant
//
// Unlike Parse it rejects malformed input.
func ParseShorthand(id, spec string) (Config, error) {
	cfg := Config{ID: id}
	if id == "" {
		return Config{}, &Error{Kind: KindMissingIdentifier}
	}
	invalid := func(format string, args ...any) error {
		return &Error{Kind: KindInvalidConfig, Token: spec, Err: fmt.Errorf(format, args...)}
	}

	if n := parseUint(spec); n != nil {
		cfg.Mode = n
		return cfg, nil
	}

	rest := spec
	if strings.HasSuffix(rest, "@2x") {
		cfg.Scaling = ptr(true)
		rest = strings.TrimSuffix(rest, "@2x")
	}

	parts := strings.Split(rest, "@")
	if len(parts) > 2 {
		return Config{}, invalid("invalid resolution format: %s", rest)
	}
	if len(parts) == 2 {
		hz, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return Config{}, invalid("invalid refresh rate: %s", parts[1])
		}
		cfg.Hz = &hz
	}

	w, h, ok := strings.Cut(parts[0], "x")
	if !ok {
		return Config{}, invalid("invalid resolution format: %s", parts[0])
	}
	width := parseUint(w)
	if width == nil {
		return Config{}, invalid("invalid width: %s", w)
	}
	height := parseUint(h)
	if height == nil {
		return Config{}, invalid("invalid height: %s", h)
	}
	cfg.Resolution = &Size{Width: *width, Height: *height}

	return cfg, nil
}

// Criteria returns the mode matching part of the config.
func (c Config) Criteria() Criteria {
	return Criteria{
		Resolution: c.Resolution,
		Hz:         c.Hz,
		Depth:      c.Depth,
		Scaling:    c.Scaling,
	}
}

// HasGeometry reports whether the config needs a configure call.
func (c Config) HasGeometry() bool {
	return c.Mirror != nil || c.Origin != nil || c.Degree != nil || c.Enabled != nil
}

// String renders the config back into the key:value grammar.
func (c Config) String() string {
	parts := []string{"id:" + c.ID}
	if c.Mode != nil {
		parts = append(parts, fmt.Sprintf("mode:%d", *c.Mode))
	}
	if c.Resolution != nil {
		parts = append(parts, fmt.Sprintf("res:%dx%d", c.Resolution.Width, c.Resolution.Height))
	}
	if c.Hz != nil {
		parts = append(parts, "hz:"+strconv.FormatFloat(*c.Hz, 'f', -1, 64))
	}
	if c.Depth != nil {
		parts = append(parts, fmt.Sprintf("color_depth:%d", *c.Depth))
	}
	if c.Scaling != nil {
		parts = append(parts, "scaling:"+onOff(*c.Scaling))
	}
	if c.Origin != nil {
		parts = append(parts, fmt.Sprintf("origin:(%d,%d)", c.Origin.X, c.Origin.Y))
	}
	if c.Degree != nil {
		parts = append(parts, fmt.Sprintf("degree:%d", *c.Degree))
	}
	if c.Mirror != nil {
		parts = append(parts, "mirror:"+*c.Mirror)
	}
	if c.Enabled != nil {
		parts = append(parts, fmt.Sprintf("enabled:%t", *c.Enabled))
	}
	return strings.Join(parts, " ")
}

// CommandFor renders the current state of a display as configuration
// strings that restore it. Usually that is one string naming the current
// mode by its attributes. When those attributes would select an earlier
// catalog entry, such as a 60 Hz mode ahead of a current 59.94 Hz one, the
// mode is named by number and the geometry follows in a second string.
// Mirror targets are named by persistent id when snap knows them.
func CommandFor(info display.Info, snap display.Snapshot, catalog []display.Mode) []string {
	id := info.UUID
	if id == "" {
		id = strconv.FormatUint(uint64(info.ID), 10)
	}

	geometry := Config{
		ID:      id,
		Origin:  ptr(info.Origin),
		Degree:  ptr(info.Rotation),
		Enabled: ptr(info.Enabled),
	}
	if info.MirrorOf != nil {
		target := strconv.FormatUint(uint64(*info.MirrorOf), 10)
		if m, ok := snap.Lookup(*info.MirrorOf); ok && m.UUID != "" {
			target = m.UUID
		}
		geometry.Mirror = &target
	}

	full := geometry
	full.Resolution = &Size{Width: info.Width, Height: info.Height}
	full.Hz = ptr(info.RefreshRate)
	full.Depth = ptr(info.Depth)
	full.Scaling = ptr(info.Scaled)

	if _, ok := findMode(catalog, info.ModeNumber); ok {
		if m, err := Match(catalog, full.Criteria()); err == nil && m.Number != info.ModeNumber {
			byNumber := Config{ID: id, Mode: ptr(info.ModeNumber)}
			return []string{byNumber.String(), geometry.String()}
		}
	}
	return []string{full.String()}
}

func parseUint(s string) *uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	v := uint32(n)
	return &v
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func ptr[T any](v T) *T {
	return &v
}
