// Package render formats displays, mode catalogs and command results for
// the terminal, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"macdisp/internal/display"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	keyColor     = color.New(color.FgYellow)
	currentColor = color.New(color.FgGreen, color.Bold)
	successColor = color.New(color.FgGreen)
	commandColor = color.New(color.Bold)
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	case "":
		return Text, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// UseColor reports whether text written to f should be colored.
func UseColor(f *os.File, noColor bool) bool {
	return !noColor && term.IsTerminal(int(f.Fd()))
}

// DisplayView is one display with its mode catalog and the configuration
// strings that restore its current state.
type DisplayView struct {
	display.Info `yaml:",inline"`
	Modes        []display.Mode `json:"modes,omitempty" yaml:"modes,omitempty"`
	Commands     []string       `json:"commands" yaml:"commands"`
}

// Listing is the structured form of "macdisp list".
type Listing struct {
	Displays []DisplayView `json:"displays" yaml:"displays"`
	// Command re-applies the whole arrangement.
	Command string `json:"command" yaml:"command"`
}

// NewListing collects views and joins their commands into one invocation
// of program.
func NewListing(program string, views []DisplayView) Listing {
	parts := []string{program}
	for _, v := range views {
		for _, c := range v.Commands {
			parts = append(parts, fmt.Sprintf("%q", c))
		}
	}
	return Listing{Displays: views, Command: strings.Join(parts, " ")}
}

type Options struct {
	// Dedupe drops modes that only differ in depth or flags and sorts the
	// rest from largest to smallest.
	Dedupe        bool
	GroupByAspect bool
}

// Displays writes the text listing.
func Displays(w io.Writer, l Listing, opts Options) {
	for _, v := range l.Displays {
		displayText(w, v, opts)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Execute the command below to set your screens to the current arrangement.")
	fmt.Fprintln(w, "If screen ids are switching, use contextual ids instead of persistent ids.")
	fmt.Fprintln(w)
	commandColor.Fprintln(w, l.Command)
}

func displayText(w io.Writer, v DisplayView, opts Options) {
	field(w, "Persistent screen id", "%s", v.UUID)
	field(w, "Contextual screen id", "%d", v.ContextualID)
	field(w, "Serial screen id", "s%d", v.Serial)
	field(w, "Type", "%s", v.Type)
	field(w, "Resolution", "%dx%d", v.Width, v.Height)
	field(w, "Hertz", "%.0f", v.RefreshRate)
	field(w, "Color Depth", "%d", v.Depth)
	field(w, "Scaling", "%s", onOff(v.Scaled))
	if v.Main {
		field(w, "Origin", "(%d,%d) - main display", v.Origin.X, v.Origin.Y)
	} else {
		field(w, "Origin", "(%d,%d)", v.Origin.X, v.Origin.Y)
	}
	field(w, "Rotation", "%d", v.Rotation)
	field(w, "Enabled", "%t", v.Enabled)
	if v.MirrorOf != nil {
		field(w, "Mirror of", "%d", *v.MirrorOf)
	}

	modes := v.Modes
	if opts.Dedupe {
		modes = dedupe(modes, v.ModeNumber)
	}
	if len(modes) == 0 {
		return
	}

	if !opts.GroupByAspect {
		headerColor.Fprintf(w, "Resolutions for rotation %d:\n", v.Rotation)
		for _, m := range modes {
			modeLine(w, "  ", m, v.ModeNumber)
		}
		return
	}

	grouped := make(map[string][]display.Mode)
	var ratios []string
	for _, m := range modes {
		ratio := m.AspectRatio()
		if _, ok := grouped[ratio]; !ok {
			ratios = append(ratios, ratio)
		}
		grouped[ratio] = append(grouped[ratio], m)
	}
	sort.Strings(ratios)

	headerColor.Fprintf(w, "Resolutions for rotation %d by aspect ratio:\n", v.Rotation)
	for _, ratio := range ratios {
		fmt.Fprintf(w, "  %s:\n", ratio)
		for _, m := range grouped[ratio] {
			modeLine(w, "    ", m, v.ModeNumber)
		}
	}
}

func field(w io.Writer, key, format string, args ...any) {
	keyColor.Fprint(w, key+":")
	fmt.Fprintf(w, " "+format+"\n", args...)
}

func modeLine(w io.Writer, indent string, m display.Mode, current uint32) {
	line := fmt.Sprintf("%smode %d: res:%dx%d hz:%.0f color_depth:%d",
		indent, m.Number, m.Width, m.Height, m.RefreshRate, m.Depth)
	if m.Scaled {
		line += " scaling:on"
	}
	if m.Number == current {
		currentColor.Fprintln(w, line+" <-- current mode")
		return
	}
	fmt.Fprintln(w, line)
}

// dedupe keeps one mode per resolution, refresh rate and scaling, preferring
// the current mode, and sorts by resolution then refresh rate, descending.
func dedupe(modes []display.Mode, current uint32) []display.Mode {
	index := make(map[string]int)
	filtered := []display.Mode{}

	for _, m := range modes {
		key := fmt.Sprintf("%dx%d@%.0f/%s", m.Width, m.Height, m.RefreshRate, m.Kind())
		if i, seen := index[key]; seen {
			if m.Number == current {
				filtered[i] = m
			}
			continue
		}
		index[key] = len(filtered)
		filtered = append(filtered, m)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Width != filtered[j].Width {
			return filtered[i].Width > filtered[j].Width
		}
		if filtered[i].Height != filtered[j].Height {
			return filtered[i].Height > filtered[j].Height
		}
		return filtered[i].RefreshRate > filtered[j].RefreshRate
	})
	return filtered
}

// Modes writes the mode catalog of one display as a table.
func Modes(w io.Writer, id display.ID, modes []display.Mode, current *display.Mode) {
	headerColor.Fprintf(w, "Available modes for display %d:\n\n", id)
	fmt.Fprintf(w, "%-8s %-12s %-10s %-8s %-8s %-6s %s\n",
		"Mode #", "Resolution", "Hz", "Depth", "Scaled", "Safe", "Current")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for _, m := range modes {
		mark := ""
		if current != nil && current.Number == m.Number {
			mark = currentColor.Sprint("*")
		}
		fmt.Fprintf(w, "%-8d %-12s %-10.2f %-8s %-8s %-6s %s\n",
			m.Number, m.Resolution(), m.RefreshRate, fmt.Sprintf("%d-bit", m.Depth),
			yesNo(m.Scaled), yesNo(m.SafeForHardware), mark)
	}

	fmt.Fprintln(w, "\n* = current mode")
	if current != nil {
		fmt.Fprintf(w, "Current mode is: %d (%dx%d @ %.0fHz)\n",
			current.Number, current.Width, current.Height, current.RefreshRate)
	}
}

// ModeCatalog is the structured form of "macdisp modes".
type ModeCatalog struct {
	Display display.ID     `json:"display" yaml:"display"`
	Current *uint32        `json:"current_mode,omitempty" yaml:"current_mode,omitempty"`
	Modes   []display.Mode `json:"modes" yaml:"modes"`
}

// Result is the structured form of a configuration or notch run.
type Result struct {
	Applied []string `json:"applied" yaml:"applied"`
	DryRun  bool     `json:"dry_run" yaml:"dry_run"`
}

// Acks writes acknowledgment lines.
func Acks(w io.Writer, lines []string) {
	for _, line := range lines {
		successColor.Fprintln(w, line)
	}
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("format %q is not a structured format", f)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
