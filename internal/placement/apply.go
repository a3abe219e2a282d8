package placement

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"macdisp/internal/display"
)

// Applier applies configurations through a display Backend. It keeps no
// state between calls; every call starts from a fresh snapshot.
type Applier struct {
	Backend display.Backend
	Log     logrus.FieldLogger
	// DryRun resolves and matches as usual but makes no changes.
	DryRun bool
	// NotchDisplay is the display token Notch uses when none is given.
	NotchDisplay string
}

func NewApplier(b display.Backend, log logrus.FieldLogger) *Applier {
	return &Applier{Backend: b, Log: log}
}

func (a *Applier) logger() logrus.FieldLogger {
	if a.Log == nil {
		return logrus.StandardLogger()
	}
	return a.Log
}

// Apply parses a batch of configuration strings and applies them in order.
// Nothing is applied if any string fails to parse. Otherwise the first
// failing record stops the batch; records before it stay applied and their
// acknowledgments are returned with the error.
func (a *Applier) Apply(raw []string) ([]string, error) {
	configs, err := ParseAll(raw)
	if err != nil {
		return nil, err
	}
	return a.ApplyConfigs(configs)
}

// ApplyConfigs applies already parsed configurations in order.
func (a *Applier) ApplyConfigs(configs []Config) ([]string, error) {
	snap, err := display.TakeSnapshot(a.Backend)
	if err != nil {
		return nil, facadeError(0, err)
	}

	var acks []string
	for _, cfg := range configs {
		lines, err := a.apply(cfg, snap)
		acks = append(acks, lines...)
		if err != nil {
			return acks, err
		}
	}
	return acks, nil
}

func (a *Applier) apply(cfg Config, snap display.Snapshot) ([]string, error) {
	id, err := Resolve(cfg.ID, snap)
	if err != nil {
		return nil, err
	}
	log := a.logger().WithFields(logrus.Fields{"display": id, "token": cfg.ID})
	log.WithField("config", cfg.String()).Debug("applying configuration")

	if cfg.Mode != nil {
		if *cfg.Mode == a.currentNumber(id, snap) {
			log.WithField("mode", *cfg.Mode).Debug("display already in requested mode")
			return nil, nil
		}
		line, err := a.setModeNumber(id, *cfg.Mode)
		if err != nil {
			return nil, err
		}
		return []string{line}, nil
	}

	var lines []string
	if crit := cfg.Criteria(); !crit.Empty() {
		target, err := Match(a.Backend.Modes(id), crit)
		if err != nil {
			return nil, withDisplay(err, id)
		}

		if target.Number == a.currentNumber(id, snap) {
			log.WithField("mode", target.Number).Debug("display already in requested mode")
		} else {
			if err := a.setMode(id, target.Number); err != nil {
				return nil, err
			}
			lines = append(lines, a.ack("set display %d to %s", id, describe(target)))
		}
	}

	if cfg.HasGeometry() {
		g := display.Geometry{Origin: cfg.Origin, Rotation: cfg.Degree, Enabled: cfg.Enabled}
		if cfg.Mirror != nil {
			target, err := Resolve(*cfg.Mirror, snap)
			if err != nil {
				return lines, err
			}
			g.MirrorOf = &target
		}

		if !a.DryRun {
			if err := a.Backend.Configure(id, g); err != nil {
				return lines, facadeError(id, err)
			}
		}
		lines = append(lines, a.geometryAcks(id, g)...)
	}

	return lines, nil
}

func (a *Applier) setModeNumber(id display.ID, number uint32) (string, error) {
	if err := a.setMode(id, number); err != nil {
		return "", err
	}

	var mode display.Mode
	var ok bool
	if a.DryRun {
		mode, ok = findMode(a.Backend.Modes(id), number)
	} else {
		mode, ok = a.Backend.CurrentMode(id)
	}
	if !ok {
		return a.ack("set display %d to mode %d", id, number), nil
	}
	// Acknowledge the number that was requested.
	mode.Number = number
	return a.ack("set display %d to %s", id, describe(mode)), nil
}

func (a *Applier) setMode(id display.ID, number uint32) error {
	a.logger().WithFields(logrus.Fields{"display": id, "mode": number, "dry_run": a.DryRun}).Debug("setting display mode")
	if a.DryRun {
		return nil
	}
	if err := a.Backend.SetMode(id, number); err != nil {
		return facadeError(id, err)
	}
	return nil
}

// currentNumber queries the live mode so that earlier records of the same
// batch are taken into account.
func (a *Applier) currentNumber(id display.ID, snap display.Snapshot) uint32 {
	if m, ok := a.Backend.CurrentMode(id); ok {
		return m.Number
	}
	info, _ := snap.Lookup(id)
	return info.ModeNumber
}

func (a *Applier) geometryAcks(id display.ID, g display.Geometry) []string {
	var lines []string
	if g.Origin != nil {
		lines = append(lines, a.ack("set display %d origin to (%d, %d)", id, g.Origin.X, g.Origin.Y))
	}
	if g.Rotation != nil {
		lines = append(lines, a.ack("set display %d rotation to %d°", id, *g.Rotation))
	}
	if g.MirrorOf != nil {
		lines = append(lines, a.ack("set display %d to mirror display %d", id, *g.MirrorOf))
	}
	if g.Enabled != nil {
		lines = append(lines, a.ack("set display %d enabled: %t", id, *g.Enabled))
	}
	return lines
}

// ack formats an acknowledgment. format starts with a lowercase verb.
func (a *Applier) ack(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if a.DryRun {
		return "Would " + msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// Notch hides or shows the notch area of a display by switching to a mode
// of the same family with a different height. token selects the display;
// when empty, NotchDisplay is used, then the first built-in display, then
// the main display.
func (a *Applier) Notch(action NotchAction, token string) (string, error) {
	snap, err := display.TakeSnapshot(a.Backend)
	if err != nil {
		return "", facadeError(0, err)
	}

	info, err := a.notchDisplay(token, snap)
	if err != nil {
		return "", err
	}
	log := a.logger().WithFields(logrus.Fields{"display": info.ID, "action": action.String()})

	current, ok := a.Backend.CurrentMode(info.ID)
	if !ok {
		current = display.Mode{
			Width:       info.Width,
			Height:      info.Height,
			RefreshRate: info.RefreshRate,
			Depth:       info.Depth,
			Number:      info.ModeNumber,
			Scaled:      info.Scaled,
		}
	}

	plan, err := PlanNotch(action, current, a.Backend.Modes(info.ID), info.Builtin)
	if err != nil {
		return "", withDisplay(err, info.ID)
	}
	for _, w := range plan.Warnings {
		log.Warn(w)
	}
	log.WithFields(logrus.Fields{"family": len(plan.Family), "target": plan.Target.Number}).Debug("planned notch change")

	if plan.NoOp {
		return fmt.Sprintf("Display %d notch is already %s (%dx%d @ %.0fHz, mode %d)",
			info.ID, plan.Action.State(), current.Width, current.Height, current.RefreshRate, current.Number), nil
	}

	if err := a.setMode(info.ID, plan.Target.Number); err != nil {
		return "", err
	}

	label := "shown"
	if plan.Target.Height < current.Height {
		label = "hidden"
	}
	return a.ack("set display %d to %dx%d @ %.0fHz, notch %s (mode %d)", info.ID,
		plan.Target.Width, plan.Target.Height, plan.Target.RefreshRate, label, plan.Target.Number), nil
}

func (a *Applier) notchDisplay(token string, snap display.Snapshot) (display.Info, error) {
	if token == "" {
		token = a.NotchDisplay
	}
	if token != "" {
		id, err := Resolve(token, snap)
		if err != nil {
			return display.Info{}, err
		}
		info, _ := snap.Lookup(id)
		return info, nil
	}

	if info, ok := snap.Builtin(); ok {
		return info, nil
	}
	if info, ok := snap.Main(); ok {
		return info, nil
	}
	if all := snap.Displays(); len(all) > 0 {
		return all[0], nil
	}
	return display.Info{}, notFound("")
}

func describe(m display.Mode) string {
	return fmt.Sprintf("%dx%d @ %.0fHz %s (mode %d)", m.Width, m.Height, m.RefreshRate, m.Kind(), m.Number)
}

func findMode(catalog []display.Mode, number uint32) (display.Mode, bool) {
	for _, m := range catalog {
		if m.Number == number {
			return m, true
		}
	}
	return display.Mode{}, false
}
