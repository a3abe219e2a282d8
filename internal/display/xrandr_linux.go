//go:build linux

package display

import (
	"fmt"
	"math"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// RandR SetConfig status codes.
var randrStatus = map[int32]string{
	-1: "mode not found",
	1:  "invalid config time",
	2:  "invalid time",
	3:  "failed",
}

// XRandRBackend drives X11 outputs through the RandR extension. Display IDs
// are RandR output XIDs and mode numbers are RandR mode XIDs.
type XRandRBackend struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	edid xproto.Atom
}

var _ Backend = (*XRandRBackend)(nil)

// output is one connected output with its CRTC state at query time.
type output struct {
	id    randr.Output
	index int
	name  string
	info  *randr.GetOutputInfoReply
	crtc  *randr.GetCrtcInfoReply
}

// NewBackend opens an X11 connection and initialises RandR.
func NewBackend() (Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	edid, err := xprop.Atm(xu, "EDID")
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to intern EDID atom: %w", err)
	}

	return &XRandRBackend{xu: xu, root: xu.RootWin(), edid: edid}, nil
}

func (b *XRandRBackend) Close() error {
	b.xu.Conn().Close()
	return nil
}

func (b *XRandRBackend) resources() (*randr.GetScreenResourcesCurrentReply, error) {
	res, err := randr.GetScreenResourcesCurrent(b.xu.Conn(), b.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	return res, nil
}

// outputs returns every connected output that currently drives a CRTC.
func (b *XRandRBackend) outputs(res *randr.GetScreenResourcesCurrentReply) []output {
	conn := b.xu.Conn()

	var outs []output
	for i, id := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, id, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil || crtc.Mode == 0 {
			continue
		}
		outs = append(outs, output{
			id:    id,
			index: i,
			name:  string(info.Name),
			info:  info,
			crtc:  crtc,
		})
	}
	return outs
}

func (b *XRandRBackend) find(id ID) (*randr.GetScreenResourcesCurrentReply, []output, *output, error) {
	res, err := b.resources()
	if err != nil {
		return nil, nil, nil, err
	}
	outs := b.outputs(res)
	for i := range outs {
		if ID(outs[i].id) == id {
			return res, outs, &outs[i], nil
		}
	}
	return res, outs, nil, fmt.Errorf("display %d not found", id)
}

func (b *XRandRBackend) ActiveDisplays() ([]ID, error) {
	res, err := b.resources()
	if err != nil {
		return nil, err
	}
	outs := b.outputs(res)
	if len(outs) == 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	ids := make([]ID, len(outs))
	for i, o := range outs {
		ids[i] = ID(o.id)
	}
	return ids, nil
}

func (b *XRandRBackend) DisplayInfo(id ID) (Info, bool) {
	res, outs, out, err := b.find(id)
	if err != nil {
		return Info{}, false
	}
	mode, ok := b.modeFor(res, out.crtc.Mode)
	if !ok {
		return Info{}, false
	}

	edid := b.edidBlob(out.id)
	info := Info{
		ID:           id,
		UUID:         edidUUID(edid, out.name),
		ContextualID: uint32(out.index + 1),
		Serial:       edidSerial(edid),
		Origin:       Point{X: int32(out.crtc.X), Y: int32(out.crtc.Y)},
		Width:        mode.Width,
		Height:       mode.Height,
		RefreshRate:  mode.RefreshRate,
		Depth:        mode.Depth,
		Rotation:     rotationDegrees(out.crtc.Rotation),
		ModeNumber:   mode.Number,
		Main:         b.isMain(outs, out),
		Enabled:      true,
		Builtin:      builtinConnector(out.name),
	}
	if src := mirrorSource(outs, out); src != nil {
		of := ID(src.id)
		info.SetMirror(&of)
	}

	widthMM, heightMM := float64(out.info.MmWidth), float64(out.info.MmHeight)
	if widthMM == 0 || heightMM == 0 {
		widthMM, heightMM = edidSizeMM(edid)
	}
	info.Type = fmt.Sprintf("%s (%s)", screenLabel(info.Builtin, widthMM, heightMM), out.name)

	return info, true
}

func (b *XRandRBackend) Modes(id ID) []Mode {
	res, _, out, err := b.find(id)
	if err != nil {
		return nil
	}

	modes := make([]Mode, 0, len(out.info.Modes))
	for _, m := range out.info.Modes {
		if mode, ok := b.modeFor(res, m); ok {
			modes = append(modes, mode)
		}
	}
	return modes
}

func (b *XRandRBackend) CurrentMode(id ID) (Mode, bool) {
	res, _, out, err := b.find(id)
	if err != nil {
		return Mode{}, false
	}
	return b.modeFor(res, out.crtc.Mode)
}

func (b *XRandRBackend) SetMode(id ID, number uint32) error {
	res, outs, out, err := b.find(id)
	if err != nil {
		return &StatusError{Op: "set display mode", Code: -1, Reason: err.Error()}
	}

	target, ok := b.modeFor(res, randr.Mode(number))
	if !ok || !outputSupports(out.info, randr.Mode(number)) {
		return statusError("set display mode", -1)
	}

	w, h := rotatedSize(target.Width, target.Height, out.crtc.Rotation)
	if err := b.fitScreen(outs, out, out.crtc.X, out.crtc.Y, w, h); err != nil {
		return err
	}
	return b.setCrtc(res, out, out.crtc.X, out.crtc.Y, randr.Mode(number), out.crtc.Rotation, out.crtc.Outputs, "set display mode")
}

func (b *XRandRBackend) Configure(id ID, g Geometry) error {
	res, outs, out, err := b.find(id)
	if err != nil {
		return &StatusError{Op: "configure display", Code: -1, Reason: err.Error()}
	}

	if g.Enabled != nil && !*g.Enabled {
		return b.setCrtc(res, out, 0, 0, 0, randr.RotationRotate0, nil, "disable display")
	}

	x, y := out.crtc.X, out.crtc.Y
	rotation := out.crtc.Rotation
	if g.MirrorOf != nil {
		for i := range outs {
			if ID(outs[i].id) == *g.MirrorOf {
				x, y = outs[i].crtc.X, outs[i].crtc.Y
			}
		}
	}
	if g.Origin != nil {
		if x, y, err = crtcOrigin(*g.Origin); err != nil {
			return err
		}
	}
	if g.Rotation != nil {
		bits, ok := rotationBits(*g.Rotation)
		if !ok {
			return &StatusError{Op: "rotate display", Code: -1, Reason: fmt.Sprintf("unsupported rotation %d", *g.Rotation)}
		}
		rotation = rotation&^0x0f | bits
	}

	mode, ok := b.modeFor(res, out.crtc.Mode)
	if !ok {
		return statusError("configure display", -1)
	}
	w, h := rotatedSize(mode.Width, mode.Height, rotation)
	if err := b.fitScreen(outs, out, x, y, w, h); err != nil {
		return err
	}
	return b.setCrtc(res, out, x, y, out.crtc.Mode, rotation, out.crtc.Outputs, "configure display")
}

func (b *XRandRBackend) setCrtc(res *randr.GetScreenResourcesCurrentReply, out *output, x, y int16, mode randr.Mode, rotation uint16, outputs []randr.Output, op string) error {
	reply, err := randr.SetCrtcConfig(b.xu.Conn(), out.info.Crtc, xproto.TimeCurrentTime, res.ConfigTimestamp,
		x, y, mode, rotation, outputs).Reply()
	if err != nil {
		return &StatusError{Op: op, Code: -1, Reason: err.Error()}
	}
	if reply.Status != randr.SetConfigSuccess {
		return statusError(op, int32(reply.Status))
	}
	return nil
}

// fitScreen grows the X screen when the changed CRTC would reach past it.
func (b *XRandRBackend) fitScreen(outs []output, changed *output, x, y int16, w, h uint32) error {
	geom, err := xproto.GetGeometry(b.xu.Conn(), xproto.Drawable(b.root)).Reply()
	if err != nil {
		return &StatusError{Op: "query screen size", Code: -1, Reason: err.Error()}
	}

	needW, needH := int(x)+int(w), int(y)+int(h)
	for _, o := range outs {
		if o.id == changed.id {
			continue
		}
		needW = max(needW, int(o.crtc.X)+int(o.crtc.Width))
		needH = max(needH, int(o.crtc.Y)+int(o.crtc.Height))
	}
	if needW <= int(geom.Width) && needH <= int(geom.Height) {
		return nil
	}
	needW, needH = max(needW, int(geom.Width)), max(needH, int(geom.Height))

	width, height, err := screenSize(needW, needH)
	if err != nil {
		return err
	}

	screen := b.xu.Screen()
	mmW := uint32(float64(needW) * float64(screen.WidthInMillimeters) / float64(screen.WidthInPixels))
	mmH := uint32(float64(needH) * float64(screen.HeightInMillimeters) / float64(screen.HeightInPixels))
	if err := randr.SetScreenSizeChecked(b.xu.Conn(), b.root, width, height, mmW, mmH).Check(); err != nil {
		return &StatusError{Op: "resize screen", Code: -1, Reason: err.Error()}
	}
	return nil
}

// crtcOrigin converts p to CRTC coordinates, which RandR holds in 16 bits.
func crtcOrigin(p Point) (int16, int16, error) {
	if p.X < math.MinInt16 || p.X > math.MaxInt16 || p.Y < math.MinInt16 || p.Y > math.MaxInt16 {
		return 0, 0, &StatusError{Op: "configure display", Code: -1, Reason: fmt.Sprintf("origin (%d,%d) out of range", p.X, p.Y)}
	}
	return int16(p.X), int16(p.Y), nil
}

func screenSize(w, h int) (uint16, uint16, error) {
	if w < 0 || h < 0 || w > math.MaxUint16 || h > math.MaxUint16 {
		return 0, 0, &StatusError{Op: "resize screen", Code: -1, Reason: fmt.Sprintf("screen size %dx%d out of range", w, h)}
	}
	return uint16(w), uint16(h), nil
}

func (b *XRandRBackend) modeFor(res *randr.GetScreenResourcesCurrentReply, id randr.Mode) (Mode, bool) {
	for _, mi := range res.Modes {
		if randr.Mode(mi.Id) != id {
			continue
		}
		return Mode{
			Width:           uint32(mi.Width),
			Height:          uint32(mi.Height),
			RefreshRate:     refreshRate(mi),
			Depth:           b.depth(),
			Number:          mi.Id,
			Interlaced:      mi.ModeFlags&randr.ModeFlagInterlace != 0,
			SafeForHardware: true,
		}, true
	}
	return Mode{}, false
}

// depth reports bits per color component of the root visual.
func (b *XRandRBackend) depth() uint32 {
	switch d := uint32(b.xu.Screen().RootDepth); d {
	case 30:
		return 10
	case 16:
		return 5
	default:
		return 8
	}
}

func (b *XRandRBackend) edidBlob(id randr.Output) []byte {
	reply, err := randr.GetOutputProperty(b.xu.Conn(), id, b.edid, xproto.AtomAny, 0, 128, false, false).Reply()
	if err != nil {
		return nil
	}
	return reply.Data
}

// isMain reports the RandR primary output, or the output at the origin when
// no primary is set.
func (b *XRandRBackend) isMain(outs []output, out *output) bool {
	primary, err := randr.GetOutputPrimary(b.xu.Conn(), b.root).Reply()
	if err == nil && primary.Output != 0 {
		return primary.Output == out.id
	}
	for _, o := range outs {
		if o.crtc.X == 0 && o.crtc.Y == 0 {
			return o.id == out.id
		}
	}
	return false
}

// mirrorSource returns the output out mirrors: the first output, in resource
// order, that shares its CRTC or its exact geometry. The first output of a
// mirror set mirrors nothing.
func mirrorSource(outs []output, out *output) *output {
	sorted := make([]output, len(outs))
	copy(sorted, outs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })

	for i := range sorted {
		o := &sorted[i]
		if o.id == out.id {
			return nil
		}
		sameCrtc := o.info.Crtc == out.info.Crtc
		sameRect := o.crtc.X == out.crtc.X && o.crtc.Y == out.crtc.Y &&
			o.crtc.Width == out.crtc.Width && o.crtc.Height == out.crtc.Height
		if sameCrtc || sameRect {
			return o
		}
	}
	return nil
}

func outputSupports(info *randr.GetOutputInfoReply, mode randr.Mode) bool {
	for _, m := range info.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func refreshRate(mi randr.ModeInfo) float64 {
	vtotal := float64(mi.Vtotal)
	if mi.ModeFlags&randr.ModeFlagDoubleScan != 0 {
		vtotal *= 2
	}
	if mi.ModeFlags&randr.ModeFlagInterlace != 0 {
		vtotal /= 2
	}
	if mi.Htotal == 0 || vtotal == 0 {
		return 0
	}
	return float64(mi.DotClock) / (float64(mi.Htotal) * vtotal)
}

func rotationDegrees(bits uint16) uint32 {
	switch {
	case bits&randr.RotationRotate90 != 0:
		return 90
	case bits&randr.RotationRotate180 != 0:
		return 180
	case bits&randr.RotationRotate270 != 0:
		return 270
	default:
		return 0
	}
}

func rotationBits(degrees uint32) (uint16, bool) {
	switch degrees {
	case 0:
		return randr.RotationRotate0, true
	case 90:
		return randr.RotationRotate90, true
	case 180:
		return randr.RotationRotate180, true
	case 270:
		return randr.RotationRotate270, true
	}
	return 0, false
}

func rotatedSize(w, h uint32, rotation uint16) (uint32, uint32) {
	if rotation&(randr.RotationRotate90|randr.RotationRotate270) != 0 {
		return h, w
	}
	return w, h
}

func statusError(op string, code int32) error {
	return &StatusError{Op: op, Code: code, Reason: randrStatus[code]}
}
