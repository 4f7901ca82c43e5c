package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/wiredit/internal/config"
	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/clipboard"
	"github.com/ha1tch/wiredit/pkg/geom"
	"github.com/ha1tch/wiredit/pkg/interact"
	"github.com/ha1tch/wiredit/pkg/sim"
	"github.com/ha1tch/wiredit/pkg/undo"
)

// Mode represents the current editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // Completed actions, flash
	MsgWarning                    // Warnings, flash
)

const (
	doubleClickMillis = 400
	// Terminals report no key releases; a trigger is released after this long.
	triggerHoldMillis = 150
	scrollCells       = 3
	wheelNotch        = 120
)

// paletteKinds lists the sidebar entries in display order.
var paletteKinds = []circuit.Kind{
	circuit.KindAnd, circuit.KindOr, circuit.KindNot,
	circuit.KindNand, circuit.KindNor, circuit.KindXor,
	circuit.KindSwitch, circuit.KindButton, circuit.KindClock,
	circuit.KindLED, circuit.KindNode, circuit.KindBox,
}

// paletteTop is the first sidebar row holding a palette entry.
const paletteTop = 2

type menuItem struct {
	label   string
	enabled bool
	action  func() error
}

// popupMenu is a context menu anchored at a canvas cell.
type popupMenu struct {
	x, y     int
	items    []menuItem
	selected int
}

// pendingDrag is a clone drag waiting for the mouse button to be released.
type pendingDrag struct {
	mime    string
	data    []byte
	bounds  geom.Rect
	hotspot image.Point
}

// Editor hosts an interaction session in a terminal.
type Editor struct {
	screen   tcell.Screen
	session  *interact.Session
	loop     *sim.Loop
	cfg      *config.Config
	cfgPath  string
	log      *slog.Logger
	filename string
	name     string
	modified bool
	mode     Mode

	// Scene coordinates of the top-left canvas cell.
	originX, originY float64
	cellW, cellH     float64
	sidebarWidth     int

	// Mouse state
	buttons       tcell.ButtonMask
	lastClickTime int64
	lastClickX    int
	lastClickY    int

	paletteSelected int
	paletteDrag     bool
	boxPath         string

	pending *pendingDrag
	popup   *popupMenu

	// Input mode
	inputPrompt string
	inputBuffer string
	inputAction func(string)

	// Triggers currently held, by press time in Unix milliseconds.
	heldKeys map[string]int64

	message           string
	messageType       MessageType
	messageFlashStart int64 // Unix milliseconds when message was shown

	now func() time.Time
}

// settingsFrom maps the config file onto session settings.
func settingsFrom(cfg *config.Config) interact.Settings {
	st := interact.DefaultSettings()
	st.Tolerance = cfg.Editor.HitTolerance
	st.AutoScrollInterval = cfg.Editor.AutoScrollInterval()
	st.UndoLimit = cfg.Editor.UndoLimit
	st.PasteOffset = cfg.Editor.PasteOffset
	st.IconSize = cfg.Editor.IconSize
	st.SceneMargin = cfg.Editor.SceneMargin
	st.Preview.Padding = cfg.Editor.PreviewPadding
	st.Preview.Opacity = cfg.Editor.PreviewOpacity
	return st
}

// NewEditor builds an editor over an empty scene.
func NewEditor(screen tcell.Screen, cfg *config.Config, log *slog.Logger, cb clipboard.Clipboard) *Editor {
	ed := &Editor{
		screen:       screen,
		cfg:          cfg,
		log:          log,
		cellW:        cfg.UI.CellWidth,
		cellH:        cfg.UI.CellHeight,
		sidebarWidth: cfg.UI.SidebarWidth,
		heldKeys:     make(map[string]int64),
		now:          time.Now,
	}
	if ed.cellW <= 0 {
		ed.cellW = 8
	}
	if ed.cellH <= 0 {
		ed.cellH = 16
	}

	scene := circuit.NewScene()
	ed.loop = sim.NewLoop(scene)
	ed.loop.SetClockPeriod(cfg.Editor.ClockPeriod)
	ed.loop.Start()

	ed.session = interact.New(scene, circuit.NewFactory(),
		interact.WithSettings(settingsFrom(cfg)),
		interact.WithLogger(log),
		interact.WithClock(func() time.Time { return ed.now() }),
		interact.WithView(ed),
		interact.WithDragSource(ed),
		interact.WithNotifier(ed),
		interact.WithContextMenu(ed),
		interact.WithBoxLoader(interact.FileBoxLoader{Dir: cfg.Files.LastDir}),
		interact.WithClipboard(cb),
		interact.WithSimulation(ed.loop),
	)
	ed.session.ShowWires(cfg.Editor.ShowWires)
	ed.session.ShowGates(cfg.Editor.ShowGates)
	ed.session.Subscribe(func(c interact.Change) {
		switch c.Kind {
		case interact.ChangeClear, interact.ChangeLoad:
			ed.modified = false
		default:
			ed.modified = true
		}
	})
	return ed
}

func (ed *Editor) run() {
	tick := ed.cfg.UI.Tick()
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	done := make(chan struct{})
	defer close(done)

	// Simulation steps and held-trigger timeouts run on the event loop.
	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			ed.tick()
		}
	}
}

// tick advances the simulation and releases expired triggers.
func (ed *Editor) tick() {
	ed.loop.Update()
	now := ed.now().UnixMilli()
	for key, at := range ed.heldKeys {
		if now-at >= triggerHoldMillis {
			ed.session.HandleKey(interact.KeyEvent{Key: key, Release: true})
			delete(ed.heldKeys, key)
		}
	}
}

// Coordinate mapping

func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	cw := w - ed.sidebarWidth
	if cw < 0 {
		cw = 0
	}
	ch := h - 2
	if ch < 0 {
		ch = 0
	}
	return cw, ch
}

// toScene returns the scene point at the centre of a cell.
func (ed *Editor) toScene(x, y int) geom.Point {
	return geom.Pt(ed.originX+(float64(x)+0.5)*ed.cellW, ed.originY+(float64(y)+0.5)*ed.cellH)
}

// toCell returns the cell covering a scene point.
func (ed *Editor) toCell(p geom.Point) (int, int) {
	return int(math.Floor((p.X - ed.originX) / ed.cellW)), int(math.Floor((p.Y - ed.originY) / ed.cellH))
}

func (ed *Editor) onCanvas(x, y int) bool {
	cw, ch := ed.canvasSize()
	return x >= 0 && y >= 0 && x < cw && y < ch
}

// ViewportRect returns the visible scene area.
func (ed *Editor) ViewportRect() geom.Rect {
	cw, ch := ed.canvasSize()
	return geom.Rect{X: ed.originX, Y: ed.originY, W: float64(cw) * ed.cellW, H: float64(ch) * ed.cellH}
}

// EnsureVisible scrolls by the least amount that brings r into view.
func (ed *Editor) EnsureVisible(r geom.Rect) {
	vp := ed.ViewportRect()
	if r.X < vp.X {
		ed.originX = r.X
	} else if r.X+r.W > vp.X+vp.W {
		ed.originX = r.X + r.W - vp.W
	}
	if r.Y < vp.Y {
		ed.originY = r.Y
	} else if r.Y+r.H > vp.Y+vp.H {
		ed.originY = r.Y + r.H - vp.H
	}
}

// Scroll moves the viewport by whole steps.
func (ed *Editor) Scroll(dx, dy int) {
	ed.originX += float64(dx*scrollCells) * ed.cellW
	ed.originY += float64(dy*scrollCells) * ed.cellH
}

// centreOn places scene point p in the middle of the canvas.
func (ed *Editor) centreOn(p geom.Point) {
	vp := ed.ViewportRect()
	ed.originX = math.Round(p.X - vp.W/2)
	ed.originY = math.Round(p.Y - vp.H/2)
}

// StartDrag holds a clone drag until the mouse button is released.
func (ed *Editor) StartDrag(mime string, data []byte, preview circuitfile.Preview, hotspot image.Point) {
	ed.pending = &pendingDrag{mime: mime, data: data, bounds: preview.Bounds, hotspot: hotspot}
}

// Warn shows a warning in the status bar.
func (ed *Editor) Warn(title, msg string) {
	ed.log.Warn(msg, "title", title)
	ed.showMessage(title+": "+msg, MsgError)
}

// ShowElementMenu opens the edit menu for the selection. Rename and trigger
// entries need a lone element.
func (ed *Editor) ShowElementMenu(pos geom.Point, items []circuit.Item) {
	x, y := ed.toCell(pos)
	lone := loneElement(items)
	ed.popup = &popupMenu{x: x, y: y, items: []menuItem{
		{"Rotate right", true, func() error { return ed.session.Rotate(true) }},
		{"Rotate left", true, func() error { return ed.session.Rotate(false) }},
		{"Flip horizontal", true, ed.session.FlipH},
		{"Flip vertical", true, ed.session.FlipV},
		{"Cut", true, ed.session.Cut},
		{"Copy", true, ed.session.Copy},
		{"Delete", true, ed.session.Delete},
		{"Rename...", lone != nil, func() error { ed.promptLabel(lone); return nil }},
		{"Set trigger...", lone != nil && lone.Kind.Group() == circuit.GroupInput,
			func() error { ed.promptTrigger(lone); return nil }},
	}}
}

func loneElement(items []circuit.Item) *circuit.Element {
	if len(items) != 1 {
		return nil
	}
	e, _ := items[0].(*circuit.Element)
	return e
}

func (ed *Editor) promptLabel(e *circuit.Element) {
	ed.startInput("Label: ", e.Label, func(label string) {
		ed.report(ed.session.Relabel(e, label, e.Trigger), "Renamed "+e.DisplayName())
	})
}

// promptTrigger binds a key such as "a" or "F2"; an empty answer unbinds.
func (ed *Editor) promptTrigger(e *circuit.Element) {
	ed.startInput("Trigger key: ", e.Trigger, func(key string) {
		ed.report(ed.session.Relabel(e, e.Label, key), "Trigger set for "+e.DisplayName())
	})
}

// ShowPasteMenu opens the background menu.
func (ed *Editor) ShowPasteMenu(pos geom.Point, enabled bool) {
	x, y := ed.toCell(pos)
	ed.popup = &popupMenu{x: x, y: y, items: []menuItem{
		{"Paste", enabled, ed.session.Paste},
		{"Select all", true, func() error { ed.session.SelectAll(); return nil }},
	}}
}

// Mouse handling

func toButtons(m tcell.ButtonMask) interact.Button {
	var b interact.Button
	if m&tcell.ButtonPrimary != 0 {
		b |= interact.ButtonLeft
	}
	if m&tcell.ButtonSecondary != 0 {
		b |= interact.ButtonRight
	}
	if m&tcell.ButtonMiddle != 0 {
		b |= interact.ButtonMiddle
	}
	return b
}

func toMods(m tcell.ModMask) interact.Modifier {
	var mods interact.Modifier
	if m&tcell.ModShift != 0 {
		mods |= interact.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= interact.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= interact.ModAlt
	}
	return mods
}

const (
	mouseButtons = tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle
	wheelButtons = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight
)

// buttonOrder fixes the order in which simultaneous changes are reported.
var buttonOrder = []tcell.ButtonMask{tcell.ButtonPrimary, tcell.ButtonSecondary, tcell.ButtonMiddle}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btns := ev.Buttons()
	mods := toMods(ev.Modifiers())
	p := ed.toScene(x, y)

	if btns&wheelButtons != 0 {
		ed.handleWheel(btns, p, mods)
		return
	}

	pressed := btns &^ ed.buttons & mouseButtons
	released := ed.buttons &^ btns & mouseButtons
	ed.buttons = btns & mouseButtons

	if ed.mode != ModeCanvas {
		return
	}

	if ed.popup != nil {
		if pressed != 0 {
			ed.pressPopup(x, y)
		}
		return
	}

	cw, _ := ed.canvasSize()
	if pressed&tcell.ButtonPrimary != 0 && x >= cw {
		ed.pressSidebar(y)
		return
	}
	if ed.paletteDrag {
		if released&tcell.ButtonPrimary != 0 {
			ed.paletteDrag = false
			if ed.onCanvas(x, y) {
				ed.dropNewElement(paletteKinds[ed.paletteSelected], p)
			}
		}
		return
	}

	if pressed == 0 && released == 0 {
		ed.session.HandlePointer(interact.PointerEvent{
			Kind:    interact.PointerMove,
			Pos:     p,
			Buttons: toButtons(ed.buttons),
			Mods:    mods,
		})
		return
	}

	for _, b := range buttonOrder {
		if pressed&b != 0 && ed.onCanvas(x, y) {
			ed.session.HandlePointer(interact.PointerEvent{
				Kind:    ed.pressKind(b, x, y),
				Pos:     p,
				Button:  toButtons(b),
				Buttons: toButtons(ed.buttons),
				Mods:    mods,
			})
		}
		if released&b != 0 {
			ed.session.HandlePointer(interact.PointerEvent{
				Kind:    interact.PointerRelease,
				Pos:     p,
				Button:  toButtons(b),
				Buttons: toButtons(ed.buttons),
				Mods:    mods,
			})
			if b == tcell.ButtonPrimary {
				ed.deliverDrag(x, y)
			}
		}
	}
}

// pressKind reports a second left press on the same cell within the
// double-click interval as a double click.
func (ed *Editor) pressKind(b tcell.ButtonMask, x, y int) interact.PointerKind {
	if b != tcell.ButtonPrimary {
		return interact.PointerPress
	}
	now := ed.now().UnixMilli()
	double := now-ed.lastClickTime < doubleClickMillis && x == ed.lastClickX && y == ed.lastClickY
	if double {
		ed.lastClickTime = 0
		return interact.PointerDoubleClick
	}
	ed.lastClickTime = now
	ed.lastClickX, ed.lastClickY = x, y
	return interact.PointerPress
}

func (ed *Editor) handleWheel(btns tcell.ButtonMask, p geom.Point, mods interact.Modifier) {
	ev := interact.WheelEvent{Pos: p}
	switch {
	case btns&tcell.WheelUp != 0:
		ev.Delta = wheelNotch
	case btns&tcell.WheelDown != 0:
		ev.Delta = -wheelNotch
	case btns&tcell.WheelLeft != 0:
		ev.Delta, ev.Horizontal = wheelNotch, true
	case btns&tcell.WheelRight != 0:
		ev.Delta, ev.Horizontal = -wheelNotch, true
	}
	if mods&interact.ModShift != 0 {
		ev.Horizontal = !ev.Horizontal
	}
	ed.session.HandleWheel(ev)
}

// deliverDrag drops a pending clone drag where the button was released.
func (ed *Editor) deliverDrag(x, y int) {
	d := ed.pending
	ed.pending = nil
	if d == nil || !ed.onCanvas(x, y) || !ed.session.AcceptsDrag(d.mime) {
		return
	}
	ed.session.Drop(d.mime, d.data, ed.toScene(x, y))
}

func (ed *Editor) pressSidebar(y int) {
	i := y - paletteTop
	if i < 0 || i >= len(paletteKinds) {
		return
	}
	ed.paletteSelected = i
	if paletteKinds[i] == circuit.KindBox && ed.boxPath == "" {
		ed.promptBox()
		return
	}
	ed.paletteDrag = true
	ed.showMessage(fmt.Sprintf("Drop %s on the canvas", paletteKinds[i]), MsgInfo)
}

func (ed *Editor) promptBox() {
	ed.startInput("Box file: ", ed.cfg.Files.LastDir+string(filepath.Separator), func(path string) {
		if path == "" {
			return
		}
		ed.boxPath = path
		ed.showMessage("Click BOX and drop it on the canvas", MsgInfo)
	})
}

// dropNewElement drops a palette element grabbed at the icon centre.
func (ed *Editor) dropNewElement(k circuit.Kind, at geom.Point) {
	half := ed.cfg.Editor.IconSize / 2
	p := circuitfile.NewElement{Offset: geom.Pt(half, half), Kind: k}
	if k == circuit.KindBox {
		p.Aux = ed.boxPath
	}
	data, err := circuitfile.EncodeNewElement(p)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.session.Drop(circuitfile.MimeNewElement, data, at)
}

func (ed *Editor) pressPopup(x, y int) {
	m := ed.popup
	ed.popup = nil
	i := y - m.y - 1
	if x < m.x || x >= m.x+popupWidth || i < 0 || i >= len(m.items) {
		return
	}
	ed.runMenuItem(m.items[i])
}

func (ed *Editor) runMenuItem(it menuItem) {
	if !it.enabled {
		return
	}
	err := it.action()
	if ed.mode == ModeInput {
		// The prompt reports once it is answered.
		return
	}
	ed.report(err, it.label)
}

// Keyboard handling

// handleKey processes a key event and reports whether the editor should quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ed.mode {
	case ModeInput:
		ed.handleInputKey(ev)
		return false
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	}
	if ed.popup != nil {
		ed.handlePopupKey(ev)
		return false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlC:
		ed.report(ed.session.Copy(), "Copied")
	case tcell.KeyCtrlX:
		ed.report(ed.session.Cut(), "Cut")
	case tcell.KeyCtrlV:
		ed.report(ed.session.Paste(), "Pasted")
	case tcell.KeyCtrlZ:
		ed.report(ed.session.Undo(), "Undone")
	case tcell.KeyCtrlY:
		ed.report(ed.session.Redo(), "Redone")
	case tcell.KeyCtrlA:
		ed.session.SelectAll()
	case tcell.KeyCtrlS:
		ed.save()
	case tcell.KeyCtrlR:
		ed.report(ed.session.Rotate(true), "Rotated right")
	case tcell.KeyCtrlL:
		ed.report(ed.session.Rotate(false), "Rotated left")
	case tcell.KeyCtrlF:
		ed.report(ed.session.FlipH(), "Flipped")
	case tcell.KeyCtrlG:
		ed.report(ed.session.FlipV(), "Flipped")
	case tcell.KeyCtrlW:
		ed.session.ShowWires(!ed.session.ShowingWires())
	case tcell.KeyCtrlE:
		ed.session.ShowGates(!ed.session.ShowingGates())
	case tcell.KeyCtrlN:
		ed.session.Clear()
		ed.filename, ed.name = "", ""
		ed.showMessage("New circuit", MsgSuccess)
	case tcell.KeyCtrlT:
		ed.toggleSimulation()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.report(ed.session.Delete(), "Deleted")
	case tcell.KeyF1:
		ed.mode = ModeHelp
	case tcell.KeyEscape:
		ed.session.HandleKey(interact.KeyEvent{Key: interact.KeyEscape})
	case tcell.KeyUp:
		ed.Scroll(0, -1)
	case tcell.KeyDown:
		ed.Scroll(0, 1)
	case tcell.KeyLeft:
		ed.Scroll(-1, 0)
	case tcell.KeyRight:
		ed.Scroll(1, 0)
	case tcell.KeyRune:
		ed.trigger(string(ev.Rune()))
	default:
		if name, ok := tcell.KeyNames[ev.Key()]; ok && strings.HasPrefix(name, "F") {
			ed.trigger(name)
		}
	}
	return false
}

// trigger presses the inputs bound to key; the release follows on a later tick.
func (ed *Editor) trigger(key string) {
	if ed.session.HandleKey(interact.KeyEvent{Key: key}) {
		ed.heldKeys[key] = ed.now().UnixMilli()
	}
}

func (ed *Editor) toggleSimulation() {
	if ed.loop.IsRunning() {
		ed.loop.Stop()
		ed.showMessage("Simulation stopped", MsgWarning)
		return
	}
	ed.loop.Start()
	ed.loop.UpdateAll()
	ed.showMessage("Simulation running", MsgSuccess)
}

func (ed *Editor) handlePopupKey(ev *tcell.EventKey) {
	m := ed.popup
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.popup = nil
	case tcell.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tcell.KeyDown:
		if m.selected < len(m.items)-1 {
			m.selected++
		}
	case tcell.KeyEnter:
		ed.popup = nil
		ed.runMenuItem(m.items[m.selected])
	}
}

func (ed *Editor) startInput(prompt, initial string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = prompt
	ed.inputBuffer = initial
	ed.inputAction = action
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(strings.TrimSpace(ed.inputBuffer))
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

// report turns an action result into a status message.
func (ed *Editor) report(err error, done string) {
	switch {
	case err == nil:
		ed.showMessage(done, MsgSuccess)
	case errors.Is(err, undo.ErrEmpty):
		ed.showMessage(err.Error(), MsgInfo)
	default:
		ed.log.Error("action failed", "action", done, "error", err)
		ed.showMessage(err.Error(), MsgError)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = ed.now().UnixMilli()
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// File operations

func (ed *Editor) loadFile(path string) error {
	name, err := ed.session.LoadFile(path)
	if err != nil {
		return err
	}
	ed.filename = path
	ed.name = name
	ed.rememberDir(path)
	ed.centreOn(ed.session.Scene().Rect().Centre())
	ed.showMessage("Loaded "+filepath.Base(path), MsgSuccess)
	return nil
}

func (ed *Editor) save() {
	if ed.filename != "" {
		ed.writeFile(ed.filename)
		return
	}
	ed.startInput("Save as: ", ed.cfg.Files.LastDir+string(filepath.Separator), func(path string) {
		if path == "" {
			return
		}
		ed.writeFile(path)
	})
}

func (ed *Editor) writeFile(path string) {
	name := ed.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := ed.session.SaveFile(path, name); err != nil {
		ed.log.Error("save failed", "path", path, "error", err)
		ed.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	ed.filename, ed.name = path, name
	ed.modified = false
	ed.rememberDir(path)
	ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
}

// rememberDir records the directory of path in the config file.
func (ed *Editor) rememberDir(path string) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil || dir == ed.cfg.Files.LastDir {
		return
	}
	ed.cfg.Files.LastDir = dir
	if ed.cfgPath == "" {
		return
	}
	if err := config.Save(ed.cfgPath, ed.cfg); err != nil {
		ed.log.Warn("config not saved", "path", ed.cfgPath, "error", err)
	}
}
