package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/wiredit/internal/config"
	"github.com/ha1tch/wiredit/internal/logging"
	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/clipboard"
	"github.com/ha1tch/wiredit/pkg/geom"
	"github.com/ha1tch/wiredit/pkg/interact"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestEditor returns an editor on a 100x40 simulated screen, leaving a
// 76x38 canvas of 8x16 scene units per cell.
func newTestEditor(t *testing.T) (*Editor, tcell.SimulationScreen, *testClock) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(100, 40)

	cfg := config.Default()
	cfg.Files.LastDir = t.TempDir()
	clock := &testClock{t: time.Unix(1000, 0)}
	ed := NewEditor(screen, cfg, logging.NewNop(), clipboard.NewMemory())
	ed.now = clock.now
	return ed, screen, clock
}

func addElement(t *testing.T, ed *Editor, k circuit.Kind, pos geom.Point) *circuit.Element {
	t.Helper()
	e, err := ed.session.Factory().BuildElement(k)
	require.NoError(t, err)
	e.Pos = pos
	require.NoError(t, ed.session.Scene().AddElement(e))
	return e
}

func mouse(ed *Editor, x, y int, btn tcell.ButtonMask, mod tcell.ModMask) {
	ed.handleMouse(tcell.NewEventMouse(x, y, btn, mod))
}

func key(ed *Editor, k tcell.Key, r rune, mod tcell.ModMask) bool {
	return ed.handleKey(tcell.NewEventKey(k, r, mod))
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func TestCellMapping(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	assert.Equal(t, geom.Pt(4, 8), ed.toScene(0, 0))
	x, y := ed.toCell(ed.toScene(10, 5))
	assert.Equal(t, 10, x)
	assert.Equal(t, 5, y)
	assert.Equal(t, geom.Rect{W: 608, H: 608}, ed.ViewportRect())

	ed.Scroll(1, 0)
	assert.Equal(t, 24.0, ed.originX)
	ed.Scroll(-1, 0)

	ed.EnsureVisible(geom.Rect{X: -50, Y: 700, W: 10, H: 10})
	assert.Equal(t, -50.0, ed.originX)
	assert.Equal(t, 102.0, ed.originY)
	x, y = ed.toCell(geom.Pt(-50, 700))
	assert.Equal(t, 0, x)
	assert.True(t, ed.onCanvas(x, y))
}

func TestPaletteDropPlacesElement(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	mouse(ed, 80, paletteTop, tcell.ButtonPrimary, tcell.ModNone)
	require.True(t, ed.paletteDrag)
	mouse(ed, 20, 10, tcell.ButtonPrimary, tcell.ModNone)
	mouse(ed, 20, 10, tcell.ButtonNone, tcell.ModNone)

	elems := ed.session.Scene().Elements()
	require.Len(t, elems, 1)
	assert.Equal(t, circuit.KindAnd, elems[0].Kind)
	// Dropped at (164,168) with the icon grabbed at its centre.
	assert.Equal(t, geom.Pt(132, 136), elems[0].Pos)
	assert.True(t, elems[0].Selected)
	assert.False(t, ed.paletteDrag)
	assert.True(t, ed.modified)
}

func TestPaletteDropOffCanvasIgnored(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	mouse(ed, 80, paletteTop+9, tcell.ButtonPrimary, tcell.ModNone)
	mouse(ed, 90, 10, tcell.ButtonNone, tcell.ModNone)
	assert.Empty(t, ed.session.Scene().Elements())
}

func TestPaletteBoxPromptsForFile(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	mouse(ed, 80, paletteTop+len(paletteKinds)-1, tcell.ButtonPrimary, tcell.ModNone)
	assert.Equal(t, ModeInput, ed.mode)
	assert.False(t, ed.paletteDrag)

	ed.inputBuffer = ""
	for _, r := range "half.wdt" {
		key(ed, tcell.KeyRune, r, tcell.ModNone)
	}
	key(ed, tcell.KeyEnter, 0, tcell.ModNone)
	assert.Equal(t, ModeCanvas, ed.mode)
	assert.Equal(t, "half.wdt", ed.boxPath)
}

func TestWireByMouse(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	sw := addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))
	led := addElement(t, ed, circuit.KindLED, geom.Pt(200, 0))

	// Output port (64,32) lies in cell (8,2); input port (200,16) in cell (25,1).
	mouse(ed, 8, 2, tcell.ButtonPrimary, tcell.ModNone)
	assert.Equal(t, interact.StateEditingConnection, ed.session.State())
	mouse(ed, 25, 1, tcell.ButtonPrimary, tcell.ModNone)
	mouse(ed, 25, 1, tcell.ButtonNone, tcell.ModNone)

	assert.Equal(t, interact.StateIdle, ed.session.State())
	require.Len(t, ed.session.Scene().Connections(), 1)
	assert.True(t, circuit.IsConnected(sw.Outputs[0], led.Inputs[0]))
}

func TestDoubleClickDetection(t *testing.T) {
	ed, _, clock := newTestEditor(t)

	assert.Equal(t, interact.PointerPress, ed.pressKind(tcell.ButtonPrimary, 3, 3))
	clock.advance(200 * time.Millisecond)
	assert.Equal(t, interact.PointerDoubleClick, ed.pressKind(tcell.ButtonPrimary, 3, 3))
	clock.advance(100 * time.Millisecond)
	assert.Equal(t, interact.PointerPress, ed.pressKind(tcell.ButtonPrimary, 3, 3), "a third click starts over")

	clock.advance(100 * time.Millisecond)
	assert.Equal(t, interact.PointerPress, ed.pressKind(tcell.ButtonPrimary, 4, 3), "different cell")
	clock.advance(500 * time.Millisecond)
	assert.Equal(t, interact.PointerPress, ed.pressKind(tcell.ButtonPrimary, 4, 3), "too slow")
	assert.Equal(t, interact.PointerPress, ed.pressKind(tcell.ButtonSecondary, 4, 3))
}

func TestCloneDragDeliveredOnRelease(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))

	mouse(ed, 2, 1, tcell.ButtonPrimary, tcell.ModCtrl)
	require.NotNil(t, ed.pending)
	assert.Equal(t, "COPY", ed.modeString())
	mouse(ed, 30, 10, tcell.ButtonPrimary, tcell.ModCtrl)
	mouse(ed, 30, 10, tcell.ButtonNone, tcell.ModNone)

	assert.Nil(t, ed.pending)
	elems := ed.session.Scene().Elements()
	require.Len(t, elems, 2)
	// Grabbed at (20,24), released at (244,168).
	assert.Equal(t, geom.Pt(224, 144), elems[1].Pos)
	assert.True(t, elems[1].Selected)
	assert.False(t, elems[0].Selected)
}

func TestCloneDragReleasedOffCanvas(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))

	mouse(ed, 2, 1, tcell.ButtonPrimary, tcell.ModCtrl)
	mouse(ed, 90, 10, tcell.ButtonNone, tcell.ModNone)
	assert.Nil(t, ed.pending)
	assert.Len(t, ed.session.Scene().Elements(), 1)
}

func TestContextMenuPopup(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	sw := addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))

	mouse(ed, 2, 1, tcell.ButtonSecondary, tcell.ModNone)
	require.NotNil(t, ed.popup)
	assert.Len(t, ed.popup.items, 9)
	mouse(ed, 2, 1, tcell.ButtonNone, tcell.ModNone)

	key(ed, tcell.KeyDown, 0, tcell.ModNone)
	key(ed, tcell.KeyEnter, 0, tcell.ModNone)
	assert.Nil(t, ed.popup)
	assert.Equal(t, 270.0, sw.Rotation)
	assert.Equal(t, 1, ed.session.History().Len())
}

// typeLine answers an input prompt.
func typeLine(ed *Editor, text string) {
	for _, r := range text {
		key(ed, tcell.KeyRune, r, tcell.ModNone)
	}
	key(ed, tcell.KeyEnter, 0, tcell.ModNone)
}

func TestContextMenuRenameAndTrigger(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	sw := addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))

	mouse(ed, 2, 1, tcell.ButtonSecondary, tcell.ModNone)
	mouse(ed, 2, 1, tcell.ButtonNone, tcell.ModNone)
	require.NotNil(t, ed.popup)
	m := ed.popup
	require.Equal(t, "Set trigger...", m.items[8].label)
	require.True(t, m.items[8].enabled)

	mouse(ed, m.x+1, m.y+1+8, tcell.ButtonPrimary, tcell.ModNone)
	mouse(ed, m.x+1, m.y+1+8, tcell.ButtonNone, tcell.ModNone)
	require.Equal(t, ModeInput, ed.mode)
	typeLine(ed, "k")
	assert.Equal(t, ModeCanvas, ed.mode)
	assert.Equal(t, "k", sw.Trigger)
	assert.Equal(t, MsgSuccess, ed.messageType)

	key(ed, tcell.KeyRune, 'k', tcell.ModNone)
	assert.True(t, sw.On)

	mouse(ed, 2, 1, tcell.ButtonSecondary, tcell.ModNone)
	mouse(ed, 2, 1, tcell.ButtonNone, tcell.ModNone)
	require.NotNil(t, ed.popup)
	for i := 0; i < 7; i++ {
		key(ed, tcell.KeyDown, 0, tcell.ModNone)
	}
	key(ed, tcell.KeyEnter, 0, tcell.ModNone)
	require.Equal(t, ModeInput, ed.mode)
	typeLine(ed, "start")
	assert.Equal(t, "start", sw.Label)
	assert.Equal(t, "k", sw.Trigger)
	assert.Equal(t, 2, ed.session.History().Len())

	require.NoError(t, ed.session.Undo())
	assert.Empty(t, sw.Label)
}

func TestContextMenuTriggerNeedsInput(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	addElement(t, ed, circuit.KindAnd, geom.Pt(0, 0))

	mouse(ed, 4, 2, tcell.ButtonSecondary, tcell.ModNone)
	require.NotNil(t, ed.popup)
	assert.True(t, ed.popup.items[7].enabled, "rename")
	assert.False(t, ed.popup.items[8].enabled, "set trigger")
}

func TestPasteMenuDisabledWhenEmpty(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	mouse(ed, 40, 20, tcell.ButtonSecondary, tcell.ModNone)
	require.NotNil(t, ed.popup)
	assert.False(t, ed.popup.items[0].enabled)

	// The click on the disabled entry closes the menu and does nothing.
	mouse(ed, ed.popup.x+1, ed.popup.y+1, tcell.ButtonPrimary, tcell.ModNone)
	assert.Nil(t, ed.popup)
	assert.Zero(t, ed.session.History().Len())
}

func TestTriggerReleasedAfterHold(t *testing.T) {
	ed, _, clock := newTestEditor(t)
	btn := addElement(t, ed, circuit.KindButton, geom.Pt(0, 0))
	btn.Trigger = "a"

	key(ed, tcell.KeyRune, 'a', tcell.ModNone)
	assert.True(t, btn.On)

	clock.advance(100 * time.Millisecond)
	ed.tick()
	assert.True(t, btn.On)

	clock.advance(100 * time.Millisecond)
	ed.tick()
	assert.False(t, btn.On)
	assert.Empty(t, ed.heldKeys)
}

func TestFunctionKeyTrigger(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	sw := addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))
	sw.Trigger = "F2"

	key(ed, tcell.KeyF2, 0, tcell.ModNone)
	assert.True(t, sw.On)
}

func TestKeyShortcuts(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	addElement(t, ed, circuit.KindAnd, geom.Pt(0, 0))
	addElement(t, ed, circuit.KindOr, geom.Pt(100, 0))

	key(ed, tcell.KeyCtrlA, 0, tcell.ModCtrl)
	assert.Len(t, ed.session.Scene().Selected(), 2)
	key(ed, tcell.KeyDelete, 0, tcell.ModNone)
	assert.Empty(t, ed.session.Scene().Elements())

	key(ed, tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	assert.Len(t, ed.session.Scene().Elements(), 2)
	assert.Equal(t, MsgSuccess, ed.messageType)

	key(ed, tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	assert.Equal(t, MsgInfo, ed.messageType, "empty history is not an error")

	key(ed, tcell.KeyCtrlW, 0, tcell.ModCtrl)
	assert.False(t, ed.session.ShowingWires())

	assert.False(t, key(ed, tcell.KeyF1, 0, tcell.ModNone))
	assert.Equal(t, ModeHelp, ed.mode)
	key(ed, tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, ModeCanvas, ed.mode)

	assert.True(t, key(ed, tcell.KeyCtrlQ, 0, tcell.ModCtrl))
}

func TestToggleSimulation(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	require.True(t, ed.loop.IsRunning())

	key(ed, tcell.KeyCtrlT, 0, tcell.ModCtrl)
	assert.False(t, ed.loop.IsRunning())
	assert.Equal(t, MsgWarning, ed.messageType)
	key(ed, tcell.KeyCtrlT, 0, tcell.ModCtrl)
	assert.True(t, ed.loop.IsRunning())
}

func TestWheelScrolls(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	mouse(ed, 10, 10, tcell.WheelUp, tcell.ModNone)
	assert.Equal(t, -48.0, ed.originY)
	mouse(ed, 10, 10, tcell.WheelDown, tcell.ModNone)
	assert.Equal(t, 0.0, ed.originY)
	mouse(ed, 10, 10, tcell.WheelUp, tcell.ModShift)
	assert.Equal(t, -24.0, ed.originX)
}

func TestSaveAndLoad(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	sw := addElement(t, ed, circuit.KindSwitch, geom.Pt(0, 0))
	led := addElement(t, ed, circuit.KindLED, geom.Pt(200, 0))
	c := ed.session.Factory().BuildConnection()
	c.StartFrom(sw.Outputs[0], sw.Outputs[0].Pos())
	require.NoError(t, circuit.Complete(c, led.Inputs[0]))
	require.NoError(t, ed.session.Scene().AddConnection(c))
	ed.modified = true

	key(ed, tcell.KeyCtrlS, 0, tcell.ModCtrl)
	require.Equal(t, ModeInput, ed.mode)
	for _, r := range "demo.wdt" {
		key(ed, tcell.KeyRune, r, tcell.ModNone)
	}
	key(ed, tcell.KeyEnter, 0, tcell.ModNone)

	path := filepath.Join(ed.cfg.Files.LastDir, "demo.wdt")
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, path, ed.filename)
	assert.Equal(t, "demo", ed.name)
	assert.False(t, ed.modified)

	other, _, _ := newTestEditor(t)
	require.NoError(t, other.loadFile(path))
	assert.Len(t, other.session.Scene().Elements(), 2)
	assert.Len(t, other.session.Scene().Connections(), 1)
	assert.Equal(t, "demo", other.name)
	assert.False(t, other.modified)

	assert.Error(t, other.loadFile(filepath.Join(t.TempDir(), "missing.wdt")))
	assert.Equal(t, path, other.filename)
}

func TestDrawShowsScene(t *testing.T) {
	ed, screen, _ := newTestEditor(t)
	addElement(t, ed, circuit.KindAnd, geom.Pt(0, 0))
	ed.showMessage("hello", MsgInfo)

	ed.draw()
	screen.Show()

	assert.Contains(t, rowText(screen, 0), "Palette")
	assert.Contains(t, rowText(screen, 1), "AND")
	assert.Contains(t, rowText(screen, 39), "[New]")
	assert.Contains(t, rowText(screen, 39), "hello")
	assert.Contains(t, rowText(screen, 38), "F1:Help")
}

// TestFlashPhaseCalculation checks the status message flash pattern:
// normal, inverted, normal, inverted, then steady after 500ms.
func TestFlashPhaseCalculation(t *testing.T) {
	tests := []struct {
		elapsed      int64
		wantInverted bool
	}{
		{-1, false},
		{0, false},
		{124, false},
		{125, true},
		{249, true},
		{250, false},
		{374, false},
		{375, true},
		{499, true},
		{500, false},
		{1000, false},
	}
	for _, tt := range tests {
		if got := flashInverted(tt.elapsed); got != tt.wantInverted {
			t.Errorf("elapsed=%d: got inverted=%v, want %v", tt.elapsed, got, tt.wantInverted)
		}
	}
}

func TestFlashMessageTypes(t *testing.T) {
	tests := []struct {
		msgType     MessageType
		shouldFlash bool
	}{
		{MsgInfo, false},
		{MsgError, true},
		{MsgSuccess, true},
		{MsgWarning, true},
	}
	for _, tt := range tests {
		if got := flashes(tt.msgType); got != tt.shouldFlash {
			t.Errorf("msgType=%v: got %v, want %v", tt.msgType, got, tt.shouldFlash)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"AND", 10, "AND"},
		{"SWITCH [a]", 6, "SWI..."},
		{"SWITCH", 2, "SW"},
		{"SWITCH", -1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.max))
	}
}
