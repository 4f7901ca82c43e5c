package main

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
	"github.com/ha1tch/wiredit/pkg/interact"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleMenuOff    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleElement    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleElementSel = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleInputOn    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLEDOn      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLEDOff     = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	stylePort       = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	stylePortHover  = tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack)
	styleForbidden  = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	styleWire       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleWireHigh   = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleWireSel    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleWireEdit   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleMarquee    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDragging   = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
)

const popupWidth = 20

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas()
	ed.drawSidebar(w, h)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}
	if ed.popup != nil {
		ed.drawPopup()
	}

	ed.drawStatusBar(w, h)
}

// setCell writes one canvas cell, clipped to the canvas.
func (ed *Editor) setCell(x, y int, r rune, style tcell.Style) {
	if ed.onCanvas(x, y) {
		ed.screen.SetContent(x, y, r, nil, style)
	}
}

func (ed *Editor) drawCanvas() {
	s := ed.session.Scene()
	for _, c := range s.Connections() {
		if !c.Visible {
			continue
		}
		style := styleWire
		switch {
		case c.Selected:
			style = styleWireSel
		case c.Start() != nil && c.Start().Value:
			style = styleWireHigh
		}
		ed.drawWire(c.StartPos(), c.EndPos(), style)
	}
	if c := ed.session.EditedConnection(); c != nil {
		ed.drawWire(c.StartPos(), c.EndPos(), styleWireEdit)
	}
	for _, e := range s.Elements() {
		if e.Visible {
			ed.drawElement(e)
		}
	}
	if r, ok := ed.session.Marquee(); ok {
		ed.drawMarquee(r)
	}
	if ed.pending != nil {
		ed.drawPendingDrag()
	}
}

// drawWire plots a straight segment between two scene points.
func (ed *Editor) drawWire(a, b geom.Point, style tcell.Style) {
	x0, y0 := ed.toCell(a)
	x1, y1 := ed.toCell(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	r := wireRune(x1-x0, y1-y0)
	e := dx + dy
	for {
		ed.setCell(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func wireRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func (ed *Editor) drawElement(e *circuit.Element) {
	b := e.Bounds()
	x0, y0 := ed.toCell(b.Min())
	x1, y1 := ed.toCell(geom.Pt(b.X+b.W-0.5, b.Y+b.H-0.5))

	style := styleElement
	if e.Selected {
		style = styleElementSel
	}

	switch e.Kind {
	case circuit.KindNode:
		ed.setCell(x0, y0, '◆', style)
	case circuit.KindLED:
		led := styleLEDOff
		if len(e.Inputs) > 0 && e.Inputs[0].Value {
			led = styleLEDOn
		}
		if e.Selected {
			led = styleElementSel
		}
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				ed.setCell(x, y, '●', led)
			}
		}
	default:
		ed.drawFrame(x0, y0, x1, y1, style)
		label := e.DisplayName()
		if e.Kind.Group() == circuit.GroupInput {
			if e.On {
				label += " 1"
				if !e.Selected {
					style = styleInputOn
				}
			} else {
				label += " 0"
			}
		}
		if e.Trigger != "" {
			label += " [" + e.Trigger + "]"
		}
		inner := x1 - x0 - 1
		if inner > 0 {
			label = truncate(label, inner)
			ed.drawCanvasString(x0+1+(inner-len(label))/2, (y0+y1)/2, label, style)
		}
	}

	for _, p := range e.Ports() {
		if p.Visible {
			ed.drawPort(p)
		}
	}
}

func (ed *Editor) drawPort(p *circuit.Port) {
	x, y := ed.toCell(p.Pos())
	r := '○'
	if p.IsOutput() {
		r = '●'
	}
	style := stylePort
	if p.Hovered {
		style = stylePortHover
		if ed.session.Cursor() == interact.CursorForbidden {
			style = styleForbidden
		}
	}
	ed.setCell(x, y, r, style)
}

func (ed *Editor) drawFrame(x0, y0, x1, y1 int, style tcell.Style) {
	for x := x0; x <= x1; x++ {
		ed.setCell(x, y0, '─', style)
		ed.setCell(x, y1, '─', style)
	}
	for y := y0; y <= y1; y++ {
		ed.setCell(x0, y, '│', style)
		ed.setCell(x1, y, '│', style)
	}
	ed.setCell(x0, y0, '┌', style)
	ed.setCell(x1, y0, '┐', style)
	ed.setCell(x0, y1, '└', style)
	ed.setCell(x1, y1, '┘', style)
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			ed.setCell(x, y, ' ', style)
		}
	}
}

func (ed *Editor) drawMarquee(r geom.Rect) {
	x0, y0 := ed.toCell(r.Min())
	x1, y1 := ed.toCell(r.Max())
	for x := x0; x <= x1; x++ {
		ed.setCell(x, y0, '┄', styleMarquee)
		ed.setCell(x, y1, '┄', styleMarquee)
	}
	for y := y0; y <= y1; y++ {
		ed.setCell(x0, y, '┆', styleMarquee)
		ed.setCell(x1, y, '┆', styleMarquee)
	}
}

// drawPendingDrag outlines where a clone drag would land.
func (ed *Editor) drawPendingDrag() {
	mouse := ed.session.Mouse()
	d := ed.pending
	tl := geom.Pt(mouse.X-float64(d.hotspot.X), mouse.Y-float64(d.hotspot.Y))
	x0, y0 := ed.toCell(tl)
	x1, y1 := ed.toCell(geom.Pt(tl.X+d.bounds.W, tl.Y+d.bounds.H))
	for x := x0; x <= x1; x++ {
		ed.setCell(x, y0, ' ', styleDragging)
		ed.setCell(x, y1, ' ', styleDragging)
	}
	for y := y0; y <= y1; y++ {
		ed.setCell(x0, y, ' ', styleDragging)
		ed.setCell(x1, y, ' ', styleDragging)
	}
}

func (ed *Editor) drawCanvasString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.setCell(x+i, y, r, style)
	}
}

func (ed *Editor) drawPopup() {
	m := ed.popup
	h := len(m.items) + 2
	ed.drawBox(m.x, m.y, popupWidth, h, styleMenu)
	for i, it := range m.items {
		style := styleMenu
		switch {
		case !it.enabled:
			style = styleMenuOff
		case i == m.selected:
			style = styleMenuSel
		}
		ed.drawString(m.x+1, m.y+1+i, fmt.Sprintf(" %-*s", popupWidth-3, truncate(it.label, popupWidth-3)), style)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleDefault)
	if title != "" {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleTitle)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, styleBorder)
	}
}

var helpLines = []string{
	"Drag a palette entry onto the canvas to place it.",
	"Drag from a port to a port to wire them.",
	"Double-click a wire to insert a node.",
	"Ctrl+drag copies, Shift+click toggles selection.",
	"Right-click an input to rename it or bind a key.",
	"",
	"Ctrl+C/X/V  Copy, cut, paste",
	"Ctrl+Z/Y    Undo, redo",
	"Ctrl+R/L    Rotate right, left",
	"Ctrl+F/G    Flip horizontal, vertical",
	"Ctrl+W/E    Toggle wires, gates",
	"Ctrl+T      Start or stop simulation",
	"Ctrl+N      New circuit",
	"Ctrl+S      Save",
	"Ctrl+Q      Quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 54
	boxH := len(helpLines) + 4
	x := (w - boxW) / 2
	y := (h - boxH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	ed.drawTitledBox(x, y, boxW, boxH, "Help")
	for i, line := range helpLines {
		ed.drawString(x+2, y+2+i, truncate(line, boxW-4), styleMenu)
	}
}

func (ed *Editor) drawSidebar(w, h int) {
	left := w - ed.sidebarWidth
	for y := 0; y < h-2; y++ {
		ed.screen.SetContent(left, y, '│', nil, styleBorder)
	}
	x := left + 2
	ed.drawString(x, 0, "Palette", styleSidebarH)
	for i, k := range paletteKinds {
		style := styleSidebar
		if i == ed.paletteSelected && ed.paletteDrag {
			style = styleMenuSel
		}
		label := "  " + k.String()
		if k == circuit.KindBox && ed.boxPath != "" {
			label += " " + filepath.Base(ed.boxPath)
		}
		ed.drawString(x, paletteTop+i, truncate(label, ed.sidebarWidth-3), style)
	}

	y := paletteTop + len(paletteKinds) + 1
	s := ed.session.Scene()
	sim := "stopped"
	if ed.loop.IsRunning() {
		sim = "running"
	}
	info := []string{
		fmt.Sprintf("Elements: %d", len(s.Elements())),
		fmt.Sprintf("Wires:    %d", len(s.Connections())),
		fmt.Sprintf("Selected: %d", len(s.Selected())),
		fmt.Sprintf("Undo:     %d", ed.session.History().Len()),
		"Sim:      " + sim,
		"Show:     " + onOff("wires", ed.session.ShowingWires()) + " " + onOff("gates", ed.session.ShowingGates()),
	}
	ed.drawString(x, y, "Circuit", styleSidebarH)
	y++
	for _, line := range info {
		if y >= h-2 {
			return
		}
		ed.drawString(x, y, truncate(line, ed.sidebarWidth-3), styleSidebar)
		y++
	}
}

func onOff(name string, on bool) string {
	if on {
		return "+" + name
	}
	return "-" + name
}

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it appeared.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func flashes(t MessageType) bool {
	return t != MsgInfo
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	mode := ed.modeString()
	ed.drawString(w/2-len(mode)/2, y, mode, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) && flashInverted(ed.now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-len(msg)-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 60
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	avail := boxW - 5 - len(ed.inputPrompt)
	buf := []rune(ed.inputBuffer)
	if len(buf) > avail && avail > 0 {
		buf = buf[len(buf)-avail:]
	}
	ed.drawString(boxX+2+len(ed.inputPrompt), boxY+1, string(buf)+"_", styleInput)
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeHelp:
		return "HELP"
	}
	switch {
	case ed.paletteDrag:
		return "PLACE"
	case ed.pending != nil:
		return "COPY"
	case ed.session.State() == interact.StateIdle:
		return ""
	}
	return ed.session.State().String()
}

func (ed *Editor) helpString() string {
	switch {
	case ed.mode == ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ed.mode == ModeHelp:
		return "Any key:Close"
	case ed.popup != nil:
		return "↑↓:Select  Enter:Confirm  Esc:Close"
	}
	return "F1:Help  Ctrl+S:Save  Ctrl+Z:Undo  Ctrl+T:Sim  Del:Delete  Esc:Drop wire  Ctrl+Q:Quit"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		if maxLen < 0 {
			maxLen = 0
		}
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
