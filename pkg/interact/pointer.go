package interact

import (
	"slices"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/clipboard"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// HandlePointer processes one pointer event. Hover tracking and scene
// growth run after every event.
func (s *Session) HandlePointer(ev PointerEvent) {
	s.mouse = ev.Pos
	switch ev.Kind {
	case PointerPress:
		s.press(ev)
	case PointerMove:
		s.move(ev)
	case PointerRelease:
		s.release(ev)
	case PointerDoubleClick:
		s.doubleClick(ev)
	}
	s.trackHover(ev.Pos)
	s.scene.GrowToFit(s.settings.SceneMargin)
}

func (s *Session) press(ev PointerEvent) {
	// A press can arrive without the release of the previous gesture,
	// e.g. when the pointer left the window mid-drag.
	if s.state != StateEditingConnection {
		s.finishGesture()
	}
	item := s.hit.Resolve(ev.Pos)

	if ev.Mods&ModShift != 0 {
		s.discardEdited("selection toggled")
		s.toggleSelection(item)
		return
	}
	if port, ok := item.(*circuit.Port); ok && ev.Button == ButtonLeft {
		s.pressPort(port, ev.Pos)
		return
	}
	// A press away from a port only cancels a wire in progress.
	if s.edited != nil {
		s.discardEdited("press away from a port")
		return
	}

	switch ev.Button {
	case ButtonRight:
		s.contextMenu(item, ev.Pos)
		return
	case ButtonLeft:
	default:
		return
	}

	switch it := item.(type) {
	case nil:
		s.beginMarquee(ev.Pos)
	case *circuit.Element:
		if ev.Mods&ModCtrl != 0 {
			s.beginClone(it, ev.Pos)
			return
		}
		s.beginDrag(it, ev.Pos)
	case *circuit.Connection:
		if !it.Selected {
			s.scene.ClearSelection()
			it.Selected = true
		}
	}
}

// pressPort starts, completes or rewires a connection at port.
func (s *Session) pressPort(port *circuit.Port, at geom.Point) {
	if s.edited != nil {
		s.makeConnection(port)
		return
	}
	if port.IsOutput() {
		s.startConnection(port, at)
		return
	}
	if old := circuit.Incoming(port); old != nil {
		source := old.Start()
		if err := s.execute(circuit.NewDeleteItems(s.scene, old)); err != nil {
			return
		}
		s.startConnection(source, at)
		return
	}
	s.startConnection(port, at)
}

func (s *Session) startConnection(anchor *circuit.Port, at geom.Point) {
	c := s.factory.BuildConnection()
	c.StartFrom(anchor, at)
	s.edited = c
	s.state = StateEditingConnection
}

// makeConnection resolves the edited connection against candidate. The
// connection is added on success and dropped otherwise; either way the
// session leaves the editing state.
func (s *Session) makeConnection(candidate *circuit.Port) {
	c := s.edited
	s.edited = nil
	s.state = StateIdle
	if err := circuit.Complete(c, candidate); err != nil {
		s.log.Debug("connection discarded", "reason", err)
		return
	}
	_ = s.execute(circuit.NewAddItems(s.scene, c))
}

func (s *Session) discardEdited(reason string) {
	if s.edited == nil {
		return
	}
	s.log.Debug("connection discarded", "reason", reason)
	s.edited = nil
	s.state = StateIdle
}

func (s *Session) toggleSelection(item circuit.Item) {
	switch it := item.(type) {
	case *circuit.Port:
		it.Element().Selected = !it.Element().Selected
	case *circuit.Element:
		it.Selected = !it.Selected
	case *circuit.Connection:
		it.Selected = !it.Selected
	}
}

func (s *Session) contextMenu(item circuit.Item, at geom.Point) {
	if s.menu == nil {
		return
	}
	switch it := item.(type) {
	case *circuit.Element:
		if !it.Selected {
			s.scene.ClearSelection()
			it.Selected = true
		}
		s.menu.ShowElementMenu(at, s.scene.Selected())
		return
	case *circuit.Connection:
		if it.Selected {
			s.menu.ShowElementMenu(at, s.scene.Selected())
			return
		}
	}
	s.menu.ShowPasteMenu(at, clipboard.Has(s.clip, circuitfile.MimeCopy))
}

func (s *Session) beginMarquee(at geom.Point) {
	s.scene.ClearSelection()
	s.marqueeOrigin = at
	s.marquee = geom.Rect{X: at.X, Y: at.Y}
	s.state = StateMarqueeSelecting
}

func (s *Session) endMarquee() {
	s.marquee = geom.Rect{}
	s.state = StateIdle
}

// beginDrag snapshots the selection plus every element under the cursor.
func (s *Session) beginDrag(e *circuit.Element, at geom.Point) {
	if !e.Selected {
		s.scene.ClearSelection()
		e.Selected = true
	}
	s.dragged = s.scene.SelectedElements()
	for _, under := range s.hit.ElementsAt(at) {
		if !slices.Contains(s.dragged, under) {
			s.dragged = append(s.dragged, under)
		}
	}
	s.dragFrom = make([]geom.Point, len(s.dragged))
	for i, d := range s.dragged {
		s.dragFrom[i] = d.Pos
	}
	s.dragLast = at
	s.state = StateDraggingElements
}

// finishDrag records one move command when anything changed position.
func (s *Session) finishDrag() {
	dragged, from := s.dragged, s.dragFrom
	s.dragged, s.dragFrom = nil, nil
	s.state = StateIdle
	for i, e := range dragged {
		if e.Pos != from[i] {
			_ = s.execute(circuit.NewMove(dragged, from))
			return
		}
	}
}

// beginClone serializes the selection and hands it to the drag source.
// The live selection is left alone; a drop adds the copy.
func (s *Session) beginClone(e *circuit.Element, at geom.Point) {
	e.Selected = true
	elems := s.scene.SelectedElements()
	group, err := circuitfile.NewGroup(s.scene, elems, at, s.id)
	if err != nil {
		s.log.Warn("clone drag", "error", err)
		return
	}
	data, err := circuitfile.EncodeGroup(group)
	if err != nil {
		s.log.Warn("clone drag", "error", err)
		return
	}
	s.state = StateCtrlCloning
	if s.drag == nil {
		return
	}
	preview := circuitfile.RenderPreview(elems, circuitfile.Connections(s.scene, elems), s.settings.Preview)
	s.drag.StartDrag(circuitfile.MimeGroup, data, preview, preview.Hotspot(at))
}

// finishGesture ends whatever gesture is in progress as if the pointer
// had been released.
func (s *Session) finishGesture() {
	switch s.state {
	case StateEditingConnection:
		s.discardEdited("gesture interrupted")
	case StateMarqueeSelecting:
		s.endMarquee()
	case StateDraggingElements:
		s.finishDrag()
	case StateCtrlCloning:
		s.state = StateIdle
	}
}

func (s *Session) move(ev PointerEvent) {
	switch s.state {
	case StateEditingConnection:
		s.edited.TrackFreeEnd(ev.Pos)
	case StateMarqueeSelecting:
		s.marquee = geom.RectFromPoints(s.marqueeOrigin, ev.Pos)
		s.scene.SetSelectionArea(s.marquee)
	case StateDraggingElements:
		d := ev.Pos.Sub(s.dragLast)
		for _, e := range s.dragged {
			e.Pos = e.Pos.Add(d)
		}
		s.dragLast = ev.Pos
		s.autoScroll(ev.Pos)
	}
}

// autoScroll brings the cursor back into view while it is near or past
// the viewport edge, at most once per AutoScrollInterval.
func (s *Session) autoScroll(p geom.Point) {
	if s.view == nil {
		return
	}
	inner := s.view.ViewportRect().Adjusted(-s.hit.Tolerance())
	if inner.Contains(p) {
		return
	}
	if !s.scroll.AllowN(s.now(), 1) {
		return
	}
	s.view.EnsureVisible(s.hit.Area(p))
}

func (s *Session) release(ev PointerEvent) {
	switch s.state {
	case StateEditingConnection:
		if ev.Buttons&ButtonLeft != 0 {
			return
		}
		port := s.hit.Port(ev.Pos)
		// Releasing on the anchor leaves the wire waiting for a second press.
		if port != nil && port == s.edited.Anchor() {
			return
		}
		s.makeConnection(port)
	case StateMarqueeSelecting:
		s.endMarquee()
	case StateDraggingElements:
		s.finishDrag()
	case StateCtrlCloning:
		s.state = StateIdle
	}
}

func (s *Session) doubleClick(ev PointerEvent) {
	if c, ok := s.hit.Resolve(ev.Pos).(*circuit.Connection); ok && c.IsComplete() && ev.Button == ButtonLeft {
		s.finishGesture()
		_ = s.execute(circuit.NewSplit(s.scene, s.factory, c, ev.Pos))
		return
	}
	s.press(ev)
}

// trackHover updates the hovered port and the cursor shape.
func (s *Session) trackHover(p geom.Point) {
	port := s.hit.Port(p)
	prev := s.scene.ResolvePort(s.hovered)
	if port != prev {
		if prev != nil {
			prev.HoverLeave()
		}
		s.hovered = circuit.PortRef{}
		if port != nil {
			port.HoverEnter()
			s.hovered = port.Ref()
		}
	}
	s.cursor = CursorArrow
	if port != nil && s.edited != nil && s.edited.Anchor().Dir == port.Dir {
		s.cursor = CursorForbidden
	}
}
