package circuit

import (
	"fmt"

	"github.com/ha1tch/wiredit/pkg/geom"
)

// Item is anything placed in a scene: *Element, *Port or *Connection.
// Callers distinguish them with a type switch.
type Item interface {
	Bounds() geom.Rect
	Contains(p geom.Point) bool
	isItem()
}

// Scene owns the elements and connections of one circuit.
// Later elements are drawn above earlier ones; connections are drawn below elements.
type Scene struct {
	elements    []*Element
	connections []*Connection
	byID        map[ItemID]Item
	rect        geom.Rect
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{byID: make(map[ItemID]Item)}
}

// Elements returns the elements in drawing order.
func (s *Scene) Elements() []*Element {
	out := make([]*Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Connections returns the connections in drawing order.
func (s *Scene) Connections() []*Connection {
	out := make([]*Connection, len(s.connections))
	copy(out, s.connections)
	return out
}

// Lookup finds an element or connection by id.
func (s *Scene) Lookup(id ItemID) (Item, bool) {
	item, ok := s.byID[id]
	return item, ok
}

// Element finds an element by id.
func (s *Scene) Element(id ItemID) *Element {
	item, _ := s.Lookup(id)
	e, _ := item.(*Element)
	return e
}

// ResolvePort returns the referenced port, or nil if the reference is stale.
func (s *Scene) ResolvePort(ref PortRef) *Port {
	if ref.IsZero() {
		return nil
	}
	e := s.Element(ref.Element)
	if e == nil || e.gen != ref.Gen {
		return nil
	}
	return e.Port(ref.Index)
}

// AddElement places e on top of the scene.
func (s *Scene) AddElement(e *Element) error {
	if e.inScene {
		return fmt.Errorf("element %d: %w", e.id, ErrInScene)
	}
	e.inScene = true
	s.elements = append(s.elements, e)
	s.byID[e.id] = e
	return nil
}

// RemoveElement takes e out of the scene. Its connections must be removed first.
func (s *Scene) RemoveElement(e *Element) error {
	if !e.inScene {
		return fmt.Errorf("element %d: %w", e.id, ErrNotInScene)
	}
	if len(e.connections()) > 0 {
		return fmt.Errorf("element %d: %w", e.id, ErrStillConnected)
	}
	for i, x := range s.elements {
		if x == e {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			break
		}
	}
	delete(s.byID, e.id)
	e.inScene = false
	e.Selected = false
	e.gen++
	for _, p := range e.Ports() {
		p.Hovered = false
	}
	return nil
}

// AddConnection registers a complete connection and attaches it to both ports.
// It enforces that an input port carries at most one connection.
func (s *Scene) AddConnection(c *Connection) error {
	if c.inScene {
		return fmt.Errorf("connection %d: %w", c.id, ErrInScene)
	}
	if err := validatePair(c.start, c.end); err != nil {
		return fmt.Errorf("connection %d: %w", c.id, err)
	}
	if !c.start.elem.inScene || !c.end.elem.inScene {
		return fmt.Errorf("connection %d: endpoint element %w", c.id, ErrNotInScene)
	}
	if len(c.end.conns) > 0 {
		return fmt.Errorf("connection %d: %w", c.id, ErrInputOccupied)
	}
	c.start.attach(c)
	c.end.attach(c)
	c.inScene = true
	s.connections = append(s.connections, c)
	s.byID[c.id] = c
	return nil
}

// RemoveConnection detaches c from its ports and takes it out of the scene.
// The connection keeps its endpoints so it can be added again.
func (s *Scene) RemoveConnection(c *Connection) error {
	if !c.inScene {
		return fmt.Errorf("connection %d: %w", c.id, ErrNotInScene)
	}
	c.start.detach(c)
	c.end.detach(c)
	for i, x := range s.connections {
		if x == c {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			break
		}
	}
	delete(s.byID, c.id)
	c.inScene = false
	c.Selected = false
	return nil
}

// Contains reports whether the element or connection is in the scene.
func (s *Scene) Contains(item Item) bool {
	switch it := item.(type) {
	case *Element:
		return it.inScene
	case *Connection:
		return it.inScene
	case *Port:
		return it.elem.inScene
	}
	return false
}

// ItemsAt returns the visible items under p: ports first, then elements
// (topmost first), then connections.
func (s *Scene) ItemsAt(p geom.Point) []Item {
	return s.collect(func(it Item) bool { return it.Contains(p) })
}

// ItemsIn returns the visible items whose shape intersects r, in ItemsAt order.
func (s *Scene) ItemsIn(r geom.Rect) []Item {
	r = r.Normalized()
	return s.collect(func(it Item) bool { return intersects(it, r) })
}

func intersects(it Item, r geom.Rect) bool {
	if c, ok := it.(*Connection); ok {
		return c.Intersects(r)
	}
	return it.Bounds().Intersects(r)
}

func (s *Scene) collect(match func(Item) bool) []Item {
	var ports, elems, conns []Item
	for i := len(s.elements) - 1; i >= 0; i-- {
		e := s.elements[i]
		if !e.Visible {
			continue
		}
		for _, p := range e.Ports() {
			if p.Visible && match(p) {
				ports = append(ports, p)
			}
		}
		if match(e) {
			elems = append(elems, e)
		}
	}
	for i := len(s.connections) - 1; i >= 0; i-- {
		c := s.connections[i]
		if c.Visible && match(c) {
			conns = append(conns, c)
		}
	}
	out := make([]Item, 0, len(ports)+len(elems)+len(conns))
	out = append(out, ports...)
	out = append(out, elems...)
	return append(out, conns...)
}

// Selected returns the selected elements and connections.
func (s *Scene) Selected() []Item {
	var out []Item
	for _, e := range s.elements {
		if e.Selected {
			out = append(out, e)
		}
	}
	for _, c := range s.connections {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// SelectedElements returns the selected elements in drawing order.
func (s *Scene) SelectedElements() []*Element {
	var out []*Element
	for _, e := range s.elements {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() {
	for _, e := range s.elements {
		e.Selected = false
	}
	for _, c := range s.connections {
		c.Selected = false
	}
}

// SelectAll selects every element and connection.
func (s *Scene) SelectAll() {
	for _, e := range s.elements {
		e.Selected = true
	}
	for _, c := range s.connections {
		c.Selected = true
	}
}

// SetSelectionArea replaces the selection with every visible element and
// connection whose shape intersects r. The result depends only on r.
func (s *Scene) SetSelectionArea(r geom.Rect) {
	r = r.Normalized()
	for _, e := range s.elements {
		e.Selected = e.Visible && e.Bounds().Intersects(r)
	}
	for _, c := range s.connections {
		c.Selected = c.Visible && c.Intersects(r)
	}
}

// Rect returns the scene rectangle.
func (s *Scene) Rect() geom.Rect { return s.rect }

// SetRect replaces the scene rectangle.
func (s *Scene) SetRect(r geom.Rect) { s.rect = r }

// GrowToFit extends the scene rectangle to cover every element with margin.
func (s *Scene) GrowToFit(margin float64) {
	for _, e := range s.elements {
		s.rect = s.rect.Union(e.Bounds().Adjusted(margin))
	}
}

// Clear removes everything from the scene.
func (s *Scene) Clear() {
	for _, c := range s.connections {
		c.start.detach(c)
		c.end.detach(c)
		c.inScene = false
	}
	for _, e := range s.elements {
		e.inScene = false
		e.gen++
	}
	s.elements = nil
	s.connections = nil
	s.byID = make(map[ItemID]Item)
	s.rect = geom.Rect{}
}

// ItemsBounds returns the union of the bounds of the given elements.
func ItemsBounds(elems []*Element) geom.Rect {
	var r geom.Rect
	for _, e := range elems {
		r = r.Union(e.Bounds())
	}
	return r
}
