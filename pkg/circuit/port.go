package circuit

import (
	"math"

	"github.com/ha1tch/wiredit/pkg/geom"
)

// PortRadius is the visual radius of a port.
const PortRadius = 5.0

// Direction is the signal direction of a port.
type Direction int

const (
	DirInput Direction = iota
	DirOutput
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == DirOutput {
		return "output"
	}
	return "input"
}

// Port is a typed connection point on an element.
// An input port carries at most one connection; an output port may drive many.
type Port struct {
	elem    *Element
	Dir     Direction
	Index   int        // Position within the element's Inputs or Outputs
	Offset  geom.Point // Relative to the element's unrotated top-left
	Value   bool
	Visible bool
	Hovered bool

	conns []*Connection
}

func (*Port) isItem() {}

// Element returns the owning element.
func (p *Port) Element() *Element { return p.elem }

// IsOutput reports whether the port drives signals.
func (p *Port) IsOutput() bool { return p.Dir == DirOutput }

// Pos returns the port centre in scene space, honouring flips and rotation.
func (p *Port) Pos() geom.Point {
	e := p.elem
	o := p.Offset
	if e.FlipH {
		o.X = e.W - o.X
	}
	if e.FlipV {
		o.Y = e.H - o.Y
	}
	pos := e.Pos.Add(o)
	if math.Mod(e.Rotation, 360) != 0 {
		pos = pos.Rotate(e.Centre(), e.Rotation)
	}
	return pos
}

// Bounds returns the square enclosing the port circle.
func (p *Port) Bounds() geom.Rect {
	return geom.SquareAround(p.Pos(), 2*PortRadius)
}

// Contains reports whether q lies within the port circle.
func (p *Port) Contains(q geom.Point) bool {
	c := p.Pos()
	return math.Hypot(q.X-c.X, q.Y-c.Y) <= PortRadius
}

// Connections returns a copy of the incident connections.
func (p *Port) Connections() []*Connection {
	out := make([]*Connection, len(p.conns))
	copy(out, p.conns)
	return out
}

// IsConnected reports whether a connection already joins p and other.
func (p *Port) IsConnected(other *Port) bool {
	for _, c := range p.conns {
		if c.Other(p) == other {
			return true
		}
	}
	return false
}

// Ref returns a weak reference to the port.
func (p *Port) Ref() PortRef {
	idx := p.Index
	if p.Dir == DirOutput {
		idx += len(p.elem.Inputs)
	}
	return PortRef{Element: p.elem.id, Index: idx, Gen: p.elem.gen}
}

// HoverEnter marks the port as under the cursor.
func (p *Port) HoverEnter() { p.Hovered = true }

// HoverLeave clears the hover mark.
func (p *Port) HoverLeave() { p.Hovered = false }

func (p *Port) attach(c *Connection) {
	p.conns = append(p.conns, c)
}

func (p *Port) detach(c *Connection) {
	for i, x := range p.conns {
		if x == c {
			p.conns = append(p.conns[:i], p.conns[i+1:]...)
			return
		}
	}
}

// PortRef is a generation-checked weak reference to a port.
// It goes stale once the element leaves the scene.
type PortRef struct {
	Element ItemID
	Index   int // Inputs first, then outputs
	Gen     uint32
}

// IsZero reports whether the reference points nowhere.
func (r PortRef) IsZero() bool { return r.Element == 0 }
