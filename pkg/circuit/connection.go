package circuit

import (
	"github.com/ha1tch/wiredit/pkg/geom"
)

// WireHalfWidth is the distance from a wire's centre line that still hits it.
const WireHalfWidth = 2.0

// Connection is a directed wire from an output port to an input port.
// While being edited it may have only one end bound; the other end then
// follows a free position.
type Connection struct {
	id       ItemID
	start    *Port // Output side
	end      *Port // Input side
	startPos geom.Point
	endPos   geom.Point
	Selected bool
	Visible  bool
	inScene  bool
}

func (*Connection) isItem() {}

// ID returns the connection identity.
func (c *Connection) ID() ItemID { return c.id }

// Start returns the bound output port, or nil.
func (c *Connection) Start() *Port { return c.start }

// End returns the bound input port, or nil.
func (c *Connection) End() *Port { return c.end }

// IsComplete reports whether both ends are bound.
func (c *Connection) IsComplete() bool { return c.start != nil && c.end != nil }

// Anchor returns the bound end of a half-bound connection.
// For a complete connection it returns the start port.
func (c *Connection) Anchor() *Port {
	if c.start != nil {
		return c.start
	}
	return c.end
}

// Other returns the port at the opposite end from p.
func (c *Connection) Other(p *Port) *Port {
	switch p {
	case c.start:
		return c.end
	case c.end:
		return c.start
	}
	return nil
}

// StartPos returns the scene position of the start end.
func (c *Connection) StartPos() geom.Point {
	if c.start != nil {
		return c.start.Pos()
	}
	return c.startPos
}

// EndPos returns the scene position of the end end.
func (c *Connection) EndPos() geom.Point {
	if c.end != nil {
		return c.end.Pos()
	}
	return c.endPos
}

// TrackFreeEnd moves whichever end is unbound to p.
func (c *Connection) TrackFreeEnd(p geom.Point) {
	if c.start == nil {
		c.startPos = p
	}
	if c.end == nil {
		c.endPos = p
	}
}

// Bounds returns the rectangle spanned by both ends.
func (c *Connection) Bounds() geom.Rect {
	return geom.RectFromPoints(c.StartPos(), c.EndPos()).Adjusted(WireHalfWidth)
}

// Contains reports whether p lies on the wire.
func (c *Connection) Contains(p geom.Point) bool {
	return geom.SegmentDistance(p, c.StartPos(), c.EndPos()) <= WireHalfWidth
}

// Intersects reports whether the wire passes through r.
func (c *Connection) Intersects(r geom.Rect) bool {
	return geom.SegmentIntersectsRect(c.StartPos(), c.EndPos(), r.Adjusted(WireHalfWidth))
}

// StartFrom anchors a fresh connection at p. The opposite end is left free
// at cursor until the connection is completed or discarded.
func (c *Connection) StartFrom(p *Port, cursor geom.Point) {
	c.start, c.end = nil, nil
	if p.IsOutput() {
		c.start = p
	} else {
		c.end = p
	}
	c.TrackFreeEnd(cursor)
}

func (c *Connection) bind(start, end *Port) {
	c.start = start
	c.end = end
}
