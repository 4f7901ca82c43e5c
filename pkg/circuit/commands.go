package circuit

import (
	"fmt"
	"math"

	"github.com/ha1tch/wiredit/pkg/geom"
)

// The commands below are reversible units of work. Do applies the change,
// Undo restores every touched entity to its state before Do. Selection is
// not restored.

// AddItems places elements and connections in the scene. A connection whose
// input port is already fed by another source displaces that connection;
// undo puts it back.
type AddItems struct {
	scene     *Scene
	elements  []*Element
	conns     []*Connection
	displaced []*Connection
}

// NewAddItems creates an add command for the given items. Ports are ignored.
func NewAddItems(s *Scene, items ...Item) *AddItems {
	cmd := &AddItems{scene: s}
	for _, it := range items {
		switch it := it.(type) {
		case *Element:
			cmd.elements = append(cmd.elements, it)
		case *Connection:
			cmd.conns = append(cmd.conns, it)
		}
	}
	return cmd
}

// Name describes the command for undo menus.
func (c *AddItems) Name() string {
	return fmt.Sprintf("add %d item(s)", len(c.elements)+len(c.conns))
}

// Do adds the items.
func (c *AddItems) Do() error {
	c.displaced = c.displaced[:0]
	for i, e := range c.elements {
		if err := c.scene.AddElement(e); err != nil {
			c.rollbackElements(i)
			return err
		}
	}
	for i, conn := range c.conns {
		if old := Incoming(conn.end); old != nil && old != conn {
			if err := c.scene.RemoveConnection(old); err != nil {
				c.rollback(i)
				return err
			}
			c.displaced = append(c.displaced, old)
		}
		if err := c.scene.AddConnection(conn); err != nil {
			c.rollback(i)
			return err
		}
	}
	return nil
}

func (c *AddItems) rollback(addedConns int) {
	for i := addedConns - 1; i >= 0; i-- {
		_ = c.scene.RemoveConnection(c.conns[i])
	}
	for i := len(c.displaced) - 1; i >= 0; i-- {
		_ = c.scene.AddConnection(c.displaced[i])
	}
	c.displaced = c.displaced[:0]
	c.rollbackElements(len(c.elements))
}

func (c *AddItems) rollbackElements(added int) {
	for i := added - 1; i >= 0; i-- {
		_ = c.scene.RemoveElement(c.elements[i])
	}
}

// Undo removes the items and restores displaced connections.
func (c *AddItems) Undo() error {
	for i := len(c.conns) - 1; i >= 0; i-- {
		if err := c.scene.RemoveConnection(c.conns[i]); err != nil {
			return err
		}
	}
	for i := len(c.displaced) - 1; i >= 0; i-- {
		if err := c.scene.AddConnection(c.displaced[i]); err != nil {
			return err
		}
	}
	for i := len(c.elements) - 1; i >= 0; i-- {
		if err := c.scene.RemoveElement(c.elements[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteItems removes elements and connections, including every connection
// attached to a removed element.
type DeleteItems struct {
	scene    *Scene
	elements []*Element
	conns    []*Connection
}

// NewDeleteItems creates a delete command for the given items.
func NewDeleteItems(s *Scene, items ...Item) *DeleteItems {
	cmd := &DeleteItems{scene: s}
	seen := make(map[*Connection]bool)
	addConn := func(c *Connection) {
		if !seen[c] {
			seen[c] = true
			cmd.conns = append(cmd.conns, c)
		}
	}
	for _, it := range items {
		switch it := it.(type) {
		case *Element:
			cmd.elements = append(cmd.elements, it)
			for _, c := range it.connections() {
				addConn(c)
			}
		case *Connection:
			addConn(it)
		}
	}
	return cmd
}

// Name describes the command for undo menus.
func (c *DeleteItems) Name() string {
	return fmt.Sprintf("delete %d item(s)", len(c.elements)+len(c.conns))
}

// Do removes connections first, then elements.
func (c *DeleteItems) Do() error {
	for _, conn := range c.conns {
		if err := c.scene.RemoveConnection(conn); err != nil {
			return err
		}
	}
	for _, e := range c.elements {
		if err := c.scene.RemoveElement(e); err != nil {
			return err
		}
	}
	return nil
}

// Undo restores elements, then their connections.
func (c *DeleteItems) Undo() error {
	for _, e := range c.elements {
		if err := c.scene.AddElement(e); err != nil {
			return err
		}
	}
	for _, conn := range c.conns {
		if err := c.scene.AddConnection(conn); err != nil {
			return err
		}
	}
	return nil
}

// Move records a multi-element repositioning. The elements are expected to
// already sit at their new positions when the command is built.
type Move struct {
	elements []*Element
	oldPos   []geom.Point
	newPos   []geom.Point
}

// NewMove creates a move command from the elements' previous positions.
func NewMove(elements []*Element, oldPositions []geom.Point) *Move {
	cmd := &Move{
		elements: append([]*Element(nil), elements...),
		oldPos:   append([]geom.Point(nil), oldPositions...),
		newPos:   make([]geom.Point, len(elements)),
	}
	for i, e := range elements {
		cmd.newPos[i] = e.Pos
	}
	return cmd
}

// Name describes the command for undo menus.
func (c *Move) Name() string { return fmt.Sprintf("move %d element(s)", len(c.elements)) }

// Do places every element at its new position.
func (c *Move) Do() error {
	for i, e := range c.elements {
		e.Pos = c.newPos[i]
	}
	return nil
}

// Undo places every element back at its old position.
func (c *Move) Undo() error {
	for i, e := range c.elements {
		e.Pos = c.oldPos[i]
	}
	return nil
}

// transformState is what Rotate and Flip restore on undo.
type transformState struct {
	pos      geom.Point
	rotation float64
	flipH    bool
	flipV    bool
}

func captureTransforms(elements []*Element) []transformState {
	out := make([]transformState, len(elements))
	for i, e := range elements {
		out[i] = transformState{e.Pos, e.Rotation, e.FlipH, e.FlipV}
	}
	return out
}

func restoreTransforms(elements []*Element, states []transformState) {
	for i, e := range elements {
		s := states[i]
		e.Pos, e.Rotation, e.FlipH, e.FlipV = s.pos, s.rotation, s.flipH, s.flipV
	}
}

// Rotate turns elements by a multiple of 90 degrees. A group also orbits
// around the centre of its combined bounds.
type Rotate struct {
	elements []*Element
	angle    float64
	before   []transformState
}

// NewRotate creates a rotation command.
func NewRotate(elements []*Element, angle float64) *Rotate {
	return &Rotate{
		elements: append([]*Element(nil), elements...),
		angle:    angle,
		before:   captureTransforms(elements),
	}
}

// Name describes the command for undo menus.
func (c *Rotate) Name() string { return fmt.Sprintf("rotate %g", c.angle) }

// Do applies the rotation from the captured starting state.
func (c *Rotate) Do() error {
	restoreTransforms(c.elements, c.before)
	centre := ItemsBounds(c.elements).Centre()
	for _, e := range c.elements {
		if len(c.elements) > 1 {
			e.SetCentre(e.Centre().Rotate(centre, c.angle))
		}
		e.Rotation = math.Mod(e.Rotation+c.angle+360, 360)
	}
	return nil
}

// Undo restores positions and rotations.
func (c *Rotate) Undo() error {
	restoreTransforms(c.elements, c.before)
	return nil
}

// FlipAxis selects the mirror axis.
type FlipAxis int

const (
	FlipHorizontal FlipAxis = iota
	FlipVertical
)

// Flip mirrors elements around the centre of their combined bounds.
type Flip struct {
	elements []*Element
	axis     FlipAxis
	before   []transformState
}

// NewFlip creates a flip command.
func NewFlip(elements []*Element, axis FlipAxis) *Flip {
	return &Flip{
		elements: append([]*Element(nil), elements...),
		axis:     axis,
		before:   captureTransforms(elements),
	}
}

// Name describes the command for undo menus.
func (c *Flip) Name() string {
	if c.axis == FlipVertical {
		return "flip vertical"
	}
	return "flip horizontal"
}

// Do mirrors positions and toggles the element flip flags.
func (c *Flip) Do() error {
	restoreTransforms(c.elements, c.before)
	centre := ItemsBounds(c.elements).Centre()
	for _, e := range c.elements {
		ec := e.Centre()
		if c.axis == FlipHorizontal {
			ec.X = 2*centre.X - ec.X
			e.FlipH = !e.FlipH
		} else {
			ec.Y = 2*centre.Y - ec.Y
			e.FlipV = !e.FlipV
		}
		e.SetCentre(ec)
	}
	return nil
}

// Undo restores positions and flip flags.
func (c *Flip) Undo() error {
	restoreTransforms(c.elements, c.before)
	return nil
}

// Split inserts a pass-through node into a complete connection.
// The original connection is rerouted into the node and a second
// connection carries the signal on to the original destination.
type Split struct {
	scene   *Scene
	factory *Factory
	conn    *Connection
	at      geom.Point
	node    *Element
	tail    *Connection
	end     *Port
}

// NewSplit creates a split command for conn at scene point at.
func NewSplit(s *Scene, f *Factory, conn *Connection, at geom.Point) *Split {
	return &Split{scene: s, factory: f, conn: conn, at: at, end: conn.end}
}

// Name describes the command for undo menus.
func (c *Split) Name() string { return "split connection" }

// Node returns the inserted node once Do has run.
func (c *Split) Node() *Element { return c.node }

// Do inserts the node. The node and second wire are built on first use and
// reused on redo so their identities stay stable.
func (c *Split) Do() error {
	if !c.conn.IsComplete() {
		return ErrIncomplete
	}
	if c.node == nil {
		node, err := c.factory.BuildElement(KindNode)
		if err != nil {
			return err
		}
		node.SetCentre(c.at)
		c.node = node
		c.tail = c.factory.BuildConnection()
		c.tail.bind(node.Outputs[0], c.end)
	}
	if err := c.scene.RemoveConnection(c.conn); err != nil {
		return err
	}
	if err := c.scene.AddElement(c.node); err != nil {
		_ = c.scene.AddConnection(c.conn)
		return err
	}
	c.conn.bind(c.conn.start, c.node.Inputs[0])
	if err := c.scene.AddConnection(c.conn); err != nil {
		c.rollback(false)
		return err
	}
	if err := c.scene.AddConnection(c.tail); err != nil {
		c.rollback(true)
		return err
	}
	return nil
}

// rollback undoes a partial Do: the node leaves the scene and the original
// connection is rebound to its old destination.
func (c *Split) rollback(connAdded bool) {
	if connAdded {
		_ = c.scene.RemoveConnection(c.conn)
	}
	_ = c.scene.RemoveElement(c.node)
	c.conn.bind(c.conn.start, c.end)
	_ = c.scene.AddConnection(c.conn)
}

// Undo removes the node and restores the single original connection.
func (c *Split) Undo() error {
	if err := c.scene.RemoveConnection(c.tail); err != nil {
		return err
	}
	if err := c.scene.RemoveConnection(c.conn); err != nil {
		return err
	}
	if err := c.scene.RemoveElement(c.node); err != nil {
		return err
	}
	c.conn.bind(c.conn.start, c.end)
	return c.scene.AddConnection(c.conn)
}

// Relabel changes the label and trigger key of one element.
type Relabel struct {
	element              *Element
	label, trigger       string
	oldLabel, oldTrigger string
}

// NewRelabel creates a relabel command for e.
func NewRelabel(e *Element, label, trigger string) *Relabel {
	return &Relabel{element: e, label: label, trigger: trigger}
}

// Name describes the command for undo menus.
func (c *Relabel) Name() string { return "relabel " + c.element.DisplayName() }

// Do applies the new label and trigger.
func (c *Relabel) Do() error {
	c.oldLabel, c.oldTrigger = c.element.Label, c.element.Trigger
	c.element.Label, c.element.Trigger = c.label, c.trigger
	return nil
}

// Undo restores the previous label and trigger.
func (c *Relabel) Undo() error {
	c.element.Label, c.element.Trigger = c.oldLabel, c.oldTrigger
	return nil
}
