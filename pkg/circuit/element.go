// Package circuit provides the element, port and connection model of a
// digital-logic circuit together with the scene that owns them.
package circuit

import (
	"fmt"
	"math"
	"strings"

	"github.com/ha1tch/wiredit/pkg/geom"
)

// ItemID is the stable identity of an element or connection.
// Zero is never allocated.
type ItemID uint64

// Kind is the concrete element type.
type Kind int

const (
	KindUnknown Kind = iota
	KindAnd
	KindOr
	KindNot
	KindNand
	KindNor
	KindXor
	KindSwitch
	KindButton
	KindClock
	KindLED
	KindNode
	KindBox
)

var kindNames = map[Kind]string{
	KindAnd:    "AND",
	KindOr:     "OR",
	KindNot:    "NOT",
	KindNand:   "NAND",
	KindNor:    "NOR",
	KindXor:    "XOR",
	KindSwitch: "SWITCH",
	KindButton: "BUTTON",
	KindClock:  "CLOCK",
	KindLED:    "LED",
	KindNode:   "NODE",
	KindBox:    "BOX",
}

// String returns the upper-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a kind by name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Group is the category an element kind belongs to.
type Group int

const (
	GroupUnknown Group = iota
	GroupGate          // Logic function of its inputs
	GroupInput         // Stimulus source driven by the user
	GroupOutput        // Sink that displays a value
	GroupNode          // Pass-through wire joint
	GroupBox           // Nested sub-circuit
)

// Group returns the category of the kind.
func (k Kind) Group() Group {
	switch k {
	case KindAnd, KindOr, KindNot, KindNand, KindNor, KindXor:
		return GroupGate
	case KindSwitch, KindButton, KindClock:
		return GroupInput
	case KindLED:
		return GroupOutput
	case KindNode:
		return GroupNode
	case KindBox:
		return GroupBox
	}
	return GroupUnknown
}

// Element is a placed graph node.
type Element struct {
	id       ItemID
	Kind     Kind
	Label    string
	Pos      geom.Point // Top-left corner before rotation
	W, H     float64
	Rotation float64 // Degrees, clockwise
	FlipH    bool
	FlipV    bool
	Selected bool
	Visible  bool

	// Trigger is the key that drives an input element, e.g. "a" or "F2".
	Trigger string
	// On is the stimulus value of an input element.
	On bool
	// Source names the file a box element was loaded from.
	Source string

	Inputs  []*Port
	Outputs []*Port

	gen     uint32
	inScene bool
}

func (*Element) isItem() {}

// ID returns the element identity.
func (e *Element) ID() ItemID { return e.id }

// Generation changes every time the element leaves a scene.
func (e *Element) Generation() uint32 { return e.gen }

// Rotatable reports whether rotating a lone selection of this element is meaningful.
func (e *Element) Rotatable() bool {
	return e.Kind != KindNode && e.Kind != KindBox
}

// HasTrigger reports whether the element reacts to key triggers.
func (e *Element) HasTrigger() bool {
	return e.Kind.Group() == GroupInput && e.Trigger != ""
}

// DisplayName returns the label, falling back to the kind name.
func (e *Element) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Kind.String()
}

// Centre returns the centre of the element in scene space.
func (e *Element) Centre() geom.Point {
	return geom.Pt(e.Pos.X+e.W/2, e.Pos.Y+e.H/2)
}

// SetCentre moves the element so that its centre lands on c.
func (e *Element) SetCentre(c geom.Point) {
	e.Pos = geom.Pt(c.X-e.W/2, c.Y-e.H/2)
}

// Bounds returns the axis-aligned bounding box after rotation.
func (e *Element) Bounds() geom.Rect {
	local := geom.Rect{X: e.Pos.X, Y: e.Pos.Y, W: e.W, H: e.H}
	if math.Mod(e.Rotation, 360) == 0 {
		return local
	}
	c := e.Centre()
	corners := []geom.Point{
		local.Min(),
		geom.Pt(local.X+local.W, local.Y),
		local.Max(),
		geom.Pt(local.X, local.Y+local.H),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		p = p.Rotate(c, e.Rotation)
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Contains reports whether p lies on the element body.
func (e *Element) Contains(p geom.Point) bool {
	return e.Bounds().Contains(p)
}

// Ports returns inputs followed by outputs.
func (e *Element) Ports() []*Port {
	ports := make([]*Port, 0, len(e.Inputs)+len(e.Outputs))
	ports = append(ports, e.Inputs...)
	return append(ports, e.Outputs...)
}

// Port returns the port at index i of Ports(), or nil.
func (e *Element) Port(i int) *Port {
	switch {
	case i < 0:
		return nil
	case i < len(e.Inputs):
		return e.Inputs[i]
	case i-len(e.Inputs) < len(e.Outputs):
		return e.Outputs[i-len(e.Inputs)]
	}
	return nil
}

// SetPorts replaces the port lists with fresh, evenly spaced ports.
// Existing ports must be unconnected.
func (e *Element) SetPorts(inputs, outputs int) error {
	for _, p := range e.Ports() {
		if len(p.conns) > 0 {
			return fmt.Errorf("element %d: %w", e.id, ErrStillConnected)
		}
	}
	e.Inputs = make([]*Port, inputs)
	for i := range e.Inputs {
		e.Inputs[i] = &Port{
			elem:    e,
			Dir:     DirInput,
			Index:   i,
			Offset:  geom.Pt(0, e.H*float64(i+1)/float64(inputs+1)),
			Visible: true,
		}
	}
	e.Outputs = make([]*Port, outputs)
	for i := range e.Outputs {
		e.Outputs[i] = &Port{
			elem:    e,
			Dir:     DirOutput,
			Index:   i,
			Offset:  geom.Pt(e.W, e.H*float64(i+1)/float64(outputs+1)),
			Visible: true,
		}
	}
	return nil
}

// connections returns every connection touching any port of the element.
func (e *Element) connections() []*Connection {
	var out []*Connection
	seen := make(map[*Connection]bool)
	for _, p := range e.Ports() {
		for _, c := range p.conns {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
