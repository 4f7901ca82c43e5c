package circuit

import "fmt"

// kindShape describes the default shape of a kind.
type kindShape struct {
	inputs, outputs int
	w, h            float64
}

var shapes = map[Kind]kindShape{
	KindAnd:    {2, 1, 64, 64},
	KindOr:     {2, 1, 64, 64},
	KindNot:    {1, 1, 64, 64},
	KindNand:   {2, 1, 64, 64},
	KindNor:    {2, 1, 64, 64},
	KindXor:    {2, 1, 64, 64},
	KindSwitch: {0, 1, 64, 64},
	KindButton: {0, 1, 64, 64},
	KindClock:  {0, 1, 64, 64},
	KindLED:    {1, 0, 32, 32},
	KindNode:   {1, 1, 16, 16},
	KindBox:    {0, 0, 64, 64}, // Ports come from the loaded sub-circuit
}

// Factory builds elements and connections with fresh identities.
type Factory struct {
	next ItemID
}

// NewFactory creates a factory whose first id is 1.
func NewFactory() *Factory {
	return &Factory{next: 1}
}

func (f *Factory) allocate() ItemID {
	if f.next == 0 {
		f.next = 1
	}
	id := f.next
	f.next++
	return id
}

// Reserve makes sure id is never handed out again.
func (f *Factory) Reserve(id ItemID) {
	if id >= f.next {
		f.next = id + 1
	}
}

// BuildElement creates a visible, unplaced element of kind k.
func (f *Factory) BuildElement(k Kind) (*Element, error) {
	shape, ok := shapes[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	e := &Element{
		id:      f.allocate(),
		Kind:    k,
		W:       shape.w,
		H:       shape.h,
		Visible: true,
	}
	if err := e.SetPorts(shape.inputs, shape.outputs); err != nil {
		return nil, err
	}
	return e, nil
}

// BuildConnection creates an unbound, visible connection.
func (f *Factory) BuildConnection() *Connection {
	return &Connection{id: f.allocate(), Visible: true}
}
