package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/wiredit/pkg/geom"
)

// place builds an element of kind k at pos and adds it to s.
func place(t *testing.T, s *Scene, f *Factory, k Kind, pos geom.Point) *Element {
	t.Helper()
	e, err := f.BuildElement(k)
	require.NoError(t, err)
	e.Pos = pos
	require.NoError(t, s.AddElement(e))
	return e
}

// wire connects out to in and adds the connection to s.
func wire(t *testing.T, s *Scene, f *Factory, out, in *Port) *Connection {
	t.Helper()
	c := f.BuildConnection()
	c.StartFrom(out, out.Pos())
	require.NoError(t, Complete(c, in))
	require.NoError(t, s.AddConnection(c))
	return c
}

func TestFactoryShapes(t *testing.T) {
	f := NewFactory()
	tests := []struct {
		kind     Kind
		inputs   int
		outputs  int
		w, h     float64
		group    Group
		rotation bool
	}{
		{KindAnd, 2, 1, 64, 64, GroupGate, true},
		{KindNot, 1, 1, 64, 64, GroupGate, true},
		{KindSwitch, 0, 1, 64, 64, GroupInput, true},
		{KindLED, 1, 0, 32, 32, GroupOutput, true},
		{KindNode, 1, 1, 16, 16, GroupNode, false},
		{KindBox, 0, 0, 64, 64, GroupBox, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e, err := f.BuildElement(tt.kind)
			require.NoError(t, err)
			assert.Len(t, e.Inputs, tt.inputs)
			assert.Len(t, e.Outputs, tt.outputs)
			assert.Equal(t, tt.w, e.W)
			assert.Equal(t, tt.h, e.H)
			assert.Equal(t, tt.group, e.Kind.Group())
			assert.Equal(t, tt.rotation, e.Rotatable())
			assert.NotZero(t, e.ID())
		})
	}

	_, err := f.BuildElement(KindUnknown)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFactoryReserve(t *testing.T) {
	f := NewFactory()
	f.Reserve(41)
	assert.Equal(t, ItemID(42), f.BuildConnection().ID())
	f.Reserve(3)
	assert.Equal(t, ItemID(43), f.BuildConnection().ID())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("nand")
	require.NoError(t, err)
	assert.Equal(t, KindNand, k)

	_, err = ParseKind("flipflop")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestPortPositions(t *testing.T) {
	f := NewFactory()
	e, err := f.BuildElement(KindAnd)
	require.NoError(t, err)
	e.Pos = geom.Pt(100, 100)

	assert.Equal(t, geom.Pt(164, 132), e.Outputs[0].Pos())
	assert.InDelta(t, 100+64.0/3, e.Inputs[0].Pos().Y, 1e-9)

	e.FlipH = true
	assert.Equal(t, geom.Pt(100, 132), e.Outputs[0].Pos())

	e.FlipH = false
	e.Rotation = 90
	// Clockwise quarter turn moves the right edge to the bottom.
	assert.Equal(t, geom.Pt(132, 164), e.Outputs[0].Pos())
}

func TestCompleteRules(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindAnd, geom.Pt(0, 0))
	b := place(t, s, f, KindAnd, geom.Pt(200, 0))

	tests := []struct {
		name      string
		anchor    *Port
		candidate *Port
		want      error
	}{
		{"output to input", a.Outputs[0], b.Inputs[0], nil},
		{"input to output", b.Inputs[1], a.Outputs[0], nil},
		{"nil candidate", a.Outputs[0], nil, ErrNoPort},
		{"output to output", a.Outputs[0], b.Outputs[0], ErrSameDirection},
		{"input to input", a.Inputs[0], b.Inputs[0], ErrSameDirection},
		{"self loop", a.Outputs[0], a.Inputs[0], ErrSelfLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.BuildConnection()
			c.StartFrom(tt.anchor, geom.Pt(0, 0))
			err := Complete(c, tt.candidate)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.False(t, c.IsComplete())
				assert.Equal(t, tt.anchor, c.Anchor())
				return
			}
			require.NoError(t, err)
			assert.True(t, c.IsComplete())
			assert.True(t, c.Start().IsOutput())
			assert.False(t, c.End().IsOutput())
		})
	}
}

func TestCompleteRejectsDuplicate(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	b := place(t, s, f, KindLED, geom.Pt(200, 0))
	wire(t, s, f, a.Outputs[0], b.Inputs[0])

	c := f.BuildConnection()
	c.StartFrom(b.Inputs[0], geom.Pt(0, 0))
	assert.ErrorIs(t, Complete(c, a.Outputs[0]), ErrAlreadyConnected)
	assert.True(t, IsConnected(a.Outputs[0], b.Inputs[0]))
	assert.True(t, IsConnected(b.Inputs[0], a.Outputs[0]))
}

func TestSceneInputOccupied(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	b := place(t, s, f, KindSwitch, geom.Pt(0, 100))
	led := place(t, s, f, KindLED, geom.Pt(200, 0))
	wire(t, s, f, a.Outputs[0], led.Inputs[0])

	c := f.BuildConnection()
	c.StartFrom(b.Outputs[0], geom.Pt(0, 0))
	require.NoError(t, Complete(c, led.Inputs[0]))
	assert.ErrorIs(t, s.AddConnection(c), ErrInputOccupied)
	assert.Len(t, led.Inputs[0].Connections(), 1)
}

func TestSceneRemoveElementRequiresDisconnect(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	led := place(t, s, f, KindLED, geom.Pt(200, 0))
	c := wire(t, s, f, a.Outputs[0], led.Inputs[0])

	assert.ErrorIs(t, s.RemoveElement(a), ErrStillConnected)
	require.NoError(t, s.RemoveConnection(c))
	gen := a.Generation()
	require.NoError(t, s.RemoveElement(a))
	assert.Equal(t, gen+1, a.Generation())
	assert.False(t, s.Contains(a))
	assert.ErrorIs(t, s.RemoveElement(a), ErrNotInScene)
}

func TestResolvePortGoesStale(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindAnd, geom.Pt(0, 0))
	ref := a.Outputs[0].Ref()
	assert.Equal(t, 2, ref.Index)
	assert.Same(t, a.Outputs[0], s.ResolvePort(ref))

	require.NoError(t, s.RemoveElement(a))
	assert.Nil(t, s.ResolvePort(ref))
	require.NoError(t, s.AddElement(a))
	assert.Nil(t, s.ResolvePort(ref))
	assert.Nil(t, s.ResolvePort(PortRef{}))
}

func TestLookupByID(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	led := place(t, s, f, KindLED, geom.Pt(200, 0))
	c := wire(t, s, f, a.Outputs[0], led.Inputs[0])

	item, ok := s.Lookup(c.ID())
	require.True(t, ok)
	assert.Same(t, c, item)
	assert.Same(t, a, s.Element(a.ID()))
	assert.Nil(t, s.Element(c.ID()), "a wire id is not an element")

	require.NoError(t, s.RemoveConnection(c))
	_, ok = s.Lookup(c.ID())
	assert.False(t, ok)
}

func TestItemsAtOrder(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	low := place(t, s, f, KindAnd, geom.Pt(0, 0))
	high := place(t, s, f, KindAnd, geom.Pt(32, 0))

	items := s.ItemsAt(geom.Pt(48, 16))
	require.Len(t, items, 2)
	assert.Same(t, high, items[0])
	assert.Same(t, low, items[1])

	// The low element's output port lies inside the high element's body.
	items = s.ItemsAt(geom.Pt(64, 32))
	require.NotEmpty(t, items)
	assert.Same(t, low.Outputs[0], items[0])

	high.Visible = false
	items = s.ItemsAt(geom.Pt(48, 16))
	require.Len(t, items, 1)
	assert.Same(t, low, items[0])
}

func TestItemsInIncludesWires(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	led := place(t, s, f, KindLED, geom.Pt(300, 16))
	c := wire(t, s, f, a.Outputs[0], led.Inputs[0])

	items := s.ItemsIn(geom.Rect{X: 150, Y: 20, W: 20, H: 20})
	require.Len(t, items, 1)
	assert.Same(t, c, items[0])
}

func TestSetSelectionArea(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	led := place(t, s, f, KindLED, geom.Pt(300, 16))
	c := wire(t, s, f, a.Outputs[0], led.Inputs[0])

	s.SetSelectionArea(geom.RectFromPoints(geom.Pt(-10, -10), geom.Pt(10, 10)))
	assert.True(t, a.Selected)
	assert.False(t, led.Selected)
	assert.False(t, c.Selected)

	// Dragging back over a smaller area replaces, never accumulates.
	s.SetSelectionArea(geom.RectFromPoints(geom.Pt(310, 20), geom.Pt(290, 40)))
	assert.False(t, a.Selected)
	assert.True(t, led.Selected)
	assert.True(t, c.Selected)
	assert.Len(t, s.Selected(), 2)

	s.ClearSelection()
	assert.Empty(t, s.Selected())
	s.SelectAll()
	assert.Len(t, s.Selected(), 3)
	assert.Len(t, s.SelectedElements(), 2)
}

func TestGrowToFit(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	s.SetRect(geom.Rect{W: 100, H: 100})
	place(t, s, f, KindAnd, geom.Pt(200, 200))
	s.GrowToFit(10)
	r := s.Rect()
	assert.Equal(t, 0.0, r.X)
	assert.Equal(t, 274.0, r.X+r.W)
	assert.Equal(t, 274.0, r.Y+r.H)
}

func TestSceneClear(t *testing.T) {
	s := NewScene()
	f := NewFactory()
	a := place(t, s, f, KindSwitch, geom.Pt(0, 0))
	led := place(t, s, f, KindLED, geom.Pt(200, 0))
	wire(t, s, f, a.Outputs[0], led.Inputs[0])

	s.Clear()
	assert.Empty(t, s.Elements())
	assert.Empty(t, s.Connections())
	assert.Empty(t, a.Outputs[0].Connections())
	assert.False(t, s.Contains(led))
}
