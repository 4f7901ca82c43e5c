package circuitfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// halfAdderish builds SWITCH -> NOT -> LED plus a lone AND.
func halfAdderish(t *testing.T) (*circuit.Scene, *circuit.Factory, []*circuit.Element) {
	t.Helper()
	s := circuit.NewScene()
	f := circuit.NewFactory()
	var elems []*circuit.Element
	for i, k := range []circuit.Kind{circuit.KindSwitch, circuit.KindNot, circuit.KindLED, circuit.KindAnd} {
		e, err := f.BuildElement(k)
		require.NoError(t, err)
		e.Pos = geom.Pt(float64(i)*100, 0)
		require.NoError(t, s.AddElement(e))
		elems = append(elems, e)
	}
	elems[0].Label = "A"
	elems[0].Trigger = "a"
	connect := func(out, in *circuit.Port) {
		c := f.BuildConnection()
		c.StartFrom(out, out.Pos())
		require.NoError(t, circuit.Complete(c, in))
		require.NoError(t, s.AddConnection(c))
	}
	connect(elems[0].Outputs[0], elems[1].Inputs[0])
	connect(elems[1].Outputs[0], elems[2].Inputs[0])
	return s, f, elems
}

func TestSerializeRoundTrip(t *testing.T) {
	s, f, elems := halfAdderish(t)
	data, err := Serialize(s.Elements(), s.Connections())
	require.NoError(t, err)

	items, err := Deserialize(data, Origin{}, f)
	require.NoError(t, err)
	require.Len(t, items.Elements, 4)
	require.Len(t, items.Connections, 2)

	for i, e := range items.Elements {
		assert.NotEqual(t, elems[i].ID(), e.ID(), "identities are fresh")
		assert.Equal(t, elems[i].Kind, e.Kind)
		assert.Equal(t, elems[i].Pos, e.Pos)
	}
	assert.Equal(t, "A", items.Elements[0].Label)
	assert.Equal(t, "a", items.Elements[0].Trigger)
	assert.Same(t, items.Elements[0].Outputs[0], items.Connections[0].Start())
	assert.Same(t, items.Elements[2].Inputs[0], items.Connections[1].End())
	assert.Len(t, items.All(), 6)
}

func TestSerializeDropsDanglingConnections(t *testing.T) {
	s, f, elems := halfAdderish(t)
	subset := elems[:2]
	data, err := Serialize(subset, s.Connections())
	require.NoError(t, err)

	items, err := Deserialize(data, Origin{}, f)
	require.NoError(t, err)
	assert.Len(t, items.Elements, 2)
	assert.Len(t, items.Connections, 1)
	assert.Len(t, Connections(s, subset), 1)
}

func TestDeserializeErrors(t *testing.T) {
	f := circuit.NewFactory()
	tests := []struct {
		name string
		data string
		ver  int
		want error
	}{
		{"not json", "{", 0, ErrBadPayload},
		{"future version", `{"version":9,"elements":[]}`, 0, ErrVersion},
		{"origin version wins", `{"version":1,"elements":[]}`, 7, ErrVersion},
		{"unknown kind", `{"version":1,"elements":[{"id":1,"kind":"FLIPFLOP"}]}`, 0, ErrBadPayload},
		{"missing element", `{"version":1,"elements":[],"connections":[{"from":{"element":1,"port":0},"to":{"element":2,"port":0}}]}`, 0, ErrBadPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.data), Origin{Version: tt.ver}, f)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCircuitArchiveRoundTrip(t *testing.T) {
	s, _, _ := halfAdderish(t)
	s.SetRect(geom.Rect{X: -10, Y: -10, W: 500, H: 200})

	var buf bytes.Buffer
	require.NoError(t, WriteCircuit(&buf, s, "demo"))

	c, err := ReadCircuit(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "", circuit.NewFactory())
	require.NoError(t, err)
	assert.Equal(t, "demo", c.Name)
	assert.Equal(t, s.Rect(), c.Rect)

	loaded := circuit.NewScene()
	require.NoError(t, c.Apply(loaded))
	assert.Len(t, loaded.Elements(), 4)
	assert.Len(t, loaded.Connections(), 2)
	assert.Equal(t, s.Rect(), loaded.Rect())
}

func TestReadCircuitRejectsGarbage(t *testing.T) {
	data := []byte("definitely not a zip")
	_, err := ReadCircuit(bytes.NewReader(data), int64(len(data)), "", circuit.NewFactory())
	assert.Error(t, err)
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, "", resolveSource("/x", ""))
	assert.Equal(t, "/abs/b.wire", resolveSource("/x", "/abs/b.wire"))
	assert.Equal(t, "/x/b.wire", resolveSource("/x", "b.wire"))
	assert.Equal(t, "b.wire", resolveSource("", "b.wire"))
}

func TestNewElementPayload(t *testing.T) {
	data, err := EncodeNewElement(NewElement{Offset: geom.Pt(16, 20), Kind: circuit.KindLED, Aux: "out"})
	require.NoError(t, err)
	p, err := DecodeNewElement(data)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(16, 20), p.Offset)
	assert.Equal(t, circuit.KindLED, p.Kind)
	assert.Equal(t, "out", p.Aux)

	_, err = DecodeNewElement([]byte(`{"kind":"WIDGET"}`))
	assert.ErrorIs(t, err, circuit.ErrUnknownKind)
	_, err = DecodeNewElement([]byte(`nope`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestGroupPayload(t *testing.T) {
	s, f, elems := halfAdderish(t)
	editor := uuid.New()
	g, err := NewGroup(s, elems[:3], geom.Pt(5, 5), editor)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(100, 0), g.Centre)

	data, err := EncodeGroup(g)
	require.NoError(t, err)
	back, err := DecodeGroup(data)
	require.NoError(t, err)
	assert.Equal(t, editor, back.Editor)
	assert.Equal(t, geom.Pt(5, 5), back.Pos)

	items, err := back.Build(f)
	require.NoError(t, err)
	assert.Len(t, items.Elements, 3)
	assert.Len(t, items.Connections, 2)

	items.Translate(geom.Pt(10, 1))
	assert.Equal(t, geom.Pt(10, 1), items.Elements[0].Pos)

	_, err = DecodeGroup([]byte(`{"pos_x":1}`))
	assert.True(t, errors.Is(err, ErrBadPayload))
}

func TestMeanPosition(t *testing.T) {
	assert.Equal(t, geom.Point{}, MeanPosition(nil))
}

func TestGenerateDOT(t *testing.T) {
	s, _, elems := halfAdderish(t)
	dot := GenerateDOT(s, "demo <1>")
	assert.True(t, strings.HasPrefix(dot, "digraph circuit {"))
	assert.Contains(t, dot, `label="demo \<1\>"`)
	assert.Contains(t, dot, "e1 [label=\"{}|A|{<o0>}\"")
	assert.Equal(t, 2, strings.Count(dot, "->"))
	assert.Contains(t, dot, "e1:o0 -> e2:i0;")
	assert.Contains(t, dot, elems[3].Kind.String())
}

func TestRenderPreview(t *testing.T) {
	s, _, elems := halfAdderish(t)
	opts := DefaultPreviewOptions()
	p := RenderPreview(elems[:2], Connections(s, elems[:2]), opts)

	// Bounds (0,0)-(164,64) grown by 8.
	assert.Equal(t, geom.Rect{X: -8, Y: -8, W: 180, H: 80}, p.Bounds)
	assert.Equal(t, 180, p.Image.Bounds().Dx())
	assert.Equal(t, 80, p.Image.Bounds().Dy())
	assert.Equal(t, 8, p.Hotspot(geom.Pt(0, 0)).X)

	var maxAlpha uint8
	for i := 3; i < len(p.Image.Pix); i += 4 {
		if p.Image.Pix[i] > maxAlpha {
			maxAlpha = p.Image.Pix[i]
		}
	}
	assert.Greater(t, maxAlpha, uint8(0))
	assert.LessOrEqual(t, maxAlpha, uint8(64))

	var buf bytes.Buffer
	require.NoError(t, WritePreviewPNG(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestGenerateSVG(t *testing.T) {
	s, _, elems := halfAdderish(t)
	elems[3].Visible = false
	elems[1].Outputs[0].Value = true

	svg := GenerateSVG(s, SVGOptions{Title: "a & b", Padding: 10})
	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0"`))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	// Visible bounds (0,0)-(232,64), padded and with room for the title.
	assert.Contains(t, svg, `viewBox="-10 -38 252 112"`)
	assert.Contains(t, svg, "a &amp; b")
	assert.Equal(t, 2, strings.Count(svg, "<line "))
	assert.Equal(t, 1, strings.Count(svg, `class="wire-high"`))
	assert.Contains(t, svg, `class="led"`)
	assert.NotContains(t, svg, ">AND<")
	assert.Contains(t, svg, ">A<")
}
