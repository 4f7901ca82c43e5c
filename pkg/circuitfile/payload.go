package circuitfile

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// Payload type tags.
const (
	MimeNewElement = "application/x-dnditemdata"
	MimeGroup      = "application/ctrlDragData"
	MimeCopy       = "wiredit/copydata"
)

// NewElement asks the drop target to build one element.
type NewElement struct {
	// Offset is the grab point within the dragged icon.
	Offset geom.Point
	Kind   circuit.Kind
	// Aux carries the label, or the sub-circuit path for boxes.
	Aux string
}

type jsonNewElement struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Kind    string  `json:"kind"`
	Aux     string  `json:"aux,omitempty"`
}

// EncodeNewElement encodes a new-element payload.
func EncodeNewElement(p NewElement) ([]byte, error) {
	return json.Marshal(jsonNewElement{
		OffsetX: p.Offset.X,
		OffsetY: p.Offset.Y,
		Kind:    p.Kind.String(),
		Aux:     p.Aux,
	})
}

// DecodeNewElement decodes a new-element payload. An unknown kind yields
// an error wrapping circuit.ErrUnknownKind.
func DecodeNewElement(data []byte) (NewElement, error) {
	var j jsonNewElement
	if err := json.Unmarshal(data, &j); err != nil {
		return NewElement{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	kind, err := circuit.ParseKind(j.Kind)
	if err != nil {
		return NewElement{}, err
	}
	return NewElement{Offset: geom.Pt(j.OffsetX, j.OffsetY), Kind: kind, Aux: j.Aux}, nil
}

// Group is a serialized item graph together with its reference points.
type Group struct {
	// Pos is the scene point the group was grabbed at.
	Pos geom.Point
	// Centre is the mean element position of the group.
	Centre geom.Point
	// Editor identifies the editor instance that produced the payload.
	Editor  uuid.UUID
	Version int
	Items   []byte
}

type jsonGroup struct {
	PosX    float64         `json:"pos_x"`
	PosY    float64         `json:"pos_y"`
	CentreX float64         `json:"centre_x"`
	CentreY float64         `json:"centre_y"`
	Editor  uuid.UUID       `json:"editor"`
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// EncodeGroup encodes a group payload.
func EncodeGroup(g Group) ([]byte, error) {
	if g.Version == 0 {
		g.Version = FormatVersion
	}
	return json.Marshal(jsonGroup{
		PosX:    g.Pos.X,
		PosY:    g.Pos.Y,
		CentreX: g.Centre.X,
		CentreY: g.Centre.Y,
		Editor:  g.Editor,
		Version: g.Version,
		Items:   json.RawMessage(g.Items),
	})
}

// DecodeGroup decodes a group payload without building its items.
func DecodeGroup(data []byte) (Group, error) {
	var j jsonGroup
	if err := json.Unmarshal(data, &j); err != nil {
		return Group{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(j.Items) == 0 {
		return Group{}, fmt.Errorf("%w: group has no items", ErrBadPayload)
	}
	return Group{
		Pos:     geom.Pt(j.PosX, j.PosY),
		Centre:  geom.Pt(j.CentreX, j.CentreY),
		Editor:  j.Editor,
		Version: j.Version,
		Items:   []byte(j.Items),
	}, nil
}

// NewGroup serializes elems and the connections among them into a group.
func NewGroup(s *circuit.Scene, elems []*circuit.Element, pos geom.Point, editor uuid.UUID) (Group, error) {
	data, err := Serialize(elems, Connections(s, elems))
	if err != nil {
		return Group{}, err
	}
	return Group{
		Pos:     pos,
		Centre:  MeanPosition(elems),
		Editor:  editor,
		Version: FormatVersion,
		Items:   data,
	}, nil
}

// Build deserializes the group's items with fresh identities.
func (g Group) Build(f *circuit.Factory) (*Items, error) {
	return Deserialize(g.Items, Origin{Version: g.Version}, f)
}

// MeanPosition returns the average element position, or the origin for none.
func MeanPosition(elems []*circuit.Element) geom.Point {
	if len(elems) == 0 {
		return geom.Point{}
	}
	var sum geom.Point
	for _, e := range elems {
		sum = sum.Add(e.Pos)
	}
	return sum.Scale(1 / float64(len(elems)))
}
