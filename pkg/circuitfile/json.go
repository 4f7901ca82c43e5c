// Package circuitfile reads and writes circuits, item groups and drag
// payloads, and renders netlists and drag previews.
package circuitfile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// FormatVersion is the item-graph version written by this package.
const FormatVersion = 1

var (
	ErrUnknownPayload = errors.New("unknown payload type")
	ErrBadPayload     = errors.New("malformed payload")
	ErrVersion        = errors.New("unsupported format version")
)

// jsonItems is the JSON representation of an item graph.
type jsonItems struct {
	Version     int              `json:"version"`
	Elements    []jsonElement    `json:"elements"`
	Connections []jsonConnection `json:"connections,omitempty"`
}

type jsonElement struct {
	ID       circuit.ItemID `json:"id"`
	Kind     string         `json:"kind"`
	Label    string         `json:"label,omitempty"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	W        float64        `json:"w"`
	H        float64        `json:"h"`
	Rotation float64        `json:"rotation,omitempty"`
	FlipH    bool           `json:"flip_h,omitempty"`
	FlipV    bool           `json:"flip_v,omitempty"`
	Trigger  string         `json:"trigger,omitempty"`
	On       bool           `json:"on,omitempty"`
	Source   string         `json:"source,omitempty"`
	Inputs   int            `json:"inputs"`
	Outputs  int            `json:"outputs"`
}

type jsonEnd struct {
	Element circuit.ItemID `json:"element"`
	Port    int            `json:"port"`
}

type jsonConnection struct {
	From jsonEnd `json:"from"`
	To   jsonEnd `json:"to"`
}

// Items is a freshly built item graph that is not yet part of any scene.
type Items struct {
	Elements    []*circuit.Element
	Connections []*circuit.Connection
}

// All returns elements followed by connections, the order AddItems expects.
func (it *Items) All() []circuit.Item {
	out := make([]circuit.Item, 0, len(it.Elements)+len(it.Connections))
	for _, e := range it.Elements {
		out = append(out, e)
	}
	for _, c := range it.Connections {
		out = append(out, c)
	}
	return out
}

// Translate moves every element by d.
func (it *Items) Translate(d geom.Point) {
	for _, e := range it.Elements {
		e.Pos = e.Pos.Add(d)
	}
}

// Origin describes where a serialized item graph came from.
type Origin struct {
	// Version recorded alongside the payload. Zero means use the version
	// stored in the graph itself.
	Version int
	// Dir resolves relative box sources. Empty means the working directory.
	Dir string
}

// Serialize encodes elements and every connection among them. Connections
// with an end outside elems are dropped.
func Serialize(elems []*circuit.Element, conns []*circuit.Connection) ([]byte, error) {
	j := jsonItems{Version: FormatVersion, Elements: []jsonElement{}}
	inSet := make(map[*circuit.Element]bool, len(elems))
	for _, e := range elems {
		inSet[e] = true
		j.Elements = append(j.Elements, jsonElement{
			ID:       e.ID(),
			Kind:     e.Kind.String(),
			Label:    e.Label,
			X:        e.Pos.X,
			Y:        e.Pos.Y,
			W:        e.W,
			H:        e.H,
			Rotation: e.Rotation,
			FlipH:    e.FlipH,
			FlipV:    e.FlipV,
			Trigger:  e.Trigger,
			On:       e.On,
			Source:   e.Source,
			Inputs:   len(e.Inputs),
			Outputs:  len(e.Outputs),
		})
	}
	for _, c := range conns {
		if !c.IsComplete() || !inSet[c.Start().Element()] || !inSet[c.End().Element()] {
			continue
		}
		j.Connections = append(j.Connections, jsonConnection{
			From: portEnd(c.Start()),
			To:   portEnd(c.End()),
		})
	}
	return json.Marshal(j)
}

func portEnd(p *circuit.Port) jsonEnd {
	ref := p.Ref()
	return jsonEnd{Element: ref.Element, Port: ref.Index}
}

// Connections returns the scene connections whose ends both lie in elems.
func Connections(s *circuit.Scene, elems []*circuit.Element) []*circuit.Connection {
	inSet := make(map[*circuit.Element]bool, len(elems))
	for _, e := range elems {
		inSet[e] = true
	}
	var out []*circuit.Connection
	for _, c := range s.Connections() {
		if inSet[c.Start().Element()] && inSet[c.End().Element()] {
			out = append(out, c)
		}
	}
	return out
}

// Deserialize rebuilds an item graph with fresh identities from f.
func Deserialize(data []byte, origin Origin, f *circuit.Factory) (*Items, error) {
	var j jsonItems
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	version := origin.Version
	if version == 0 {
		version = j.Version
	}
	if version < 1 || version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}

	items := &Items{}
	byOldID := make(map[circuit.ItemID]*circuit.Element, len(j.Elements))
	for _, je := range j.Elements {
		kind, err := circuit.ParseKind(je.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		e, err := f.BuildElement(kind)
		if err != nil {
			return nil, err
		}
		if je.W > 0 && je.H > 0 {
			e.W, e.H = je.W, je.H
		}
		if err := e.SetPorts(je.Inputs, je.Outputs); err != nil {
			return nil, err
		}
		e.Label = je.Label
		e.Pos = geom.Pt(je.X, je.Y)
		e.Rotation = je.Rotation
		e.FlipH, e.FlipV = je.FlipH, je.FlipV
		e.Trigger = je.Trigger
		e.On = je.On
		e.Source = resolveSource(origin.Dir, je.Source)
		if _, dup := byOldID[je.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate element id %d", ErrBadPayload, je.ID)
		}
		byOldID[je.ID] = e
		items.Elements = append(items.Elements, e)
	}

	for _, jc := range j.Connections {
		from, err := lookupPort(byOldID, jc.From)
		if err != nil {
			return nil, err
		}
		to, err := lookupPort(byOldID, jc.To)
		if err != nil {
			return nil, err
		}
		c := f.BuildConnection()
		c.StartFrom(from, from.Pos())
		if err := circuit.Complete(c, to); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		items.Connections = append(items.Connections, c)
	}
	return items, nil
}

func lookupPort(byOldID map[circuit.ItemID]*circuit.Element, end jsonEnd) (*circuit.Port, error) {
	e, ok := byOldID[end.Element]
	if !ok {
		return nil, fmt.Errorf("%w: connection to unknown element %d", ErrBadPayload, end.Element)
	}
	p := e.Port(end.Port)
	if p == nil {
		return nil, fmt.Errorf("%w: element %d has no port %d", ErrBadPayload, end.Element, end.Port)
	}
	return p, nil
}
