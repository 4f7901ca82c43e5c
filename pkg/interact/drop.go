package interact

import (
	"fmt"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// AcceptsDrag reports whether a drag carrying mime may be dropped here.
func (s *Session) AcceptsDrag(mime string) bool {
	return mime == circuitfile.MimeNewElement || mime == circuitfile.MimeGroup
}

// Drop adds the items carried by a drag payload at scene point at. The
// added items end up as the whole selection. It reports whether the drop
// was handled; a rejected drop leaves the scene untouched.
func (s *Session) Drop(mime string, data []byte, at geom.Point) bool {
	s.mouse = at
	var ok bool
	switch mime {
	case circuitfile.MimeNewElement:
		ok = s.dropNewElement(data, at)
	case circuitfile.MimeGroup:
		ok = s.dropGroup(data, at)
	default:
		s.log.Warn("drop rejected", "mime", mime)
		return false
	}
	if ok {
		s.scene.GrowToFit(s.settings.SceneMargin)
	}
	return ok
}

func (s *Session) dropNewElement(data []byte, at geom.Point) bool {
	payload, err := circuitfile.DecodeNewElement(data)
	if err != nil {
		s.log.Warn("drop rejected", "error", err)
		return false
	}
	e, err := s.factory.BuildElement(payload.Kind)
	if err != nil {
		s.log.Warn("drop rejected", "error", err)
		return false
	}
	if payload.Kind == circuit.KindBox {
		if s.boxes == nil {
			s.warn("Error", "sub-circuits cannot be loaded here")
			return false
		}
		if err := s.boxes.LoadBox(e, payload.Aux); err != nil {
			s.warn("Error", fmt.Sprintf("could not load box %q: %v", payload.Aux, err))
			return false
		}
		e.Source = payload.Aux
	} else if payload.Aux != "" {
		e.Label = payload.Aux
	}

	// The payload offset is the grab point inside a palette icon; smaller
	// elements sit centred within that icon.
	pos := at.Sub(payload.Offset)
	if pad := (s.settings.IconSize - e.W) / 2; pad > 0 {
		pos = pos.Add(geom.Pt(pad, pad))
	}
	e.Pos = pos

	if err := s.execute(circuit.NewAddItems(s.scene, e)); err != nil {
		return false
	}
	s.scene.ClearSelection()
	e.Selected = true
	return true
}

func (s *Session) dropGroup(data []byte, at geom.Point) bool {
	group, err := circuitfile.DecodeGroup(data)
	if err != nil {
		s.log.Warn("drop rejected", "error", err)
		return false
	}
	items, err := group.Build(s.factory)
	if err != nil {
		s.log.Warn("drop rejected", "error", err)
		return false
	}
	items.Translate(at.Sub(group.Pos))
	if err := s.execute(circuit.NewAddItems(s.scene, items.All()...)); err != nil {
		return false
	}
	s.log.Debug("group dropped", "source", group.Editor, "local", group.Editor == s.id, "elements", len(items.Elements))
	s.selectOnly(items.Elements)
	return true
}

func (s *Session) selectOnly(elems []*circuit.Element) {
	s.scene.ClearSelection()
	for _, e := range elems {
		e.Selected = true
	}
}
