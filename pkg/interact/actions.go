package interact

import (
	"errors"
	"fmt"
	"io"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/clipboard"
	"github.com/ha1tch/wiredit/pkg/geom"
	"github.com/ha1tch/wiredit/pkg/sim"
)

// Delete removes the selection, together with every wire attached to a
// removed element, as one command.
func (s *Session) Delete() error {
	s.finishGesture()
	items := s.scene.Selected()
	if len(items) == 0 {
		return nil
	}
	s.scene.ClearSelection()
	return s.execute(circuit.NewDeleteItems(s.scene, items...))
}

// Rotate turns the selected elements a quarter turn. A lone element that
// does not rotate is left alone.
func (s *Session) Rotate(clockwise bool) error {
	elems := s.scene.SelectedElements()
	if len(elems) == 0 || (len(elems) == 1 && !elems[0].Rotatable()) {
		return nil
	}
	angle := -90.0
	if clockwise {
		angle = 90
	}
	return s.execute(circuit.NewRotate(elems, angle))
}

// Relabel sets the label and trigger key of e as one command. Only input
// elements take a trigger; for the others it is cleared.
func (s *Session) Relabel(e *circuit.Element, label, trigger string) error {
	if !s.scene.Contains(e) {
		return fmt.Errorf("relabel %s: %w", e.DisplayName(), circuit.ErrNotInScene)
	}
	if e.Kind.Group() != circuit.GroupInput {
		trigger = ""
	}
	if label == e.Label && trigger == e.Trigger {
		return nil
	}
	return s.execute(circuit.NewRelabel(e, label, trigger))
}

// FlipH mirrors the selected elements left to right.
func (s *Session) FlipH() error { return s.flip(circuit.FlipHorizontal) }

// FlipV mirrors the selected elements top to bottom.
func (s *Session) FlipV() error { return s.flip(circuit.FlipVertical) }

func (s *Session) flip(axis circuit.FlipAxis) error {
	elems := s.scene.SelectedElements()
	if len(elems) == 0 {
		return nil
	}
	return s.execute(circuit.NewFlip(elems, axis))
}

// Copy puts the selected elements and the wires among them on the
// clipboard. With nothing selected the clipboard is cleared.
func (s *Session) Copy() error {
	elems := s.scene.SelectedElements()
	if len(elems) == 0 {
		return s.clip.Clear()
	}
	group, err := circuitfile.NewGroup(s.scene, elems, s.mouse, s.id)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	data, err := circuitfile.EncodeGroup(group)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return s.clip.SetData(circuitfile.MimeCopy, data)
}

// Cut copies the selection, then deletes it.
func (s *Session) Cut() error {
	if err := s.Copy(); err != nil {
		return err
	}
	return s.Delete()
}

// Paste adds the clipboard items up and left of the cursor and selects
// them. An empty clipboard is not an error.
func (s *Session) Paste() error {
	data, err := s.clip.Data(circuitfile.MimeCopy)
	if errors.Is(err, clipboard.ErrNoData) {
		return nil
	}
	if err != nil {
		return err
	}
	group, err := circuitfile.DecodeGroup(data)
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	items, err := group.Build(s.factory)
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	off := s.settings.PasteOffset
	items.Translate(s.mouse.Sub(group.Centre).Sub(geom.Pt(off, off)))
	if err := s.execute(circuit.NewAddItems(s.scene, items.All()...)); err != nil {
		return err
	}
	s.selectOnly(items.Elements)
	s.scene.GrowToFit(s.settings.SceneMargin)
	return nil
}

// SelectAll selects every element and wire.
func (s *Session) SelectAll() {
	s.scene.SelectAll()
}

// Undo reverts the last command.
func (s *Session) Undo() error {
	s.finishGesture()
	cmd, err := s.history.Undo()
	if err != nil {
		return err
	}
	s.applyVisibility()
	s.notify(Change{Kind: ChangeUndo, Name: cmd.Name()})
	return nil
}

// Redo re-applies the last undone command.
func (s *Session) Redo() error {
	s.finishGesture()
	cmd, err := s.history.Redo()
	if err != nil {
		return err
	}
	s.applyVisibility()
	s.notify(Change{Kind: ChangeRedo, Name: cmd.Name()})
	return nil
}

// Clear empties the scene and forgets the history. The simulation is
// paused while the scene is torn down.
func (s *Session) Clear() {
	release := sim.Pause(s.sim)
	defer release()
	s.reset()
	s.notify(Change{Kind: ChangeClear})
}

func (s *Session) reset() {
	s.finishGesture()
	s.hovered = circuit.PortRef{}
	s.cursor = CursorArrow
	s.history.Clear()
	s.scene.Clear()
}

// Save writes the circuit to w.
func (s *Session) Save(w io.Writer, name string) error {
	return circuitfile.WriteCircuit(w, s.scene, name)
}

// SaveFile writes the circuit to path.
func (s *Session) SaveFile(path, name string) error {
	return circuitfile.WriteCircuitFile(path, s.scene, name)
}

// Load replaces the circuit with the archive in r. Relative box sources
// resolve against dir. A file that fails to parse leaves the scene as it was.
func (s *Session) Load(r io.ReaderAt, size int64, dir string) (string, error) {
	c, err := circuitfile.ReadCircuit(r, size, dir, s.factory)
	if err != nil {
		return "", err
	}
	return c.Name, s.replace(c)
}

// LoadFile replaces the circuit with the file at path.
func (s *Session) LoadFile(path string) (string, error) {
	c, err := circuitfile.ReadCircuitFile(path, s.factory)
	if err != nil {
		return "", err
	}
	return c.Name, s.replace(c)
}

func (s *Session) replace(c *circuitfile.Circuit) error {
	release := sim.Pause(s.sim)
	defer release()
	s.reset()
	if err := c.Apply(s.scene); err != nil {
		s.scene.Clear()
		return fmt.Errorf("load: %w", err)
	}
	s.scene.ClearSelection()
	s.scene.GrowToFit(s.settings.SceneMargin)
	s.applyVisibility()
	s.sim.UpdateAll()
	s.notify(Change{Kind: ChangeLoad, Name: c.Name})
	return nil
}

// ShowWires shows or hides wires, nodes and ports.
func (s *Session) ShowWires(show bool) {
	s.showWires = show
	s.applyVisibility()
}

// ShowGates shows or hides gates and boxes.
func (s *Session) ShowGates(show bool) {
	s.showGates = show
	s.applyVisibility()
}

func (s *Session) applyVisibility() {
	for _, e := range s.scene.Elements() {
		switch e.Kind.Group() {
		case circuit.GroupNode:
			e.Visible = s.showWires
			continue
		case circuit.GroupGate, circuit.GroupBox:
			e.Visible = s.showGates
		default:
			e.Visible = true
		}
		for _, p := range e.Ports() {
			p.Visible = s.showWires
		}
	}
	for _, c := range s.scene.Connections() {
		c.Visible = s.showWires
	}
}
