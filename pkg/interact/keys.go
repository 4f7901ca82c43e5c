package interact

import (
	"strings"

	"github.com/ha1tch/wiredit/pkg/circuit"
)

// HandleKey drives input elements bound to the key. A switch toggles on
// press; other inputs turn on at press and off at release. Escape drops a
// connection being wired. Key triggers are live stimulus and never enter
// the undo history. It reports whether the key was consumed.
func (s *Session) HandleKey(ev KeyEvent) bool {
	if ev.Key == KeyEscape {
		if ev.Release || s.edited == nil {
			return false
		}
		s.discardEdited("escape")
		s.cursor = CursorArrow
		return true
	}
	if ev.Mods&(ModCtrl|ModAlt) != 0 {
		return false
	}
	handled := false
	for _, e := range s.scene.Elements() {
		if !e.HasTrigger() || !strings.EqualFold(e.Trigger, ev.Key) {
			continue
		}
		handled = true
		switch {
		case e.Kind == circuit.KindSwitch:
			if !ev.Release {
				e.On = !e.On
			}
		case ev.Release:
			e.On = false
		default:
			e.On = true
		}
	}
	return handled
}

// HandleWheel scrolls the view one step per 15 degrees of wheel travel.
func (s *Session) HandleWheel(ev WheelEvent) {
	s.mouse = ev.Pos
	steps := ev.Delta / 8 / 15
	if steps == 0 || s.view == nil {
		return
	}
	if ev.Horizontal {
		s.view.Scroll(-steps, 0)
		return
	}
	s.view.Scroll(0, -steps)
}
