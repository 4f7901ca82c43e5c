package interact

import "github.com/ha1tch/wiredit/pkg/geom"

// PointerKind distinguishes pointer events.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
	PointerDoubleClick
)

// Button is a bit set of pointer buttons.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonRight
	ButtonMiddle

	ButtonNone Button = 0
)

// Modifier is a bit set of held keyboard modifiers.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// PointerEvent is one pointer input in scene coordinates.
type PointerEvent struct {
	Kind PointerKind
	Pos  geom.Point
	// Button is the button that changed state; unused for moves.
	Button Button
	// Buttons is the set of buttons held after the event.
	Buttons Button
	Mods    Modifier
}

// WheelEvent is a scroll wheel turn. Delta is in eighths of a degree;
// one notch of a typical wheel is 120.
type WheelEvent struct {
	Pos        geom.Point
	Delta      int
	Horizontal bool
}

// KeyEscape is the Key of the escape key.
const KeyEscape = "Esc"

// KeyEvent is a key press or release. Key holds the printed character,
// or a key name such as "F2" or KeyEscape.
type KeyEvent struct {
	Key     string
	Release bool
	Mods    Modifier
}

// State is the top-level gesture mode of a session.
type State int

const (
	StateIdle State = iota
	StateEditingConnection
	StateMarqueeSelecting
	StateDraggingElements
	StateCtrlCloning
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateEditingConnection: "editing-connection",
	StateMarqueeSelecting:  "marquee",
	StateDraggingElements:  "dragging",
	StateCtrlCloning:       "cloning",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Cursor is the pointer shape the host should show.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorForbidden
)

// ChangeKind says what kind of change observers are told about.
type ChangeKind int

const (
	ChangeCommand ChangeKind = iota
	ChangeUndo
	ChangeRedo
	ChangeClear
	ChangeLoad
)

// Change is published to observers after the circuit changed.
type Change struct {
	Kind ChangeKind
	// Name is the command name for command, undo and redo changes.
	Name string
}
