// Package interact turns pointer and keyboard input into circuit edits.
//
// A Session owns the gesture state of one editor: the connection being
// wired, the hovered port, the marquee and the set of elements being
// dragged. Every structural change goes through the undo history as a
// single command. A Session is driven from one goroutine; it is not safe
// for concurrent use.
package interact

import (
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ha1tch/wiredit/internal/logging"
	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/clipboard"
	"github.com/ha1tch/wiredit/pkg/geom"
	"github.com/ha1tch/wiredit/pkg/hittest"
	"github.com/ha1tch/wiredit/pkg/sim"
	"github.com/ha1tch/wiredit/pkg/undo"
)

// View is the scrollable window onto the scene.
type View interface {
	// ViewportRect returns the visible part of the scene.
	ViewportRect() geom.Rect
	// EnsureVisible scrolls so that r is on screen.
	EnsureVisible(r geom.Rect)
	// Scroll moves the viewport by whole steps; positive is right or down.
	Scroll(dx, dy int)
}

// DragSource starts a native drag carrying a payload.
type DragSource interface {
	StartDrag(mime string, data []byte, preview circuitfile.Preview, hotspot image.Point)
}

// Notifier reports failures to the user.
type Notifier interface {
	Warn(title, msg string)
}

// BoxLoader fills a box element from the sub-circuit stored at path.
type BoxLoader interface {
	LoadBox(e *circuit.Element, path string) error
}

// ContextMenu opens the right-click menus.
type ContextMenu interface {
	ShowElementMenu(pos geom.Point, items []circuit.Item)
	ShowPasteMenu(pos geom.Point, pasteEnabled bool)
}

// Settings tunes gesture handling.
type Settings struct {
	// Tolerance is the side of the port acquisition square.
	Tolerance float64
	// AutoScrollInterval is the minimum time between auto-scroll steps.
	AutoScrollInterval time.Duration
	UndoLimit          int
	// PasteOffset shifts pasted items up and left of the cursor.
	PasteOffset float64
	// IconSize is the side of the palette icon a new element is dragged from.
	IconSize float64
	// SceneMargin is kept around every element when the scene grows.
	SceneMargin float64
	Preview     circuitfile.PreviewOptions
}

// DefaultSettings returns the stock editor behaviour.
func DefaultSettings() Settings {
	return Settings{
		Tolerance:          hittest.DefaultTolerance,
		AutoScrollInterval: 100 * time.Millisecond,
		UndoLimit:          undo.DefaultLimit,
		PasteOffset:        32,
		IconSize:           64,
		SceneMargin:        10,
		Preview:            circuitfile.DefaultPreviewOptions(),
	}
}

// Option configures a Session.
type Option func(*Session)

// WithSettings replaces the default settings.
func WithSettings(st Settings) Option {
	return func(s *Session) { s.settings = st }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock sets the time source used to throttle auto-scroll.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithView attaches the viewport.
func WithView(v View) Option {
	return func(s *Session) { s.view = v }
}

// WithDragSource attaches the native drag starter used by clone drags.
func WithDragSource(d DragSource) Option {
	return func(s *Session) { s.drag = d }
}

// WithNotifier attaches the user notification sink.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithBoxLoader attaches the sub-circuit loader used by box drops.
func WithBoxLoader(b BoxLoader) Option {
	return func(s *Session) { s.boxes = b }
}

// WithContextMenu attaches the right-click menus.
func WithContextMenu(m ContextMenu) Option {
	return func(s *Session) { s.menu = m }
}

// WithClipboard replaces the in-process clipboard.
func WithClipboard(cb clipboard.Clipboard) Option {
	return func(s *Session) { s.clip = cb }
}

// WithSimulation replaces the default cooperative simulation loop.
func WithSimulation(c sim.Controller) Option {
	return func(s *Session) { s.sim = c }
}

// WithID sets the editor identity stamped into clone payloads.
func WithID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// Session is the interaction state machine of one editor.
type Session struct {
	id       uuid.UUID
	scene    *circuit.Scene
	factory  *circuit.Factory
	history  *undo.Stack
	hit      *hittest.Resolver
	settings Settings
	log      *slog.Logger
	now      func() time.Time
	scroll   *rate.Limiter

	view     View
	drag     DragSource
	notifier Notifier
	boxes    BoxLoader
	menu     ContextMenu
	clip     clipboard.Clipboard
	sim      sim.Controller

	state   State
	edited  *circuit.Connection
	hovered circuit.PortRef
	cursor  Cursor
	mouse   geom.Point

	marqueeOrigin geom.Point
	marquee       geom.Rect

	dragged  []*circuit.Element
	dragFrom []geom.Point
	dragLast geom.Point

	showWires bool
	showGates bool

	observers    []observer
	nextObserver int
}

type observer struct {
	id int
	fn func(Change)
}

// New creates a session editing scene. Nil scene or factory get fresh ones.
func New(scene *circuit.Scene, factory *circuit.Factory, opts ...Option) *Session {
	if scene == nil {
		scene = circuit.NewScene()
	}
	if factory == nil {
		factory = circuit.NewFactory()
	}
	s := &Session{
		id:        uuid.New(),
		scene:     scene,
		factory:   factory,
		settings:  DefaultSettings(),
		log:       logging.NewNop(),
		now:       time.Now,
		showWires: true,
		showGates: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clip == nil {
		s.clip = clipboard.NewMemory()
	}
	if s.sim == nil {
		s.sim = sim.NewLoop(scene)
	}
	s.history = undo.NewStack(s.settings.UndoLimit)
	s.hit = hittest.New(scene, s.settings.Tolerance)
	limit := rate.Inf
	if s.settings.AutoScrollInterval > 0 {
		limit = rate.Every(s.settings.AutoScrollInterval)
	}
	s.scroll = rate.NewLimiter(limit, 1)
	return s
}

// ID returns the editor identity.
func (s *Session) ID() uuid.UUID { return s.id }

// Scene returns the edited scene.
func (s *Session) Scene() *circuit.Scene { return s.scene }

// Factory returns the factory new items are built with.
func (s *Session) Factory() *circuit.Factory { return s.factory }

// History returns the undo history.
func (s *Session) History() *undo.Stack { return s.history }

// Simulation returns the simulation controller.
func (s *Session) Simulation() sim.Controller { return s.sim }

// Settings returns the active settings.
func (s *Session) Settings() Settings { return s.settings }

// State returns the current gesture mode.
func (s *Session) State() State { return s.state }

// EditedConnection returns the connection being wired, or nil.
// It is not part of the scene until completed.
func (s *Session) EditedConnection() *circuit.Connection { return s.edited }

// HoveredPort returns the port under the cursor, or nil. A port whose
// element has since left the scene is forgotten.
func (s *Session) HoveredPort() *circuit.Port {
	p := s.scene.ResolvePort(s.hovered)
	if p == nil {
		s.hovered = circuit.PortRef{}
	}
	return p
}

// Cursor returns the pointer shape to show.
func (s *Session) Cursor() Cursor { return s.cursor }

// Mouse returns the last pointer position in scene coordinates.
func (s *Session) Mouse() geom.Point { return s.mouse }

// Marquee returns the selection rectangle and whether it is shown.
func (s *Session) Marquee() (geom.Rect, bool) {
	return s.marquee, s.state == StateMarqueeSelecting
}

// ShowingWires reports whether wires and nodes are visible.
func (s *Session) ShowingWires() bool { return s.showWires }

// ShowingGates reports whether gates and boxes are visible.
func (s *Session) ShowingGates() bool { return s.showGates }

// Subscribe registers fn to run after every change to the circuit.
// The returned func removes it.
func (s *Session) Subscribe(fn func(Change)) (cancel func()) {
	id := s.nextObserver
	s.nextObserver++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify(c Change) {
	for _, o := range s.observers {
		o.fn(c)
	}
}

// execute pushes cmd onto the history and publishes the change.
func (s *Session) execute(cmd undo.Command) error {
	if err := s.history.Push(cmd); err != nil {
		s.log.Warn("command failed", "command", cmd.Name(), "error", err)
		return err
	}
	s.log.Debug("command", "name", cmd.Name())
	s.applyVisibility()
	s.notify(Change{Kind: ChangeCommand, Name: cmd.Name()})
	return nil
}

func (s *Session) warn(title, msg string) {
	s.log.Warn(title, "detail", msg)
	if s.notifier != nil {
		s.notifier.Warn(title, msg)
	}
}
