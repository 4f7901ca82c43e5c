// Package sim evaluates circuit logic and sweeps inputs for truth tables.
package sim

import (
	"sync"

	"github.com/ha1tch/wiredit/pkg/circuit"
)

// Controller drives signal propagation.
type Controller interface {
	Start()
	Stop()
	IsRunning() bool
	// Update runs one propagation step.
	Update()
	// UpdateAll propagates until the circuit settles.
	UpdateAll()
}

// Pause stops c if it is running and returns a release func that restarts
// it. Release is safe to call more than once; use it with defer.
func Pause(c Controller) (release func()) {
	restart := c.IsRunning()
	if restart {
		c.Stop()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			if restart {
				c.Start()
			}
		})
	}
}

// DefaultClockPeriod is the number of updates between clock edges.
const DefaultClockPeriod = 10

// Loop is a cooperative controller. The host calls Update from its event
// loop on every tick; nothing runs in the background.
type Loop struct {
	scene       *circuit.Scene
	running     bool
	clockPeriod int
	ticks       int
}

// NewLoop creates a stopped controller over scene.
func NewLoop(scene *circuit.Scene) *Loop {
	return &Loop{scene: scene, clockPeriod: DefaultClockPeriod}
}

// SetClockPeriod sets the number of updates between clock edges.
func (l *Loop) SetClockPeriod(n int) {
	if n > 0 {
		l.clockPeriod = n
	}
}

// Start resumes propagation on Update.
func (l *Loop) Start() { l.running = true }

// Stop suspends propagation on Update.
func (l *Loop) Stop() { l.running = false }

// IsRunning reports whether Update propagates.
func (l *Loop) IsRunning() bool { return l.running }

// Update advances clocks and runs one propagation step while running.
func (l *Loop) Update() {
	if !l.running {
		return
	}
	l.ticks++
	if l.ticks%l.clockPeriod == 0 {
		for _, e := range l.scene.Elements() {
			if e.Kind == circuit.KindClock {
				e.On = !e.On
			}
		}
	}
	step(l.scene.Elements())
}

// UpdateAll propagates until no port value changes. It runs even when
// stopped so paused sweeps can force a consistent read.
func (l *Loop) UpdateAll() {
	elems := l.scene.Elements()
	// An acyclic circuit settles within one step per element.
	for i := 0; i <= len(elems); i++ {
		if !step(elems) {
			return
		}
	}
}

// step latches every input from its driver, then recomputes every output.
// It reports whether any port value changed.
func step(elems []*circuit.Element) bool {
	changed := false
	for _, e := range elems {
		for _, p := range e.Inputs {
			v := false
			if c := circuit.Incoming(p); c != nil {
				v = c.Start().Value
			}
			if p.Value != v {
				p.Value = v
				changed = true
			}
		}
	}
	for _, e := range elems {
		v := evaluate(e)
		for _, p := range e.Outputs {
			if p.Value != v {
				p.Value = v
				changed = true
			}
		}
	}
	return changed
}

// evaluate computes the output of e from its latched inputs. Boxes are
// opaque to this engine and always drive low.
func evaluate(e *circuit.Element) bool {
	in := func(n int) bool {
		if n < len(e.Inputs) {
			return e.Inputs[n].Value
		}
		return false
	}
	all := func() bool {
		for _, p := range e.Inputs {
			if !p.Value {
				return false
			}
		}
		return len(e.Inputs) > 0
	}
	some := func() bool {
		for _, p := range e.Inputs {
			if p.Value {
				return true
			}
		}
		return false
	}
	switch e.Kind {
	case circuit.KindAnd:
		return all()
	case circuit.KindOr:
		return some()
	case circuit.KindNand:
		return !all()
	case circuit.KindNor:
		return !some()
	case circuit.KindXor:
		odd := false
		for _, p := range e.Inputs {
			odd = odd != p.Value
		}
		return odd
	case circuit.KindNot:
		return !in(0)
	case circuit.KindNode:
		return in(0)
	case circuit.KindSwitch, circuit.KindButton, circuit.KindClock:
		return e.On
	}
	return false
}
