package circuit

// IsConnected reports whether a connection already joins a and b.
func IsConnected(a, b *Port) bool {
	if a == nil || b == nil {
		return false
	}
	return a.IsConnected(b)
}

// Incoming returns the connection feeding an input port, or nil.
func Incoming(p *Port) *Connection {
	if p == nil || p.IsOutput() || len(p.conns) == 0 {
		return nil
	}
	return p.conns[len(p.conns)-1]
}

// Complete binds the free end of the half-bound connection c to candidate.
// It fails when the ports share a direction, belong to the same element,
// or are already connected to each other; c is left untouched on failure.
// On success c is fully formed but not yet part of any scene.
func Complete(c *Connection, candidate *Port) error {
	if candidate == nil {
		return ErrNoPort
	}
	anchor := c.Anchor()
	if anchor == nil {
		return ErrIncomplete
	}
	start, end := anchor, candidate
	if !anchor.IsOutput() {
		start, end = candidate, anchor
	}
	if err := validatePair(start, end); err != nil {
		return err
	}
	c.bind(start, end)
	return nil
}

func validatePair(start, end *Port) error {
	if start == nil || end == nil {
		return ErrIncomplete
	}
	if start.Dir == end.Dir || !start.IsOutput() {
		return ErrSameDirection
	}
	if start.elem == end.elem {
		return ErrSelfLoop
	}
	if start.IsConnected(end) {
		return ErrAlreadyConnected
	}
	return nil
}
