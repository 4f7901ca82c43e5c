package circuit

import "errors"

var (
	// Wiring rejections. The editor discards the in-progress connection on any of these.
	ErrNoPort           = errors.New("no port under cursor")
	ErrSameDirection    = errors.New("ports have the same direction")
	ErrSelfLoop         = errors.New("ports belong to the same element")
	ErrAlreadyConnected = errors.New("ports are already connected")

	// Model boundary violations.
	ErrInputOccupied  = errors.New("input port already carries a connection")
	ErrIncomplete     = errors.New("connection is not bound at both ends")
	ErrStillConnected = errors.New("element still has connections")
	ErrInScene        = errors.New("item already in scene")
	ErrNotInScene     = errors.New("item not in scene")
	ErrUnknownKind    = errors.New("unknown element kind")
)
