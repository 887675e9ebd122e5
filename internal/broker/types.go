package broker

import "errors"

// Names of the well-known sources in a Hub.
const (
	// PointerDelta carries relative pointer movement as events.Vector.
	PointerDelta = "pointer"

	// ViewportSize carries the viewport size as events.Vector.
	ViewportSize = "viewport"

	// Surface carries events.SurfaceAcquired announcements.
	Surface = "surface"

	// Tick carries the simulation tick counter as uint64.
	Tick = "tick"

	// Frame carries the render frame counter as uint64.
	Frame = "frame"
)

// ErrTypeMismatch is returned when a source name is requested with an element
// type other than the one it was created with.
var ErrTypeMismatch = errors.New("source type mismatch")
