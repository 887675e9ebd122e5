package game

import "github.com/casualjim/shoal/internal/camera"

// Surface is something a Game draws to.
type Surface interface {
	// ID identifies the surface in logs.
	ID() string
	// Resize sets the surface dimensions in pixels.
	Resize(w, h int)
	// Clear erases the surface.
	Clear()
	// ApplyTransform composes t with the transform already in effect.
	ApplyTransform(t camera.Transform)
	// ResetTransform restores the identity transform.
	ResetTransform()
}
