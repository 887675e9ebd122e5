// Package camera holds the 2D transforms used to place the world on a
// surface: a camera transform that the pointer pans and a screen transform
// that maps world units onto the surface.
package camera

// Vector is a point or displacement in 2D.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Mul returns the component-wise product of v and o.
func (v Vector) Mul(o Vector) Vector {
	return Vector{X: v.X * o.X, Y: v.Y * o.Y}
}

// Scale returns v with both components multiplied by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Transform is a translation, a per-axis scale and a rotation in radians.
type Transform struct {
	Position Vector  `json:"position"`
	Scale    Vector  `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Scale: Vector{X: 1, Y: 1}}
}

// FlipY mirrors t along the vertical axis, turning a y-down surface into a
// y-up world.
func FlipY(t Transform) Transform {
	t.Scale.Y = -t.Scale.Y
	return t
}

// Pan moves the camera by delta, measured in surface units. The delta is
// scaled by both the camera and the screen transform so the world follows the
// pointer.
func Pan(cam *Transform, screen Transform, delta Vector) {
	cam.Position = cam.Position.Add(delta.Mul(cam.Scale).Mul(screen.Scale))
}

// ScreenOrigin returns the point at the center of a surface of the given size.
func ScreenOrigin(size Vector) Vector {
	return size.Scale(0.5)
}
