package geometry

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half line starting at Origin.
// Direction is usually normalized so t is a distance, nothing here requires it.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRayBetween returns the ray from `from` towards `to` with a normalized direction
func NewRayBetween(from, to mgl64.Vec3) Ray {
	return Ray{Origin: from, Direction: to.Sub(from).Normalize()}
}

// At returns Origin + Direction*t
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
