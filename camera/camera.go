// Package camera implements a free-look perspective camera.
//
// The camera keeps its orientation as a quaternion and its position as a translation.
// The view matrix is derived lazily: every mutator marks it dirty and the next View call
// recomputes and caches it. A Camera is not safe for concurrent use, mutators must not run
// concurrently with View.
package camera

import (
	"fmt"

	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	Right    = mgl64.Vec3{1, 0, 0}
	Up       = mgl64.Vec3{0, 1, 0}
	Backward = mgl64.Vec3{0, 0, 1}
	// Forward is -Z, the camera looks down its local -Z axis
	Forward = mgl64.Vec3{0, 0, -1}
)

type Camera struct {
	orientation mgl64.Quat
	translation mgl64.Vec3
	isDirty     bool

	view       mgl64.Mat4
	projection mgl64.Mat4
}

// New creates a camera at the origin with the given projection
func New(projection mgl64.Mat4) *Camera {
	return &Camera{
		orientation: mgl64.QuatIdent(),
		projection:  projection,
		// the view has never been computed
		isDirty: true,
	}
}

// NewPerspective creates a camera with a perspective projection, fov in degrees
func NewPerspective(fov, aspect, near, far float64) *Camera {
	return New(mgl64.Perspective(mgl64.DegToRad(fov), aspect, near, far))
}

func (c *Camera) Position() mgl64.Vec3 {
	return c.translation
}

func (c *Camera) SetPosition(position mgl64.Vec3) {
	c.isDirty = true
	c.translation = position
}

func (c *Camera) Orientation() mgl64.Quat {
	return c.orientation
}

func (c *Camera) Projection() mgl64.Mat4 {
	return c.projection
}

// View returns the world to camera matrix, inverse(T(position) * R(orientation))
func (c *Camera) View() mgl64.Mat4 {
	if !c.isDirty {
		return c.view
	}

	c.isDirty = false
	world := mgl64.Translate3D(c.translation.X(), c.translation.Y(), c.translation.Z()).Mul4(c.orientation.Mat4())
	c.view = world.Inv()

	return c.view
}

// Forward returns the direction the camera looks at, in world space
func (c *Camera) Forward() mgl64.Vec3 {
	return c.orientation.Rotate(Forward)
}

// Unproject maps a screen position to world space on the near plane (near=true) or on the far plane
func (c *Camera) Unproject(viewport Viewport, mousePosition mgl64.Vec2, near bool) (mgl64.Vec3, error) {
	depth := viewport.MaxDepth
	if near {
		depth = viewport.MinDepth
	}

	return viewport.Unproject(mousePosition.Vec3(depth), c.View(), c.projection)
}

// Ray returns the pick ray going through a screen position, from the near plane towards the far plane
func (c *Camera) Ray(viewport Viewport, mousePosition mgl64.Vec2) (geometry.Ray, error) {
	start, err := c.Unproject(viewport, mousePosition, true)
	if err != nil {
		return geometry.Ray{}, err
	}
	end, err := c.Unproject(viewport, mousePosition, false)
	if err != nil {
		return geometry.Ray{}, err
	}
	if start.ApproxEqual(end) {
		return geometry.Ray{}, fmt.Errorf("camera: degenerate ray at %v", mousePosition)
	}

	return geometry.NewRayBetween(start, end), nil
}

// Move translates the camera along the world axes
func (c *Camera) Move(movement mgl64.Vec3) {
	c.translation = c.translation.Add(movement)
	c.isDirty = true
}

// MoveLocal translates the camera along its own axes
func (c *Camera) MoveLocal(movement mgl64.Vec3) {
	c.translation = c.translation.Add(c.orientation.Rotate(movement))
	c.isDirty = true
}

// Rotate turns the camera around a world axis, angle in degrees.
// The new rotation is applied after the current orientation (pre-multiplied).
func (c *Camera) Rotate(axis mgl64.Vec3, angle float64) {
	rotation := mgl64.QuatRotate(mgl64.DegToRad(angle), axis)
	c.orientation = rotation.Mul(c.orientation).Normalize()
	c.isDirty = true
}

// RotateLocal turns the camera around one of its own axes, angle in degrees.
// The new rotation is applied before the current orientation (post-multiplied).
func (c *Camera) RotateLocal(axis mgl64.Vec3, angle float64) {
	rotation := mgl64.QuatRotate(mgl64.DegToRad(angle), axis)
	c.orientation = c.orientation.Mul(rotation).Normalize()
	c.isDirty = true
}

// SetOrientation replaces the orientation, it is normalized before use
func (c *Camera) SetOrientation(orientation mgl64.Quat) {
	c.orientation = orientation.Normalize()
	c.isDirty = true
}
