package gridview

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// DrawStyle selects between outlined and filled primitives
type DrawStyle uint8

const (
	Wireframe DrawStyle = iota
	Solid
)

// Renderer is the draw collaborator of the viewer.
// Draw calls are only valid between Begin and End.
type Renderer interface {
	Begin(view, projection mgl64.Mat4)
	DrawLine(from, to mgl64.Vec3, c color.Color)
	DrawCube(center mgl64.Vec3, size float64, c color.Color, style DrawStyle)
	DrawAabb(min, max mgl64.Vec3, c color.Color, style DrawStyle)
	End() error
}
