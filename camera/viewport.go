package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the screen rectangle a camera renders to.
// Screen coordinates have their origin at the top-left corner, y growing downwards.
type Viewport struct {
	X, Y          int
	Width, Height int
	// Depth range written to the depth buffer, usually [0, 1]
	MinDepth float64
	MaxDepth float64
}

func NewViewport(width, height int) Viewport {
	return Viewport{Width: width, Height: height, MinDepth: 0, MaxDepth: 1}
}

func (vp Viewport) AspectRatio() float64 {
	if vp.Height == 0 {
		return 1
	}
	return float64(vp.Width) / float64(vp.Height)
}

// Unproject maps a screen position and a depth in [MinDepth, MaxDepth] back to world space
func (vp Viewport) Unproject(screen mgl64.Vec3, view, projection mgl64.Mat4) (mgl64.Vec3, error) {
	depth := screen.Z()
	if vp.MaxDepth != vp.MinDepth {
		depth = (depth - vp.MinDepth) / (vp.MaxDepth - vp.MinDepth)
	}
	// mgl64 follows the OpenGL window convention: y grows upwards from the bottom edge
	win := mgl64.Vec3{screen.X(), float64(vp.Height) - (screen.Y() - float64(vp.Y)), depth}

	world, err := mgl64.UnProject(win, view, projection, vp.X, 0, vp.Width, vp.Height)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("camera: unproject %v: %w", screen, err)
	}
	return world, nil
}

// Project maps a world position to the screen. The returned z is the depth in [MinDepth, MaxDepth]
// for points inside the frustum, w is the clip space w (negative behind the camera).
func (vp Viewport) Project(world mgl64.Vec3, view, projection mgl64.Mat4) (screen mgl64.Vec3, w float64) {
	clip := projection.Mul4(view).Mul4x1(world.Vec4(1))
	w = clip.W()

	win := mgl64.Project(world, view, projection, vp.X, 0, vp.Width, vp.Height)
	depth := vp.MinDepth + win.Z()*(vp.MaxDepth-vp.MinDepth)

	return mgl64.Vec3{win.X(), float64(vp.Y) + float64(vp.Height) - win.Y(), depth}, w
}
