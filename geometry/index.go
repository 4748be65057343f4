package geometry

import "github.com/go-gl/mathgl/mgl64"

// Vec3i is an integer cell coordinate in 3D space
type Vec3i struct {
	X, Y, Z int
}

// Vec3 converts the index to floats, without any cell size scaling
func (v Vec3i) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Manhattan returns |dx| + |dy| + |dz| between two cells
func (v Vec3i) Manhattan(o Vec3i) int {
	d := v.Sub(o)
	return abs(d.X) + abs(d.Y) + abs(d.Z)
}

// Vec2i is an integer coordinate on a 2D grid
type Vec2i struct {
	X, Y int
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
