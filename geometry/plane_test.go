package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPlaneDistanceToPlane(t *testing.T) {
	tests := []struct {
		name     string
		plane    Plane
		point    mgl64.Vec3
		expected float64
	}{
		{"ground, above", NewPlane(mgl64.Vec3{0, 1, 0}, 0), mgl64.Vec3{3, 5, -2}, 5},
		{"ground, below", NewPlane(mgl64.Vec3{0, 1, 0}, 0), mgl64.Vec3{0, -7, 0}, -7},
		{"raised ground", NewPlane(mgl64.Vec3{0, 1, 0}, 2), mgl64.Vec3{0, 5, 0}, 3},
		{"from point", NewPlaneFromPoint(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{4, 9, 9}), mgl64.Vec3{1, 0, 0}, -3},
		{"diagonal", NewPlane(mgl64.Vec3{1, 1, 0}.Normalize(), 0), mgl64.Vec3{1, 1, 0}, math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.plane.DistanceToPlane(tt.point)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("DistanceToPlane(%v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestPlaneProject(t *testing.T) {
	plane := NewPlaneFromPoint(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 3, 0})
	p := plane.Project(mgl64.Vec3{5, 42, -7})

	if !p.ApproxEqual(mgl64.Vec3{5, 3, -7}) {
		t.Errorf("Project() = %v, want (5, 3, -7)", p)
	}
	if math.Abs(plane.DistanceToPlane(p)) > 1e-9 {
		t.Errorf("projected point should lie on the plane")
	}
}

func TestRayAt(t *testing.T) {
	r := NewRayBetween(mgl64.Vec3{0, 50, 0}, mgl64.Vec3{0, 0, 0})
	if !r.Direction.ApproxEqual(mgl64.Vec3{0, -1, 0}) {
		t.Fatalf("Direction = %v, want (0, -1, 0)", r.Direction)
	}
	if !r.At(42).ApproxEqual(mgl64.Vec3{0, 8, 0}) {
		t.Errorf("At(42) = %v, want (0, 8, 0)", r.At(42))
	}
}
