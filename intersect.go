package gridview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	Epsilon    = 1e-7
	EpsilonBig = 1e-4
)

// RayIntersectsBox tests a ray against an axis-aligned box with the slab method.
//
// A direction component with |dir[i]| < epsilon is treated as parallel to the slab of that axis:
// the origin must then lie within [boxMin[i], boxMax[i]], bounds included, or the ray misses.
// Exact zero components always take that path, so with a zero or negative epsilon (which disables
// the tolerance band) a ray running along a face still hits.
//
// Returns the parametric interval [tNear, tFar] along dir; hit points are origin + dir*t.
// tNear is negative when the origin is inside the box.
func RayIntersectsBox(origin, dir, boxMin, boxMax mgl64.Vec3, epsilon float64) (tNear, tFar float64, ok bool) {
	tNear = -math.MaxFloat64
	tFar = math.MaxFloat64

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < epsilon || dir[axis] == 0 {
			if origin[axis] < boxMin[axis] || origin[axis] > boxMax[axis] {
				return 0, 0, false
			}
			continue
		}

		t1 := (boxMin[axis] - origin[axis]) / dir[axis]
		t2 := (boxMax[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)

		if tNear > tFar || tFar < 0 {
			return 0, 0, false
		}
	}

	return tNear, tFar, true
}

// RayIntersectsPlane returns the point where the ray crosses the plane Normal · p = distance.
// It fails when the ray is parallel to the plane or when the plane is behind the origin.
func RayIntersectsPlane(normal mgl64.Vec3, distance float64, origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	denom := normal.Dot(dir)
	if math.Abs(denom) < Epsilon {
		return mgl64.Vec3{}, false
	}

	t := (distance - normal.Dot(origin)) / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}

	return origin.Add(dir.Mul(t)), true
}
