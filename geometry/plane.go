package geometry

import "github.com/go-gl/mathgl/mgl64"

// Plane represents an infinite plane.
// The plane holds the points p where Normal · p = Distance,
// Normal must be normalized for DistanceToPlane to be a euclidean distance.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64 // signed distance from origin along the normal
}

func NewPlane(normal mgl64.Vec3, distance float64) Plane {
	return Plane{Normal: normal, Distance: distance}
}

// NewPlaneFromPoint builds the plane with the given normal passing through pointOnPlane
func NewPlaneFromPoint(normal, pointOnPlane mgl64.Vec3) Plane {
	return Plane{Normal: normal, Distance: normal.Dot(pointOnPlane)}
}

// DistanceToPlane returns the signed distance of point to the plane, positive on the normal side
func (p Plane) DistanceToPlane(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.Distance
}

// Project drops point onto the plane along the normal
func (p Plane) Project(point mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(p.Normal.Mul(p.DistanceToPlane(point)))
}
