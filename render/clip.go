package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ClipPoint transforms a world position to clip space
func ClipPoint(viewProjection mgl64.Mat4, position mgl64.Vec3) mgl64.Vec4 {
	return viewProjection.Mul4x1(position.Vec4(1))
}

// nearDistance is positive in front of the near plane (z >= -w)
func nearDistance(p mgl64.Vec4) float64 {
	return p.Z() + p.W()
}

func lerp4(a, b mgl64.Vec4, t float64) mgl64.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// ClipLineNear cuts a clip space segment at the near plane.
// ok is false when the whole segment is behind it.
func ClipLineNear(a, b mgl64.Vec4) (mgl64.Vec4, mgl64.Vec4, bool) {
	da, db := nearDistance(a), nearDistance(b)
	if da < 0 && db < 0 {
		return a, b, false
	}

	if da < 0 {
		a = lerp4(a, b, da/(da-db))
	} else if db < 0 {
		b = lerp4(a, b, da/(da-db))
	}
	return a, b, true
}

// ClipPolygonNear cuts a clip space polygon at the near plane (Sutherland-Hodgman).
// The result is appended to out.
func ClipPolygonNear(polygon []mgl64.Vec4, out []mgl64.Vec4) []mgl64.Vec4 {
	for i, current := range polygon {
		next := polygon[(i+1)%len(polygon)]
		dc, dn := nearDistance(current), nearDistance(next)

		if dc >= 0 {
			out = append(out, current)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, lerp4(current, next, dc/(dc-dn)))
		}
	}
	return out
}

// ToScreen maps a clip space position to pixels, origin top-left, z being the NDC depth in [-1, 1].
// ok is false when w is too close to zero to divide.
func ToScreen(p mgl64.Vec4, width, height int) (mgl64.Vec3, bool) {
	if math.Abs(p.W()) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	ndc := p.Vec3().Mul(1 / p.W())

	return mgl64.Vec3{
		(ndc.X() + 1) * 0.5 * float64(width),
		(1 - ndc.Y()) * 0.5 * float64(height),
		ndc.Z(),
	}, true
}
