package gridview

import (
	"image/color"

	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ColorActive   = color.NRGBA{R: 255, G: 165, B: 0, A: 255}   // orange
	ColorInactive = color.NRGBA{R: 255, G: 255, B: 255, A: 255} // white
)

// PickResult is the outcome of casting the mouse ray into the scene for one frame
type PickResult struct {
	// Hit is true when the ray went through the box, false when it fell back to the ground plane
	Hit bool
	// Entry and exit points of the ray in the box, only set on a hit
	Entry mgl64.Vec3
	Exit  mgl64.Vec3
	// Interaction point: the box entry on a hit, the ground point otherwise
	Point mgl64.Vec3
	// Centers of the cells crossed inside the box, in ray order
	Cells []geometry.Vec3i
	Color color.Color
}

// Picker casts the mouse ray against the box, falling back on the ground plane
type Picker struct {
	Box geometry.AABB
	// Tolerance of the slab test, negative so a ray touching a face still hits
	Epsilon         float64
	PreviewCellSize float64
	Ground          geometry.Plane

	ActiveColor   color.Color
	InactiveColor color.Color
}

func NewPicker(box geometry.AABB) *Picker {
	return &Picker{
		Box:             box,
		Epsilon:         -EpsilonBig,
		PreviewCellSize: 1,
		Ground:          geometry.NewPlane(mgl64.Vec3{0, 1, 0}, 0),
		ActiveColor:     ColorActive,
		InactiveColor:   ColorInactive,
	}
}

// Pick casts the ray. prior is returned as the interaction point when the ray misses both
// the box and the ground. The Cells slice of result is reused when it has capacity.
// An empty box is never hit. From inside the box, the walk starts at the ray origin.
func (p *Picker) Pick(ray geometry.Ray, prior mgl64.Vec3, result *PickResult) {
	result.Cells = result.Cells[:0]

	tNear, tFar, ok := RayIntersectsBox(ray.Origin, ray.Direction, p.Box.Min, p.Box.Max, p.Epsilon)
	if ok && !p.Box.IsEmpty() {
		if p.Box.ContainsPoint(ray.Origin) {
			tNear = 0
		}

		result.Hit = true
		result.Color = p.ActiveColor
		result.Entry = ray.At(tNear)
		result.Exit = ray.At(tFar)
		result.Point = result.Entry

		for cell := range RaycastImplicitGrid(result.Entry, result.Exit, p.PreviewCellSize) {
			result.Cells = append(result.Cells, cell)
		}
		return
	}

	result.Hit = false
	result.Color = p.InactiveColor
	result.Entry = mgl64.Vec3{}
	result.Exit = mgl64.Vec3{}
	result.Point = prior
	if point, ok := RayIntersectsPlane(p.Ground.Normal, p.Ground.Distance, ray.Origin, ray.Direction); ok {
		result.Point = point
	}
}

// PreviewCenters returns the world centers of the picked cells
func (p *Picker) PreviewCenters(result *PickResult) []mgl64.Vec3 {
	centers := make([]mgl64.Vec3, len(result.Cells))
	for i, cell := range result.Cells {
		centers[i] = CellCenter(cell, p.PreviewCellSize)
	}
	return centers
}
