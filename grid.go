package gridview

import (
	"image/color"
	"iter"
	"math"
	"math/bits"

	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// LineType classifies a grid line, lines are drawn in this order
type LineType uint8

const (
	LineMinor LineType = iota
	LineMajor
	LineOrigin
)

// GridSettings holds the tunables of the adaptive grid
type GridSettings struct {
	// Largest cell size, in world units
	MaxSize int
	// Preferred cell size, in world units
	CellSize int
	// Cells are enlarged until two lines are at least this many units apart on screen
	HideLinesLower int
	MajorLineEvery int
	// Half extent of the drawn grid for a cell size of 1
	BoundDimensions float64
	ZoomFactor      float64

	MinorColor  color.Color
	MajorColor  color.Color
	OriginColor color.Color
}

func DefaultGridSettings(maxSize int) GridSettings {
	return GridSettings{
		MaxSize:         maxSize,
		CellSize:        1,
		HideLinesLower:  2,
		MajorLineEvery:  8,
		BoundDimensions: 196,
		ZoomFactor:      48,
		MinorColor:      color.NRGBA{R: 64, G: 64, B: 64, A: 255},
		MajorColor:      color.NRGBA{R: 96, G: 96, B: 96, A: 255},
		OriginColor:     color.NRGBA{R: 160, G: 160, B: 160, A: 255},
	}
}

// GridPlan is what the grid draws for one frame
type GridPlan struct {
	CellSize int
	// Cell index window [Start, Start+Count) on the X and Z axes
	Start geometry.Vec2i
	Count geometry.Vec2i
	// World space extents of the lines on X (x) and Z (y), clamped to [-Dim, Dim]
	LineStart mgl64.Vec2
	LineEnd   mgl64.Vec2
	// Half extent of the grid
	Dim float64
}

// GridLine is one line of the grid, on the ground plane
type GridLine struct {
	From mgl64.Vec3
	To   mgl64.Vec3
	Type LineType
}

// Grid is an infinite reference grid on the y=0 plane, adapting its cell size to the camera height
type Grid struct {
	settings GridSettings
	upPlane  geometry.Plane
}

// NewGrid creates a grid. MaxSize is rounded down to a power of two and the preferred cell size
// up to a power of two within [1, MaxSize]: the cell size growth then never exceeds the configured maximum.
func NewGrid(settings GridSettings) *Grid {
	settings.MaxSize = previousPowerOfTwo(settings.MaxSize)
	settings.CellSize = min(nextPowerOfTwo(settings.CellSize), settings.MaxSize)
	if settings.HideLinesLower <= 0 {
		settings.HideLinesLower = 2
	}
	if settings.MajorLineEvery <= 0 {
		settings.MajorLineEvery = 8
	}
	if settings.BoundDimensions <= 0 {
		settings.BoundDimensions = 196
	}
	if settings.ZoomFactor <= 0 {
		settings.ZoomFactor = 48
	}

	return &Grid{
		settings: settings,
		upPlane:  geometry.NewPlane(mgl64.Vec3{0, 1, 0}, 0),
	}
}

// nextPowerOfTwo returns the smallest power of two >= n, 1 for n <= 1
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// previousPowerOfTwo returns the largest power of two <= n, 1 for n <= 1
func previousPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << (bits.Len(uint(n)) - 1)
}

func (g *Grid) Settings() GridSettings {
	return g.settings
}

// CellSize returns the preferred cell size, before zoom adaptation
func (g *Grid) CellSize() int {
	return g.settings.CellSize
}

func (g *Grid) IncreaseGridSize() {
	g.settings.CellSize = g.settings.CellSize << 1
	if g.settings.CellSize >= g.settings.MaxSize<<1 {
		g.settings.CellSize = g.settings.MaxSize
	}
}

func (g *Grid) DecreaseGridSize() {
	g.settings.CellSize = g.settings.CellSize >> 1
	if g.settings.CellSize == 0 {
		g.settings.CellSize = 1
	}
}

// viewportBounds returns the square footprint of side 2*gridDim centered under the camera
func (g *Grid) viewportBounds(cameraPosition mgl64.Vec3, gridDim float64) geometry.AABB {
	offset := mgl64.Vec3{1, 0, -1}.Mul(gridDim)
	position := g.upPlane.Project(cameraPosition)

	bounds := geometry.NewAABB()
	bounds.Grow(position.Sub(offset))
	bounds.Grow(position.Add(offset))

	return bounds
}

// Plan computes the cell size, the cell window and the line extents for a camera position
func (g *Grid) Plan(cameraPosition mgl64.Vec3) GridPlan {
	s := g.settings

	distanceToPlane := math.Abs(g.upPlane.DistanceToPlane(cameraPosition))
	zoom := math.Max(1, distanceToPlane) / s.ZoomFactor

	// hide lines closer than HideLinesLower
	cellSize := s.CellSize
	for float64(cellSize)/zoom < float64(s.HideLinesLower) {
		cellSize = cellSize << 2
		if cellSize >= s.MaxSize<<1 {
			cellSize = s.MaxSize
			break
		}
	}

	gridDim := math.Log2(float64(cellSize+1)) * s.BoundDimensions
	bounds := g.viewportBounds(cameraPosition, gridDim)

	gridWidth := bounds.Max.X() - bounds.Min.X()
	gridHeight := bounds.Max.Z() - bounds.Min.Z()

	// one extra cell on each side, so lines do not pop at the edges
	count := geometry.Vec2i{
		X: int(gridWidth)/cellSize + 4,
		Y: int(gridHeight)/cellSize + 4,
	}
	start := geometry.Vec2i{
		X: int(bounds.Min.X())/cellSize - 1,
		Y: int(bounds.Min.Z())/cellSize - 1,
	}

	lineStart := mgl64.Vec2{float64(start.X * cellSize), float64(start.Y * cellSize)}
	lineEnd := mgl64.Vec2{
		float64((start.X + count.X - 1) * cellSize),
		float64((start.Y + count.Y - 1) * cellSize),
	}

	// keep the lines inside the grid dimensions
	lineStart[0] = math.Max(lineStart[0], -gridDim)
	lineStart[1] = math.Max(lineStart[1], -gridDim)
	lineEnd[0] = math.Min(lineEnd[0], gridDim)
	lineEnd[1] = math.Min(lineEnd[1], gridDim)

	return GridPlan{
		CellSize:  cellSize,
		Start:     start,
		Count:     count,
		LineStart: lineStart,
		LineEnd:   lineEnd,
		Dim:       gridDim,
	}
}

// ClassifyLine returns the type of the line with index i. Index 0 is the origin line,
// every majorEvery-th index a major line, everything else a minor line.
func ClassifyLine(i, majorEvery int) LineType {
	switch {
	case i == 0:
		return LineOrigin
	case i%majorEvery == 0:
		return LineMajor
	default:
		return LineMinor
	}
}

// Lines yields the lines of a plan: all minor lines, then major lines, then origin lines.
// Each pass yields the lines along X (constant z) then the lines along Z (constant x).
func (g *Grid) Lines(plan GridPlan) iter.Seq[GridLine] {
	return func(yield func(GridLine) bool) {
		size := float64(plan.CellSize)

		for _, lineType := range []LineType{LineMinor, LineMajor, LineOrigin} {
			for i := range g.indices(plan, plan.Start.Y, plan.Start.Y+plan.Count.Y, lineType) {
				z := float64(i) * size
				line := GridLine{
					From: mgl64.Vec3{plan.LineStart.X(), 0, z},
					To:   mgl64.Vec3{plan.LineEnd.X(), 0, z},
					Type: lineType,
				}
				if !yield(line) {
					return
				}
			}

			for i := range g.indices(plan, plan.Start.X, plan.Start.X+plan.Count.X, lineType) {
				x := float64(i) * size
				line := GridLine{
					From: mgl64.Vec3{x, 0, plan.LineStart.Y()},
					To:   mgl64.Vec3{x, 0, plan.LineEnd.Y()},
					Type: lineType,
				}
				if !yield(line) {
					return
				}
			}
		}
	}
}

// indices yields the indices in [from, to) of the given type that lie inside the grid dimensions
func (g *Grid) indices(plan GridPlan, from, to int, lineType LineType) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := from; i < to; i++ {
			// the window padding can overshoot the grid dimensions
			position := float64(i * plan.CellSize)
			if position < -plan.Dim || position > plan.Dim {
				continue
			}
			if ClassifyLine(i, g.settings.MajorLineEvery) != lineType {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

func (g *Grid) lineColor(lineType LineType) color.Color {
	switch lineType {
	case LineMajor:
		return g.settings.MajorColor
	case LineOrigin:
		return g.settings.OriginColor
	default:
		return g.settings.MinorColor
	}
}

// Draw plans the grid for the camera position and sends its lines to the renderer
func (g *Grid) Draw(renderer Renderer, cameraPosition mgl64.Vec3) GridPlan {
	plan := g.Plan(cameraPosition)
	for line := range g.Lines(plan) {
		renderer.DrawLine(line.From, line.To, g.lineColor(line.Type))
	}
	return plan
}
