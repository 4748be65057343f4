// Package render batches the viewer's draw requests into vertex buffers and flushes them to a backend.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/akmonengine/gridview"
	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const DefaultCapacity = 2048

var (
	ErrNotBegun     = errors.New("render: draw outside of Begin/End")
	ErrAlreadyBegun = errors.New("render: Begin called twice without End")
)

var _ gridview.Renderer = (*PrimitiveBatch)(nil)

// Vertex is a world space position with its color
type Vertex struct {
	Position mgl64.Vec3
	Color    color.NRGBA
}

// Backend receives the flushed vertices. Lines come as pairs, triangles as triples.
// The slices are reused after the call returns and must not be retained.
type Backend interface {
	DrawLines(view, projection mgl64.Mat4, vertices []Vertex) error
	DrawTriangles(view, projection mgl64.Mat4, vertices []Vertex) error
}

// Box edges as pairs of corner indices, see geometry.AABB.Corners
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Box faces as quads of corner indices, each split in two triangles
var boxFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

// PrimitiveBatch implements gridview.Renderer on top of a Backend.
// Vertices are buffered until a buffer is full or End is called.
type PrimitiveBatch struct {
	backend Backend

	lines     []Vertex
	triangles []Vertex

	view       mgl64.Mat4
	projection mgl64.Mat4
	hasBegun   bool

	err error
}

// NewPrimitiveBatch creates a batch holding up to capacity vertices per primitive type
func NewPrimitiveBatch(backend Backend, capacity int) *PrimitiveBatch {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// room for at least one triangle
	capacity = max(capacity, 3)

	return &PrimitiveBatch{
		backend:   backend,
		lines:     make([]Vertex, 0, capacity),
		triangles: make([]Vertex, 0, capacity),
	}
}

func (b *PrimitiveBatch) Begin(view, projection mgl64.Mat4) {
	if b.hasBegun {
		b.fail(ErrAlreadyBegun)
		return
	}
	b.view = view
	b.projection = projection
	b.hasBegun = true
}

func (b *PrimitiveBatch) DrawLine(from, to mgl64.Vec3, c color.Color) {
	if !b.hasBegun {
		b.fail(ErrNotBegun)
		return
	}
	b.line(from, to, toNRGBA(c))
}

func (b *PrimitiveBatch) DrawCube(center mgl64.Vec3, size float64, c color.Color, style gridview.DrawStyle) {
	half := mgl64.Vec3{size, size, size}.Mul(0.5)
	b.DrawAabb(center.Sub(half), center.Add(half), c, style)
}

func (b *PrimitiveBatch) DrawAabb(min, max mgl64.Vec3, c color.Color, style gridview.DrawStyle) {
	if !b.hasBegun {
		b.fail(ErrNotBegun)
		return
	}

	corners := geometry.NewAABBFromPoints(min, max).Corners()
	nrgba := toNRGBA(c)

	switch style {
	case gridview.Solid:
		for _, face := range boxFaces {
			b.triangle(corners[face[0]], corners[face[1]], corners[face[2]], nrgba)
			b.triangle(corners[face[0]], corners[face[2]], corners[face[3]], nrgba)
		}
	default:
		for _, edge := range boxEdges {
			b.line(corners[edge[0]], corners[edge[1]], nrgba)
		}
	}
}

// End flushes the remaining vertices and returns every error met since Begin
func (b *PrimitiveBatch) End() error {
	if !b.hasBegun {
		b.fail(ErrNotBegun)
	} else {
		b.flushTriangles()
		b.flushLines()
		b.hasBegun = false
	}

	err := b.err
	b.err = nil
	return err
}

func (b *PrimitiveBatch) line(from, to mgl64.Vec3, c color.NRGBA) {
	if len(b.lines)+2 > cap(b.lines) {
		b.flushLines()
	}
	b.lines = append(b.lines, Vertex{from, c}, Vertex{to, c})
}

func (b *PrimitiveBatch) triangle(p0, p1, p2 mgl64.Vec3, c color.NRGBA) {
	if len(b.triangles)+3 > cap(b.triangles) {
		b.flushTriangles()
	}
	b.triangles = append(b.triangles, Vertex{p0, c}, Vertex{p1, c}, Vertex{p2, c})
}

func (b *PrimitiveBatch) flushLines() {
	if len(b.lines) == 0 {
		return
	}
	if err := b.backend.DrawLines(b.view, b.projection, b.lines); err != nil {
		b.fail(fmt.Errorf("render: draw %d lines: %w", len(b.lines)/2, err))
	}
	b.lines = b.lines[:0]
}

func (b *PrimitiveBatch) flushTriangles() {
	if len(b.triangles) == 0 {
		return
	}
	if err := b.backend.DrawTriangles(b.view, b.projection, b.triangles); err != nil {
		b.fail(fmt.Errorf("render: draw %d triangles: %w", len(b.triangles)/3, err))
	}
	b.triangles = b.triangles[:0]
}

func (b *PrimitiveBatch) fail(err error) {
	b.err = errors.Join(b.err, err)
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
