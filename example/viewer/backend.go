package main

import (
	"image"
	"image/color"

	"github.com/akmonengine/gridview/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	// a source pixel away from the image edges, for DrawTriangles
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// screenBackend draws the flushed batches on an ebiten image
type screenBackend struct {
	target *ebiten.Image

	polygon  []mgl64.Vec4
	vertices []ebiten.Vertex
	indices  []uint16
}

func (b *screenBackend) size() (int, int) {
	bounds := b.target.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func (b *screenBackend) DrawLines(view, projection mgl64.Mat4, vertices []render.Vertex) error {
	width, height := b.size()
	viewProjection := projection.Mul4(view)

	for i := 0; i+1 < len(vertices); i += 2 {
		from, to, ok := render.ClipLineNear(
			render.ClipPoint(viewProjection, vertices[i].Position),
			render.ClipPoint(viewProjection, vertices[i+1].Position),
		)
		if !ok {
			continue
		}
		p0, ok0 := render.ToScreen(from, width, height)
		p1, ok1 := render.ToScreen(to, width, height)
		if !ok0 || !ok1 {
			continue
		}

		vector.StrokeLine(b.target, float32(p0.X()), float32(p0.Y()), float32(p1.X()), float32(p1.Y()), 1, vertices[i].Color, false)
	}
	return nil
}

func (b *screenBackend) DrawTriangles(view, projection mgl64.Mat4, vertices []render.Vertex) error {
	width, height := b.size()
	viewProjection := projection.Mul4(view)

	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	for i := 0; i+2 < len(vertices); i += 3 {
		triangle := [3]mgl64.Vec4{
			render.ClipPoint(viewProjection, vertices[i].Position),
			render.ClipPoint(viewProjection, vertices[i+1].Position),
			render.ClipPoint(viewProjection, vertices[i+2].Position),
		}
		b.polygon = render.ClipPolygonNear(triangle[:], b.polygon[:0])
		if len(b.polygon) < 3 {
			continue
		}

		c := vertices[i].Color
		first := uint16(len(b.vertices))
		for _, p := range b.polygon {
			s, _ := render.ToScreen(p, width, height)
			b.vertices = append(b.vertices, ebiten.Vertex{
				DstX:   float32(s.X()),
				DstY:   float32(s.Y()),
				SrcX:   1,
				SrcY:   1,
				ColorR: float32(c.R) / 255,
				ColorG: float32(c.G) / 255,
				ColorB: float32(c.B) / 255,
				ColorA: float32(c.A) / 255,
			})
		}
		for j := uint16(1); int(j)+1 < len(b.polygon); j++ {
			b.indices = append(b.indices, first, first+j, first+j+1)
		}
	}

	if len(b.indices) > 0 {
		b.target.DrawTriangles(b.vertices, b.indices, whiteSubImage, nil)
	}
	return nil
}
