// Package raster is a software backend for the render batch: it draws lines and flat triangles
// into an image with a depth buffer.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/akmonengine/gridview/render"
	"github.com/go-gl/mathgl/mgl64"
)

var _ render.Backend = (*Canvas)(nil)

// Canvas holds the render target as flat slices for cache locality.
type Canvas struct {
	Width  int
	Height int
	Image  *image.NRGBA
	Depth  []float64 // NDC depth per pixel, len = W*H, +Inf when empty

	// reused by DrawTriangles
	polygon []mgl64.Vec4
	screen  []mgl64.Vec3
}

// NewCanvas allocates a transparent color buffer and an empty depth buffer.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Image:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		Depth:   make([]float64, w*h),
		polygon: make([]mgl64.Vec4, 0, 8),
		screen:  make([]mgl64.Vec3, 0, 8),
	}
	c.clearDepth()
	return c
}

// Clear fills the color buffer and resets the depth buffer
func (c *Canvas) Clear(clr color.Color) {
	nrgba := color.NRGBAModel.Convert(clr).(color.NRGBA)
	pix := c.Image.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = nrgba.R
		pix[i+1] = nrgba.G
		pix[i+2] = nrgba.B
		pix[i+3] = nrgba.A
	}
	c.clearDepth()
}

func (c *Canvas) clearDepth() {
	for i := range c.Depth {
		c.Depth[i] = math.Inf(1)
	}
}

// DrawLines draws each pair of vertices as a 1 pixel line, depth tested
func (c *Canvas) DrawLines(view, projection mgl64.Mat4, vertices []render.Vertex) error {
	if len(vertices)%2 != 0 {
		return fmt.Errorf("raster: %d vertices do not form lines", len(vertices))
	}

	viewProjection := projection.Mul4(view)
	for i := 0; i < len(vertices); i += 2 {
		a := render.ClipPoint(viewProjection, vertices[i].Position)
		b := render.ClipPoint(viewProjection, vertices[i+1].Position)

		a, b, ok := render.ClipLineNear(a, b)
		if !ok {
			continue
		}
		p0, ok0 := render.ToScreen(a, c.Width, c.Height)
		p1, ok1 := render.ToScreen(b, c.Width, c.Height)
		if !ok0 || !ok1 {
			continue
		}

		c.line(p0, p1, vertices[i].Color)
	}
	return nil
}

// DrawTriangles fills each triple of vertices with the color of its first vertex, depth tested
func (c *Canvas) DrawTriangles(view, projection mgl64.Mat4, vertices []render.Vertex) error {
	if len(vertices)%3 != 0 {
		return fmt.Errorf("raster: %d vertices do not form triangles", len(vertices))
	}

	viewProjection := projection.Mul4(view)
	for i := 0; i < len(vertices); i += 3 {
		triangle := [3]mgl64.Vec4{
			render.ClipPoint(viewProjection, vertices[i].Position),
			render.ClipPoint(viewProjection, vertices[i+1].Position),
			render.ClipPoint(viewProjection, vertices[i+2].Position),
		}

		c.polygon = render.ClipPolygonNear(triangle[:], c.polygon[:0])
		if len(c.polygon) < 3 {
			continue
		}

		c.screen = c.screen[:0]
		for _, p := range c.polygon {
			s, ok := render.ToScreen(p, c.Width, c.Height)
			if !ok {
				break
			}
			c.screen = append(c.screen, s)
		}
		if len(c.screen) != len(c.polygon) {
			continue
		}

		// the clipped polygon is convex, fan it from its first vertex
		for j := 1; j+1 < len(c.screen); j++ {
			c.fill(c.screen[0], c.screen[j], c.screen[j+1], vertices[i].Color)
		}
	}
	return nil
}

// plot writes a pixel if it passes the depth test
func (c *Canvas) plot(x, y int, z float64, clr color.NRGBA, inclusive bool) {
	if z > 1 {
		return
	}
	di := y*c.Width + x
	if z > c.Depth[di] || (!inclusive && z == c.Depth[di]) {
		return
	}
	c.Depth[di] = z

	pi := c.Image.PixOffset(x, y)
	c.Image.Pix[pi] = clr.R
	c.Image.Pix[pi+1] = clr.G
	c.Image.Pix[pi+2] = clr.B
	c.Image.Pix[pi+3] = clr.A
}

func (c *Canvas) line(p0, p1 mgl64.Vec3, clr color.NRGBA) {
	xMax := math.Nextafter(float64(c.Width), 0)
	yMax := math.Nextafter(float64(c.Height), 0)

	t0, t1, ok := clipRect(p0.X(), p0.Y(), p1.X(), p1.Y(), xMax, yMax)
	if !ok {
		return
	}
	d := p1.Sub(p0)
	p0, p1 = p0.Add(d.Mul(t0)), p0.Add(d.Mul(t1))
	d = p1.Sub(p0)

	steps := int(math.Ceil(math.Max(math.Abs(d.X()), math.Abs(d.Y()))))
	if steps == 0 {
		c.plot(int(p0.X()), int(p0.Y()), p0.Z(), clr, true)
		return
	}

	step := d.Mul(1 / float64(steps))
	p := p0
	for s := 0; s <= steps; s++ {
		x, y := int(p.X()), int(p.Y())
		if x >= 0 && x < c.Width && y >= 0 && y < c.Height {
			c.plot(x, y, p.Z(), clr, true)
		}
		p = p.Add(step)
	}
}

// clipRect clips the segment to [0, xMax] x [0, yMax] (Liang-Barsky) and returns the kept parameter range
func clipRect(x0, y0, x1, y1, xMax, yMax float64) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	dx, dy := x1-x0, y1-y0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, xMax - x0, y0, yMax - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, false
			}
			continue
		}

		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return t0, t1, true
}

func edge(a, b mgl64.Vec3, x, y float64) float64 {
	return (b.X()-a.X())*(y-a.Y()) - (b.Y()-a.Y())*(x-a.X())
}

// fill rasterizes a screen space triangle, sampling at pixel centers
func (c *Canvas) fill(p0, p1, p2 mgl64.Vec3, clr color.NRGBA) {
	area := edge(p0, p1, p2.X(), p2.Y())
	if area > -1e-12 && area < 1e-12 {
		return
	}
	invArea := 1 / area

	// Bounding box
	minX := max(int(math.Floor(min(p0.X(), p1.X(), p2.X()))), 0)
	maxX := min(int(math.Ceil(max(p0.X(), p1.X(), p2.X()))), c.Width-1)
	minY := max(int(math.Floor(min(p0.Y(), p1.Y(), p2.Y()))), 0)
	maxY := min(int(math.Ceil(max(p0.Y(), p1.Y(), p2.Y()))), c.Height-1)

	for y := minY; y <= maxY; y++ {
		sy := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			sx := float64(x) + 0.5

			w0 := edge(p1, p2, sx, sy) * invArea
			w1 := edge(p2, p0, sx, sy) * invArea
			w2 := edge(p0, p1, sx, sy) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*p0.Z() + w1*p1.Z() + w2*p2.Z()
			c.plot(x, y, z, clr, false)
		}
	}
}
