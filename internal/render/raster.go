package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// RasterFormat selects the image encoder of a Raster sink.
type RasterFormat int

const (
	RasterPNG RasterFormat = iota
	RasterWebP
)

const (
	markerRadius  = 5.0
	minSpanDegree = 0.5
)

var (
	background  = color.RGBA{0xf7, 0xf5, 0xf0, 0xff}
	defaultInk  = color.RGBA{0x33, 0x33, 0x33, 0xff}
	markerInk   = color.RGBA{0x00, 0x00, 0xff, 0xff}
	annotateBox = color.NRGBA{0xff, 0xff, 0xff, 0xd0}
)

// Raster draws a composition onto a plain equirectangular canvas fitted to
// the result bounds.
type Raster struct {
	Width       int
	Height      int
	Padding     float64 // fraction of the extent added on each side
	Supersample int     // draw at N times the size and scale down
	Quality     float32 // webp quality
	Format      RasterFormat
}

// NewRaster returns a raster sink with default dimensions.
func NewRaster(f RasterFormat) Raster {
	return Raster{
		Width:       1600,
		Height:      1000,
		Padding:     0.15,
		Supersample: 1,
		Quality:     85,
		Format:      f,
	}
}

// Write encodes the drawn result.
func (r Raster) Write(w io.Writer, res *compose.Result) error {
	img := r.Draw(res)
	switch r.Format {
	case RasterWebP:
		if err := webp.Encode(w, img, &webp.Options{Lossless: false, Quality: r.Quality}); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return nil
}

// Draw paints every pass of res in order and returns the image.
func (r Raster) Draw(res *compose.Result) *image.RGBA {
	width, height := r.Width, r.Height
	if width <= 0 || height <= 0 {
		width, height = 1600, 1000
	}
	scale := max(r.Supersample, 1)

	c := newCanvas(width*scale, height*scale, res.Bound(), r.Padding)
	c.scale = float32(scale)
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, p := range res.Passes {
		c.pass(p)
	}

	if scale == 1 {
		return c.img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), c.img, c.img.Bounds(), draw.Over, nil)
	return dst
}

type canvas struct {
	img    *image.RGBA
	ras    *vector.Rasterizer
	center orb.Point
	ppd    float64 // pixels per degree
	scale  float32
}

func newCanvas(w, h int, b orb.Bound, padding float64) *canvas {
	dx := math.Max(b.Max[0]-b.Min[0], minSpanDegree)
	dy := math.Max(b.Max[1]-b.Min[1], minSpanDegree)
	if padding > 0 {
		dx *= 1 + 2*padding
		dy *= 1 + 2*padding
	}

	return &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		ras:    vector.NewRasterizer(w, h),
		center: b.Center(),
		ppd:    math.Min(float64(w)/dx, float64(h)/dy),
		scale:  1,
	}
}

// project maps lon/lat to pixel space.
func (c *canvas) project(p orb.Point) (float32, float32) {
	b := c.img.Bounds()
	x := float64(b.Dx())/2 + (p[0]-c.center[0])*c.ppd
	y := float64(b.Dy())/2 - (p[1]-c.center[1])*c.ppd
	return float32(x), float32(y)
}

func (c *canvas) pass(p compose.Pass) {
	switch p.Kind {
	case compose.PassLayer:
		if p.Features == nil {
			return
		}
		for _, f := range p.Features.Features {
			c.geometry(f.Geometry, p.Category, p.Style)
		}
	case compose.PassLabels:
		ink := colorOr(p.Style.Color, defaultInk)
		for _, l := range p.Labels {
			x, y := c.project(l.Point)
			c.text(l.Text, x, y, ink, true)
		}
	case compose.PassMarker:
		pt, ok := p.Geometry.(orb.Point)
		if !ok {
			return
		}
		x, y := c.project(pt)
		rad := markerRadius * c.scale
		c.fill(withOpacity(colorOr(p.Style.Color, markerInk), 1), func() { c.disc(x, y, rad) })
		c.text(p.Text, x+rad+3*c.scale, y+4*c.scale, defaultInk, false)
	case compose.PassPath:
		if ls, ok := p.Geometry.(orb.LineString); ok {
			c.stroke(ls, p.Style, markerInk)
		}
	case compose.PassCircle:
		poly, ok := p.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 {
			return
		}
		ink := colorOr(p.Style.Color, markerInk)
		c.fill(withOpacity(ink, 0.2), func() { c.ring(poly[0]) })
		c.stroke(orb.LineString(poly[0]), p.Style, ink)
	case compose.PassAnnotation:
		pt, ok := p.Geometry.(orb.Point)
		if !ok {
			return
		}
		x, y := c.project(pt)
		c.annotation(p.Text, x, y)
	}
}

func (c *canvas) geometry(g orb.Geometry, cat layer.Category, s layer.Style) {
	switch g := g.(type) {
	case orb.Polygon:
		if cat == layer.AreaFill {
			fill := colorOr(s.FillColor, colorOr(s.Color, defaultInk))
			c.fill(withOpacity(fill, s.Opacity), func() {
				for _, r := range g {
					c.ring(r)
				}
			})
			if s.Color == "" {
				return
			}
		}
		for _, r := range g {
			c.stroke(orb.LineString(r), s, defaultInk)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			c.geometry(p, cat, s)
		}
	case orb.LineString:
		c.stroke(g, s, defaultInk)
	case orb.MultiLineString:
		for _, ls := range g {
			c.stroke(ls, s, defaultInk)
		}
	case orb.Ring:
		c.geometry(orb.Polygon{g}, cat, s)
	case orb.Point:
		x, y := c.project(g)
		c.fill(withOpacity(colorOr(s.Color, defaultInk), 1), func() { c.disc(x, y, 2*c.scale) })
	case orb.MultiPoint:
		for _, p := range g {
			c.geometry(p, cat, s)
		}
	case orb.Collection:
		for _, sub := range g {
			c.geometry(sub, cat, s)
		}
	}
}

// fill rasterizes the paths added by build with one uniform color.
func (c *canvas) fill(col color.NRGBA, build func()) {
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
	c.ras.DrawOp = draw.Over
	build()
	c.ras.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

func (c *canvas) ring(r orb.Ring) {
	if len(r) < 3 {
		return
	}
	x, y := c.project(r[0])
	c.ras.MoveTo(x, y)
	for _, p := range r[1:] {
		x, y = c.project(p)
		c.ras.LineTo(x, y)
	}
	c.ras.ClosePath()
}

func (c *canvas) disc(x, y, rad float32) {
	const steps = 16
	c.ras.MoveTo(x+rad, y)
	for i := 1; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		c.ras.LineTo(x+rad*float32(math.Cos(a)), y+rad*float32(math.Sin(a)))
	}
	c.ras.ClosePath()
}

// stroke draws ls as a chain of quads, one per segment. All quads share the
// same winding so overlaps accumulate instead of cancelling.
func (c *canvas) stroke(ls orb.LineString, s layer.Style, def color.RGBA) {
	if len(ls) < 2 {
		return
	}
	width := s.LineWidth
	if width <= 0 {
		width = 1
	}
	half := float32(width) * c.scale / 2

	c.fill(withOpacity(colorOr(s.Color, def), s.Opacity), func() {
		x0, y0 := c.project(ls[0])
		for _, p := range ls[1:] {
			x1, y1 := c.project(p)
			dx, dy := x1-x0, y1-y0
			l := float32(math.Hypot(float64(dx), float64(dy)))
			if l == 0 {
				continue
			}
			nx, ny := -dy/l*half, dx/l*half
			c.ras.MoveTo(x0+nx, y0+ny)
			c.ras.LineTo(x1+nx, y1+ny)
			c.ras.LineTo(x1-nx, y1-ny)
			c.ras.LineTo(x0-nx, y0-ny)
			c.ras.ClosePath()
			x0, y0 = x1, y1
		}
	})
}

func (c *canvas) text(s string, x, y float32, ink color.RGBA, centered bool) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
	}
	if centered {
		x -= float32(d.MeasureString(s).Round()) / 2
	}
	d.Dot = fixed.P(int(x), int(y))
	d.DrawString(s)
}

// annotation draws centered text over a translucent box.
func (c *canvas) annotation(s string, x, y float32) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Round()
	h := face.Metrics().Height.Round()

	box := image.Rect(int(x)-w/2-3, int(y)-h/2-2, int(x)+w/2+3, int(y)+h/2+2)
	draw.Draw(c.img, box, image.NewUniform(annotateBox), image.Point{}, draw.Over)
	c.text(s, x, y+float32(h)/2-3, defaultInk, true)
}
