package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Raster is an in-memory RGBA surface with anti-aliased vector drawing.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewRaster allocates a transparent w x h surface.
func NewRaster(w, h int) *Raster {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(w, h),
	}
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the backing image. It is mutated by every draw call.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Fill(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Over)
}

func (r *Raster) Polyline(pts []Point, c color.Color, width float64) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	r.begin()
	hw := width / 2
	drawn := false
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		// unit direction and normal, scaled to half the stroke width;
		// segments are extended by hw so consecutive quads overlap at joins
		ux, uy := dx/l*hw, dy/l*hw
		nx, ny := -uy, ux
		ax, ay := a.X-ux, a.Y-uy
		bx, by := b.X+ux, b.Y+uy
		r.z.MoveTo(f32(ax+nx), f32(ay+ny))
		r.z.LineTo(f32(bx+nx), f32(by+ny))
		r.z.LineTo(f32(bx-nx), f32(by-ny))
		r.z.LineTo(f32(ax-nx), f32(ay-ny))
		r.z.ClosePath()
		drawn = true
	}
	if drawn {
		r.flush(c)
	}
}

func (r *Raster) RoundRect(x, y, w, h, radius float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	radius = math.Max(0, math.Min(radius, math.Min(w, h)/2))
	r.begin()
	r.z.MoveTo(f32(x+radius), f32(y))
	r.z.LineTo(f32(x+w-radius), f32(y))
	r.z.QuadTo(f32(x+w), f32(y), f32(x+w), f32(y+radius))
	r.z.LineTo(f32(x+w), f32(y+h-radius))
	r.z.QuadTo(f32(x+w), f32(y+h), f32(x+w-radius), f32(y+h))
	r.z.LineTo(f32(x+radius), f32(y+h))
	r.z.QuadTo(f32(x), f32(y+h), f32(x), f32(y+h-radius))
	r.z.LineTo(f32(x), f32(y+radius))
	r.z.QuadTo(f32(x), f32(y), f32(x+radius), f32(y))
	r.z.ClosePath()
	r.flush(c)
}

func (r *Raster) Glyph(x, y float64, s string, c color.Color) {
	face := basicfont.Face7x13
	adv := font.MeasureString(face, s)
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	// basicfont glyphs are 13px tall with an 11px ascent
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(math.Round(x))) - adv/2,
		Y: fixed.I(int(math.Round(y)) + 4),
	}
	d.DrawString(s)
}

// Composite flattens the surface over bg at the given opacity.
func (r *Raster) Composite(bg color.Color, opacity float64) *image.RGBA {
	out := image.NewRGBA(r.img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	a := uint8(math.Round(clamp01(opacity) * 255))
	draw.DrawMask(out, out.Bounds(), r.img, image.Point{}, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
	return out
}

func (r *Raster) begin() {
	w, h := r.Size()
	r.z.Reset(w, h)
}

func (r *Raster) flush(c color.Color) {
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func f32(v float64) float32 { return float32(v) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
