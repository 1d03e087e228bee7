package render

import "image/color"

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Surface is a 2D raster that animations draw on in place.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)
	// Fill paints the whole surface. Translucent colours blend over the
	// previous contents.
	Fill(c color.Color)
	// Polyline strokes a connected path through pts in order.
	Polyline(pts []Point, c color.Color, width float64)
	// RoundRect fills a rounded rectangle.
	RoundRect(x, y, w, h, radius float64, c color.Color)
	// Glyph draws a short label centred on (x, y).
	Glyph(x, y float64, s string, c color.Color)
}

// Line strokes a single segment.
func Line(s Surface, x0, y0, x1, y1 float64, c color.Color, width float64) {
	s.Polyline([]Point{{x0, y0}, {x1, y1}}, c, width)
}
