package render

import (
	"image/color"
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Braille is a terminal surface where every character cell holds 2x4 dots.
// Dots are binary, so any Fill wipes the canvas instead of blending.
type Braille struct {
	Width, Height int
	Grid          [][]rune
	// Ink holds the colour of the last draw that touched each character.
	Ink [][]color.Color
}

// NewBraille creates a canvas of w x h characters, i.e. (2w) x (4h) dots.
func NewBraille(w, h int) *Braille {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Braille{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]color.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]color.Color, w)
	}
	c.Clear()
	return c
}

// Size is measured in dots.
func (c *Braille) Size() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights a dot at (x, y) in dot coordinates.
func (c *Braille) Set(x, y int, ink color.Color) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = ink
}

// Lit reports whether the dot at (x, y) is set.
func (c *Braille) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Braille) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = nil
		}
	}
}

func (c *Braille) Fill(color.Color) { c.Clear() }

func (c *Braille) Polyline(pts []Point, ink color.Color, _ float64) {
	for i := 1; i < len(pts); i++ {
		c.DrawLine(round(pts[i-1].X), round(pts[i-1].Y), round(pts[i].X), round(pts[i].Y), ink)
	}
}

func (c *Braille) RoundRect(x, y, w, h, _ float64, ink color.Color) {
	x0, y0 := round(x), round(y)
	x1, y1 := round(x+w), round(y+h)
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Set(px, py, ink)
		}
	}
}

// Glyph is a no-op: a character cell cannot host a label and dots at once.
func (c *Braille) Glyph(float64, float64, string, color.Color) {}

// DrawLine draws a line using Bresenham's algorithm
func (c *Braille) DrawLine(x0, y0, x1, y1 int, ink color.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Braille) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func round(v float64) int { return int(math.Floor(v + 0.5)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
