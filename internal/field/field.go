// Package field builds the direction fields that steer flow particles.
//
// A [Field] is a rows x columns grid of headings in radians, computed once
// from a closed-form function of the grid coordinates and never mutated
// afterwards.
package field

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

const (
	DefaultZoom  = 0.1
	DefaultCurve = 1.0
)

// Func maps a grid coordinate to a heading in radians.
type Func func(x, y int) float64

// Field is an immutable grid of headings.
type Field struct {
	rows, columns int
	cellSize      int
	angles        []float64
}

// Trig is the classic flow: (cos(x·zoom) + sin(y·zoom)) · curve.
func Trig(zoom, curve float64) Func {
	return func(x, y int) float64 {
		return (math.Cos(float64(x)*zoom) + math.Sin(float64(y)*zoom)) * curve
	}
}

// Simplex samples 2D OpenSimplex noise, mapped to [-π, π]·curve. The same
// seed always yields the same field.
func Simplex(zoom, curve float64, seed int64) Func {
	noise := opensimplex.New(seed)
	return func(x, y int) float64 {
		return noise.Eval2(float64(x)*zoom, float64(y)*zoom) * math.Pi * curve
	}
}

// New builds a field covering a width x height raster with square cells of
// cellSize pixels. Degenerate sizes still produce at least one cell so every
// lookup has somewhere to land.
func New(width, height, cellSize int, fn Func) *Field {
	if cellSize < 1 {
		cellSize = 1
	}
	f := &Field{
		rows:     max(height/cellSize, 1),
		columns:  max(width/cellSize, 1),
		cellSize: cellSize,
	}
	f.angles = make([]float64, 0, f.rows*f.columns)
	for y := 0; y < f.rows; y++ {
		for x := 0; x < f.columns; x++ {
			f.angles = append(f.angles, fn(x, y))
		}
	}
	return f
}

// NewTrig is New with the Trig function.
func NewTrig(width, height, cellSize int, zoom, curve float64) *Field {
	return New(width, height, cellSize, Trig(zoom, curve))
}

// NewSimplex is New with a seeded Simplex function.
func NewSimplex(width, height, cellSize int, zoom, curve float64, seed int64) *Field {
	return New(width, height, cellSize, Simplex(zoom, curve, seed))
}

func (f *Field) Rows() int     { return f.rows }
func (f *Field) Columns() int  { return f.columns }
func (f *Field) CellSize() int { return f.cellSize }

// AngleAt returns the heading of a grid cell, clamping the coordinate to the
// grid.
func (f *Field) AngleAt(gx, gy int) float64 {
	gx = clamp(gx, 0, f.columns-1)
	gy = clamp(gy, 0, f.rows-1)
	return f.angles[gy*f.columns+gx]
}

// Cell maps a continuous raster position to its grid cell: floor, then clamp.
// Positions on the ragged right/bottom strip that no whole cell covers land
// on the last row/column.
func (f *Field) Cell(px, py float64) (gx, gy int) {
	gx = int(math.Floor(px / float64(f.cellSize)))
	gy = int(math.Floor(py / float64(f.cellSize)))
	return clamp(gx, 0, f.columns-1), clamp(gy, 0, f.rows-1)
}

// HeadingAt is AngleAt(Cell(px, py)).
func (f *Field) HeadingAt(px, py float64) float64 {
	return f.AngleAt(f.Cell(px, py))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
