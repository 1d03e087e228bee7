// Package ant implements Langton's Ant on a toroidal grid.
//
// The ant stands on a cell, flips its colour and turns: right on white,
// left on black. It then moves one cell forward, wrapping around the grid
// edges. The process never terminates on its own.
package ant

import "github.com/san-kum/backdrop/internal/grid"

// Heading is a compass direction; the N→E→S→W order defines "right".
type Heading uint8

const (
	North Heading = iota
	East
	South
	West
)

var (
	deltas = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	glyphs = [4]string{"^", ">", "v", "<"}
	names  = [4]string{"N", "E", "S", "W"}
)

// Right rotates +90°.
func (h Heading) Right() Heading { return (h + 1) % 4 }

// Left rotates -90°.
func (h Heading) Left() Heading { return (h + 3) % 4 }

// Delta is the unit step in screen coordinates (y grows downwards).
func (h Heading) Delta() (dx, dy int) { return deltas[h%4][0], deltas[h%4][1] }

// Glyph is an ASCII arrow pointing along h.
func (h Heading) Glyph() string { return glyphs[h%4] }

func (h Heading) String() string { return names[h%4] }

// ParseHeading accepts N, E, S or W.
func ParseHeading(s string) (Heading, bool) {
	for i, n := range names {
		if n == s {
			return Heading(i), true
		}
	}
	return North, false
}

// Ant is the automaton cursor.
type Ant struct {
	X, Y    int
	Heading Heading
}

// Step applies one rule application to g and moves the ant.
func (a *Ant) Step(g *grid.Grid) {
	if g.Get(a.X, a.Y).State == grid.White {
		g.Set(a.X, a.Y, grid.Black)
		a.Heading = a.Heading.Right()
	} else {
		g.Set(a.X, a.Y, grid.White)
		a.Heading = a.Heading.Left()
	}

	dx, dy := a.Heading.Delta()
	a.X = wrap(a.X+dx, g.Columns())
	a.Y = wrap(a.Y+dy, g.Rows())
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
