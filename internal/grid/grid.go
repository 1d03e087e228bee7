// Package grid stores per-cell state for a fixed-size integer grid.
//
// Cells live in a dense slice indexed by y*columns+x. A cell that was never
// written reads as White with a zero timestamp; the grid tracks which cells
// have been written so callers can walk only those.
package grid

import "time"

// State is a binary cell colour.
type State uint8

const (
	White State = iota
	Black
)

// Flip returns the other colour.
func (s State) Flip() State { return s ^ 1 }

// Cell is one stored grid cell.
type Cell struct {
	State   State
	Changed time.Time
}

// Grid is a dense columns x rows cell store.
type Grid struct {
	columns, rows int
	cells         []Cell
	written       []bool
	stored        int
	now           func() time.Time
}

// New allocates an all-white grid. now stamps writes; nil means time.Now.
func New(columns, rows int, now func() time.Time) *Grid {
	columns = max(columns, 1)
	rows = max(rows, 1)
	if now == nil {
		now = time.Now
	}
	return &Grid{
		columns: columns,
		rows:    rows,
		cells:   make([]Cell, columns*rows),
		written: make([]bool, columns*rows),
		now:     now,
	}
}

func (g *Grid) Columns() int { return g.columns }
func (g *Grid) Rows() int    { return g.rows }

// Contains reports whether (x, y) is on the grid.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.columns && y >= 0 && y < g.rows
}

// Get returns the cell at (x, y). Off-grid reads return the default cell.
func (g *Grid) Get(x, y int) Cell {
	if !g.Contains(x, y) {
		return Cell{}
	}
	return g.cells[y*g.columns+x]
}

// Set writes a cell and stamps it. Off-grid writes are dropped and reported
// as false.
func (g *Grid) Set(x, y int, s State) bool {
	if !g.Contains(x, y) {
		return false
	}
	i := y*g.columns + x
	g.cells[i] = Cell{State: s, Changed: g.now()}
	if !g.written[i] {
		g.written[i] = true
		g.stored++
	}
	return true
}

// Len is the number of distinct cells ever written. It never decreases
// until Clear.
func (g *Grid) Len() int { return g.stored }

// Count returns how many written cells currently hold s.
func (g *Grid) Count(s State) int {
	n := 0
	g.Each(func(_, _ int, c Cell) {
		if c.State == s {
			n++
		}
	})
	return n
}

// Each visits written cells in row-major order.
func (g *Grid) Each(fn func(x, y int, c Cell)) {
	for i, ok := range g.written {
		if ok {
			fn(i%g.columns, i/g.columns, g.cells[i])
		}
	}
}

// Clear forgets every cell.
func (g *Grid) Clear() {
	clear(g.cells)
	clear(g.written)
	g.stored = 0
}
