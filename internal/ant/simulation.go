package ant

import (
	"image/color"
	"time"

	"github.com/san-kum/backdrop/internal/grid"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/telemetry"
)

var (
	DefaultBackground = render.MustHex("#ffffff")
	DefaultTrail      = render.MustHex("#e5e7eb")
	DefaultAnt        = render.MustHex("#3b82f6")
	DefaultGlyph      = render.MustHex("#ffffff")
)

// Config describes one automaton simulation.
type Config struct {
	Width, Height int
	CellSize      int
	Heading       Heading
	Background    color.Color
	Trail         color.Color
	Ant           color.Color
	Glyph         color.Color
	// Now stamps cell writes; nil means time.Now.
	Now func() time.Time
}

// Simulation owns one ant and its grid.
type Simulation struct {
	cfg   Config
	grid  *grid.Grid
	ant   Ant
	steps int
}

// New sizes the grid to the raster and puts the ant in the middle.
func New(cfg Config) *Simulation {
	if cfg.CellSize < 1 {
		cfg.CellSize = 1
	}
	if cfg.Background == nil {
		cfg.Background = DefaultBackground
	}
	if cfg.Trail == nil {
		cfg.Trail = DefaultTrail
	}
	if cfg.Ant == nil {
		cfg.Ant = DefaultAnt
	}
	if cfg.Glyph == nil {
		cfg.Glyph = DefaultGlyph
	}
	s := &Simulation{
		cfg:  cfg,
		grid: grid.New(cfg.Width/cfg.CellSize, cfg.Height/cfg.CellSize, cfg.Now),
	}
	s.Reset()
	return s
}

// Reset wipes the grid and recentres the ant.
func (s *Simulation) Reset() {
	s.grid.Clear()
	s.ant = Ant{
		X:       s.grid.Columns() / 2,
		Y:       s.grid.Rows() / 2,
		Heading: s.cfg.Heading,
	}
	s.steps = 0
}

// Tick applies one step of the rule.
func (s *Simulation) Tick() {
	s.ant.Step(s.grid)
	s.steps++
}

// Frame ticks, then renders the result.
func (s *Simulation) Frame(dst render.Surface) {
	s.Tick()
	s.Render(dst)
}

// Render clears to the background and draws black cells and the ant.
func (s *Simulation) Render(dst render.Surface) {
	dst.Fill(s.cfg.Background)

	cs := float64(s.cfg.CellSize)
	side := cs - 1
	if s.cfg.CellSize == 1 {
		side = 1
	}
	s.grid.Each(func(x, y int, c grid.Cell) {
		if c.State == grid.Black {
			dst.RoundRect(float64(x)*cs, float64(y)*cs, side, side, 1, s.cfg.Trail)
		}
	})

	ax, ay := float64(s.ant.X)*cs, float64(s.ant.Y)*cs
	dst.RoundRect(ax, ay, side, side, 2, s.cfg.Ant)
	dst.Glyph(ax+cs/2, ay+cs/2, s.ant.Heading.Glyph(), s.cfg.Glyph)
}

func (s *Simulation) Config() Config   { return s.cfg }
func (s *Simulation) Ant() Ant         { return s.ant }
func (s *Simulation) Grid() *grid.Grid { return s.grid }

// Steps is the number of ticks since the last reset.
func (s *Simulation) Steps() int { return s.steps }

// Stats samples the grid.
func (s *Simulation) Stats() telemetry.Sample {
	return telemetry.Sample{
		Frame: s.steps,
		Steps: s.steps,
		Cells: s.grid.Len(),
		Black: s.grid.Count(grid.Black),
	}
}

// Place moves the ant, wrapping the coordinate onto the grid.
func (s *Simulation) Place(x, y int, h Heading) {
	s.ant = Ant{X: wrap(x, s.grid.Columns()), Y: wrap(y, s.grid.Rows()), Heading: h}
}
