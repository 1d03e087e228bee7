package flow

import (
	"image/color"
	"math/rand"

	"github.com/san-kum/backdrop/internal/field"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/telemetry"
)

const DefaultParticles = 1000

// DefaultFade is laid over the previous frame before drawing, so old trail
// segments decay instead of disappearing.
var DefaultFade = color.NRGBA{R: 10, A: 13}

// Config describes one flow simulation. Zoom, Curve, Saturation and
// Lightness are used as given, zero included; start from DefaultConfig.
type Config struct {
	Width, Height int
	// CellSize <= 0 picks a random size in [10, 29].
	CellSize   int
	Particles  int
	Zoom       float64
	Curve      float64
	Noise      bool
	Seed       int64
	Fade       color.NRGBA
	Saturation float64
	Lightness  float64
	ShowGrid   bool
}

// DefaultConfig is the header flow for a width x height raster.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:      width,
		Height:     height,
		Particles:  DefaultParticles,
		Zoom:       field.DefaultZoom,
		Curve:      field.DefaultCurve,
		Fade:       DefaultFade,
		Saturation: Saturation,
		Lightness:  Lightness,
	}
}

// Simulation owns the field and the particle population.
type Simulation struct {
	cfg       Config
	env       Env
	particles []Particle
	frames    int
}

// New builds the field and spawns the full population.
func New(cfg Config, rng *rand.Rand) *Simulation {
	cfg.Width, cfg.Height = max(cfg.Width, 1), max(cfg.Height, 1)
	if cfg.CellSize <= 0 {
		cfg.CellSize = rng.Intn(20) + 10
	}
	if cfg.Particles <= 0 {
		cfg.Particles = DefaultParticles
	}

	s := &Simulation{cfg: cfg}
	s.Init(rng)
	return s
}

// Init rebuilds the field and spawns a fresh population, dropping whatever
// was there before.
func (s *Simulation) Init(rng *rand.Rand) {
	fn := field.Trig(s.cfg.Zoom, s.cfg.Curve)
	if s.cfg.Noise {
		fn = field.Simplex(s.cfg.Zoom, s.cfg.Curve, s.cfg.Seed)
	}
	s.env = Env{
		Field:      field.New(s.cfg.Width, s.cfg.Height, s.cfg.CellSize, fn),
		Width:      float64(s.cfg.Width),
		Height:     float64(s.cfg.Height),
		Rand:       rng,
		Saturation: s.cfg.Saturation,
		Lightness:  s.cfg.Lightness,
	}
	s.Reset()
	s.particles = make([]Particle, s.cfg.Particles)
	for i := range s.particles {
		s.particles[i] = Spawn(&s.env)
	}
}

// Reset discards every particle.
func (s *Simulation) Reset() {
	s.particles = nil
	s.frames = 0
}

// Frame fades the surface, then draws and advances each particle in turn.
func (s *Simulation) Frame(dst render.Surface) {
	if s.cfg.Fade.A > 0 {
		dst.Fill(s.cfg.Fade)
	}
	if s.cfg.ShowGrid {
		s.drawGrid(dst)
	}
	for i := range s.particles {
		p := &s.particles[i]
		p.Render(dst)
		p.Tick(&s.env)
	}
	s.frames++
}

// Tick advances every particle without drawing.
func (s *Simulation) Tick() {
	for i := range s.particles {
		s.particles[i].Tick(&s.env)
	}
	s.frames++
}

func (s *Simulation) drawGrid(dst render.Surface) {
	f := s.env.Field
	cs := float64(f.CellSize())
	for c := 0; c < f.Columns(); c++ {
		x := cs * float64(c)
		render.Line(dst, x, 0, x, s.env.Height, color.Black, 0.3)
	}
	for r := 0; r < f.Rows(); r++ {
		y := cs * float64(r)
		render.Line(dst, 0, y, s.env.Width, y, color.Black, 0.3)
	}
}

func (s *Simulation) Config() Config        { return s.cfg }
func (s *Simulation) Field() *field.Field   { return s.env.Field }
func (s *Simulation) Particles() []Particle { return s.particles }

// Steps is the number of frames advanced since Init.
func (s *Simulation) Steps() int { return s.frames }

// TrailLengths lists every particle's current trail length.
func (s *Simulation) TrailLengths() []float64 {
	out := make([]float64, len(s.particles))
	for i := range s.particles {
		out[i] = float64(len(s.particles[i].Trail))
	}
	return out
}

// Stats samples the population.
func (s *Simulation) Stats() telemetry.Sample {
	mean, std := telemetry.TrailStats(s.TrailLengths())
	return telemetry.Sample{
		Frame:     s.frames,
		Steps:     s.frames,
		Particles: len(s.particles),
		MeanTrail: mean,
		StdTrail:  std,
	}
}
