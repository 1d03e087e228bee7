package flow

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/backdrop/internal/field"
	"github.com/san-kum/backdrop/internal/render"
)

const (
	MinTrail   = 10
	MaxTrail   = 209
	MaxSpeed   = 5
	Saturation = 0.30
	Lightness  = 0.50
)

// Env is everything a particle needs from its simulation.
type Env struct {
	Field         *field.Field
	Width, Height float64
	Rand          *rand.Rand
	Saturation    float64
	Lightness     float64
}

// Particle is one moving trail point.
type Particle struct {
	X, Y     float64
	Heading  float64
	Speed    int
	Trail    []render.Point
	MaxTrail int
	Life     int
	Color    color.NRGBA
	CSS      string
	Width    float64
}

// Spawn creates a particle at a uniform-random whole-pixel position.
func Spawn(e *Env) Particle {
	p := Particle{
		Speed:    e.Rand.Intn(MaxSpeed) + 1,
		MaxTrail: e.Rand.Intn(MaxTrail-MinTrail+1) + MinTrail,
	}
	p.place(e)
	p.Width = math.Floor(e.Rand.Float64()*0.4 + 1)
	return p
}

// Respawn moves the particle to a fresh random position with a new trail,
// full life and a colour matching its new x. Speed and trail capacity are
// kept.
func (p *Particle) Respawn(e *Env) { p.place(e) }

func (p *Particle) place(e *Env) {
	p.X = math.Floor(e.Rand.Float64() * e.Width)
	p.Y = math.Floor(e.Rand.Float64() * e.Height)
	p.Trail = append(p.Trail[:0], render.Point{X: p.X, Y: p.Y})
	p.Life = 2 * p.MaxTrail
	hue := p.X / e.Width * 360
	p.Color = render.HSL(hue, e.Saturation, e.Lightness)
	p.CSS = render.CSSHSL(hue, e.Saturation, e.Lightness)
}

// InBounds reports whether the particle sits inside the raster.
func (p *Particle) InBounds(e *Env) bool {
	return p.X >= 0 && p.X < e.Width && p.Y >= 0 && p.Y < e.Height
}

// Tick advances the particle by one step.
func (p *Particle) Tick(e *Env) {
	p.Life--

	if p.Life >= 1 {
		if !p.InBounds(e) {
			p.Respawn(e)
			return
		}

		p.Heading = e.Field.HeadingAt(p.X, p.Y)
		speed := float64(p.Speed)
		p.X += math.Cos(p.Heading) * speed
		p.Y += math.Sin(p.Heading) * speed

		p.Trail = append(p.Trail, render.Point{X: p.X, Y: p.Y})
		if len(p.Trail) > p.MaxTrail {
			p.shrink()
		}
		return
	}

	if len(p.Trail) > 1 {
		p.shrink()
		return
	}
	p.Respawn(e)
}

// shrink drops the oldest trail point in place.
func (p *Particle) shrink() {
	n := copy(p.Trail, p.Trail[1:])
	p.Trail = p.Trail[:n]
}

// Render strokes the trail.
func (p *Particle) Render(dst render.Surface) {
	dst.Polyline(p.Trail, p.Color, p.Width)
}
