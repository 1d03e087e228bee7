package export

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/backdrop/internal/ant"
	"github.com/san-kum/backdrop/internal/flow"
	"github.com/san-kum/backdrop/internal/render"
)

// SVG is a render.Surface that emits SVG elements instead of pixels.
type SVG struct {
	w, h int
	sb   strings.Builder
}

func NewSVG(w, h int) *SVG {
	s := &SVG{w: max(w, 1), h: max(h, 1)}
	fmt.Fprintf(&s.sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.w, s.h, s.w, s.h)
	return s
}

func (s *SVG) Size() (int, int) { return s.w, s.h }

func (s *SVG) Fill(c color.Color) {
	fmt.Fprintf(&s.sb, `<rect width="100%%" height="100%%" %s/>`+"\n", paint("fill", c))
}

func (s *SVG) Polyline(pts []render.Point, c color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	s.sb.WriteString(`<polyline fill="none" stroke-linecap="round" stroke-linejoin="round" `)
	fmt.Fprintf(&s.sb, `stroke-width="%s" %s points="`, num(width), paint("stroke", c))
	for i, p := range pts {
		if i > 0 {
			s.sb.WriteByte(' ')
		}
		fmt.Fprintf(&s.sb, "%s,%s", num(p.X), num(p.Y))
	}
	s.sb.WriteString(`"/>` + "\n")
}

func (s *SVG) RoundRect(x, y, w, h, radius float64, c color.Color) {
	fmt.Fprintf(&s.sb, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" %s/>`+"\n",
		num(x), num(y), num(w), num(h), num(radius), paint("fill", c))
}

func (s *SVG) Glyph(x, y float64, text string, c color.Color) {
	fmt.Fprintf(&s.sb, `<text x="%s" y="%s" font-family="monospace" font-size="10" text-anchor="middle" dominant-baseline="central" %s>%s</text>`+"\n",
		num(x), num(y), paint("fill", c), html.EscapeString(text))
}

// String closes the document.
func (s *SVG) String() string {
	return s.sb.String() + "</svg>"
}

// TrailsSVG draws every particle trail of a flow simulation without
// advancing it.
func TrailsSVG(sim *flow.Simulation) string {
	cfg := sim.Config()
	s := NewSVG(cfg.Width, cfg.Height)
	for _, p := range sim.Particles() {
		p.Render(s)
	}
	return s.String()
}

// CellsSVG draws the automaton grid and the ant as they stand.
func CellsSVG(sim *ant.Simulation) string {
	cfg := sim.Config()
	s := NewSVG(cfg.Width, cfg.Height)
	sim.Render(s)
	return s.String()
}

// BrailleSVG converts a Braille canvas to SVG, one circle per lit dot.
func BrailleSVG(canvas *render.Braille, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	dotRadius := scale * 0.4
	w, h := canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			ink := color.Color(color.White)
			if c := canvas.Ink[y/4][x/2]; c != nil {
				ink = c
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" %s/>`+"\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, paint("fill", ink))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// paint renders a colour attribute, adding an opacity attribute for
// translucent colours.
func paint(attr string, c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	out := fmt.Sprintf(`%s="#%02x%02x%02x"`, attr, n.R, n.G, n.B)
	if n.A < 255 {
		out += fmt.Sprintf(` %s-opacity="%s"`, attr, num(float64(n.A)/255))
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
