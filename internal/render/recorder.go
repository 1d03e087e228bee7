package render

import "image/color"

// Op names a recorded draw call.
type Op string

const (
	OpFill      Op = "fill"
	OpPolyline  Op = "polyline"
	OpRoundRect Op = "roundrect"
	OpGlyph     Op = "glyph"
)

// Call is one recorded draw call.
type Call struct {
	Op     Op
	Points []Point
	Rect   [4]float64
	Text   string
	Color  color.Color
	Width  float64
}

// Recorder is a Surface that keeps every draw call instead of painting.
type Recorder struct {
	W, H  int
	Calls []Call
}

func NewRecorder(w, h int) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Fill(c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpFill, Color: c})
}

func (r *Recorder) Polyline(pts []Point, c color.Color, width float64) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.Calls = append(r.Calls, Call{Op: OpPolyline, Points: cp, Color: c, Width: width})
}

func (r *Recorder) RoundRect(x, y, w, h, _ float64, c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpRoundRect, Rect: [4]float64{x, y, w, h}, Color: c})
}

func (r *Recorder) Glyph(x, y float64, s string, c color.Color) {
	r.Calls = append(r.Calls, Call{Op: OpGlyph, Rect: [4]float64{x, y, 0, 0}, Text: s, Color: c})
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }
