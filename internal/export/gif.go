package export

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNoFrames is returned when saving a recorder that captured nothing.
var ErrNoFrames = errors.New("export: no frames captured")

// GIFRecorder accumulates rendered frames into an animated GIF.
type GIFRecorder struct {
	frames []*image.Paletted
	delay  int
	limit  int
}

// NewGIFRecorder records frames shown for interval each. limit caps the
// number of frames kept; 0 means unlimited.
func NewGIFRecorder(interval time.Duration, limit int) *GIFRecorder {
	delay := int(interval / (10 * time.Millisecond))
	if delay < 2 {
		delay = 2
	}
	return &GIFRecorder{delay: delay, limit: limit}
}

// Capture quantizes img onto the Plan 9 palette and appends it. It reports
// false once the limit is reached.
func (r *GIFRecorder) Capture(img image.Image) bool {
	if r.limit > 0 && len(r.frames) >= r.limit {
		return false
	}
	b := img.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(frame, frame.Bounds(), img, b.Min)
	r.frames = append(r.frames, frame)
	return true
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return errors.Wrap(gif.EncodeAll(w, &anim), "encode gif")
}

func (r *GIFRecorder) Save(path string) (err error) {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create gif")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "close gif")
		}
	}()
	if err := r.Encode(f); err != nil {
		return err
	}
	klog.V(1).Infof("export: wrote %d frames to %s", len(r.frames), path)
	return nil
}
