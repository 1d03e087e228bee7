package scheduler

import (
	"context"
	"time"

	"github.com/san-kum/backdrop/internal/render"
	"k8s.io/klog/v2"
)

// Animation is one tick-able simulation. Frame advances exactly one tick and
// draws it, in whatever order the animation defines.
type Animation interface {
	Frame(dst render.Surface)
	Steps() int
}

// Renderer is implemented by animations that can draw without ticking. The
// scheduler uses it to paint the first frame right after construction.
type Renderer interface {
	Render(dst render.Surface)
}

// Factory builds a fresh animation for a w x h surface.
type Factory func(w, h int) Animation

// SurfaceFactory acquires a w x h surface, or nil if none is available.
type SurfaceFactory func(w, h int) render.Surface

// Options configure a Scheduler. Zero values pick a system clock, no
// throttling and raster surfaces.
type Options struct {
	Interval time.Duration
	Clock    Clock
	Surface  SurfaceFactory
}

// Scheduler paces one animation.
type Scheduler struct {
	name       string
	build      Factory
	newSurface SurfaceFactory
	interval   time.Duration
	clock      Clock

	anim    Animation
	surface render.Surface
	last    time.Time
	running bool
	hidden  bool
	ticks   int

	observers []func(Animation)
}

// New prepares a scheduler; nothing is built until Start.
func New(name string, build Factory, opts Options) *Scheduler {
	s := &Scheduler{
		name:       name,
		build:      build,
		newSurface: opts.Surface,
		interval:   opts.Interval,
		clock:      opts.Clock,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.newSurface == nil {
		s.newSurface = func(w, h int) render.Surface { return render.NewRaster(w, h) }
	}
	if s.interval < 0 {
		s.interval = 0
	}
	return s
}

// Observe registers fn to run after every tick.
func (s *Scheduler) Observe(fn func(Animation)) {
	s.observers = append(s.observers, fn)
}

// Start acquires a surface, builds the animation and paints its initial
// frame when it can render without ticking. Sizes below 1 are raised to 1.
func (s *Scheduler) Start(w, h int) error {
	// a minimized window reports 0x0; the animation and its surface must
	// still agree on a drawable size
	w, h = max(w, 1), max(h, 1)
	surface := s.newSurface(w, h)
	if surface == nil {
		s.running = false
		return ErrSurfaceUnavailable
	}
	s.surface = surface
	s.anim = s.build(w, h)
	s.last = time.Time{}
	s.ticks = 0
	if r, ok := s.anim.(Renderer); ok {
		r.Render(s.surface)
	}
	s.running = true
	klog.V(1).Infof("%s: started %dx%d (interval %s)", s.name, w, h, s.interval)
	return nil
}

// Frame is called once per display refresh. It reports whether a tick ran.
func (s *Scheduler) Frame() bool {
	if !s.running || s.hidden {
		return false
	}
	now := s.clock.Now()
	if s.interval > 0 && !s.last.IsZero() && now.Sub(s.last) <= s.interval {
		return false
	}

	s.anim.Frame(s.surface)
	s.last = now
	s.ticks++
	for _, fn := range s.observers {
		fn(s.anim)
	}
	if klog.V(3).Enabled() {
		klog.Infof("%s: tick %d (steps %d)", s.name, s.ticks, s.anim.Steps())
	}
	return true
}

// Resize discards the animation and its surface and rebuilds both for the
// new size. Nothing carries over.
func (s *Scheduler) Resize(w, h int) error {
	klog.V(1).Infof("%s: resize to %dx%d", s.name, w, h)
	s.anim = nil
	s.surface = nil
	return s.Start(w, h)
}

// SetVisible pauses (false) or resumes (true) ticking.
func (s *Scheduler) SetVisible(visible bool) {
	if s.hidden == !visible {
		return
	}
	s.hidden = !visible
	klog.V(1).Infof("%s: visible=%t", s.name, visible)
}

// Stop ends the animation; later frames are ignored until Start.
func (s *Scheduler) Stop() {
	if s.running {
		klog.V(1).Infof("%s: stopped after %d ticks", s.name, s.ticks)
	}
	s.running = false
}

// Run calls Frame at every refresh until ctx is done.
func (s *Scheduler) Run(ctx context.Context, refresh time.Duration) error {
	if !s.running {
		return ErrNotRunning
	}
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-ticker.C:
			s.Frame()
		}
	}
}

func (s *Scheduler) Name() string { return s.name }
func (s *Scheduler) Running() bool { return s.running }
func (s *Scheduler) Visible() bool { return !s.hidden }
func (s *Scheduler) Animation() Animation { return s.anim }
func (s *Scheduler) Surface() render.Surface { return s.surface }
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Ticks counts Frame calls that advanced the animation since Start.
func (s *Scheduler) Ticks() int { return s.ticks }
