package engine

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/telemetry"
)

// Result is the outcome of one ensemble member.
type Result struct {
	Seed    int64
	Frames  int
	Elapsed time.Duration
	Final   telemetry.Sample
}

// FramesPerSecond is the member's raw throughput.
func (r Result) FramesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// Ensemble renders the same configuration under consecutive seeds.
type Ensemble struct {
	reg       *Registry
	base      config.Config
	numRuns   int
	seedStart int64
	limit     int
	surface   scheduler.SurfaceFactory
}

func NewEnsemble(reg *Registry, cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		reg:       reg,
		base:      *cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		limit:     runtime.NumCPU(),
		surface:   func(w, h int) render.Surface { return render.NewRaster(w, h) },
	}
}

// SetLimit caps how many members run at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// SetSurface replaces the raster surfaces members draw on.
func (e *Ensemble) SetSurface(fn scheduler.SurfaceFactory) {
	e.surface = fn
}

// Run advances every member by frames ticks. The first error cancels the
// rest.
func (e *Ensemble) Run(ctx context.Context, frames int) ([]Result, error) {
	results := make([]Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			cfg := e.base
			cfg.Seed = e.seedStart + int64(i)

			factory, err := e.reg.Factory(&cfg)
			if err != nil {
				return err
			}
			w, h := cfg.Surface.Width, cfg.Surface.Height
			surface := e.surface(w, h)
			if surface == nil {
				return scheduler.ErrSurfaceUnavailable
			}
			anim := factory(w, h)

			start := time.Now()
			for f := 0; f < frames; f++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				anim.Frame(surface)
			}

			r := Result{Seed: cfg.Seed, Frames: frames, Elapsed: time.Since(start)}
			if s, ok := anim.(Sampler); ok {
				r.Final = s.Stats()
			}
			results[i] = r
			klog.V(2).Infof("ensemble: seed %d done in %s", cfg.Seed, r.Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
