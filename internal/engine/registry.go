package engine

import (
	"image/color"
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/ant"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/flow"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/telemetry"
)

// Builder prepares a factory for one simulation from a sanitized config.
type Builder func(cfg *config.Config, rng *rand.Rand) (scheduler.Factory, error)

// Sampler is implemented by every registered animation.
type Sampler interface {
	Stats() telemetry.Sample
}

type Registry struct {
	sims map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{sims: make(map[string]Builder)}
	r.Register("flow", buildFlow)
	r.Register("ant", buildAnt)
	return r
}

// Register adds or replaces a builder.
func (r *Registry) Register(name string, b Builder) {
	r.sims[name] = b
}

func (r *Registry) Get(name string) (Builder, error) {
	b, ok := r.sims[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSimulation, "%q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return b, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sims))
	for name := range r.sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory sanitizes cfg and resolves its simulation. The returned factory
// draws from an rng seeded with cfg.Seed.
func (r *Registry) Factory(cfg *config.Config) (scheduler.Factory, error) {
	cfg.Sanitize()
	b, err := r.Get(cfg.Simulation)
	if err != nil {
		return nil, err
	}
	return b(cfg, rand.New(rand.NewSource(cfg.Seed)))
}

// NewScheduler wires a factory into a scheduler paced by the configured
// tick interval.
func (r *Registry) NewScheduler(cfg *config.Config, opts scheduler.Options) (*scheduler.Scheduler, error) {
	factory, err := r.Factory(cfg)
	if err != nil {
		return nil, err
	}
	opts.Interval = cfg.TickInterval()
	klog.V(1).Infof("engine: %s seed=%d interval=%s", cfg.Simulation, cfg.Seed, opts.Interval)
	return scheduler.New(cfg.Simulation, factory, opts), nil
}

func buildFlow(cfg *config.Config, rng *rand.Rand) (scheduler.Factory, error) {
	fade, err := render.Hex(cfg.Flow.FadeColor)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	fade = render.WithAlpha(fade, cfg.Flow.FadeAlpha)

	fc := flow.Config{
		CellSize:   cfg.Surface.CellSize,
		Particles:  cfg.Flow.Particles,
		Zoom:       cfg.Flow.Zoom,
		Curve:      cfg.Flow.Curve,
		Noise:      cfg.Flow.Noise,
		Seed:       cfg.Seed,
		Fade:       fade,
		Saturation: cfg.Flow.Saturation,
		Lightness:  cfg.Flow.Lightness,
		ShowGrid:   cfg.Flow.ShowGrid,
	}
	return func(w, h int) scheduler.Animation {
		c := fc
		c.Width, c.Height = w, h
		return flow.New(c, rng)
	}, nil
}

func buildAnt(cfg *config.Config, _ *rand.Rand) (scheduler.Factory, error) {
	name := strings.ToUpper(cfg.Ant.StartHeading)
	if name == "" {
		name = config.DefaultHeading
	}
	heading, ok := ant.ParseHeading(name)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConfig, "start heading %q", cfg.Ant.StartHeading)
	}

	ac := ant.Config{CellSize: cfg.Surface.CellSize, Heading: heading}
	colours := []struct {
		hex string
		dst *color.Color
	}{
		{cfg.Ant.Background, &ac.Background},
		{cfg.Ant.TrailColor, &ac.Trail},
		{cfg.Ant.AntColor, &ac.Ant},
		{cfg.Ant.GlyphColor, &ac.Glyph},
	}
	for _, c := range colours {
		if c.hex == "" {
			continue
		}
		v, err := render.Hex(c.hex)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		*c.dst = v
	}

	return func(w, h int) scheduler.Animation {
		c := ac
		c.Width, c.Height = w, h
		return ant.New(c)
	}, nil
}
