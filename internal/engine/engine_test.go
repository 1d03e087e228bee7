package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/san-kum/backdrop/internal/ant"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/flow"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scheduler"
)

func TestRegistryNames(t *testing.T) {
	names := NewRegistry().Names()
	if len(names) != 2 || names[0] != "ant" || names[1] != "flow" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestRegistryUnknown(t *testing.T) {
	_, err := NewRegistry().Get("boids")
	if !errors.Is(err, ErrUnknownSimulation) {
		t.Errorf("expected ErrUnknownSimulation, got %v", err)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("flow", func(*config.Config, *rand.Rand) (scheduler.Factory, error) {
		return nil, ErrInvalidConfig
	})
	if names := r.Names(); len(names) != 2 {
		t.Errorf("replacing a builder changed the names: %v", names)
	}
	if _, err := r.Factory(config.DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected the replacement builder to run, got %v", err)
	}
}

func TestFactoryFlow(t *testing.T) {
	cfg := config.GetPreset("flow", "storm")
	cfg.Flow.Particles = 50

	factory, err := NewRegistry().Factory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim, ok := factory(240, 120).(*flow.Simulation)
	if !ok {
		t.Fatal("expected a flow simulation")
	}
	fc := sim.Config()
	if fc.Width != 240 || fc.Height != 120 || fc.CellSize != 12 || len(sim.Particles()) != 50 {
		t.Errorf("unexpected flow config %+v", fc)
	}
	if fc.Fade.R != 10 || fc.Fade.A != 13 {
		t.Errorf("fade colour not applied: %+v", fc.Fade)
	}
}

func TestFactoryFlowKeepsZeroSaturation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Flow.Particles = 5
	cfg.Flow.Saturation = 0

	factory, err := NewRegistry().Factory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim := factory(100, 100).(*flow.Simulation)
	if s := sim.Config().Saturation; s != 0 {
		t.Errorf("saturation rewritten to %v", s)
	}
	for _, p := range sim.Particles() {
		if p.Color.R != p.Color.G || p.Color.G != p.Color.B {
			t.Errorf("expected a gray particle, got %+v", p.Color)
		}
	}
}

func TestFactoryAnt(t *testing.T) {
	cfg := config.GetPreset("ant", "dark")
	cfg.Ant.StartHeading = "e"

	factory, err := NewRegistry().Factory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim := factory(400, 200).(*ant.Simulation)
	if sim.Ant().Heading != ant.East {
		t.Errorf("expected east, got %s", sim.Ant().Heading)
	}
	if sim.Grid().Columns() != 100 || sim.Grid().Rows() != 50 {
		t.Errorf("unexpected grid %dx%d", sim.Grid().Columns(), sim.Grid().Rows())
	}
	if sim.Config().Background != render.MustHex("#111827") {
		t.Errorf("background not applied: %v", sim.Config().Background)
	}
}

func TestFactoryInvalid(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Config)
	}{
		{"bad fade", func(c *config.Config) { c.Flow.FadeColor = "tomato" }},
		{"bad heading", func(c *config.Config) { c.Simulation = "ant"; c.Ant.StartHeading = "up" }},
		{"bad trail", func(c *config.Config) { c.Simulation = "ant"; c.Ant.TrailColor = "#zz" }},
	}
	for _, tt := range tests {
		cfg := config.DefaultConfig()
		tt.edit(cfg)
		if _, err := NewRegistry().Factory(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestNewScheduler(t *testing.T) {
	cfg := config.GetPreset("ant", "backdrop")
	s, err := NewRegistry().NewScheduler(cfg, scheduler.Options{
		Surface: func(w, h int) render.Surface { return render.NewRecorder(w, h) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Interval() != cfg.TickInterval() {
		t.Errorf("interval %s, want %s", s.Interval(), cfg.TickInterval())
	}
	if err := s.Start(80, 80); err != nil {
		t.Fatal(err)
	}
	if !s.Frame() {
		t.Error("first frame should tick")
	}
}

func TestEnsembleRun(t *testing.T) {
	cfg := config.GetPreset("ant", "fast")
	cfg.Surface.Width, cfg.Surface.Height = 100, 100

	e := NewEnsemble(NewRegistry(), cfg, 4, 10)
	e.SetLimit(2)
	e.SetSurface(func(w, h int) render.Surface { return render.NewRecorder(w, h) })
	results, err := e.Run(context.Background(), 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) || r.Frames != 200 || r.Final.Steps != 200 {
			t.Errorf("result %d: %+v", i, r)
		}
		// The ant is deterministic, so every seed agrees.
		if r.Final.Black != results[0].Final.Black {
			t.Errorf("result %d diverged: %d black cells", i, r.Final.Black)
		}
	}
}

func TestEnsembleCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEnsemble(NewRegistry(), config.DefaultConfig(), 3, 0)
	e.SetSurface(func(w, h int) render.Surface { return render.NewRecorder(w, h) })
	if _, err := e.Run(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation = "boids"
	if _, err := NewEnsemble(NewRegistry(), cfg, 2, 0).Run(context.Background(), 1); !errors.Is(err, ErrUnknownSimulation) {
		t.Errorf("expected ErrUnknownSimulation, got %v", err)
	}
}
