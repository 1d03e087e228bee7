// Package scenario replays scripted display signals against a scheduler.
//
// A scenario file names a simulation (optionally a preset and config
// overrides) and a list of steps. Each step may resize the surface, change
// visibility, then deliver a number of display refreshes spaced refresh_ms
// apart on a manual clock:
//
//	name: pause-and-resize
//	simulation: ant
//	preset: backdrop
//	config:
//	  surface: {width: 400, height: 300}
//	steps:
//	  - frames: 120
//	  - visible: false
//	    frames: 600
//	    expect: {ticks: 0}
//	  - resize: [200, 200]
//	    frames: 10
package scenario

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/engine"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/telemetry"
)

// DefaultRefresh spaces refreshes like a 60 Hz display.
const DefaultRefresh = 16 * time.Millisecond

// ErrExpectation is returned when a step's expect block does not hold.
var ErrExpectation = errors.New("scenario: expectation failed")

type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Simulation  string    `yaml:"simulation"`
	Preset      string    `yaml:"preset"`
	Config      yaml.Node `yaml:"config"`
	Steps       []Step    `yaml:"steps"`
}

type Step struct {
	Frames    int     `yaml:"frames"`
	RefreshMs int     `yaml:"refresh_ms"`
	Resize    []int   `yaml:"resize"`
	Visible   *bool   `yaml:"visible"`
	Expect    *Expect `yaml:"expect"`
}

// Expect checks the outcome of a step. Nil fields are not checked.
type Expect struct {
	Ticks    *int `yaml:"ticks"`
	Steps    *int `yaml:"steps"`
	MinCells *int `yaml:"min_cells"`
}

// Result records what one step did.
type Result struct {
	Step   int
	Ticks  int
	Steps  int
	Sample telemetry.Sample
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	for i, step := range s.Steps {
		if step.Resize == nil {
			continue
		}
		if len(step.Resize) != 2 {
			return nil, errors.Errorf("scenario: step %d: resize needs [width, height]", i+1)
		}
		if step.Resize[0] < 1 || step.Resize[1] < 1 {
			return nil, errors.Errorf("scenario: step %d: resize %dx%d is not positive", i+1, step.Resize[0], step.Resize[1])
		}
	}
	return &s, nil
}

// BuildConfig layers the preset, then the inline config block, over the
// defaults.
func (s *Scenario) BuildConfig() (*config.Config, error) {
	sim := s.Simulation
	if sim == "" {
		sim = config.DefaultSimulation
	}
	cfg := config.DefaultConfigFor(sim)
	if s.Preset != "" {
		cfg = config.GetPreset(sim, s.Preset)
		if cfg == nil {
			return nil, errors.Errorf("scenario: unknown preset %s/%s", sim, s.Preset)
		}
	}
	cfg.Simulation = sim
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "scenario config")
		}
	}
	cfg.Sanitize()
	return cfg, nil
}

// Scheduler builds a scheduler for the scenario on a manual clock and starts
// it at the configured surface size.
func (s *Scenario) Scheduler(reg *engine.Registry, opts scheduler.Options) (*scheduler.Scheduler, *scheduler.ManualClock, error) {
	cfg, err := s.BuildConfig()
	if err != nil {
		return nil, nil, err
	}
	clock := scheduler.NewManualClock(time.Unix(0, 0))
	opts.Clock = clock
	sched, err := reg.NewScheduler(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := sched.Start(cfg.Surface.Width, cfg.Surface.Height); err != nil {
		return nil, nil, err
	}
	return sched, clock, nil
}

// Run plays every step against sched, advancing clock between refreshes.
func Run(ctx context.Context, s *Scenario, sched *scheduler.Scheduler, clock *scheduler.ManualClock) ([]Result, error) {
	results := make([]Result, 0, len(s.Steps))

	for i, step := range s.Steps {
		klog.V(1).Infof("scenario %s: step %d/%d", s.Name, i+1, len(s.Steps))

		if step.Resize != nil {
			if err := sched.Resize(step.Resize[0], step.Resize[1]); err != nil {
				return results, errors.Wrapf(err, "step %d", i+1)
			}
		}
		if step.Visible != nil {
			sched.SetVisible(*step.Visible)
		}

		refresh := DefaultRefresh
		if step.RefreshMs > 0 {
			refresh = time.Duration(step.RefreshMs) * time.Millisecond
		}

		r := Result{Step: i + 1}
		for f := 0; f < step.Frames; f++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			clock.Advance(refresh)
			if sched.Frame() {
				r.Ticks++
			}
		}
		if anim := sched.Animation(); anim != nil {
			r.Steps = anim.Steps()
			if sm, ok := anim.(engine.Sampler); ok {
				r.Sample = sm.Stats()
			}
		}
		results = append(results, r)

		if err := step.Expect.check(r); err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}
	}

	return results, nil
}

func (e *Expect) check(r Result) error {
	if e == nil {
		return nil
	}
	if e.Ticks != nil && r.Ticks != *e.Ticks {
		return errors.Wrapf(ErrExpectation, "ticks = %d, want %d", r.Ticks, *e.Ticks)
	}
	if e.Steps != nil && r.Steps != *e.Steps {
		return errors.Wrapf(ErrExpectation, "steps = %d, want %d", r.Steps, *e.Steps)
	}
	if e.MinCells != nil && r.Sample.Cells < *e.MinCells {
		return errors.Wrapf(ErrExpectation, "cells = %d, want >= %d", r.Sample.Cells, *e.MinCells)
	}
	return nil
}
