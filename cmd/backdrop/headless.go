package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/ant"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/engine"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/flow"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scenario"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/telemetry"
)

var (
	renderFrames int
	benchFrames  int
	svgFrames    int
	refreshMs    int
	sampleEvery  int
	gifPath      string
	gifEvery     int
	gifLimit     int
	pngPath      string
	svgPath      string
	runs         int
	parallelism  int
)

// interruptible returns a context cancelled on ctrl+C.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// backgroundFor is the colour composited behind the raster.
func backgroundFor(cfg *config.Config) (string, error) {
	hex := config.DefaultBackground
	if cfg.Simulation == "ant" {
		hex = cfg.Ant.Background
	}
	_, err := render.Hex(hex)
	return hex, err
}

// headless starts cfg's simulation on a manual clock.
func headless(reg *engine.Registry, cfg *config.Config) (*scheduler.Scheduler, *scheduler.ManualClock, error) {
	clock := scheduler.NewManualClock(time.Unix(0, 0))
	sched, err := reg.NewScheduler(cfg, scheduler.Options{Clock: clock})
	if err != nil {
		return nil, nil, err
	}
	if err := sched.Start(cfg.Surface.Width, cfg.Surface.Height); err != nil {
		return nil, nil, err
	}
	return sched, clock, nil
}

// advance refreshes sched until it has ticked n times.
func advance(ctx context.Context, sched *scheduler.Scheduler, clock *scheduler.ManualClock, n int, refresh time.Duration) error {
	for sched.Ticks() < n {
		if err := ctx.Err(); err != nil {
			return err
		}
		clock.Advance(refresh)
		sched.Frame()
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	bgHex, err := backgroundFor(cfg)
	if err != nil {
		return err
	}
	bg := render.MustHex(bgHex)

	reg := engine.NewRegistry()
	sched, clock, err := headless(reg, cfg)
	if err != nil {
		return err
	}
	raster, ok := sched.Surface().(*render.Raster)
	if !ok {
		return errors.New("render: surface is not a raster")
	}

	refresh := time.Duration(refreshMs) * time.Millisecond
	if refresh <= 0 {
		refresh = scenario.DefaultRefresh
	}
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	var samples []telemetry.Sample
	var recorder *export.GIFRecorder
	if gifPath != "" {
		delay := sched.Interval()
		if delay < refresh {
			delay = refresh
		}
		recorder = export.NewGIFRecorder(delay*time.Duration(max(gifEvery, 1)), gifLimit)
	}
	sched.Observe(func(anim scheduler.Animation) {
		n := sched.Ticks()
		if s, ok := anim.(engine.Sampler); ok && n%sampleEvery == 0 {
			sample := s.Stats()
			sample.Frame = n
			samples = append(samples, sample)
		}
		if recorder != nil && n%max(gifEvery, 1) == 0 {
			recorder.Capture(raster.Composite(bg, cfg.Surface.Opacity))
		}
	})

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("rendering %s %dx%d for %s ticks...\n", cfg.Simulation, cfg.Surface.Width, cfg.Surface.Height, humanize.Comma(int64(renderFrames)))
	start := time.Now()
	if err := advance(ctx, sched, clock, renderFrames, refresh); err != nil {
		return err
	}
	elapsed := time.Since(start)
	sched.Stop()

	final := raster.Composite(bg, cfg.Surface.Opacity)

	tps := 0.0
	if elapsed > 0 {
		tps = float64(sched.Ticks()) / elapsed.Seconds()
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	meta := storage.RunMetadata{
		Simulation: cfg.Simulation,
		Seed:       cfg.Seed,
		Width:      cfg.Surface.Width,
		Height:     cfg.Surface.Height,
		Frames:     sched.Ticks(),
		Config:     cfg,
		Metrics: map[string]float64{
			"elapsed_seconds":   elapsed.Seconds(),
			"ticks_per_second":  tps,
			"simulated_seconds": clock.Now().Sub(time.Unix(0, 0)).Seconds(),
		},
	}
	runID, err := store.Save(meta, samples)
	if err != nil {
		return err
	}
	if err := store.SaveSnapshot(runID, final); err != nil {
		return err
	}

	if pngPath != "" {
		if err := writePNG(pngPath, final); err != nil {
			return err
		}
		fmt.Printf("frame: %s\n", pngPath)
	}
	if recorder != nil {
		if err := recorder.Save(gifPath); err != nil {
			return err
		}
		fmt.Printf("gif: %s (%d frames)\n", gifPath, recorder.Len())
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %s\n", humanize.Comma(int64(sched.Animation().Steps())))
	fmt.Printf("samples: %d\n", len(samples))
	return nil
}

func writePNG(path string, img *image.RGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return errors.Wrapf(png.Encode(f, img), "encode %s", path)
}

func benchRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ens := engine.NewEnsemble(engine.NewRegistry(), cfg, runs, cfg.Seed)
	ens.SetLimit(parallelism)

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("benchmarking %s: %d runs x %s ticks\n\n", cfg.Simulation, runs, humanize.Comma(int64(benchFrames)))
	start := time.Now()
	results, err := ens.Run(ctx, benchFrames)
	if err != nil {
		return err
	}
	wall := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tTIME\tTICKS/SEC\tCELLS\tBLACK\tMEAN TRAIL")
	var total float64
	for _, r := range results {
		total += r.FramesPerSecond()
		fmt.Fprintf(w, "%d\t%s\t%v\t%s\t%d\t%d\t%.2f\n",
			r.Seed, humanize.Comma(int64(r.Frames)), r.Elapsed.Round(time.Microsecond),
			humanize.Comma(int64(r.FramesPerSecond())), r.Final.Cells, r.Final.Black, r.Final.MeanTrail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nwall time %v, aggregate %s ticks/sec\n", wall.Round(time.Millisecond), humanize.Comma(int64(total)))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sched, clock, err := headless(engine.NewRegistry(), cfg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()
	if err := advance(ctx, sched, clock, svgFrames, scenario.DefaultRefresh); err != nil {
		return err
	}

	var svg string
	switch sim := sched.Animation().(type) {
	case *flow.Simulation:
		svg = export.TrailsSVG(sim)
	case *ant.Simulation:
		svg = export.CellsSVG(sim)
	default:
		return errors.Errorf("export-svg: unsupported simulation %s", cfg.Simulation)
	}

	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return errors.Wrapf(err, "write %s", svgPath)
	}
	fmt.Printf("exported %s after %d ticks to %s\n", cfg.Simulation, sched.Ticks(), svgPath)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	sched, clock, err := s.Scheduler(engine.NewRegistry(), scheduler.Options{})
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("scenario %s (%s)\n", s.Name, s.Simulation)
	if s.Description != "" {
		fmt.Println(s.Description)
	}
	results, runErr := scenario.Run(ctx, s, sched, clock)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTICKS\tSTEPS\tCELLS\tBLACK\tPARTICLES")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Step, r.Ticks, r.Steps, r.Sample.Cells, r.Sample.Black, r.Sample.Particles)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if runErr != nil {
		klog.Errorf("scenario %s: %v", s.Name, runErr)
		return runErr
	}
	fmt.Println("ok")
	return nil
}
