package main

import (
	goflag "flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/engine"
	"github.com/san-kum/backdrop/internal/gui"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	width      int
	height     int
	cellSize   int
	intervalMs int
	opacity    float64
	particles  int
	showGrid   bool
	noise      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "backdrop",
		Short:        "animated page backdrops: flow fields and langton's ant",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunLauncher(engine.NewRegistry())
		},
	}

	fs := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(fs)
	rootCmd.PersistentFlags().AddGoFlagSet(fs)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".backdrop", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&width, "width", config.DefaultWidth, "surface width in pixels")
	pf.IntVar(&height, "height", config.DefaultHeight, "surface height in pixels")
	pf.IntVar(&cellSize, "cell", 0, "cell size in pixels (flow: 0 picks one at random)")
	pf.IntVar(&intervalMs, "interval", 0, "minimum milliseconds between ticks")
	pf.Float64Var(&opacity, "opacity", 1, "surface opacity")
	pf.IntVar(&particles, "particles", config.DefaultParticles, "flow particle count")
	pf.BoolVar(&showGrid, "grid", false, "draw the flow field vectors")
	pf.BoolVar(&noise, "noise", false, "sample the flow field from simplex noise")

	liveCmd := &cobra.Command{
		Use:   "live [simulation]",
		Short: "animate in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return viz.Run(engine.NewRegistry(), cfg)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [simulation]",
		Short: "animate in a resizable window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(engine.NewRegistry(), cfg)
		},
	}

	renderCmd := &cobra.Command{
		Use:   "render [simulation]",
		Short: "render headless and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().IntVar(&renderFrames, "frames", 600, "ticks to render")
	renderCmd.Flags().IntVar(&refreshMs, "refresh", 16, "simulated display refresh in milliseconds")
	renderCmd.Flags().IntVar(&sampleEvery, "sample", 10, "record telemetry every n ticks")
	renderCmd.Flags().StringVar(&gifPath, "gif", "", "also write an animated gif")
	renderCmd.Flags().IntVar(&gifEvery, "gif-every", 5, "capture a gif frame every n ticks")
	renderCmd.Flags().IntVar(&gifLimit, "gif-frames", 120, "maximum gif frames")
	renderCmd.Flags().StringVarP(&pngPath, "output", "o", "", "also write the final frame as png")

	benchCmd := &cobra.Command{
		Use:   "bench [simulation]",
		Short: "render an ensemble of seeds concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchRun,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 1000, "ticks per member")
	benchCmd.Flags().IntVar(&runs, "runs", 8, "ensemble members")
	benchCmd.Flags().IntVar(&parallelism, "parallelism", 0, "members rendered at once (0 uses every cpu)")

	svgCmd := &cobra.Command{
		Use:   "export-svg [simulation]",
		Short: "tick a simulation and write its current frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&svgFrames, "frames", 200, "ticks before export")
	svgCmd.Flags().StringVarP(&svgPath, "output", "o", "backdrop.svg", "output file")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "play a yaml scenario against the scheduler",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "telemetry column (default depends on simulation)")

	presetsCmd := &cobra.Command{
		Use:   "presets [simulation]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, renderCmd, benchCmd, svgCmd, scriptCmd, listCmd, plotCmd, presetsCmd)

	err := rootCmd.Execute()
	if errors.Is(err, scheduler.ErrSurfaceUnavailable) {
		klog.V(1).Infof("no surface, nothing to animate: %v", err)
		err = nil
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers simulation defaults, preset, config file and
// explicitly set flags, in that order. A positional simulation wins over the
// file's.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	sim := ""
	if len(args) > 0 {
		sim = args[0]
	}

	cfg, err := config.Resolve(sim, preset, configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Surface.Width = width
	}
	if flags.Changed("height") {
		cfg.Surface.Height = height
	}
	if flags.Changed("cell") {
		cfg.Surface.CellSize = cellSize
	}
	if flags.Changed("interval") {
		cfg.Surface.TickIntervalMs = intervalMs
	}
	if flags.Changed("opacity") {
		cfg.Surface.Opacity = opacity
	}
	if flags.Changed("particles") {
		cfg.Flow.Particles = particles
	}
	if flags.Changed("grid") {
		cfg.Flow.ShowGrid = showGrid
	}
	if flags.Changed("noise") {
		cfg.Flow.Noise = noise
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	cfg.Sanitize()
	klog.V(1).Infof("config: %s %dx%d cell=%d seed=%d", cfg.Simulation, cfg.Surface.Width, cfg.Surface.Height, cfg.Surface.CellSize, cfg.Seed)
	return cfg, nil
}
