package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/telemetry"
)

var column string

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIM\tTIME\tSIZE\tTICKS\tSEED\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\t%d\t%s\n",
			run.ID,
			run.Simulation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			humanize.Comma(int64(run.Frames)),
			run.Seed,
			humanize.Comma(int64(run.Final.Steps)),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		fmt.Println("no samples recorded")
		return nil
	}

	name := column
	if name == "" {
		name = "mean_trail"
		if meta.Simulation == "ant" {
			name = "black"
		}
	}
	values, ok := telemetry.Column(samples, name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: %s", meta.Simulation, name)),
	)
	fmt.Println(graph)

	sum := telemetry.Summarize(values)
	fmt.Printf("\nsamples: %d  min: %.2f  max: %.2f  mean: %.2f  std: %.2f\n",
		sum.Count, sum.Min, sum.Max, sum.Mean, sum.Std)

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		keys := make([]string, 0, len(meta.Metrics))
		for k := range meta.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s: %.4f\n", k, meta.Metrics[k])
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	sims := []string{"flow", "ant"}
	if len(args) > 0 {
		sims = args[:1]
	}
	for _, sim := range sims {
		names := config.ListPresets(sim)
		if len(names) == 0 {
			fmt.Printf("no presets for simulation: %s\n", sim)
			continue
		}
		fmt.Printf("presets for %s:\n", sim)
		for _, p := range names {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
