package scenario_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/engine"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scenario"
	"github.com/san-kum/backdrop/internal/scheduler"
)

const pauseAndResize = `
name: pause-and-resize
simulation: ant
preset: backdrop
config:
  surface: {width: 400, height: 300}
steps:
  - frames: 120
    refresh_ms: 16
  - visible: false
    frames: 600
    expect: {ticks: 0, steps: 30}
  - visible: true
    resize: [200, 200]
    frames: 1
    expect: {ticks: 1, steps: 1, min_cells: 1}
`

var recorders = scheduler.Options{
	Surface: func(w, h int) render.Surface { return render.NewRecorder(w, h) },
}

var _ = Describe("Scenario", func() {
	var reg *engine.Registry

	BeforeEach(func() {
		reg = engine.NewRegistry()
	})

	It("layers preset and inline config", func() {
		s, err := scenario.Parse([]byte(pauseAndResize))
		Expect(err).NotTo(HaveOccurred())

		cfg, err := s.BuildConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Simulation).To(Equal("ant"))
		Expect(cfg.Surface.Width).To(Equal(400))
		Expect(cfg.Surface.CellSize).To(Equal(4), "preset value survives")
		Expect(cfg.Surface.TickIntervalMs).To(Equal(50))
	})

	It("gives an ant without a preset its surface defaults", func() {
		s, err := scenario.Parse([]byte("simulation: ant\nsteps:\n  - frames: 1\n"))
		Expect(err).NotTo(HaveOccurred())

		cfg, err := s.BuildConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Surface.CellSize).To(Equal(4))
		Expect(cfg.TickInterval()).To(Equal(50 * time.Millisecond))
		Expect(cfg.Surface.Opacity).To(Equal(0.6))
	})

	It("plays refreshes, pauses and rebuilds on resize", func() {
		s, err := scenario.Parse([]byte(pauseAndResize))
		Expect(err).NotTo(HaveOccurred())
		sched, clock, err := s.Scheduler(reg, recorders)
		Expect(err).NotTo(HaveOccurred())

		results, err := scenario.Run(context.Background(), s, sched, clock)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		// 120 refreshes 16ms apart against a 50ms gate: one tick every 4th.
		Expect(results[0].Ticks).To(Equal(30))
		Expect(results[0].Sample.Cells).To(BeNumerically(">", 0))
		Expect(results[2].Sample.Cells).To(Equal(1))
	})

	It("reports a failed expectation with its step", func() {
		s, err := scenario.Parse([]byte(`
simulation: ant
steps:
  - frames: 5
    expect: {ticks: 4}
`))
		Expect(err).NotTo(HaveOccurred())
		sched, clock, err := s.Scheduler(reg, recorders)
		Expect(err).NotTo(HaveOccurred())

		_, err = scenario.Run(context.Background(), s, sched, clock)
		Expect(err).To(MatchError(scenario.ErrExpectation))
		Expect(err.Error()).To(ContainSubstring("step 1"))
	})

	It("stops when the context is cancelled", func() {
		s, err := scenario.Parse([]byte("simulation: ant\nsteps:\n  - frames: 10\n"))
		Expect(err).NotTo(HaveOccurred())
		sched, clock, err := s.Scheduler(reg, recorders)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = scenario.Run(ctx, s, sched, clock)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("rejects malformed resize steps", func() {
		_, err := scenario.Parse([]byte("steps:\n  - resize: [10]\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects resizes to an empty surface", func() {
		for _, size := range []string{"[0, 0]", "[200, 0]", "[-1, 40]"} {
			_, err := scenario.Parse([]byte("steps:\n  - resize: " + size + "\n"))
			Expect(err).To(MatchError(ContainSubstring("not positive")), size)
		}
	})

	It("rejects unknown presets", func() {
		s, err := scenario.Parse([]byte("simulation: flow\npreset: nope\n"))
		Expect(err).NotTo(HaveOccurred())
		_, err = s.BuildConfig()
		Expect(err).To(HaveOccurred())
	})

	It("loads from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "s.yaml")
		Expect(os.WriteFile(path, []byte(pauseAndResize), 0644)).To(Succeed())
		s, err := scenario.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name).To(Equal("pause-and-resize"))
		Expect(s.Steps).To(HaveLen(3))
	})
})
