package scheduler_test

import (
	"context"
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/ant"
	"github.com/san-kum/backdrop/internal/flow"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scheduler"
)

type counter struct {
	w, h    int
	steps   int
	renders int
}

func (c *counter) Frame(render.Surface)  { c.steps++ }
func (c *counter) Render(render.Surface) { c.renders++ }
func (c *counter) Steps() int            { return c.steps }

func recorders(w, h int) render.Surface { return render.NewRecorder(w, h) }

var _ = Describe("Scheduler", func() {
	var (
		clock *scheduler.ManualClock
		built []*counter
		s     *scheduler.Scheduler
	)

	BeforeEach(func() {
		clock = scheduler.NewManualClock(time.Unix(1000, 0))
		built = nil
		s = scheduler.New("test", func(w, h int) scheduler.Animation {
			c := &counter{w: w, h: h}
			built = append(built, c)
			return c
		}, scheduler.Options{Interval: 50 * time.Millisecond, Clock: clock, Surface: recorders})
	})

	current := func() *counter { return built[len(built)-1] }

	Context("before Start", func() {
		It("ignores frames", func() {
			Expect(s.Frame()).To(BeFalse())
			Expect(built).To(BeEmpty())
		})

		It("refuses to Run", func() {
			Expect(s.Run(context.Background(), time.Millisecond)).To(MatchError(scheduler.ErrNotRunning))
		})
	})

	It("raises empty sizes to one pixel for both animation and surface", func() {
		Expect(s.Start(0, -5)).To(Succeed())
		Expect(current().w).To(Equal(1))
		Expect(current().h).To(Equal(1))
		w, h := s.Surface().Size()
		Expect([]int{w, h}).To(Equal([]int{1, 1}))
	})

	It("fails to start without a surface", func() {
		s = scheduler.New("bare", func(int, int) scheduler.Animation { return &counter{} },
			scheduler.Options{Surface: func(int, int) render.Surface { return nil }})
		Expect(s.Start(10, 10)).To(MatchError(scheduler.ErrSurfaceUnavailable))
		Expect(s.Running()).To(BeFalse())
		Expect(s.Frame()).To(BeFalse())
	})

	Context("once started", func() {
		BeforeEach(func() {
			Expect(s.Start(320, 200)).To(Succeed())
		})

		It("paints the initial frame without ticking", func() {
			Expect(current().renders).To(Equal(1))
			Expect(current().steps).To(BeZero())
		})

		It("fires the first refresh immediately", func() {
			Expect(s.Frame()).To(BeTrue())
			Expect(current().steps).To(Equal(1))
		})

		It("drops refreshes inside the interval", func() {
			Expect(s.Frame()).To(BeTrue())
			clock.Advance(16 * time.Millisecond)
			Expect(s.Frame()).To(BeFalse())
			clock.Advance(34 * time.Millisecond)
			Expect(s.Frame()).To(BeFalse(), "exactly one interval is not enough")
			clock.Advance(time.Millisecond)
			Expect(s.Frame()).To(BeTrue())
			Expect(current().steps).To(Equal(2))
		})

		It("ticks at most once per interval at a faster refresh rate", func() {
			for i := 0; i < 600; i++ {
				s.Frame()
				clock.Advance(time.Second / 60)
			}
			// 10s of refreshes against a 50ms gate; ticks land every 4th refresh.
			Expect(current().steps).To(Equal(150))
		})

		It("does not tick while hidden, however long the gap", func() {
			s.Frame()
			s.SetVisible(false)
			for i := 0; i < 100; i++ {
				clock.Advance(time.Hour)
				Expect(s.Frame()).To(BeFalse())
			}
			Expect(current().steps).To(Equal(1))
			Expect(built).To(HaveLen(1))

			s.SetVisible(true)
			Expect(s.Frame()).To(BeTrue())
			Expect(current().steps).To(Equal(2))
		})

		It("treats repeated visibility changes as idempotent", func() {
			s.SetVisible(false)
			s.SetVisible(false)
			Expect(s.Visible()).To(BeFalse())
			s.SetVisible(true)
			s.SetVisible(true)
			Expect(s.Visible()).To(BeTrue())
		})

		It("rebuilds from scratch on resize", func() {
			for i := 0; i < 5; i++ {
				clock.Advance(time.Second)
				s.Frame()
			}
			Expect(s.Resize(640, 480)).To(Succeed())
			Expect(built).To(HaveLen(2))
			Expect(current().w).To(Equal(640))
			Expect(current().steps).To(BeZero())
			Expect(s.Ticks()).To(BeZero())
			w, h := s.Surface().Size()
			Expect([]int{w, h}).To(Equal([]int{640, 480}))

			Expect(s.Frame()).To(BeTrue(), "the gate is reset with the animation")
		})

		It("notifies observers after each tick", func() {
			var seen []int
			s.Observe(func(a scheduler.Animation) { seen = append(seen, a.Steps()) })
			s.Frame()
			s.Frame()
			clock.Advance(time.Second)
			s.Frame()
			Expect(seen).To(Equal([]int{1, 2}))
		})

		It("stops for good", func() {
			s.Stop()
			clock.Advance(time.Second)
			Expect(s.Frame()).To(BeFalse())
		})

		It("runs until the context ends", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.Run(ctx, time.Millisecond)).To(MatchError(context.Canceled))
			Expect(s.Running()).To(BeFalse())
		})
	})

	Context("without an interval", func() {
		It("ticks on every refresh", func() {
			s = scheduler.New("flat", func(int, int) scheduler.Animation {
				c := &counter{}
				built = append(built, c)
				return c
			}, scheduler.Options{Clock: clock, Surface: recorders})
			Expect(s.Start(10, 10)).To(Succeed())
			for i := 0; i < 10; i++ {
				Expect(s.Frame()).To(BeTrue())
			}
			Expect(current().steps).To(Equal(10))
		})
	})
})

var _ = Describe("Resizing real simulations", func() {
	It("starts the ant over on an empty grid", func() {
		clock := scheduler.NewManualClock(time.Unix(0, 0))
		s := scheduler.New("ant", func(w, h int) scheduler.Animation {
			return ant.New(ant.Config{Width: w, Height: h, CellSize: 4})
		}, scheduler.Options{Interval: 50 * time.Millisecond, Clock: clock, Surface: recorders})
		Expect(s.Start(400, 400)).To(Succeed())
		for i := 0; i < 50; i++ {
			clock.Advance(time.Second)
			s.Frame()
		}
		Expect(s.Animation().(*ant.Simulation).Grid().Len()).To(BeNumerically(">", 0))

		Expect(s.Resize(200, 120)).To(Succeed())
		sim := s.Animation().(*ant.Simulation)
		Expect(sim.Grid().Len()).To(BeZero())
		Expect(sim.Steps()).To(BeZero())
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 25, Y: 15, Heading: ant.North}))
	})

	It("keeps flow colours finite when resized to nothing", func() {
		rng := rand.New(rand.NewSource(9))
		s := scheduler.New("flow", func(w, h int) scheduler.Animation {
			cfg := flow.DefaultConfig(w, h)
			cfg.CellSize = 10
			cfg.Particles = 5
			return flow.New(cfg, rng)
		}, scheduler.Options{Surface: recorders})
		Expect(s.Start(300, 200)).To(Succeed())
		Expect(s.Resize(0, 0)).To(Succeed())

		for i := 0; i < 5; i++ {
			s.Frame()
		}
		sim := s.Animation().(*flow.Simulation)
		Expect(sim.Config().Width).To(Equal(1))
		Expect(sim.Config().Height).To(Equal(1))
		for _, p := range sim.Particles() {
			Expect(p.CSS).NotTo(ContainSubstring("NaN"))
			Expect(math.IsNaN(p.X) || math.IsNaN(p.Y)).To(BeFalse())
			Expect(p.Width).To(BeNumerically(">=", 1))
		}
	})

	It("respawns the full flow population", func() {
		rng := rand.New(rand.NewSource(3))
		s := scheduler.New("flow", func(w, h int) scheduler.Animation {
			return flow.New(flow.Config{Width: w, Height: h, CellSize: 10, Particles: 40}, rng)
		}, scheduler.Options{Surface: recorders})
		Expect(s.Start(300, 200)).To(Succeed())
		for i := 0; i < 20; i++ {
			s.Frame()
		}
		Expect(s.Resize(120, 90)).To(Succeed())
		sim := s.Animation().(*flow.Simulation)
		Expect(sim.Particles()).To(HaveLen(40))
		Expect(sim.Steps()).To(BeZero())
		for _, p := range sim.Particles() {
			Expect(p.X).To(BeNumerically("<", 120))
			Expect(p.Y).To(BeNumerically("<", 90))
		}
	})
})
