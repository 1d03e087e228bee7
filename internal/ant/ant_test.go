package ant_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/ant"
	"github.com/san-kum/backdrop/internal/grid"
	"github.com/san-kum/backdrop/internal/render"
)

var _ = Describe("Heading", func() {
	It("turns right through N, E, S, W", func() {
		Expect(ant.North.Right()).To(Equal(ant.East))
		Expect(ant.East.Right()).To(Equal(ant.South))
		Expect(ant.South.Right()).To(Equal(ant.West))
		Expect(ant.West.Right()).To(Equal(ant.North))
	})

	It("turns left as the inverse of right", func() {
		for _, h := range []ant.Heading{ant.North, ant.East, ant.South, ant.West} {
			Expect(h.Right().Left()).To(Equal(h))
		}
	})

	It("parses compass letters", func() {
		h, ok := ant.ParseHeading("W")
		Expect(ok).To(BeTrue())
		Expect(h).To(Equal(ant.West))

		_, ok = ant.ParseHeading("up")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Simulation", func() {
	var sim *ant.Simulation

	BeforeEach(func() {
		sim = ant.New(ant.Config{Width: 800, Height: 800, CellSize: 4})
	})

	It("starts in the middle heading north on an empty grid", func() {
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 100, Y: 100, Heading: ant.North}))
		Expect(sim.Grid().Len()).To(BeZero())
		Expect(sim.Steps()).To(BeZero())
	})

	It("blackens the start cell and turns right on the first tick", func() {
		sim.Tick()

		Expect(sim.Grid().Get(100, 100).State).To(Equal(grid.Black))
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 101, Y: 100, Heading: ant.East}))
		Expect(sim.Steps()).To(Equal(1))
	})

	It("turns right again on a freshly visited white cell", func() {
		sim.Tick()
		sim.Tick()

		Expect(sim.Grid().Get(101, 100).State).To(Equal(grid.Black))
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 101, Y: 101, Heading: ant.South}))
	})

	It("closes the opening square and turns left on black", func() {
		for i := 0; i < 5; i++ {
			sim.Tick()
		}

		Expect(sim.Grid().Get(100, 100).State).To(Equal(grid.White))
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 99, Y: 100, Heading: ant.West}))
		Expect(sim.Grid().Count(grid.Black)).To(Equal(3))
	})

	It("reproduces the 8-step boundary pattern", func() {
		for i := 0; i < 8; i++ {
			sim.Tick()
		}

		black := map[[2]int]bool{}
		sim.Grid().Each(func(x, y int, c grid.Cell) {
			if c.State == grid.Black {
				black[[2]int{x - 100, y - 100}] = true
			}
		})
		Expect(black).To(Equal(map[[2]int]bool{
			{-1, -1}: true, {-1, 0}: true, {0, -1}: true,
			{0, 1}: true, {1, 0}: true, {1, 1}: true,
		}))
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 100, Y: 100, Heading: ant.South}))
		Expect(sim.Grid().Len()).To(Equal(7))
	})

	It("runs 10,000 steps with a monotonically growing visited set", func() {
		prev := 0
		for i := 0; i < 10000; i++ {
			sim.Tick()
			n := sim.Grid().Len()
			Expect(n).To(BeNumerically(">=", prev))
			Expect(n).To(BeNumerically("<=", i+2))
			prev = n
		}

		Expect(sim.Steps()).To(Equal(10000))
		Expect(sim.Grid().Count(grid.Black)).To(Equal(720))
		Expect(sim.Grid().Len()).To(Equal(1379))
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 84, Y: 90, Heading: ant.North}))

		st := sim.Stats()
		Expect(st.Steps).To(Equal(10000))
		Expect(st.Black).To(Equal(720))
		Expect(st.Cells).To(Equal(1379))
	})

	It("wraps east off the last column onto column zero", func() {
		cols := sim.Grid().Columns()
		sim.Place(cols-1, 7, ant.North)
		sim.Tick()

		Expect(sim.Ant()).To(Equal(ant.Ant{X: 0, Y: 7, Heading: ant.East}))
	})

	It("wraps both axes independently", func() {
		rows := sim.Grid().Rows()
		sim.Place(0, 0, ant.East)
		sim.Tick()
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 0, Y: 1, Heading: ant.South}))

		sim.Place(5, 0, ant.West)
		sim.Tick()
		Expect(sim.Ant()).To(Equal(ant.Ant{X: 5, Y: rows - 1, Heading: ant.North}))
	})

	It("forgets everything on reset", func() {
		for i := 0; i < 50; i++ {
			sim.Tick()
		}
		sim.Reset()

		Expect(sim.Steps()).To(BeZero())
		Expect(sim.Grid().Len()).To(BeZero())
		Expect(sim.Ant().X).To(Equal(100))
	})

	Describe("rendering", func() {
		It("clears, draws black cells, then the ant with its arrow", func() {
			rec := render.NewRecorder(800, 800)
			sim.Frame(rec)

			Expect(rec.Calls).To(HaveLen(4))
			Expect(rec.Calls[0].Op).To(Equal(render.OpFill))
			Expect(rec.Calls[0].Color).To(Equal(ant.DefaultBackground))

			Expect(rec.Calls[1].Op).To(Equal(render.OpRoundRect))
			Expect(rec.Calls[1].Rect).To(Equal([4]float64{400, 400, 3, 3}))
			Expect(rec.Calls[1].Color).To(Equal(ant.DefaultTrail))

			Expect(rec.Calls[2].Rect).To(Equal([4]float64{404, 400, 3, 3}))
			Expect(rec.Calls[2].Color).To(Equal(ant.DefaultAnt))

			Expect(rec.Calls[3].Op).To(Equal(render.OpGlyph))
			Expect(rec.Calls[3].Text).To(Equal(">"))
		})

		It("renders without ticking", func() {
			rec := render.NewRecorder(800, 800)
			sim.Render(rec)

			Expect(sim.Steps()).To(BeZero())
			Expect(rec.Count(render.OpRoundRect)).To(Equal(1))
		})
	})

	It("falls back to one-pixel cells", func() {
		s := ant.New(ant.Config{Width: 10, Height: 6, CellSize: 0})
		Expect(s.Config().CellSize).To(Equal(1))
		Expect(s.Grid().Columns()).To(Equal(10))
		Expect(s.Grid().Rows()).To(Equal(6))
	})
})
