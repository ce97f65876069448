package axon_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/energy"
	"github.com/san-kum/axonsim/internal/filament"
	"github.com/san-kum/axonsim/internal/geom"
	"github.com/san-kum/axonsim/internal/random"
)

// quiet returns parameters where nothing happens unless a test asks for it.
func quiet() axon.Params {
	p := axon.DefaultParams()
	p.Length = 10
	p.BirthProb = 0
	p.LinkFormProb = 1
	p.LinkBreakProb = 1
	p.Growth = filament.Grower{MeanLength: 0.1}
	p.Fluctuations = false
	p.FormLinks = false
	p.BreakLinks = false
	return p
}

func build(p axon.Params, opts ...axon.Option) *axon.Axon {
	a, err := axon.New(p, random.New(1), opts...)
	Expect(err).NotTo(HaveOccurred())
	return a
}

func ref(f, i int) filament.Ref { return filament.Ref{Filament: f, Index: i} }

var _ = Describe("Axon", func() {
	Describe("construction", func() {
		It("rejects a link grid finer than the interaction length", func() {
			p := quiet()
			p.LinkStep = r3.Vec{X: 0.05, Y: 0.1, Z: 0.1}
			_, err := axon.New(p, random.New(1))
			Expect(err).To(MatchError(axon.ErrGridTooFine))
		})

		It("rejects a collision grid finer than a filament diameter", func() {
			p := quiet()
			p.CollideStep = r3.Vec{X: 0.3, Y: 0.3, Z: 0.02}
			_, err := axon.New(p, random.New(1))
			Expect(err).To(MatchError(axon.ErrGridTooFine))
		})

		It("rejects probabilities outside [0, 1]", func() {
			p := quiet()
			p.LinkFormProb = 1.5
			_, err := axon.New(p, random.New(1))
			Expect(err).To(MatchError(axon.ErrProbability))
		})

		It("rejects a degenerate cylinder", func() {
			p := quiet()
			p.Radius = 0
			_, err := axon.New(p, random.New(1))
			Expect(err).To(MatchError(axon.ErrGeometry))
		})
	})

	Describe("cylinder membership", func() {
		var a *axon.Axon
		BeforeEach(func() { a = build(quiet()) })

		It("excludes the wall margin only within the axon's height", func() {
			Expect(a.InCylinder(r3.Vec{Z: 5})).To(BeTrue())
			Expect(a.InCylinder(r3.Vec{X: 1.85, Z: 5})).To(BeTrue())
			Expect(a.InCylinder(r3.Vec{X: 1.95, Z: 5})).To(BeFalse())
			Expect(a.InCylinder(r3.Vec{X: 1.95, Z: -1})).To(BeTrue())
			Expect(a.InCylinder(r3.Vec{X: 1.95, Z: 11})).To(BeTrue())
		})

		It("identifies the wall band", func() {
			Expect(a.AtWall(r3.Vec{X: 1.95})).To(BeTrue())
			Expect(a.AtWall(r3.Vec{Y: -1.95})).To(BeTrue())
			Expect(a.AtWall(r3.Vec{X: 1.85})).To(BeFalse())
			Expect(a.AtWall(r3.Vec{X: 2})).To(BeFalse())
		})
	})

	Describe("growth", func() {
		It("grows a noiseless filament straight up the axis", func() {
			a := build(quiet())
			_, ok := a.AddFilament(r3.Vec{})
			Expect(ok).To(BeTrue())
			for range 20 {
				a.Step()
			}
			f := a.Filament(0)
			Expect(f.Len()).To(Equal(21))
			tip := f.Tip()
			Expect(tip.X).To(BeNumerically("~", 0, 1e-12))
			Expect(tip.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(tip.Z).To(BeNumerically("~", 2.0, 1e-9))
			Expect(a.Stats().GrowthCollisions).To(BeZero())
			Expect(a.TotalNodes()).To(Equal(21))
		})

		It("refuses a step that crosses another filament", func() {
			a := build(quiet())
			a.AddFilament(r3.Vec{})
			Expect(a.Grow(0, r3.Vec{Z: 0.1})).To(BeTrue())
			a.AddFilament(r3.Vec{X: 0.1, Z: 0.05})
			Expect(a.Grow(1, r3.Vec{X: -0.2})).To(BeFalse())
			Expect(a.Stats().GrowthCollisions).To(Equal(1))
			Expect(a.Filament(1).Len()).To(Equal(1))
		})

		It("refuses a step into the wall margin", func() {
			a := build(quiet())
			a.AddFilament(r3.Vec{X: 1.85})
			Expect(a.Grow(0, r3.Vec{X: 0.1, Z: 0.1})).To(BeFalse())
			Expect(a.Stats().GrowthOutOfBounds).To(Equal(1))
		})

		It("stops adding filaments at capacity", func() {
			p := quiet()
			p.MaxFilaments = 2
			a := build(p)
			_, ok1 := a.AddFilament(r3.Vec{X: 0.5})
			_, ok2 := a.AddFilament(r3.Vec{X: -0.5})
			_, ok3 := a.AddFilament(r3.Vec{Y: 0.5})
			Expect([]bool{ok1, ok2, ok3}).To(Equal([]bool{true, true, false}))
			Expect(a.NumFilaments()).To(Equal(2))
		})

		It("seeds births inside the margin-reduced disk", func() {
			p := quiet()
			p.BirthProb = 1
			a := build(p)
			for range 50 {
				Expect(a.NewFilament()).To(BeTrue())
			}
			for _, f := range a.Filaments() {
				s := f.Point(0)
				Expect(math.Hypot(s.X, s.Y)).To(BeNumerically("<=", p.Radius-p.LinkInteraction))
				Expect(s.Z).To(BeZero())
			}
		})
	})

	Describe("collisions", func() {
		var a *axon.Axon
		BeforeEach(func() {
			a = build(quiet())
			a.AddFilament(r3.Vec{})
			a.Grow(0, r3.Vec{Z: 0.1})
		})

		It("detects a crossing segment of another filament", func() {
			Expect(a.CheckCollisions(r3.Vec{X: -0.1, Z: 0.05}, r3.Vec{X: 0.1, Z: 0.05}, 99)).To(BeTrue())
		})

		It("ignores the filament's own segments", func() {
			id := a.Filament(0).ID
			Expect(a.CheckCollisions(r3.Vec{X: -0.1, Z: 0.05}, r3.Vec{X: 0.1, Z: 0.05}, id)).To(BeFalse())
		})

		It("never reports parallel segments", func() {
			Expect(a.CheckCollisions(r3.Vec{X: 0.01}, r3.Vec{X: 0.01, Z: 0.1}, 99)).To(BeFalse())
		})
	})

	Describe("linking", func() {
		var (
			a    *axon.Axon
			rest float64
		)
		BeforeEach(func() {
			a = build(quiet())
			rest = a.Params().RestLength()
		})

		It("links two nodes at rest separation without moving them", func() {
			a.AddFilament(r3.Vec{X: -rest / 2})
			a.AddFilament(r3.Vec{X: rest / 2})
			a.Grow(0, r3.Vec{Z: 0.1})
			a.Grow(1, r3.Vec{Z: 0.1})

			a.SeekLinks(ref(0, 1))
			Expect(a.Node(ref(0, 1)).Links()).To(Equal([]filament.Ref{ref(1, 1)}))
			Expect(a.Node(ref(1, 1)).Links()).To(Equal([]filament.Ref{ref(0, 1)}))
			Expect(a.Point(ref(0, 1)).X).To(BeNumerically("~", -rest/2, 1e-12))
			Expect(a.Point(ref(1, 1)).X).To(BeNumerically("~", rest/2, 1e-12))
			Expect(a.CountLinks()).To(Equal(1))
		})

		// grown seeds a filament at each point and grows it one step, so
		// every filament has a linkable node at index 1.
		grown := func(seeds ...r3.Vec) {
			for i, s := range seeds {
				a.AddFilament(s)
				Expect(a.Grow(i, r3.Vec{Z: 0.1})).To(BeTrue())
			}
		}

		It("pulls two free nodes to rest separation", func() {
			grown(r3.Vec{X: -0.04}, r3.Vec{X: 0.04})
			Expect(a.Link(ref(1, 1), ref(0, 1))).To(BeTrue())
			Expect(geom.Distance(a.Point(ref(0, 1)), a.Point(ref(1, 1)))).To(BeNumerically("~", rest, 1e-12))
			Expect(a.Point(ref(0, 1)).X).To(BeNumerically("~", -rest/2, 1e-12))
		})

		It("moves only the free node when the other is pinned and refuses two pinned nodes", func() {
			grown(r3.Vec{X: -0.04}, r3.Vec{X: 0.04}, r3.Vec{X: 0.025, Y: 0.08})
			Expect(a.Link(ref(1, 1), ref(0, 1))).To(BeTrue())

			pinned := a.Point(ref(1, 1))
			Expect(a.Link(ref(1, 1), ref(2, 1))).To(BeTrue())
			Expect(a.Point(ref(1, 1))).To(Equal(pinned))
			Expect(geom.Distance(pinned, a.Point(ref(2, 1)))).To(BeNumerically("~", rest, 1e-12))

			Expect(a.Link(ref(0, 1), ref(2, 1))).To(BeFalse())
			Expect(a.Node(ref(0, 1)).HasLink(ref(2, 1))).To(BeFalse())
			Expect(a.Stats().LinksRefused).To(Equal(1))
		})

		It("never links nodes of the same filament", func() {
			a.AddFilament(r3.Vec{})
			a.Grow(0, r3.Vec{Z: 0.05})
			a.Grow(0, r3.Vec{Z: 0.05})
			Expect(a.Link(ref(0, 1), ref(0, 2))).To(BeFalse())
			a.SeekAllLinks()
			Expect(a.CountLinks()).To(BeZero())
		})

		It("ignores nodes beyond the interaction length", func() {
			grown(r3.Vec{X: -0.06}, r3.Vec{X: 0.06})
			Expect(a.Link(ref(1, 1), ref(0, 1))).To(BeFalse())
		})

		It("never links a seed", func() {
			grown(r3.Vec{X: -0.04}, r3.Vec{X: 0.04})
			Expect(a.Link(ref(1, 0), ref(0, 0))).To(BeFalse())
			Expect(a.Link(ref(1, 1), ref(0, 0))).To(BeFalse())
			Expect(a.Link(ref(1, 0), ref(0, 1))).To(BeFalse())
			Expect(a.CountLinks()).To(BeZero())
		})

		It("respects the per-node link capacity", func() {
			p := quiet()
			p.MaxLinks = 1
			a = build(p)
			grown(r3.Vec{X: -0.04}, r3.Vec{X: 0.04}, r3.Vec{Y: 0.06})
			Expect(a.Link(ref(1, 1), ref(0, 1))).To(BeTrue())
			Expect(a.Link(ref(0, 1), ref(2, 1))).To(BeFalse())
		})

		Context("with a chain of three linked filaments", func() {
			BeforeEach(func() {
				grown(r3.Vec{X: -0.04}, r3.Vec{X: 0.04}, r3.Vec{X: 0.025, Y: 0.08})
				Expect(a.Link(ref(1, 1), ref(0, 1))).To(BeTrue())
				Expect(a.Link(ref(1, 1), ref(2, 1))).To(BeTrue())
			})

			It("keeps links symmetric", func() {
				for _, f := range a.Filaments() {
					for i := 0; i < f.Len(); i++ {
						for _, l := range f.Node(i).Links() {
							Expect(a.Node(l).HasLink(f.Ref(i))).To(BeTrue())
						}
					}
				}
			})

			It("finds the same ordered bundle from any member", func() {
				want := []filament.Ref{ref(0, 1), ref(1, 1), ref(2, 1)}
				Expect(a.Bundle(ref(0, 1))).To(Equal(want))
				Expect(a.Bundle(ref(2, 1))).To(Equal(want))
			})

			It("breaks every link with certain dissociation", func() {
				a.BreakLinks()
				Expect(a.CountLinks()).To(BeZero())
				Expect(a.Stats().LinksBroken).To(Equal(2))
				Expect(a.Bundle(ref(1, 1))).To(Equal([]filament.Ref{ref(1, 1)}))
			})
		})
	})

	Describe("anchors", func() {
		It("keeps every seed fixed and unlinked through growth, linking and fluctuation", func() {
			p := quiet()
			p.FormLinks = true
			p.SigmaProposal = 0.01
			a := build(p, axon.WithHamiltonian(energy.Func(func([]r3.Vec) float64 { return 0 })))
			a.AddFilament(r3.Vec{})
			a.AddFilament(r3.Vec{X: 0.05})
			seeds := []r3.Vec{a.Point(ref(0, 0)), a.Point(ref(1, 0))}

			Expect(a.Grow(1, r3.Vec{Z: 0.01})).To(BeTrue())
			Expect(a.Node(ref(0, 0)).Links()).To(BeEmpty())

			a.Grow(0, r3.Vec{Z: 0.1})
			a.Grow(1, r3.Vec{Z: 0.1})
			a.SeekAllLinks()
			for range 50 {
				for _, f := range a.Filaments() {
					for i := 1; i < f.Len(); i++ {
						a.Fluctuate(f.Ref(i))
					}
				}
				a.FluctuateFilaments()
				a.SeekAllLinks()
			}

			for i, s := range seeds {
				Expect(a.Point(ref(i, 0))).To(Equal(s))
				Expect(a.Node(ref(i, 0)).Links()).To(BeEmpty())
				for _, m := range a.Bundle(ref(i, 1)) {
					Expect(m.Index).NotTo(BeZero())
				}
			}
		})

		It("keeps seeds out of the link grid but not the collision grid", func() {
			a := build(quiet())
			a.AddFilament(r3.Vec{X: 0.3})
			a.AddFilament(r3.Vec{X: -0.3})
			for range 5 {
				a.GrowFilaments()
			}
			Expect(a.LinkGrid().Len()).To(Equal(a.TotalNodes() - a.NumFilaments()))
			Expect(a.CollideGrid().Len()).To(Equal(a.TotalNodes()))
		})
	})

	Describe("fluctuation", func() {
		var a *axon.Axon
		straight := func(p axon.Params, opts ...axon.Option) *axon.Axon {
			a := build(p, opts...)
			a.AddFilament(r3.Vec{})
			a.Grow(0, r3.Vec{Z: 0.1})
			a.Grow(0, r3.Vec{Z: 0.1})
			return a
		}

		It("leaves seeds and short tips alone", func() {
			a = build(quiet())
			a.AddFilament(r3.Vec{})
			Expect(a.Fluctuate(ref(0, 0))).To(Equal(axon.NoFrame))
			a.Grow(0, r3.Vec{Z: 0.1})
			Expect(a.Fluctuate(ref(0, 1))).To(Equal(axon.NoFrame))
		})

		It("orients a bent tip's frame as q1 x axis", func() {
			a = build(quiet())
			a.AddFilament(r3.Vec{})
			a.Grow(0, r3.Vec{Z: 0.1})
			a.Grow(0, r3.Vec{X: 0.1, Z: 0.1})
			fr, ok := axon.Frame(a, ref(0, 2))
			Expect(ok).To(BeTrue())
			Expect(fr.Q1.X).To(BeNumerically("~", 0, 1e-12))
			Expect(fr.Q1.Y).To(BeNumerically("~", 1, 1e-12))
			Expect(fr.Q2.X).To(BeNumerically("~", math.Sqrt2/2, 1e-12))
			Expect(fr.Q2.Z).To(BeNumerically("~", -math.Sqrt2/2, 1e-12))
			Expect(fr.Q3.X).To(BeNumerically("~", math.Sqrt2/2, 1e-12))
		})

		It("accepts a zero-energy-change move on a straight chain", func() {
			p := quiet()
			p.SigmaProposal = 0
			a = straight(p)
			Expect(a.Fluctuate(ref(0, 1))).To(Equal(axon.Accepted))
			Expect(a.Point(ref(0, 1)).Z).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("rejects a move that raises the energy enormously", func() {
			p := quiet()
			p.SigmaProposal = 0.01
			steep := energy.Func(func(chain []r3.Vec) float64 {
				e := 0.0
				for _, q := range chain {
					e += 1e9 * (math.Abs(q.X) + math.Abs(q.Y))
				}
				return e
			})
			a = straight(p, axon.WithHamiltonian(steep))
			before := a.Point(ref(0, 1))
			Expect(a.Fluctuate(ref(0, 1))).To(Equal(axon.Rejected))
			Expect(a.Point(ref(0, 1))).To(Equal(before))
			Expect(a.Stats().FluctRejected).To(Equal(1))
		})

		It("moves a node perpendicular to its filament", func() {
			p := quiet()
			p.SigmaProposal = 0.01
			a = straight(p, axon.WithHamiltonian(energy.Func(func([]r3.Vec) float64 { return 0 })))
			Expect(a.Fluctuate(ref(0, 1))).To(Equal(axon.Accepted))
			q := a.Point(ref(0, 1))
			Expect(q.Z).To(BeNumerically("~", 0.1, 1e-12))
			Expect(math.Hypot(q.X, q.Y)).To(BeNumerically(">", 0))
		})

		It("moves a linked bundle rigidly", func() {
			p := quiet()
			p.SigmaProposal = 0.001
			a = build(p, axon.WithHamiltonian(energy.Func(func([]r3.Vec) float64 { return 0 })))
			a.AddFilament(r3.Vec{X: -0.04})
			a.AddFilament(r3.Vec{X: 0.04})
			for range 2 {
				a.Grow(0, r3.Vec{Z: 0.1})
				a.Grow(1, r3.Vec{Z: 0.1})
			}
			Expect(a.Link(ref(1, 1), ref(0, 1))).To(BeTrue())
			p0, p1 := a.Point(ref(0, 1)), a.Point(ref(1, 1))

			Expect(a.Fluctuate(ref(0, 1))).To(Equal(axon.Accepted))
			d0 := r3.Sub(a.Point(ref(0, 1)), p0)
			d1 := r3.Sub(a.Point(ref(1, 1)), p1)
			Expect(r3.Norm(d0)).To(BeNumerically(">", 0))
			Expect(r3.Norm(r3.Sub(d0, d1))).To(BeNumerically("<", 1e-12))
		})
	})

	Describe("cross sections", func() {
		It("reports where and at what angle filaments cross a plane", func() {
			a := build(quiet())
			a.AddFilament(r3.Vec{X: 0.5})
			a.AddFilament(r3.Vec{X: -0.5})
			for range 3 {
				a.Grow(0, r3.Vec{Z: 0.1})
			}
			pts := a.CrossSection(0.15)
			Expect(pts).To(HaveLen(1))
			Expect(pts[0].X).To(BeNumerically("~", 0.5, 1e-12))
			Expect(pts[0].Z).To(BeNumerically("~", 0.15, 1e-12))
			Expect(a.CrossAngles(0.15)).To(ConsistOf(BeNumerically("~", 0, 1e-9)))
		})
	})

	Describe("reproducibility", func() {
		run := func(seed int64) *axon.Axon {
			p := axon.DefaultParams()
			p.Length = 20
			p.MaxFilaments = 30
			a, err := axon.New(p, random.New(seed))
			Expect(err).NotTo(HaveOccurred())
			for range 15 {
				a.Step()
			}
			return a
		}

		It("replays the same trajectory from the same seed", func() {
			x, y := run(42), run(42)
			Expect(x.TotalNodes()).To(Equal(y.TotalNodes()))
			Expect(x.CountLinks()).To(Equal(y.CountLinks()))
			Expect(x.Stats()).To(Equal(y.Stats()))
			for i, f := range x.Filaments() {
				Expect(f.Points()).To(Equal(y.Filament(i).Points()))
			}
		})

		It("diverges for a different seed", func() {
			x, y := run(42), run(43)
			Expect(x.Filament(0).Point(0)).NotTo(Equal(y.Filament(0).Point(0)))
		})
	})
})
