package game_test

import (
	"errors"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/game"
)

const dt = 1.0 / 60

var _ = Describe("Session", func() {
	var (
		cfg   *config.Config
		clock time.Time
		opts  []game.Option
	)

	newSession := func(extra ...game.Option) *game.Session {
		s, err := game.New(cfg, append(opts, extra...)...)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		opts = []game.Option{
			game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			game.WithClock(func() time.Time { return clock }),
		}
	})

	It("rejects an unknown level", func() {
		cfg.Level = "moon"
		_, err := game.New(cfg, opts...)
		Expect(err).To(MatchError(config.ErrUnknownLevel))
	})

	Describe("Submit", func() {
		It("appends one curve per accepted equation", func() {
			s := newSession()
			Expect(s.Submit("y = x")).To(Succeed())
			Expect(s.Submit("y = -x")).To(Succeed())

			curves := s.Curves()
			Expect(curves).To(HaveLen(2))
			Expect(curves[0].Source).To(Equal("y = x"))
			Expect(curves[1].Source).To(Equal("y = -x"))
			Expect(curves[0].Color).NotTo(Equal(curves[1].Color))
			Expect(curves[0].Thickness).To(Equal(cfg.Game.CurveThickness))
			Expect(curves[0].Samples.Validate()).To(Succeed())
		})

		It("leaves the session untouched on failure", func() {
			s := newSession()
			Expect(s.Submit("y = x")).To(Succeed())

			err := s.Submit("y = foo(x)")
			Expect(err).To(MatchError(expr.ErrUnknownIdentifier))
			Expect(s.Curves()).To(HaveLen(1))
		})

		It("reports condition failures as invalid conditions", func() {
			s := newSession()
			err := s.Submit("y = x { x + 1 }")
			Expect(err).To(MatchError(expr.ErrInvalidCondition))
			Expect(s.Curves()).To(BeEmpty())
		})

		It("rejects equations with nothing to draw", func() {
			s := newSession()
			err := s.Submit("y = 10000000")
			Expect(err).To(MatchError(game.ErrEmptyCurve))
			Expect(err).To(MatchError(expr.ErrCompileFailure))

			var exprErr *expr.Error
			Expect(errors.As(err, &exprErr)).To(BeTrue())
			Expect(exprErr.Tag()).To(Equal("CompileFailure"))
			Expect(exprErr.Token).To(Equal("y = 10000000"))
			Expect(s.Curves()).To(BeEmpty())
		})

		It("samples x-of-y curves along the vertical axis", func() {
			s := newSession()
			Expect(s.Submit("x = y^2 / 10")).To(Succeed())

			c := s.Curves()[0]
			Expect(c.Orientation).To(Equal(expr.XOfY))
			w := s.World()
			for _, v := range c.Samples {
				Expect(v.Pos.Y).To(BeNumerically(">=", w.YMin))
				Expect(v.Pos.Y).To(BeNumerically("<=", w.YMax))
			}
		})

		It("removes the latest curve", func() {
			s := newSession()
			Expect(s.RemoveLastCurve()).To(MatchError(game.ErrNoCurves))

			Expect(s.Submit("y = x")).To(Succeed())
			Expect(s.Submit("y = 2")).To(Succeed())
			Expect(s.RemoveLastCurve()).To(Succeed())
			Expect(s.Curves()).To(HaveLen(1))
			Expect(s.Curves()[0].Source).To(Equal("y = x"))
		})
	})

	Describe("Preview", func() {
		It("samples without keeping the curve", func() {
			s := newSession()
			pl, ok := s.Preview("y = sin(x)")
			Expect(ok).To(BeTrue())
			Expect(pl.Points()).To(BeNumerically(">", 2))
			Expect(s.Curves()).To(BeEmpty())
		})

		It("fails silently on bad input", func() {
			s := newSession()
			pl, ok := s.Preview("y = 2 $ x")
			Expect(ok).To(BeFalse())
			Expect(pl).To(BeEmpty())
		})
	})

	Describe("SpawnBall", func() {
		It("drops balls from the level spawn point", func() {
			s := newSession()
			b := s.SpawnBall()
			spawn := s.Level().Spawn
			Expect(b.Pos.X).To(Equal(spawn.X))
			Expect(b.Pos.Y).To(Equal(spawn.Y))
			Expect(b.Radius).To(Equal(cfg.Game.BallRadius))
		})

		It("keeps only the newest balls once the cap is reached", func() {
			cfg.Game.MaxBalls = 3
			s := newSession()
			for i := 0; i < 5; i++ {
				s.SpawnBall()
			}

			balls := s.Balls()
			Expect(balls).To(HaveLen(3))
			Expect(balls[0].ID).To(Equal(3))
			Expect(balls[2].ID).To(Equal(5))
		})
	})

	Describe("Advance", func() {
		It("removes balls that leave the world", func() {
			s := newSession()
			s.SpawnBall()

			removed := 0
			for i := 0; i < 300 && len(s.Balls()) > 0; i++ {
				removed += s.Advance(dt).Removed
			}
			Expect(removed).To(Equal(1))
			Expect(s.Balls()).To(BeEmpty())
		})

		It("collects a star in the path of a falling ball", func() {
			lvl := &config.Level{
				Name:  "drop",
				Spawn: config.Point{X: 0, Y: 5},
				Stars: []config.Point{{X: 0, Y: 0}},
			}
			s := newSession(game.WithLevel(lvl))
			s.SpawnBall()

			var rep game.TickReport
			for i := 0; i < 120 && !rep.NewlyCollected; i++ {
				rep = s.Advance(dt)
			}
			Expect(rep.NewlyCollected).To(BeTrue())
			Expect(rep.Won).To(BeTrue())
			Expect(s.Stars()[0].CollectedAt).To(Equal(clock))

			rep = s.Advance(dt)
			Expect(rep.NewlyCollected).To(BeFalse())
			Expect(rep.Collected).To(Equal(1))
		})

		It("wins the tutorial with its hint", func() {
			s := newSession()
			Expect(s.Submit(s.Level().Hint)).To(Succeed())
			s.SpawnBall()

			for i := 0; i < 600 && !s.Won(); i++ {
				s.Advance(dt)
			}
			Expect(s.Won()).To(BeTrue())
			Expect(s.Collected()).To(Equal(len(s.Level().Stars)))
		})
	})

	Describe("Reset", func() {
		It("clears curves and balls and restores stars", func() {
			lvl := &config.Level{
				Name:  "drop",
				Spawn: config.Point{X: 0, Y: 5},
				Stars: []config.Point{{X: 0, Y: 0}},
			}
			s := newSession(game.WithLevel(lvl))
			Expect(s.Submit("y = -5")).To(Succeed())
			s.SpawnBall()
			for i := 0; i < 120 && !s.Won(); i++ {
				s.Advance(dt)
			}
			Expect(s.Won()).To(BeTrue())

			s.Reset()
			Expect(s.Curves()).To(BeEmpty())
			Expect(s.Balls()).To(BeEmpty())
			Expect(s.Won()).To(BeFalse())
			Expect(s.Remaining()).To(Equal(1))
			Expect(s.Elapsed()).To(BeZero())
		})

		It("switches levels", func() {
			s := newSession()
			Expect(s.SetLevel("valley")).To(Succeed())
			Expect(s.Level().Name).To(Equal("valley"))
			Expect(s.Stars()).To(HaveLen(len(config.GetLevel("valley").Stars)))
			Expect(s.SetLevel("moon")).To(MatchError(config.ErrUnknownLevel))
		})
	})

	Describe("Tune", func() {
		It("applies gravity from the next tick on", func() {
			s := newSession()
			b := s.SpawnBall()
			s.Advance(dt)
			Expect(b.Vel.Y).To(BeNumerically("<", 0))
			Expect(s.Tune("gravity", 0)).To(Succeed())
			vy := b.Vel.Y

			s.Advance(dt)
			Expect(b.Vel.Y).To(Equal(vy))
		})

		It("changes engine parameters", func() {
			s := newSession()
			Expect(s.Tune("gravity", -1)).To(Succeed())
			Expect(s.Engine().Gravity).To(Equal(-1.0))
			Expect(s.Tune("bounce", 1)).To(MatchError(game.ErrInvalidParam))
		})
	})
})
