package input_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/input"
)

type source struct {
	kind    string
	x, y, r int
	amount  float64
	vx, vy  float64
}

type recorder struct {
	calls []source
}

func (r *recorder) AddDensity(x, y, radius int, amount float64) {
	r.calls = append(r.calls, source{kind: "density", x: x, y: y, r: radius, amount: amount})
}

func (r *recorder) AddVelocity(x, y, radius int, ax, ay float64) {
	r.calls = append(r.calls, source{kind: "velocity", x: x, y: y, r: radius, vx: ax, vy: ay})
}

var _ = Describe("Painter", func() {
	var (
		rec     *recorder
		painter *input.Painter
	)

	BeforeEach(func() {
		rec = &recorder{}
		painter = input.NewPainter(rec, config.DefaultConfig().Brush)
	})

	It("only anchors the stroke on the first held sample", func() {
		painter.Held(10, 10)
		Expect(rec.calls).To(BeEmpty())
		Expect(painter.Tracking()).To(BeTrue())
	})

	It("injects density and displacement velocity on later samples", func() {
		painter.Held(10, 10)
		painter.Held(13, 8)

		Expect(rec.calls).To(Equal([]source{
			{kind: "density", x: 13, y: 8, r: 2, amount: 100},
			{kind: "velocity", x: 13, y: 8, r: 2, vx: 3, vy: -2},
		}))
	})

	It("measures displacement from the previous sample", func() {
		painter.Held(0, 0)
		painter.Held(5, 0)
		painter.Held(6, 0)

		last := rec.calls[len(rec.calls)-1]
		Expect(last.kind).To(Equal("velocity"))
		Expect(last.vx).To(Equal(1.0))
	})

	It("emits zero velocity while the pointer is still", func() {
		painter.Held(4, 4)
		painter.Held(4, 4)

		Expect(rec.calls).To(HaveLen(2))
		Expect(rec.calls[1].vx).To(BeZero())
		Expect(rec.calls[1].vy).To(BeZero())
	})

	It("starts a fresh stroke after release", func() {
		painter.Held(0, 0)
		painter.Held(2, 2)
		painter.Released()
		Expect(painter.Tracking()).To(BeFalse())

		n := len(rec.calls)
		painter.Held(50, 50)
		Expect(rec.calls).To(HaveLen(n))

		painter.Held(51, 50)
		Expect(rec.calls[n+1].vx).To(Equal(1.0))
	})

	It("scales velocity by the brush setting", func() {
		brush := config.DefaultConfig().Brush
		brush.VelocityScale = 2.5
		painter = input.NewPainter(rec, brush)

		painter.Held(0, 0)
		painter.Held(2, 0)
		Expect(rec.calls[1].vx).To(Equal(5.0))
	})

	It("drops the stroke when retargeted", func() {
		painter.Held(0, 0)
		other := &recorder{}
		painter.Retarget(other)
		painter.Held(3, 3)

		Expect(other.calls).To(BeEmpty())
		Expect(painter.Tracking()).To(BeTrue())
	})

	Context("with a fluid target", func() {
		It("deposits density around the pointer", func() {
			f, err := fluid.New(32, 0.01, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			p := input.NewPainter(f, config.DefaultConfig().Brush)

			p.Held(16, 16)
			p.Held(17, 16)

			Expect(f.Density().At(17, 16)).To(Equal(100.0))
			Expect(f.VelocityX().At(17, 16)).To(Equal(1.0))
			Expect(f.Density().At(0, 0)).To(BeZero())
		})
	})
})
