package oracle_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

func sampleTimes() []float64 {
	ts := make([]float64, 0, 80)
	for i := 0; i < 80; i++ {
		ts = append(ts, -12+float64(i)*0.331)
	}
	return ts
}

func centralDiff(f func(float64) []float64, t, eps float64) []float64 {
	hi, lo := f(t+eps), f(t-eps)
	d := make([]float64, len(hi))
	for i := range hi {
		d[i] = (hi[i] - lo[i]) / (2 * eps)
	}
	return d
}

func expectClose(got, want []float64, tol float64) {
	ExpectWithOffset(1, got).To(HaveLen(len(want)))
	for i := range want {
		ExpectWithOffset(1, got[i]).To(BeNumerically("~", want[i], tol), "component %d", i)
	}
}

func channelsFor(scale oracle.Scale, off oracle.Vec3) []oracle.Channel {
	j, err := oracle.NewJointSpace(scale, off)
	Expect(err).NotTo(HaveOccurred())
	ts, err := oracle.NewTaskSpace(scale, off)
	Expect(err).NotTo(HaveOccurred())
	return append([]oracle.Channel{j.Channel()}, ts.Channels()...)
}

var _ = Describe("trajectory oracles", func() {
	scales := []oracle.Scale{
		oracle.UnitScale,
		{SF: 0.5, SW: 2},
		{SF: 2.5, SW: 0.3},
	}

	for _, scale := range scales {
		scale := scale

		Context(fmt.Sprintf("with sf=%g sw=%g", scale.SF, scale.SW), func() {
			It("has derivatives matching central differences", func() {
				const eps = 1e-5
				for _, ch := range channelsFor(scale, oracle.Vec3{0.3, -0.1, 2}) {
					for _, t := range sampleTimes() {
						expectClose(centralDiff(ch.Position, t, eps), ch.Velocity(t), 1e-6)
						expectClose(centralDiff(ch.Velocity, t, eps), ch.Acceleration(t), 1e-6)
					}
				}
			})

			It("repeats with period 2*pi/sw for every order", func() {
				period := 2 * math.Pi / scale.SW
				for _, ch := range channelsFor(scale, oracle.Vec3{}) {
					Expect(ch.Period).To(BeNumerically("~", period, 1e-12))
					for _, t := range sampleTimes() {
						for order := 0; order <= 2; order++ {
							f := ch.Order(order)
							expectClose(f(t+period), f(t), 1e-9)
							expectClose(f(t-3*period), f(t), 1e-9)
						}
					}
				}
			})
		})
	}

	Describe("offsets", func() {
		It("add to position and leave derivatives untouched", func() {
			off := oracle.Vec3{1, 1, 1}
			plain := channelsFor(oracle.UnitScale, oracle.Vec3{})
			shifted := channelsFor(oracle.UnitScale, off)

			for _, t := range sampleTimes() {
				for i := 0; i < 2; i++ {
					p := plain[i].Position(t)
					expectClose(shifted[i].Position(t), []float64{p[0] + 1, p[1] + 1, p[2] + 1}, 1e-14)
					Expect(shifted[i].Velocity(t)).To(Equal(plain[i].Velocity(t)))
					Expect(shifted[i].Acceleration(t)).To(Equal(plain[i].Acceleration(t)))
				}
				Expect(shifted[2].Position(t)).To(Equal(plain[2].Position(t)), "twist must ignore x_off")
			}
		})
	})

	Describe("determinism", func() {
		It("returns identical functions for identical arguments", func() {
			a, ad, add, err := oracle.JointSpaceTrajectoryFactory(1.3, 0.9, []float64{0.1, 0, -0.1})
			Expect(err).NotTo(HaveOccurred())
			b, bd, bdd, err := oracle.JointSpaceTrajectoryFactory(1.3, 0.9, []float64{0.1, 0, -0.1})
			Expect(err).NotTo(HaveOccurred())

			for _, t := range sampleTimes() {
				Expect(a(t)).To(Equal(b(t)))
				Expect(ad(t)).To(Equal(bd(t)))
				Expect(add(t)).To(Equal(bdd(t)))
			}
		})
	})

	DescribeTable("invalid scales are rejected by both factories",
		func(sf, sw float64) {
			_, _, _, err := oracle.JointSpaceTrajectoryFactory(sf, sw, nil)
			Expect(err).To(MatchError(oracle.ErrInvalidScale))

			_, _, _, _, _, _, err = oracle.TaskSpaceTrajectoryFactory(sf, sw, nil)
			Expect(err).To(MatchError(oracle.ErrInvalidScale))
		},
		Entry("sf = 0", 0.0, 1.0),
		Entry("sw = 0", 1.0, 0.0),
		Entry("sw = -1", 1.0, -1.0),
	)
})
