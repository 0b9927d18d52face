package control_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/flight"
)

func randomTick(r *rand.Rand) (flight.Demands, flight.GyroReading, flight.EulerAngles) {
	d := flight.Demands{
		Roll:     r.Float64() - 0.5,
		Pitch:    r.Float64() - 0.5,
		Yaw:      r.Float64() - 0.5,
		Throttle: r.Float64(),
	}
	g := flight.GyroReading{
		(r.Float64() - 0.5) * 2000,
		(r.Float64() - 0.5) * 2000,
		(r.Float64() - 0.5) * 2000,
	}
	e := flight.EulerAngles{
		Roll:  (r.Float64() - 0.5) * 120,
		Pitch: (r.Float64() - 0.5) * 120,
	}
	return d, g, e
}

var _ = Describe("Stabilize", func() {
	var (
		cfg  *config.Config
		stab *control.Stabilize
	)

	build := func() {
		stab = control.NewStabilize(cfg.Stabilize, cfg.IMU, cfg.Trim)
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		build()
	})

	Describe("integral bounds", func() {
		It("keeps every accumulator inside its windup bound", func() {
			cfg.Stabilize.GyroWindupMax = 50
			cfg.Stabilize.AngleWindupMax = 30
			cfg.Stabilize.BigGyro = 5000
			build()

			r := rand.New(rand.NewSource(7))
			for i := 0; i < 2000; i++ {
				stab.Update(randomTick(r))
				st := stab.State()
				for _, axis := range flight.Axes {
					Expect(math.Abs(st.GyroI.At(axis))).To(BeNumerically("<=", 50))
				}
				Expect(math.Abs(st.AngleI[flight.Roll])).To(BeNumerically("<=", 30))
				Expect(math.Abs(st.AngleI[flight.Pitch])).To(BeNumerically("<=", 30))
			}
		})

		It("zeros every accumulator on reset, and a second reset changes nothing", func() {
			r := rand.New(rand.NewSource(11))
			for i := 0; i < 50; i++ {
				stab.Update(randomTick(r))
			}

			stab.ResetIntegral()
			once := stab.State()
			Expect(once.GyroI).To(Equal(flight.Vector3{}))
			Expect(once.AngleI).To(Equal([2]float64{}))

			stab.ResetIntegral()
			Expect(stab.State()).To(Equal(once))
		})

		It("resets on ground idle only", func() {
			stab.Update(flight.Demands{}, flight.GyroReading{10, 10, 10}, flight.EulerAngles{Roll: 3})
			Expect(stab.State().GyroI).NotTo(Equal(flight.Vector3{}))

			stab.UpdateReceiver(false)
			Expect(stab.State().GyroI).NotTo(Equal(flight.Vector3{}))

			stab.UpdateReceiver(true)
			Expect(stab.State().GyroI).To(Equal(flight.Vector3{}))
			Expect(stab.State().AngleI).To(Equal([2]float64{}))
		})
	})

	Describe("saturation resets", func() {
		BeforeEach(func() {
			cfg.Stabilize.RatePitchRollP = 1
			cfg.Stabilize.RatePitchRollI = 0
			cfg.Stabilize.RatePitchRollD = 0
			cfg.Stabilize.BigGyro = 40
			build()
		})

		It("drops the roll rate integral when the gyro exceeds the big threshold", func() {
			for i := 0; i < 5; i++ {
				stab.Update(flight.Demands{}, flight.GyroReading{10, 0, 0}, flight.EulerAngles{})
			}
			Expect(stab.State().GyroI.At(flight.Roll)).To(Equal(-50.0))

			stab.Update(flight.Demands{}, flight.GyroReading{50, 0, 0}, flight.EulerAngles{})
			Expect(stab.State().GyroI.At(flight.Roll)).To(Equal(0.0))
		})

		DescribeTable("forces the integral to zero regardless of sign",
			func(gyroRoll float64) {
				stab.Update(flight.Demands{}, flight.GyroReading{gyroRoll, 0, 0}, flight.EulerAngles{})
				Expect(stab.State().GyroI.At(flight.Roll)).To(Equal(0.0))
			},
			Entry("positive", 50.0),
			Entry("negative", -50.0),
		)

		It("drops the yaw integral on a big yaw demand", func() {
			for i := 0; i < 3; i++ {
				stab.Update(flight.Demands{Yaw: 0.05}, flight.GyroReading{}, flight.EulerAngles{})
			}
			Expect(stab.State().GyroI.At(flight.Yaw)).To(BeNumerically(">", 0))

			stab.Update(flight.Demands{Yaw: 0.2}, flight.GyroReading{}, flight.EulerAngles{})
			Expect(stab.State().GyroI.At(flight.Yaw)).To(Equal(0.0))
		})
	})

	Describe("leveled/acro blend", func() {
		BeforeEach(func() {
			cfg.Stabilize.RatePitchRollI = 0
			cfg.Stabilize.RatePitchRollD = 0
			build()
		})

		It("uses the angle loop alone with centered sticks", func() {
			out := stab.Update(flight.Demands{}, flight.GyroReading{}, flight.EulerAngles{Roll: 5, Pitch: -3})

			Expect(out.At(flight.Roll)).To(BeNumerically("~", -tenthsOf(5)*cfg.Stabilize.LevelP, 1e-9))
			Expect(out.At(flight.Pitch)).To(BeNumerically("~", tenthsOf(3)*cfg.Stabilize.LevelP, 1e-9))
		})

		It("passes the raw demand through at full stick", func() {
			out := stab.Update(flight.Demands{Roll: 0.5}, flight.GyroReading{}, flight.EulerAngles{Roll: 20, Pitch: 7})

			Expect(out.At(flight.Roll)).To(Equal(500.0))
			Expect(out.At(flight.Pitch)).To(Equal(0.0))
		})

		It("clamps the commanded angle to the maximum inclination", func() {
			cfg.IMU.MaxInclination = 10
			cfg.Stabilize.LevelP = 1
			build()

			// 0.4 stick is 800 tenths, clamped to 100; prop 0.8 weights the angle path by 0.2.
			out := stab.Update(flight.Demands{Roll: 0.4}, flight.GyroReading{}, flight.EulerAngles{})
			Expect(out.At(flight.Roll)).To(BeNumerically("~", 0.2*100+0.8*400, 1e-9))
		})

		It("computes prop from the larger of roll and pitch", func() {
			Expect(control.Proportion(500, 0)).To(Equal(1.0))
			Expect(control.Proportion(-250, 100)).To(Equal(0.5))
			Expect(control.Proportion(0, 0)).To(Equal(0.0))
			Expect(control.Proportion(1000, 0)).To(Equal(1.0))
		})

		It("scales the rate integral linearly with prop", func() {
			cfg.Stabilize.LevelP = 0
			cfg.Stabilize.RatePitchRollP = 0
			cfg.Stabilize.RatePitchRollI = 1
			build()
			a := stab.Update(flight.Demands{Pitch: 0.2}, flight.GyroReading{-10, 0, 0}, flight.EulerAngles{})

			build()
			b := stab.Update(flight.Demands{Pitch: 0.1}, flight.GyroReading{-10, 0, 0}, flight.EulerAngles{})

			Expect(a.At(flight.Roll)).To(BeNumerically("~", 4, 1e-9))
			Expect(b.At(flight.Roll)).To(BeNumerically("~", a.At(flight.Roll)/2, 1e-9))
		})
	})

	Describe("derivative", func() {
		It("sums the current and two previous gyro deltas", func() {
			cfg.Stabilize.LevelP = 0
			cfg.Stabilize.RatePitchRollP = 0
			cfg.Stabilize.RatePitchRollI = 0
			cfg.Stabilize.RatePitchRollD = 1
			build()

			var got []float64
			for _, g := range []float64{10, 30, 60, 100} {
				out := stab.Update(flight.Demands{}, flight.GyroReading{g, 0, 0}, flight.EulerAngles{})
				got = append(got, out.At(flight.Roll))
			}
			Expect(got).To(Equal([]float64{-10, -30, -60, -90}))

			st := stab.State()
			Expect(st.LastGyro[flight.Roll]).To(Equal(100.0))
			Expect(st.Delta1[flight.Roll]).To(Equal(40.0))
			Expect(st.Delta2[flight.Roll]).To(Equal(30.0))
		})
	})

	Describe("angle integral", func() {
		BeforeEach(func() {
			cfg.Stabilize.LevelP = 0
			cfg.Stabilize.RatePitchRollP = 0
			cfg.Stabilize.RatePitchRollI = 0
			cfg.Stabilize.RatePitchRollD = 0
			cfg.Stabilize.AngleWindupMax = 30
		})

		It("accumulates without touching the output when level_i is zero", func() {
			build()
			out := stab.Update(flight.Demands{}, flight.GyroReading{}, flight.EulerAngles{Roll: 2})
			Expect(out.At(flight.Roll)).To(Equal(0.0))
			Expect(stab.State().AngleI[flight.Roll]).To(Equal(-20.0))
		})

		It("feeds the bounded accumulator back when level_i is set", func() {
			cfg.Stabilize.LevelI = 0.5
			build()
			first := stab.Update(flight.Demands{}, flight.GyroReading{}, flight.EulerAngles{Roll: 2})
			second := stab.Update(flight.Demands{}, flight.GyroReading{}, flight.EulerAngles{Roll: 2})
			Expect(first.At(flight.Roll)).To(BeNumerically("~", -10, 1e-9))
			Expect(second.At(flight.Roll)).To(BeNumerically("~", -15, 1e-9))
		})
	})

	Describe("yaw", func() {
		It("never exceeds the yaw-jump bound", func() {
			r := rand.New(rand.NewSource(3))
			for i := 0; i < 2000; i++ {
				d, g, e := randomTick(r)
				out := stab.Update(d, g, e)
				bound := control.YawJumpFloor + math.Abs(control.DemandScale*d.Yaw)
				Expect(math.Abs(out.At(flight.Yaw))).To(BeNumerically("<=", bound))
			}
		})

		It("clamps a hard correction to the floor at zero demand", func() {
			out := stab.Update(flight.Demands{}, flight.GyroReading{0, 0, -5000}, flight.EulerAngles{})
			Expect(out.At(flight.Yaw)).To(Equal(control.YawJumpFloor))
		})

		It("has no derivative term", func() {
			cfg.Stabilize.YawI = 0
			build()
			for _, g := range []float64{0, 100, -100} {
				out := stab.Update(flight.Demands{}, flight.GyroReading{0, 0, g}, flight.EulerAngles{})
				Expect(out.At(flight.Yaw)).To(BeNumerically("~", -g*cfg.Stabilize.YawP, 1e-9))
			}
		})
	})

	It("outputs exactly the trims when everything is zero", func() {
		cfg.Trim = config.TrimConfig{Roll: 3, Pitch: -2, Yaw: 1}
		build()

		out := stab.Update(flight.Demands{}, flight.GyroReading{}, flight.EulerAngles{})
		Expect(out).To(Equal(flight.AxisOutput{3, -2, 1}))
	})
})

// tenthsOf converts degrees to the angle loop's tenths of a degree.
func tenthsOf(deg float64) float64 {
	return control.TenthsPerDegree * deg
}
