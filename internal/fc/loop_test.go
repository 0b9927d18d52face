package fc_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/fc"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/mixbus"
)

type recordingController struct {
	updates  int
	resets   int
	receiver []bool
	out      flight.AxisOutput
}

func (c *recordingController) Update(flight.Demands, flight.GyroReading, flight.EulerAngles) flight.AxisOutput {
	c.updates++
	return c.out
}

func (c *recordingController) ResetIntegral() { c.resets++ }

func (c *recordingController) UpdateReceiver(down bool) {
	c.receiver = append(c.receiver, down)
}

var _ = Describe("Loop", func() {
	var (
		ctx  context.Context
		ctrl *recordingController
		rec  *mixbus.Recorder
		loop *fc.Loop
	)

	fresh := flight.Sample{Fresh: true}

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = &recordingController{out: flight.AxisOutput{10, -20, 30}}
		rec = mixbus.NewRecorder()
		loop = fc.New(ctrl, mixbus.NewPublisher(0, rec), 0.05, nil)
	})

	It("outputs zero while disarmed and holds the receiver reset", func() {
		out, err := loop.Tick(ctx, fc.Input{Sample: fresh, Demands: flight.Demands{Throttle: 0.5}})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(flight.AxisOutput{}))
		Expect(ctrl.updates).To(BeZero())
		Expect(ctrl.receiver).To(Equal([]bool{true}))
	})

	It("resets integrals on arm and disarm edges", func() {
		armed := fc.Input{Sample: fresh, Armed: true, Demands: flight.Demands{Throttle: 0.5}}

		_, _ = loop.Tick(ctx, armed)
		Expect(ctrl.resets).To(Equal(1))
		Expect(loop.Armed()).To(BeTrue())

		_, _ = loop.Tick(ctx, armed)
		Expect(ctrl.resets).To(Equal(1))

		_, _ = loop.Tick(ctx, fc.Input{Sample: fresh})
		Expect(ctrl.resets).To(Equal(2))
		Expect(loop.Stats().ArmEdges).To(Equal(2))
	})

	It("runs the controller when armed", func() {
		out, err := loop.Tick(ctx, fc.Input{Sample: fresh, Armed: true, Demands: flight.Demands{Throttle: 0.5}})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(ctrl.out))
		Expect(ctrl.updates).To(Equal(1))
		Expect(ctrl.receiver).To(Equal([]bool{false}))
	})

	It("flags throttle below the idle threshold", func() {
		_, _ = loop.Tick(ctx, fc.Input{Sample: fresh, Armed: true, Demands: flight.Demands{Throttle: 0.01}})
		Expect(ctrl.receiver).To(Equal([]bool{true}))
		Expect(ctrl.updates).To(Equal(1))
	})

	It("filters stale samples without touching the controller", func() {
		_, _ = loop.Tick(ctx, fc.Input{Sample: fresh, Armed: true, Demands: flight.Demands{Throttle: 0.5}})
		updates, resets := ctrl.updates, ctrl.resets

		out, err := loop.Tick(ctx, fc.Input{Armed: false})
		Expect(errors.Is(err, flight.ErrStaleSample)).To(BeTrue())
		Expect(out).To(Equal(ctrl.out))
		Expect(ctrl.updates).To(Equal(updates))
		Expect(ctrl.resets).To(Equal(resets))
		Expect(loop.Armed()).To(BeTrue())
		Expect(loop.Stats().StaleTicks).To(Equal(1))
	})

	It("publishes every fresh tick to the mixer", func() {
		_, _ = loop.Tick(ctx, fc.Input{Sample: fresh, Armed: true, Demands: flight.Demands{Throttle: 0.5}})
		_, _ = loop.Tick(ctx, fc.Input{})

		Expect(rec.Frames()).To(HaveLen(1))
		f, ok := rec.Last()
		Expect(ok).To(BeTrue())
		cmd, err := mixbus.Decode(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.Armed).To(BeTrue())
		Expect(cmd.Output).To(Equal(ctrl.out))
	})

	It("reports mixer failures", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loop.Tick(cctx, fc.Input{Sample: fresh})
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Loop with the stabilize controller", func() {
	var (
		ctx  context.Context
		ctrl *control.Stabilize
		loop *fc.Loop
	)

	sample := flight.Sample{Gyro: flight.GyroReading{10, 10, 10}, Fresh: true}

	BeforeEach(func() {
		ctx = context.Background()
		cfg := config.DefaultConfig()
		ctrl = control.NewStabilize(cfg.Stabilize, cfg.IMU, cfg.Trim)
		loop = fc.New(ctrl, nil, 0.05, nil)
	})

	It("leaves no integral behind on throttle-down ticks", func() {
		idle := fc.Input{Sample: sample, Armed: true}
		_, _ = loop.Tick(ctx, idle)
		_, _ = loop.Tick(ctx, idle)

		state := ctrl.State()
		Expect(state.GyroI).To(Equal(flight.Vector3{}))
		Expect(state.AngleI).To(Equal([2]float64{}))
	})

	It("accumulates once the throttle is up", func() {
		_, _ = loop.Tick(ctx, fc.Input{Sample: sample, Armed: true})
		_, _ = loop.Tick(ctx, fc.Input{Sample: sample, Armed: true, Demands: flight.Demands{Throttle: 0.5}})

		Expect(ctrl.State().GyroI).NotTo(Equal(flight.Vector3{}))
	})
})
