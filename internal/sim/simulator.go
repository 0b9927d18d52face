package sim

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/fc"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/imu"
	"github.com/san-kum/flightcore/internal/integrators"
	"github.com/san-kum/flightcore/internal/mixbus"
	"github.com/san-kum/flightcore/internal/physics"
	"github.com/san-kum/flightcore/internal/pilot"
)

type Simulator struct {
	plant      *physics.Airframe
	integrator dynamo.Integrator
	feed       *imu.Simulated
	gyro       flight.GyroSource
	ahrs       flight.AttitudeSource
	pilot      pilot.Pilot
	loop       *fc.Loop
	mixer      *mixbus.Recorder
	logger     *log.Logger

	metrics   []dynamo.Metric
	observers []dynamo.Observer

	x        dynamo.State
	t        float64
	disarmed bool
}

// New wires a simulator from cfg. Frames are always recorded for the
// plant; extra writers such as a SocketCAN bus receive a copy.
func New(cfg *config.Config, logger *log.Logger, extra ...mixbus.Writer) (*Simulator, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	integ, err := integrators.New(cfg.Sim.Integrator)
	if err != nil {
		return nil, err
	}
	sensor, err := imu.NewSimulated(cfg.IMU, cfg.Sim.Seed)
	if err != nil {
		return nil, err
	}
	p, err := pilot.New(cfg.Sim.Scenario)
	if err != nil {
		return nil, err
	}
	ctrl, err := control.New(cfg)
	if err != nil {
		return nil, err
	}

	rec := mixbus.NewRecorder()
	var w mixbus.Writer = rec
	if len(extra) > 0 {
		w = mixbus.Tee(append([]mixbus.Writer{rec}, extra...)...)
	}
	loop := fc.New(ctrl, mixbus.NewPublisher(cfg.MixBus.FrameID, w), cfg.Receiver.MinThrottle, logger)

	return &Simulator{
		plant:      physics.NewAirframe(cfg.Airframe),
		integrator: integ,
		feed:       sensor,
		gyro:       sensor,
		ahrs:       sensor,
		pilot:      p,
		loop:       loop,
		mixer:      rec,
		logger:     logger,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Plant() *physics.Airframe { return s.plant }
func (s *Simulator) Loop() *fc.Loop           { return s.loop }
func (s *Simulator) Pilot() pilot.Pilot       { return s.pilot }
func (s *Simulator) State() dynamo.State      { return s.x.Clone() }
func (s *Simulator) Time() float64            { return s.t }

// Reset puts the plant at x0 and the clock at zero. Controller state is
// left alone; the flight loop clears integrals on the next arm edge.
func (s *Simulator) Reset(x0 dynamo.State) error {
	if len(x0) != s.plant.StateDim() {
		return fmt.Errorf("%w: got %d states, want %d", dynamo.ErrDimensionMismatch, len(x0), s.plant.StateDim())
	}
	s.x = x0.Clone()
	s.t = 0
	s.mixer.Reset()
	return nil
}

// Resume continues from x at time t, for a simulator rebuilt mid-flight.
func (s *Simulator) Resume(x dynamo.State, t float64) error {
	if err := s.Reset(x); err != nil {
		return err
	}
	s.t = t
	return nil
}

// ForceDisarm overrides the pilot's arming switch while set.
func (s *Simulator) ForceDisarm(v bool) { s.disarmed = v }

// sense hands the true plant attitude to the simulated driver and polls the
// sensor interfaces the loop reads from.
func (s *Simulator) sense() flight.Sample {
	angles, rates := physics.Attitude(s.x)
	s.feed.Observe(angles, rates)
	return flight.Poll(s.gyro, s.ahrs)
}

// Step runs one control tick and advances the plant by dt.
func (s *Simulator) Step(ctx context.Context, dt float64) (dynamo.Tick, error) {
	sample := s.sense()

	truth := EulerOf(s.x)
	sensed := truth
	if sample.Fresh {
		sensed = sample.Euler
	}
	demands := s.pilot.Demands(s.t, sensed)
	armed := s.pilot.Armed(s.t) && !s.disarmed

	_, err := s.loop.Tick(ctx, fc.Input{Demands: demands, Sample: sample, Armed: armed})
	stale := errors.Is(err, flight.ErrStaleSample)
	if err != nil && !stale {
		return dynamo.Tick{}, err
	}

	// The plant only sees what made it onto the bus.
	var cmd mixbus.Command
	if f, ok := s.mixer.Last(); ok {
		if cmd, err = mixbus.Decode(f); err != nil {
			return dynamo.Tick{}, err
		}
	}
	var u dynamo.Control
	if cmd.Armed {
		u = dynamo.ControlFrom(cmd.Output)
	} else {
		u = dynamo.Control{0, 0, 0}
	}

	tick := dynamo.Tick{
		T:       s.t,
		X:       s.x.Clone(),
		Output:  cmd.Output,
		Demands: demands,
		Euler:   truth,
		Armed:   armed,
		Stale:   stale,
	}
	for _, m := range s.metrics {
		m.Observe(tick)
	}
	for _, obs := range s.observers {
		obs.OnStep(tick)
	}

	s.x = s.integrator.Step(s.plant, s.x, u, s.t, dt)
	s.t += dt
	return tick, nil
}

func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.Reset(x0); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		States:  make([]dynamo.State, 0, steps+1),
		Outputs: make([]flight.AxisOutput, 0, steps),
		Demands: make([]flight.Demands, 0, steps),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.States = append(result.States, s.x.Clone())
	result.Times = append(result.Times, s.t)

	s.logger.Debug("run started", "steps", steps, "dt", cfg.Dt)
	before := s.loop.Stats()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		tick, err := s.Step(ctx, cfg.Dt)
		if err != nil {
			return result, &dynamo.SimulationError{Step: i, Time: s.t, State: s.x.Clone(), Wrapped: err}
		}

		if cfg.ValidateState && !s.x.IsValid() {
			s.logger.Error("plant diverged", "step", i, "t", s.t)
			return result, &dynamo.SimulationError{Step: i, Time: s.t, State: s.x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		result.StepsTaken++
		result.States = append(result.States, s.x.Clone())
		result.Outputs = append(result.Outputs, tick.Output)
		result.Demands = append(result.Demands, tick.Demands)
		result.Times = append(result.Times, s.t)
		if tick.Stale {
			result.StaleTicks++
		}
	}

	result.Frames = s.loop.Stats().Ticks - before.Ticks - result.StaleTicks
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "steps", result.StepsTaken, "stale", result.StaleTicks)
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
