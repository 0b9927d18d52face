// Package fc runs one flight-control tick: it gates the controller on IMU
// freshness and arming state and forwards the result to the motor mixer.
package fc

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/mixbus"
)

// Input is everything the loop consumes in one tick.
type Input struct {
	Demands flight.Demands
	Sample  flight.Sample
	Armed   bool
}

// Stats counts what the loop has done since construction.
type Stats struct {
	Ticks      int
	StaleTicks int
	ArmEdges   int
}

type Loop struct {
	ctrl        flight.Controller
	pub         *mixbus.Publisher
	minThrottle float64
	logger      *log.Logger

	armed bool
	last  flight.AxisOutput
	stats Stats
}

// New builds a loop around ctrl. pub and logger may be nil.
func New(ctrl flight.Controller, pub *mixbus.Publisher, minThrottle float64, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loop{
		ctrl:        ctrl,
		pub:         pub,
		minThrottle: minThrottle,
		logger:      logger,
	}
}

// Tick runs the controller once. A stale sample leaves the controller
// untouched and returns the previous output with flight.ErrStaleSample.
func (l *Loop) Tick(ctx context.Context, in Input) (flight.AxisOutput, error) {
	l.stats.Ticks++

	if !in.Sample.Fresh {
		l.stats.StaleTicks++
		l.logger.Debug("stale imu sample", "tick", l.stats.Ticks)
		return l.last, flight.ErrStaleSample
	}

	if in.Armed != l.armed {
		l.armed = in.Armed
		l.stats.ArmEdges++
		l.ctrl.ResetIntegral()
		if l.armed {
			l.logger.Info("armed", "tick", l.stats.Ticks)
		} else {
			l.logger.Info("disarmed", "tick", l.stats.Ticks)
		}
	}

	// Receiver update runs after the controller so a throttle-down tick
	// ends with zeroed integrals.
	var out flight.AxisOutput
	if !l.armed {
		l.ctrl.UpdateReceiver(true)
	} else {
		out = l.ctrl.Update(in.Demands, in.Sample.Gyro, in.Sample.Euler)
		l.ctrl.UpdateReceiver(in.Demands.Throttle < l.minThrottle)
	}
	l.last = out

	if l.pub != nil {
		if err := l.pub.Publish(ctx, mixbus.Command{Output: out, Armed: l.armed}); err != nil {
			l.logger.Error("mixer publish failed", "err", err)
			return out, err
		}
	}
	return out, nil
}

func (l *Loop) Armed() bool {
	return l.armed
}

func (l *Loop) Last() flight.AxisOutput {
	return l.last
}

func (l *Loop) Stats() Stats {
	return l.stats
}

// Controller returns the wrapped controller.
func (l *Loop) Controller() flight.Controller {
	return l.ctrl
}
