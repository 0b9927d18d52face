package pilot

import (
	"time"

	"go.einride.tech/pid"

	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/numeric"
)

// maxYawDemand bounds the autopilot to half stick.
const maxYawDemand = 0.25

// Autopilot holds a heading by driving the yaw stick from a PID on the
// heading error. The other sticks come from the wrapped script.
type Autopilot struct {
	base    *script
	heading signal
	yaw     pid.Controller
	lastT   float64
	started bool
}

func newAutopilot(base *script, heading signal) *Autopilot {
	return &Autopilot{
		base:    base,
		heading: heading,
		yaw: pid.Controller{
			Config: pid.ControllerConfig{
				ProportionalGain: 0.01,
				IntegralGain:     0.002,
				DerivativeGain:   0.001,
			},
		},
	}
}

func (a *Autopilot) Demands(t float64, euler flight.EulerAngles) flight.Demands {
	d := a.base.Demands(t, euler)
	if !a.base.Armed(t) {
		a.yaw.Reset()
		a.started = false
		return d
	}

	if a.started && t > a.lastT {
		// Reference is expressed relative to the current heading so the
		// error takes the short way round.
		errDeg := numeric.WrapDegrees(a.heading(t) - euler.Yaw)
		a.yaw.Update(pid.ControllerInput{
			ReferenceSignal:  euler.Yaw + errDeg,
			ActualSignal:     euler.Yaw,
			SamplingInterval: time.Duration((t - a.lastT) * float64(time.Second)),
		})
	}
	a.started = true
	a.lastT = t

	d.Yaw = numeric.ConstrainAbs(a.yaw.State.ControlSignal, maxYawDemand)
	return d
}

func (a *Autopilot) Armed(t float64) bool {
	return a.base.Armed(t)
}

// Target returns the commanded heading in degrees at t.
func (a *Autopilot) Target(t float64) float64 {
	return a.heading(t)
}
