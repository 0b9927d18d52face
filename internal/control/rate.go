package control

import (
	"math"

	"github.com/san-kum/flightcore/internal/numeric"
)

const (
	// RateWindupMax bounds the rate PID integral, in rad/s accumulated per tick.
	RateWindupMax = 6.0

	// BigDegreesPerSecond is the angular velocity above which the rate PID
	// drops its integral.
	BigDegreesPerSecond = 40.0
)

// RatePID is a single-axis PID on angular velocity error. It is the
// acro-style controller and the inner loop of leveled flight.
type RatePID struct {
	P, I, D     float64
	DemandScale float64

	bigAngularVelocity float64
	lastError          float64
	errorI             float64
}

// RatePIDState is a snapshot of the accumulated values.
type RatePIDState struct {
	Integral  float64
	LastError float64
}

func NewRatePID(p, i, d, demandScale float64) *RatePID {
	return &RatePID{
		P:                  p,
		I:                  i,
		D:                  d,
		DemandScale:        demandScale,
		bigAngularVelocity: numeric.Deg2Rad(BigDegreesPerSecond),
	}
}

// Compute returns the correction for one tick. angularVelocity is in rad/s.
// itermFactor scales the integral term; standalone callers pass 1.
func (p *RatePID) Compute(demand, angularVelocity, itermFactor float64) float64 {
	err := demand*p.DemandScale - angularVelocity

	pterm := err * p.P

	p.errorI = numeric.ConstrainAbs(p.errorI+err, RateWindupMax)

	// Reset after the clamp so a fast spin never carries integral.
	if math.Abs(angularVelocity) > p.bigAngularVelocity {
		p.errorI = 0
	}

	iterm := p.errorI * p.I * itermFactor

	dterm := 0.0
	if p.D > 0 {
		dterm = (err - p.lastError) * p.D
		p.lastError = err
	}

	return pterm + iterm + dterm
}

func (p *RatePID) ResetIntegral() {
	p.errorI = 0
}

// UpdateReceiver resets the integral while the vehicle sits at ground idle.
func (p *RatePID) UpdateReceiver(throttleIsDown bool) {
	if throttleIsDown {
		p.ResetIntegral()
	}
}

func (p *RatePID) State() RatePIDState {
	return RatePIDState{Integral: p.errorI, LastError: p.lastError}
}
