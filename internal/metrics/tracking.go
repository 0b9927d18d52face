package metrics

import (
	"math"

	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/numeric"
)

// TrackingError is the RMS gap in degrees between the leveled-mode target
// angle and the actual roll and pitch, over armed ticks.
type TrackingError struct {
	name           string
	maxInclination float64
	sumSq          float64
	samples        int
}

func NewTrackingError(maxInclination float64) *TrackingError {
	return &TrackingError{
		name:           "tracking_error",
		maxInclination: maxInclination,
	}
}

func (e *TrackingError) Name() string { return e.name }

// Target is the angle in degrees the angle loop aims for at a given
// normalized stick demand.
func (e *TrackingError) Target(demand float64) float64 {
	tenths := control.DemandToTenths * control.DemandScale * demand
	return numeric.ConstrainAbs(tenths, control.TenthsPerDegree*e.maxInclination) / control.TenthsPerDegree
}

func (e *TrackingError) Observe(tick dynamo.Tick) {
	if !tick.Armed {
		return
	}
	dr := e.Target(tick.Demands.Roll) - tick.Euler.Roll
	dp := e.Target(tick.Demands.Pitch) - tick.Euler.Pitch
	e.sumSq += (dr*dr + dp*dp) / 2
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}
