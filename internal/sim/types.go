package sim

import (
	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/numeric"
	"github.com/san-kum/flightcore/internal/physics"
)

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func ConfigFrom(c config.SimConfig) Config {
	return Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ValidateState: true,
	}
}

type Result struct {
	States     []dynamo.State
	Outputs    []flight.AxisOutput
	Demands    []flight.Demands
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	StaleTicks int
	Frames     int
}

// InitialState builds a resting plant state at the given attitude in
// degrees.
func InitialState(rollDeg, pitchDeg, yawDeg float64) dynamo.State {
	x := make(dynamo.State, physics.StateDim)
	x[physics.IdxRoll] = numeric.Deg2Rad(rollDeg)
	x[physics.IdxPitch] = numeric.Deg2Rad(pitchDeg)
	x[physics.IdxYaw] = numeric.Deg2Rad(yawDeg)
	return x
}

// EulerOf reports the true attitude of a plant state in degrees.
func EulerOf(x dynamo.State) flight.EulerAngles {
	return flight.EulerAngles{
		Roll:  numeric.WrapDegrees(numeric.Rad2Deg(x[physics.IdxRoll])),
		Pitch: numeric.WrapDegrees(numeric.Rad2Deg(x[physics.IdxPitch])),
		Yaw:   numeric.WrapDegrees(numeric.Rad2Deg(x[physics.IdxYaw])),
	}
}
