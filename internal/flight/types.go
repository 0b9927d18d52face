package flight

import (
	"fmt"
	"math"
	"strings"
)

// Axis identifies one rotational axis of the vehicle.
type Axis int

const (
	Roll Axis = iota
	Pitch
	Yaw

	numAxes = 3
)

// Axes lists every axis in index order.
var Axes = [numAxes]Axis{Roll, Pitch, Yaw}

// Valid reports whether a is one of Roll, Pitch or Yaw.
func (a Axis) Valid() bool {
	return a >= Roll && a < numAxes
}

func (a Axis) String() string {
	switch a {
	case Roll:
		return "roll"
	case Pitch:
		return "pitch"
	case Yaw:
		return "yaw"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis maps a case-insensitive axis name to its Axis.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(name) {
	case "roll":
		return Roll, nil
	case "pitch":
		return Pitch, nil
	case "yaw":
		return Yaw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, name)
}

// Vector3 carries one value per axis.
type Vector3 [numAxes]float64

// At returns the component for axis. It panics on an invalid axis.
func (v Vector3) At(axis Axis) float64 {
	if !axis.Valid() {
		panic(fmt.Sprintf("flight: %v out of range", axis))
	}
	return v[axis]
}

// Set assigns the component for axis. It panics on an invalid axis.
func (v *Vector3) Set(axis Axis, value float64) {
	if !axis.Valid() {
		panic(fmt.Sprintf("flight: %v out of range", axis))
	}
	v[axis] = value
}

// IsValid reports whether every component is finite.
func (v Vector3) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Demands are receiver or autopilot commands for one tick. Roll, Pitch and
// Yaw are normalized so that full stick is ±0.5; Throttle is in [0, 1].
type Demands struct {
	Roll     float64
	Pitch    float64
	Yaw      float64
	Throttle float64
}

// Axis returns the demand for a rotational axis.
func (d Demands) Axis(axis Axis) float64 {
	switch axis {
	case Roll:
		return d.Roll
	case Pitch:
		return d.Pitch
	case Yaw:
		return d.Yaw
	}
	panic(fmt.Sprintf("flight: %v out of range", axis))
}

// GyroReading holds angular rates in the device's native unit.
type GyroReading = Vector3

// AxisOutput holds one signed correction per axis for the motor mixer.
type AxisOutput = Vector3

// EulerAngles is the estimated attitude in degrees.
type EulerAngles struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// Axis returns the angle for axis.
func (e EulerAngles) Axis(axis Axis) float64 {
	switch axis {
	case Roll:
		return e.Roll
	case Pitch:
		return e.Pitch
	case Yaw:
		return e.Yaw
	}
	panic(fmt.Sprintf("flight: %v out of range", axis))
}

// Sample is one tick's worth of inertial data. Fresh is false when the
// driver reported no data-ready since the previous poll.
type Sample struct {
	Gyro  GyroReading
	Euler EulerAngles
	Fresh bool
}

// GyroSource produces angular rate samples.
type GyroSource interface {
	Gyro() (GyroReading, bool)
}

// AttitudeSource produces Euler angle samples.
type AttitudeSource interface {
	Attitude() (EulerAngles, bool)
}

// Poll reads both sources for one tick. The sample is fresh only when both
// reported new data.
func Poll(g GyroSource, a AttitudeSource) Sample {
	gyro, gok := g.Gyro()
	euler, eok := a.Attitude()
	return Sample{Gyro: gyro, Euler: euler, Fresh: gok && eok}
}

// Controller turns demands and inertial feedback into axis corrections.
type Controller interface {
	Update(d Demands, gyro GyroReading, euler EulerAngles) AxisOutput
	ResetIntegral()
	UpdateReceiver(throttleIsDown bool)
}
