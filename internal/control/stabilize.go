package control

import (
	"math"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/numeric"
)

const (
	// DemandScale converts a normalized demand (full stick ±0.5) to the
	// controller's fixed-point range of ±500.
	DemandScale = 1000.0

	// FullStickDemand is the scaled demand at which the blend is fully acro.
	FullStickDemand = 500.0

	// TenthsPerDegree expresses angle-loop errors in tenths of a degree.
	TenthsPerDegree = 10.0

	// DemandToTenths maps a ±500 demand onto ±1000 tenths of a degree.
	DemandToTenths = 2.0

	// YawJumpFloor is the smallest yaw output bound, reached at zero yaw demand.
	YawJumpFloor = 100.0
)

// Stabilize blends a leveled (angle) loop with an acro (rate) loop on roll
// and pitch, weighted by stick deflection, and runs a rate-only loop on yaw.
//
// Gyro readings are raw counts. Euler angles are degrees. Outputs are in the
// mixer's units.
type Stabilize struct {
	cfg            config.StabilizeConfig
	maxInclination float64
	trim           flight.Vector3

	lastGyro    [2]float64
	delta1      [2]float64
	delta2      [2]float64
	errorGyroI  flight.Vector3
	errorAngleI [2]float64
}

// StabilizeState is a snapshot of every accumulator the controller keeps.
type StabilizeState struct {
	GyroI    flight.Vector3
	AngleI   [2]float64
	LastGyro [2]float64
	Delta1   [2]float64
	Delta2   [2]float64
}

func NewStabilize(cfg config.StabilizeConfig, imu config.ImuConfig, trim config.TrimConfig) *Stabilize {
	s := &Stabilize{
		cfg:            cfg,
		maxInclination: TenthsPerDegree * imu.MaxInclination,
		trim:           trim.Vector(),
	}
	s.ResetIntegral()
	return s
}

// Proportion measures how far roll/pitch sticks are deflected, from 0
// (centered, leveled) to 1 (full stick, acro). Inputs are scaled demands.
func Proportion(demandRoll, demandPitch float64) float64 {
	prop := math.Max(math.Abs(demandRoll), math.Abs(demandPitch)) / FullStickDemand
	return numeric.Constrain(prop, 0, 1)
}

func (s *Stabilize) Update(d flight.Demands, gyro flight.GyroReading, euler flight.EulerAngles) flight.AxisOutput {
	demandRoll := DemandScale * d.Roll
	demandPitch := DemandScale * d.Pitch
	demandYaw := DemandScale * d.Yaw

	prop := Proportion(demandRoll, demandPitch)

	var out flight.AxisOutput
	out.Set(flight.Roll, s.levelPid(demandRoll, prop, gyro, euler, flight.Roll))
	out.Set(flight.Pitch, s.levelPid(demandPitch, prop, gyro, euler, flight.Pitch))

	// Yaw: P straight from the demand, no D term.
	itermYaw := s.itermGyro(s.cfg.YawP, s.cfg.YawI, demandYaw, gyro, flight.Yaw)
	yaw := s.pid(s.cfg.YawP, demandYaw, itermYaw, 0, gyro, flight.Yaw)

	// Bound yaw jump during hard yaw correction.
	out.Set(flight.Yaw, numeric.ConstrainAbs(yaw, YawJumpFloor+math.Abs(demandYaw)))

	return out
}

func (s *Stabilize) itermGyro(rateP, rateI, demand float64, gyro flight.GyroReading, axis flight.Axis) float64 {
	g := gyro.At(axis)
	err := demand*rateP - g

	s.errorGyroI[axis] = numeric.ConstrainAbs(s.errorGyroI[axis]+err, s.cfg.GyroWindupMax)

	if math.Abs(g) > s.cfg.BigGyro || (axis == flight.Yaw && math.Abs(demand) > s.cfg.BigYawDemand) {
		s.errorGyroI[axis] = 0
	}

	return s.errorGyroI[axis] * rateI
}

func (s *Stabilize) pid(rateP, pterm, iterm, dterm float64, gyro flight.GyroReading, axis flight.Axis) float64 {
	pterm -= gyro.At(axis) * rateP
	return pterm + iterm - dterm + s.trim.At(axis)
}

func (s *Stabilize) levelPid(demand, prop float64, gyro flight.GyroReading, euler flight.EulerAngles, axis flight.Axis) float64 {
	rateP := s.cfg.RatePitchRollP
	itermGyro := s.itermGyro(rateP, s.cfg.RatePitchRollI, demand, gyro, axis)

	errorAngle := numeric.ConstrainAbs(DemandToTenths*demand, s.maxInclination) -
		TenthsPerDegree*euler.Axis(axis)

	ptermAccel := errorAngle * s.cfg.LevelP

	s.errorAngleI[axis] = numeric.ConstrainAbs(s.errorAngleI[axis]+errorAngle, s.cfg.AngleWindupMax)

	// prop 0 is pure angle hold, prop 1 is pure stick.
	pterm := numeric.Complementary(ptermAccel, demand, prop)

	iterm := itermGyro * prop
	if s.cfg.LevelI > 0 {
		iterm += s.errorAngleI[axis] * s.cfg.LevelI * (1 - prop)
	}

	g := gyro.At(axis)
	delta := g - s.lastGyro[axis]
	s.lastGyro[axis] = g
	deltaSum := delta + s.delta1[axis] + s.delta2[axis]
	s.delta2[axis] = s.delta1[axis]
	s.delta1[axis] = delta
	dterm := deltaSum * s.cfg.RatePitchRollD

	return s.pid(rateP, pterm, iterm, dterm, gyro, axis)
}

// ResetIntegral zeros the rate and angle integrals on every axis.
func (s *Stabilize) ResetIntegral() {
	s.errorGyroI = flight.Vector3{}
	s.errorAngleI = [2]float64{}
}

// UpdateReceiver resets the integrals while the vehicle sits at ground idle.
func (s *Stabilize) UpdateReceiver(throttleIsDown bool) {
	if throttleIsDown {
		s.ResetIntegral()
	}
}

func (s *Stabilize) State() StabilizeState {
	return StabilizeState{
		GyroI:    s.errorGyroI,
		AngleI:   s.errorAngleI,
		LastGyro: s.lastGyro,
		Delta1:   s.delta1,
		Delta2:   s.delta2,
	}
}
