package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/dynamo"
)

// State layout.
const (
	IdxRoll = iota
	IdxPitch
	IdxYaw
	IdxP
	IdxQ
	IdxR

	StateDim = 6
)

// Airframe is a rigid body driven by per-axis torques from the mixer.
type Airframe struct {
	InertiaRoll, InertiaPitch, InertiaYaw float64
	TorquePerUnit                         float64
	AngDrag                               float64
}

func NewAirframe(cfg config.AirframeConfig) *Airframe {
	return &Airframe{
		InertiaRoll:   cfg.InertiaRoll,
		InertiaPitch:  cfg.InertiaPitch,
		InertiaYaw:    cfg.InertiaYaw,
		TorquePerUnit: cfg.TorquePerUnit,
		AngDrag:       cfg.AngularDrag,
	}
}

func (a *Airframe) StateDim() int   { return StateDim }
func (a *Airframe) ControlDim() int { return 3 }

func (a *Airframe) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	phi, theta := x[IdxRoll], x[IdxPitch]
	p, q, r := x[IdxP], x[IdxQ], x[IdxR]

	var ur, up, uy float64
	if len(u) >= 3 {
		ur, up, uy = u[0], u[1], u[2]
	}

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	cosTheta := math.Cos(theta)
	if math.Abs(cosTheta) < 1e-6 {
		cosTheta = math.Copysign(1e-6, cosTheta)
	}
	tanTheta := math.Sin(theta) / cosTheta

	// Body rates to Euler angle rates.
	phiDot := p + (q*sinPhi+r*cosPhi)*tanTheta
	thetaDot := q*cosPhi - r*sinPhi
	psiDot := (q*sinPhi + r*cosPhi) / cosTheta

	ix, iy, iz := a.InertiaRoll, a.InertiaPitch, a.InertiaYaw
	k := a.TorquePerUnit

	pDot := (k*ur - a.AngDrag*p + (iy-iz)*q*r) / ix
	qDot := (k*up - a.AngDrag*q + (iz-ix)*p*r) / iy
	rDot := (k*uy - a.AngDrag*r + (ix-iy)*p*q) / iz

	return dynamo.State{phiDot, thetaDot, psiDot, pDot, qDot, rDot}
}

// Attitude splits a state into Euler angles and body rates.
func Attitude(x dynamo.State) (angles, rates [3]float64) {
	copy(angles[:], x[IdxRoll:IdxYaw+1])
	copy(rates[:], x[IdxP:IdxR+1])
	return angles, rates
}

// RotationalEnergy is the kinetic energy held in the body rates.
func (a *Airframe) RotationalEnergy(x dynamo.State) float64 {
	p, q, r := x[IdxP], x[IdxQ], x[IdxR]
	return 0.5 * (a.InertiaRoll*p*p + a.InertiaPitch*q*q + a.InertiaYaw*r*r)
}

func (a *Airframe) GetParams() map[string]float64 {
	return map[string]float64{
		"inertia_roll":    a.InertiaRoll,
		"inertia_pitch":   a.InertiaPitch,
		"inertia_yaw":     a.InertiaYaw,
		"torque_per_unit": a.TorquePerUnit,
		"ang_drag":        a.AngDrag,
	}
}

func (a *Airframe) SetParam(name string, value float64) error {
	if name != "ang_drag" && value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case "inertia_roll":
		a.InertiaRoll = value
	case "inertia_pitch":
		a.InertiaPitch = value
	case "inertia_yaw":
		a.InertiaYaw = value
	case "torque_per_unit":
		a.TorquePerUnit = value
	case "ang_drag":
		if value < 0 {
			return fmt.Errorf("%w: ang_drag must be non-negative, got %v", dynamo.ErrParameterBounds, value)
		}
		a.AngDrag = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
