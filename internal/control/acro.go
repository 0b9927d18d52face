package control

import (
	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/numeric"
)

// Acro is a pure rate controller: each axis tracks a commanded angular
// velocity with its own RatePID and ignores attitude.
type Acro struct {
	pids      [3]*RatePID
	trim      flight.Vector3
	gyroScale float64
}

// NewAcro builds the rate controller. gyroScale converts raw gyro counts to
// degrees per second.
func NewAcro(cfg config.AcroConfig, gyroScale float64, trim config.TrimConfig) *Acro {
	return &Acro{
		pids: [3]*RatePID{
			flight.Roll:  NewRatePID(cfg.RateP, cfg.RateI, cfg.RateD, cfg.DemandScale),
			flight.Pitch: NewRatePID(cfg.RateP, cfg.RateI, cfg.RateD, cfg.DemandScale),
			flight.Yaw:   NewRatePID(cfg.YawP, cfg.YawI, cfg.YawD, cfg.DemandScale),
		},
		trim:      trim.Vector(),
		gyroScale: gyroScale,
	}
}

func (a *Acro) Update(d flight.Demands, gyro flight.GyroReading, _ flight.EulerAngles) flight.AxisOutput {
	var out flight.AxisOutput
	for _, axis := range flight.Axes {
		rate := numeric.Deg2Rad(gyro.At(axis) / a.gyroScale)
		out.Set(axis, a.pids[axis].Compute(d.Axis(axis), rate, 1)+a.trim.At(axis))
	}
	return out
}

func (a *Acro) ResetIntegral() {
	for _, p := range a.pids {
		p.ResetIntegral()
	}
}

func (a *Acro) UpdateReceiver(throttleIsDown bool) {
	for _, p := range a.pids {
		p.UpdateReceiver(throttleIsDown)
	}
}

// PID exposes the rate controller for one axis.
func (a *Acro) PID(axis flight.Axis) *RatePID {
	if !axis.Valid() {
		return nil
	}
	return a.pids[axis]
}
