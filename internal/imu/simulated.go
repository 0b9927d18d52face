package imu

import (
	"math/rand"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/numeric"
)

// Simulated is an IMU/AHRS driver fed from a simulated airframe. It reports
// gyro rates as raw counts and attitude in degrees, and only has fresh data
// on every DataReadyDivider-th poll.
//
// The configured mounting is applied on the sensor side and undone by the
// driver, so the body-frame rates, and hence a whole run, are the same for
// every mounting.
type Simulated struct {
	scale    float64
	noise    float64
	divider  int
	mounting Mounting
	rng      *rand.Rand

	tick     int
	attitude flight.Vector3
	rates    flight.Vector3
}

func NewSimulated(cfg config.ImuConfig, seed int64) (*Simulated, error) {
	m, err := MountingFor(cfg.Mounting)
	if err != nil {
		return nil, err
	}
	divider := cfg.DataReadyDivider
	if divider < 1 {
		divider = 1
	}
	return &Simulated{
		scale:    cfg.GyroScale,
		noise:    cfg.GyroNoise,
		divider:  divider,
		mounting: m,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Observe records the true body attitude (rad) and rates (rad/s) for the
// next poll.
func (s *Simulated) Observe(attitude, rates flight.Vector3) {
	s.attitude = attitude
	s.rates = rates
	s.tick++
}

func (s *Simulated) ready() bool {
	return s.tick%s.divider == 0
}

// raw is what the sensor itself measures, in its own frame.
func (s *Simulated) raw() flight.GyroReading {
	var g flight.GyroReading
	for _, axis := range flight.Axes {
		counts := numeric.Rad2Deg(s.rates.At(axis)) * s.scale
		if s.noise > 0 {
			counts += s.rng.NormFloat64() * s.noise
		}
		g.Set(axis, counts)
	}
	s.mounting.Adjust(&g)
	return g
}

// Gyro returns body-frame rates in raw counts.
func (s *Simulated) Gyro() (flight.GyroReading, bool) {
	if !s.ready() {
		return flight.GyroReading{}, false
	}
	g := s.raw()
	s.mounting.Adjust(&g)
	return g, true
}

// Attitude reports the fused orientation the way an AHRS does: as a
// quaternion converted to Euler degrees.
func (s *Simulated) Attitude() (flight.EulerAngles, bool) {
	if !s.ready() {
		return flight.EulerAngles{}, false
	}
	q := QuaternionFromEuler(s.attitude.At(flight.Roll), s.attitude.At(flight.Pitch), s.attitude.At(flight.Yaw))
	e := EulerFromQuaternion(q[0], q[1], q[2], q[3])
	return flight.EulerAngles{
		Roll:  numeric.WrapDegrees(e.Roll),
		Pitch: numeric.WrapDegrees(e.Pitch),
		Yaw:   numeric.WrapDegrees(e.Yaw),
	}, true
}

// Sample polls both capabilities for one tick.
func (s *Simulated) Sample() flight.Sample {
	return flight.Poll(s, s)
}

func (s *Simulated) Mounting() Mounting {
	return s.mounting
}
