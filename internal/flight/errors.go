package flight

import "errors"

// Domain errors for the flight loop and its collaborators.
var (
	// ErrStaleSample indicates the IMU had no fresh data for this tick.
	ErrStaleSample = errors.New("flight: stale imu sample")

	// ErrInvalidAxis indicates an axis value outside roll, pitch and yaw.
	ErrInvalidAxis = errors.New("flight: invalid axis")

	// ErrInvalidConfig indicates a configuration the core must not run with.
	ErrInvalidConfig = errors.New("flight: invalid configuration")
)
