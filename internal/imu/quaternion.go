package imu

import (
	"math"

	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/numeric"
)

// Quaternion is an attitude quaternion, scalar first.
type Quaternion [4]float64

func (a Quaternion) mul(b Quaternion) Quaternion {
	return Quaternion{
		a[0]*b[0] - a[1]*b[1] - a[2]*b[2] - a[3]*b[3],
		a[0]*b[1] + a[1]*b[0] + a[2]*b[3] - a[3]*b[2],
		a[0]*b[2] - a[1]*b[3] + a[2]*b[0] + a[3]*b[1],
		a[0]*b[3] + a[1]*b[2] - a[2]*b[1] + a[3]*b[0],
	}
}

// QuaternionFromEuler builds the ENU attitude quaternion for body roll, pitch
// and heading in radians. Heading turns about -z, pitch about x and roll
// about y, applied in that order.
func QuaternionFromEuler(roll, pitch, yaw float64) Quaternion {
	heading := Quaternion{math.Cos(-yaw / 2), 0, 0, math.Sin(-yaw / 2)}
	nose := Quaternion{math.Cos(pitch / 2), math.Sin(pitch / 2), 0, 0}
	wing := Quaternion{math.Cos(roll / 2), 0, math.Sin(roll / 2), 0}
	return heading.mul(nose).mul(wing)
}

// EulerFromQuaternion converts an ENU attitude quaternion to roll, pitch and
// heading in degrees.
func EulerFromQuaternion(q0, q1, q2, q3 float64) flight.EulerAngles {
	roll := math.Atan2(2*(q0*q2-q1*q3), q0*q0-q1*q1-q2*q2+q3*q3)
	pitch := math.Asin(numeric.Constrain(2*(q2*q3+q0*q1), -1, 1))
	yaw := math.Atan2(2*(q1*q2-q0*q3), q0*q0-q1*q1+q2*q2-q3*q3)

	return flight.EulerAngles{
		Roll:  numeric.Rad2Deg(roll),
		Pitch: numeric.Rad2Deg(pitch),
		Yaw:   numeric.Rad2Deg(yaw),
	}
}
