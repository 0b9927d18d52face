// Package numeric holds the small scalar helpers shared by the control core:
// unit conversion, clamping and complementary blending.
package numeric

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ConstrainAbs clamps value into [-bound, +bound]. bound must be non-negative.
func ConstrainAbs(value, bound float64) float64 {
	if value < -bound {
		return -bound
	}
	if value > bound {
		return bound
	}
	return value
}

// Constrain clamps value into [lo, hi].
func Constrain(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Complementary blends a toward b by proportion. proportion is expected in
// [0, 1] but is not clamped here.
func Complementary(a, b, proportion float64) float64 {
	if proportion == 1 {
		return b
	}
	return a + proportion*(b-a)
}

// WrapDegrees maps an angle into (-180, 180].
func WrapDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
