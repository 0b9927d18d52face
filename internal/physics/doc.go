// Package physics provides the attitude plant the flight loop is closed
// around.
//
// [Airframe] implements [dynamo.System] with state
// [roll, pitch, yaw, p, q, r] (rad, rad/s) and one control per axis in the
// mixer's output units. It also implements [dynamo.Configurable] for
// runtime parameter adjustment.
//
//	af := physics.NewAirframe(cfg.Airframe)
//	dx := af.Derive(x, u, t)
package physics
