// Package flight defines the values exchanged between the flight computer's
// collaborators and its stabilization core.
//
// The types here are deliberately small:
//
//   - [Axis]: closed enumeration of roll, pitch and yaw
//   - [Vector3]: one float64 per axis, indexed by [Axis]
//   - [Demands]: normalized receiver or autopilot commands
//   - [Sample]: one IMU/AHRS sample (gyro counts and Euler degrees)
//   - [Controller]: the three-axis stabilizer contract
//
// # Ownership
//
// Controllers are NOT safe for concurrent use. Every Update must complete
// before the next one starts, and all controller state belongs to the
// control-loop goroutine. Configuration values are copied at construction
// and never mutated afterwards, so they may be shared read-only.
package flight
