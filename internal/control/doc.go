// Package control implements the attitude stabilization core.
//
// Controllers implement [flight.Controller]:
//
//   - [Stabilize]: leveled (angle) loop blended with a rate loop on roll and
//     pitch by stick deflection, rate-only yaw with a yaw-jump clamp
//   - [Acro]: pure rate control built from three [RatePID]s
//
// # Usage
//
//	ctrl := control.NewStabilize(cfg.Stabilize, cfg.IMU, cfg.Trim)
//	out := ctrl.Update(demands, gyro, euler) // once per tick
//	ctrl.UpdateReceiver(throttleIsDown)      // ground idle resets integrals
//
// Nothing in this package blocks, allocates per tick, or performs I/O.
package control
