// Package dynamo provides the simulation primitives the closed loop is
// built from.
//
//   - [State]: plant state vector
//   - [System]: plant dynamics (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper
//   - [Metric] and [Observer]: per-tick hooks fed a [Tick]
//   - [Configurable]: runtime parameter access for tuning
//
// # Thread Safety
//
// Systems and integrators are NOT thread-safe; integrators keep scratch
// buffers. Use one set per goroutine, as [ParallelFor] callers do.
package dynamo
