// Package sim closes the flight loop around a simulated airframe.
//
// Every tick the plant state is sampled by the IMU driver, the pilot
// scenario produces demands, the flight loop runs the controller and
// publishes a mixer frame, and the decoded frame drives the plant for one
// integrator step:
//
//	s, _ := sim.New(cfg, logger)
//	result, _ := s.Run(ctx, sim.InitialState(0, 0, 0), sim.ConfigFrom(cfg.Sim))
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For seed sweeps use [Ensemble],
// which builds one Simulator per run.
package sim
