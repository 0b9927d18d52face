package integrators

import "github.com/san-kum/flightcore/internal/dynamo"

// rk4Stages are the classic Runge-Kutta node offsets and weights.
var rk4Stages = [4]struct{ offset, weight float64 }{
	{0, 1.0 / 6},
	{0.5, 2.0 / 6},
	{0.5, 2.0 / 6},
	{1, 1.0 / 6},
}

// RK4 is a fourth-order stepper. The control is held for the whole step,
// as the mixer holds the last frame between control ticks. Stage buffers
// are reused, so an RK4 must not be shared between goroutines.
type RK4 struct {
	slope dynamo.State
	trial dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.trial) != n {
		r.slope = make(dynamo.State, n)
		r.trial = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.resize(n)

	next := x.Clone()
	copy(r.trial, x)
	for i, st := range rk4Stages {
		if i > 0 {
			for j := 0; j < n; j++ {
				r.trial[j] = x[j] + st.offset*dt*r.slope[j]
			}
		}
		copy(r.slope, dyn.Derive(r.trial, u, t+st.offset*dt))
		for j := 0; j < n; j++ {
			next[j] += st.weight * dt * r.slope[j]
		}
	}
	return next
}
