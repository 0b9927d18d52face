package integrators

import "github.com/san-kum/flightcore/internal/dynamo"

// Euler is the explicit first-order stepper. At the default 2 ms tick it
// tracks RK4 closely on the airframe and is cheaper for gain sweeps.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	next := x.Clone()
	for i, d := range dyn.Derive(x, u, t) {
		next[i] += dt * d
	}
	return next
}
