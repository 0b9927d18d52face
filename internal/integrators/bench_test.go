package integrators

import (
	"testing"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/physics"
)

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator) {
	af := physics.NewAirframe(config.DefaultConfig().Airframe)
	x := make(dynamo.State, physics.StateDim)
	u := dynamo.Control{1, 1, 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(af, x, u, 0, 0.002)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkIntegrator(b, NewEuler())
}

func BenchmarkRK4(b *testing.B) {
	benchmarkIntegrator(b, NewRK4())
}
