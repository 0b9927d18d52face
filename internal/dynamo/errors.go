package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState means the plant diverged to NaN or Inf.
	ErrInvalidState = errors.New("dynamo: plant state is not finite")

	// ErrParameterBounds means a physical parameter was set outside its
	// usable range, such as a non-positive inertia.
	ErrParameterBounds = errors.New("dynamo: parameter out of bounds")

	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrDimensionMismatch means a state vector does not fit the plant.
	ErrDimensionMismatch = errors.New("dynamo: state dimension mismatch")
)

// SimulationError records where in a run a tick failed.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.3fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
