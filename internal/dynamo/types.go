package dynamo

import (
	"math"

	"github.com/san-kum/flightcore/internal/flight"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Control []float64

// ControlFrom lays an axis output out as a control vector.
func ControlFrom(out flight.AxisOutput) Control {
	return Control{out[flight.Roll], out[flight.Pitch], out[flight.Yaw]}
}

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Tick is what metrics and observers see after each control update.
type Tick struct {
	T       float64
	X       State
	Output  flight.AxisOutput
	Demands flight.Demands
	Euler   flight.EulerAngles
	Armed   bool
	Stale   bool
}

type Metric interface {
	Name() string
	Observe(tick Tick)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(tick Tick)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
