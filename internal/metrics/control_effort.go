package metrics

import (
	"math"

	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/flight"
)

// ControlEffort is the mean summed |output| per control update. Stale
// ticks repeat the previous frame and are skipped.
type ControlEffort struct {
	perAxis flight.Vector3
	updates int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(tick dynamo.Tick) {
	if tick.Stale {
		return
	}
	for _, axis := range flight.Axes {
		c.perAxis[axis] += math.Abs(tick.Output.At(axis))
	}
	c.updates++
}

func (c *ControlEffort) Value() float64 {
	if c.updates == 0 {
		return 0
	}
	total := 0.0
	for _, v := range c.perAxis {
		total += v
	}
	return total / float64(c.updates)
}

// Axis is the mean |output| on one axis.
func (c *ControlEffort) Axis(axis flight.Axis) float64 {
	if c.updates == 0 {
		return 0
	}
	return c.perAxis.At(axis) / float64(c.updates)
}

func (c *ControlEffort) Reset() {
	*c = ControlEffort{}
}
