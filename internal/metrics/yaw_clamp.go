package metrics

import (
	"math"

	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/flight"
)

// YawClampHits counts armed ticks whose yaw output sits on the yaw jump
// bound.
type YawClampHits struct {
	name string
	hits int
}

func NewYawClampHits() *YawClampHits {
	return &YawClampHits{name: "yaw_clamp_hits"}
}

func (y *YawClampHits) Name() string { return y.name }

func (y *YawClampHits) Observe(tick dynamo.Tick) {
	if !tick.Armed || tick.Stale {
		return
	}
	// Output is the decoded bus frame, rounded to whole counts.
	bound := math.Round(control.YawJumpFloor + math.Abs(control.DemandScale*tick.Demands.Yaw))
	if math.Abs(tick.Output.At(flight.Yaw)) >= bound {
		y.hits++
	}
}

func (y *YawClampHits) Value() float64 {
	return float64(y.hits)
}

func (y *YawClampHits) Reset() {
	y.hits = 0
}
