package metrics

import (
	"math"

	"github.com/san-kum/flightcore/internal/dynamo"
)

// Stability is the fraction of ticks with roll and pitch both inside
// threshold degrees. Yaw is free to turn.
type Stability struct {
	threshold  float64
	violations int
	samples    int
	worst      float64
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(tick dynamo.Tick) {
	s.samples++
	tilt := math.Max(math.Abs(tick.Euler.Roll), math.Abs(tick.Euler.Pitch))
	s.worst = math.Max(s.worst, tilt)
	if tilt > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Worst is the largest roll or pitch excursion seen, in degrees.
func (s *Stability) Worst() float64 {
	return s.worst
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.worst = 0
}
