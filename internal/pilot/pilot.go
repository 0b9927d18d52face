// Package pilot scripts receiver demands for closed-loop runs. Each
// scenario is a set of time signals for the sticks plus an arming window;
// heading-hold replaces the yaw stick with an autopilot.
package pilot

import (
	"fmt"
	"sort"

	"github.com/san-kum/flightcore/internal/flight"
)

// Pilot produces demands and the arming switch for each tick.
type Pilot interface {
	Demands(t float64, euler flight.EulerAngles) flight.Demands
	Armed(t float64) bool
}

const (
	armAt         = 0.25
	hoverThrottle = 0.5
	spoolTime     = 0.5
)

// New returns a fresh pilot for the named scenario.
func New(name string) (Pilot, error) {
	g, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q not found", name)
	}
	return g(), nil
}

// Scenarios lists the available scenario names.
func Scenarios() []string {
	var s []string
	for name := range scenarios {
		s = append(s, name)
	}
	sort.Strings(s)
	return s
}

type script struct {
	roll, pitch, yaw, throttle signal
	armAt, disarmAt            float64
}

func (s *script) Demands(t float64, _ flight.EulerAngles) flight.Demands {
	return flight.Demands{
		Roll:     s.roll(t),
		Pitch:    s.pitch(t),
		Yaw:      s.yaw(t),
		Throttle: s.throttle(t),
	}
}

func (s *script) Armed(t float64) bool {
	if t < s.armAt {
		return false
	}
	return s.disarmAt <= s.armAt || t < s.disarmAt
}

func hover() *script {
	return &script{
		roll:     constant(0),
		pitch:    constant(0),
		yaw:      constant(0),
		throttle: ramp(hoverThrottle, spoolTime).delay(armAt),
		armAt:    armAt,
	}
}

var scenarios = map[string]func() Pilot{
	"hover": func() Pilot {
		return hover()
	},
	"roll-step": func() Pilot {
		s := hover()
		s.roll = step(0.1, 1).mix(step(-0.1, 4))
		return s
	},
	"pitch-sweep": func() Pilot {
		s := hover()
		s.pitch = oscillate(0.15, 4).window(1, 9)
		return s
	},
	"full-stick": func() Pilot {
		s := hover()
		s.roll = step(0.5, 1).mix(step(-0.5, 1.4))
		return s
	},
	"yaw-spin": func() Pilot {
		s := hover()
		s.yaw = constant(0.3).window(1, 4)
		return s
	},
	"heading-hold": func() Pilot {
		return newAutopilot(hover(), step(90, 2))
	},
	"disarm": func() Pilot {
		s := hover()
		s.roll = step(0.1, 1)
		s.disarmAt = 3
		return s
	},
}
