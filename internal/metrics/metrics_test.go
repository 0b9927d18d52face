package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/flight"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	if m.Value() != 0 {
		t.Error("expected zero before observing")
	}

	m.Observe(dynamo.Tick{Output: flight.AxisOutput{1, -2, 3}})
	m.Observe(dynamo.Tick{Output: flight.AxisOutput{0, 0, 0}})
	m.Observe(dynamo.Tick{Stale: true, Output: flight.AxisOutput{100, 100, 100}})
	if m.Value() != 3 {
		t.Errorf("expected 3, got %v", m.Value())
	}
	if m.Axis(flight.Pitch) != 1 || m.Axis(flight.Yaw) != 1.5 {
		t.Errorf("unexpected per-axis effort %v %v", m.Axis(flight.Pitch), m.Axis(flight.Yaw))
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	if m.Value() != 1 {
		t.Error("expected 1 before observing")
	}

	m.Observe(dynamo.Tick{Euler: flight.EulerAngles{Roll: 5, Pitch: -5}})
	m.Observe(dynamo.Tick{Euler: flight.EulerAngles{Roll: 5, Pitch: -15}})
	m.Observe(dynamo.Tick{Euler: flight.EulerAngles{Yaw: 170}})
	m.Observe(dynamo.Tick{Euler: flight.EulerAngles{Roll: 11}})

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}
	if m.Worst() != 15 {
		t.Errorf("expected worst 15, got %v", m.Worst())
	}

	m.Reset()
	if m.Value() != 1 || m.Worst() != 0 {
		t.Error("expected clean state after reset")
	}
}

func TestYawClampHits(t *testing.T) {
	tests := []struct {
		name string
		tick dynamo.Tick
		hit  bool
	}{
		{"inside", dynamo.Tick{Armed: true, Output: flight.AxisOutput{0, 0, 99}}, false},
		{"floor", dynamo.Tick{Armed: true, Output: flight.AxisOutput{0, 0, -100}}, true},
		{"widened by demand", dynamo.Tick{Armed: true, Demands: flight.Demands{Yaw: 0.2}, Output: flight.AxisOutput{0, 0, 250}}, false},
		{"at widened bound", dynamo.Tick{Armed: true, Demands: flight.Demands{Yaw: -0.2}, Output: flight.AxisOutput{0, 0, 300}}, true},
		{"fractional bound rounds down", dynamo.Tick{Armed: true, Demands: flight.Demands{Yaw: 0.3004}, Output: flight.AxisOutput{0, 0, 400}}, true},
		{"fractional bound rounds up", dynamo.Tick{Armed: true, Demands: flight.Demands{Yaw: 0.3006}, Output: flight.AxisOutput{0, 0, 400}}, false},
		{"at rounded-up bound", dynamo.Tick{Armed: true, Demands: flight.Demands{Yaw: 0.3006}, Output: flight.AxisOutput{0, 0, -401}}, true},
		{"disarmed", dynamo.Tick{Output: flight.AxisOutput{0, 0, 100}}, false},
		{"stale", dynamo.Tick{Armed: true, Stale: true, Output: flight.AxisOutput{0, 0, 100}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewYawClampHits()
			m.Observe(tt.tick)
			if got := m.Value() == 1; got != tt.hit {
				t.Errorf("hit = %v, want %v", got, tt.hit)
			}
		})
	}
}

func TestTrackingTarget(t *testing.T) {
	m := NewTrackingError(50)
	tests := []struct {
		demand, want float64
	}{
		{0, 0},
		{0.1, 20},
		{-0.1, -20},
		{0.5, 50},
	}
	for _, tt := range tests {
		if got := m.Target(tt.demand); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Target(%v) = %v, want %v", tt.demand, got, tt.want)
		}
	}
}

func TestTrackingError(t *testing.T) {
	m := NewTrackingError(50)
	m.Observe(dynamo.Tick{Euler: flight.EulerAngles{Roll: 90}})
	if m.Value() != 0 {
		t.Error("disarmed ticks must not count")
	}

	m.Observe(dynamo.Tick{Armed: true, Demands: flight.Demands{Roll: 0.1}, Euler: flight.EulerAngles{Roll: 20}})
	if m.Value() != 0 {
		t.Errorf("expected zero on target, got %v", m.Value())
	}

	m.Reset()
	m.Observe(dynamo.Tick{Armed: true, Euler: flight.EulerAngles{Roll: 2, Pitch: 2}})
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("expected 2, got %v", m.Value())
	}
}

func TestStandard(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(50) {
		seen[m.Name()] = true
	}
	for _, name := range []string{"control_effort", "stability", "yaw_clamp_hits", "tracking_error"} {
		if !seen[name] {
			t.Errorf("missing metric %s", name)
		}
	}
}
