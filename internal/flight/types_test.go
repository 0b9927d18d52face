package flight

import (
	"errors"
	"math"
	"testing"
)

func TestAxisString(t *testing.T) {
	tests := []struct {
		axis Axis
		want string
	}{
		{Roll, "roll"},
		{Pitch, "pitch"},
		{Yaw, "yaw"},
		{Axis(7), "axis(7)"},
	}

	for _, tt := range tests {
		if got := tt.axis.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseAxis(t *testing.T) {
	for _, a := range Axes {
		got, err := ParseAxis(a.String())
		if err != nil {
			t.Fatalf("ParseAxis(%q): %v", a, err)
		}
		if got != a {
			t.Errorf("ParseAxis(%q) = %v", a, got)
		}
	}

	if _, err := ParseAxis("throttle"); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("expected ErrInvalidAxis, got %v", err)
	}
}

func TestVector3Bounds(t *testing.T) {
	var v Vector3
	v.Set(Pitch, 2.5)
	if v.At(Pitch) != 2.5 {
		t.Errorf("At(Pitch) = %v", v.At(Pitch))
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid axis")
		}
	}()
	v.At(Axis(-1))
}

func TestVector3IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector3
		valid bool
	}{
		{"zeros", Vector3{}, true},
		{"normal", Vector3{1, -2, 3}, true},
		{"nan", Vector3{0, math.NaN(), 0}, false},
		{"inf", Vector3{math.Inf(-1), 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestDemandsAxis(t *testing.T) {
	d := Demands{Roll: 0.1, Pitch: -0.2, Yaw: 0.3, Throttle: 0.5}
	if d.Axis(Roll) != 0.1 || d.Axis(Pitch) != -0.2 || d.Axis(Yaw) != 0.3 {
		t.Errorf("unexpected axis demands: %+v", d)
	}

	e := EulerAngles{Roll: 5, Pitch: -3, Yaw: 90}
	if e.Axis(Roll) != 5 || e.Axis(Pitch) != -3 || e.Axis(Yaw) != 90 {
		t.Errorf("unexpected euler axes: %+v", e)
	}
}
