package config

import "sort"

var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"racer": func(c *Config) {
		c.Controller = ControllerAcro
		c.Acro.RateP = 160
		c.Acro.RateI = 12
		c.Acro.DemandScale = 12
		c.IMU.MaxInclination = 70
		c.Sim.Scenario = "full-stick"
	},
	"cinematic": func(c *Config) {
		c.Stabilize.LevelP = 0.08
		c.Stabilize.RatePitchRollP = 0.10
		c.Stabilize.YawP = 0.08
		c.IMU.MaxInclination = 25
		c.Sim.Scenario = "pitch-sweep"
	},
	"inverted": func(c *Config) {
		c.IMU.Mounting = MountingInverted
		c.Sim.Scenario = "yaw-spin"
	},
	"noisy": func(c *Config) {
		c.IMU.GyroNoise = 4
		c.IMU.DataReadyDivider = 2
		c.Sim.Scenario = "roll-step"
	},
	"autopilot": func(c *Config) {
		c.Sim.Scenario = "heading-hold"
		c.Sim.Duration = 20
	},
}

// GetPreset returns the default configuration with the named preset applied,
// or nil when no such preset exists.
func GetPreset(preset string) *Config {
	apply, ok := Presets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
