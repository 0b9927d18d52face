package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightcore/internal/flight"
)

const (
	DefaultDt       = 0.002
	DefaultDuration = 10.0

	ControllerStabilize = "stabilize"
	ControllerAcro      = "acro"

	MountingNormal   = "normal"
	MountingInverted = "inverted"
)

type Config struct {
	Controller string          `yaml:"controller"`
	Stabilize  StabilizeConfig `yaml:"stabilize"`
	Acro       AcroConfig      `yaml:"acro"`
	IMU        ImuConfig       `yaml:"imu"`
	Trim       TrimConfig      `yaml:"trim"`
	Receiver   ReceiverConfig  `yaml:"receiver"`
	Airframe   AirframeConfig  `yaml:"airframe"`
	Sim        SimConfig       `yaml:"sim"`
	MixBus     MixBusConfig    `yaml:"mixbus"`
}

// StabilizeConfig holds the cascaded leveled/rate loop gains and the
// anti-windup limits. Windup bounds and thresholds are in the controller's
// fixed-point units: gyro counts for the rate loop, tenths of a degree for
// the angle loop.
type StabilizeConfig struct {
	LevelP         float64 `yaml:"level_p"`
	LevelI         float64 `yaml:"level_i"`
	RatePitchRollP float64 `yaml:"rate_pitchroll_p"`
	RatePitchRollI float64 `yaml:"rate_pitchroll_i"`
	RatePitchRollD float64 `yaml:"rate_pitchroll_d"`
	YawP           float64 `yaml:"yaw_p"`
	YawI           float64 `yaml:"yaw_i"`
	GyroWindupMax  float64 `yaml:"gyro_windup_max"`
	AngleWindupMax float64 `yaml:"angle_windup_max"`
	BigGyro        float64 `yaml:"big_gyro"`
	BigYawDemand   float64 `yaml:"big_yaw_demand"`
}

// AcroConfig configures the pure rate controller. DemandScale maps a
// normalized stick demand to rad/s.
type AcroConfig struct {
	RateP       float64 `yaml:"rate_p"`
	RateI       float64 `yaml:"rate_i"`
	RateD       float64 `yaml:"rate_d"`
	YawP        float64 `yaml:"yaw_p"`
	YawI        float64 `yaml:"yaw_i"`
	YawD        float64 `yaml:"yaw_d"`
	DemandScale float64 `yaml:"demand_scale"`
}

type ImuConfig struct {
	MaxInclination   float64 `yaml:"max_inclination"`
	GyroScale        float64 `yaml:"gyro_scale"`
	Mounting         string  `yaml:"mounting"`
	GyroNoise        float64 `yaml:"gyro_noise"`
	DataReadyDivider int     `yaml:"data_ready_divider"`
}

type TrimConfig struct {
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
}

// Vector returns the trims indexed by axis.
func (t TrimConfig) Vector() flight.Vector3 {
	return flight.Vector3{t.Roll, t.Pitch, t.Yaw}
}

type ReceiverConfig struct {
	MinThrottle float64 `yaml:"min_throttle"`
}

type AirframeConfig struct {
	InertiaRoll   float64 `yaml:"inertia_roll"`
	InertiaPitch  float64 `yaml:"inertia_pitch"`
	InertiaYaw    float64 `yaml:"inertia_yaw"`
	TorquePerUnit float64 `yaml:"torque_per_unit"`
	AngularDrag   float64 `yaml:"angular_drag"`
}

type SimConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`
	Integrator string  `yaml:"integrator"`
	Scenario   string  `yaml:"scenario"`
}

// MixBusConfig selects where axis outputs are published. An empty
// Interface keeps frames in memory.
type MixBusConfig struct {
	Interface string `yaml:"interface"`
	FrameID   uint32 `yaml:"frame_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerStabilize,
		Stabilize: StabilizeConfig{
			LevelP:         0.10,
			LevelI:         0,
			RatePitchRollP: 0.125,
			RatePitchRollI: 0.05,
			RatePitchRollD: 0.01,
			YawP:           0.10,
			YawI:           0.05,
			GyroWindupMax:  16000,
			AngleWindupMax: 10000,
			BigGyro:        640,
			BigYawDemand:   100,
		},
		Acro: AcroConfig{
			RateP:       120,
			RateI:       8,
			RateD:       0,
			YawP:        80,
			YawI:        4,
			YawD:        0,
			DemandScale: 8,
		},
		IMU: ImuConfig{
			MaxInclination:   50,
			GyroScale:        16.4,
			Mounting:         MountingNormal,
			GyroNoise:        0,
			DataReadyDivider: 1,
		},
		Receiver: ReceiverConfig{
			MinThrottle: 0.05,
		},
		Airframe: AirframeConfig{
			InertiaRoll:   0.005,
			InertiaPitch:  0.005,
			InertiaYaw:    0.009,
			TorquePerUnit: 0.00175,
			AngularDrag:   0.001,
		},
		Sim: SimConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Integrator: "rk4",
			Scenario:   "hover",
		},
		MixBus: MixBusConfig{
			FrameID: 0x120,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}

// Validate rejects configurations the control core does not check itself:
// negative gains, non-positive windup bounds or thresholds, and a
// simulation clock that cannot advance.
func (c *Config) Validate() error {
	switch c.Controller {
	case ControllerStabilize, ControllerAcro:
	default:
		return invalid("controller must be %q or %q, got %q", ControllerStabilize, ControllerAcro, c.Controller)
	}

	gains := []struct {
		name  string
		value float64
	}{
		{"stabilize.level_p", c.Stabilize.LevelP},
		{"stabilize.level_i", c.Stabilize.LevelI},
		{"stabilize.rate_pitchroll_p", c.Stabilize.RatePitchRollP},
		{"stabilize.rate_pitchroll_i", c.Stabilize.RatePitchRollI},
		{"stabilize.rate_pitchroll_d", c.Stabilize.RatePitchRollD},
		{"stabilize.yaw_p", c.Stabilize.YawP},
		{"stabilize.yaw_i", c.Stabilize.YawI},
		{"acro.rate_p", c.Acro.RateP},
		{"acro.rate_i", c.Acro.RateI},
		{"acro.rate_d", c.Acro.RateD},
		{"acro.yaw_p", c.Acro.YawP},
		{"acro.yaw_i", c.Acro.YawI},
		{"acro.yaw_d", c.Acro.YawD},
		{"receiver.min_throttle", c.Receiver.MinThrottle},
		{"imu.gyro_noise", c.IMU.GyroNoise},
		{"airframe.angular_drag", c.Airframe.AngularDrag},
	}
	for _, g := range gains {
		if g.value < 0 {
			return invalid("%s must not be negative, got %v", g.name, g.value)
		}
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"stabilize.gyro_windup_max", c.Stabilize.GyroWindupMax},
		{"stabilize.angle_windup_max", c.Stabilize.AngleWindupMax},
		{"stabilize.big_gyro", c.Stabilize.BigGyro},
		{"stabilize.big_yaw_demand", c.Stabilize.BigYawDemand},
		{"acro.demand_scale", c.Acro.DemandScale},
		{"imu.max_inclination", c.IMU.MaxInclination},
		{"imu.gyro_scale", c.IMU.GyroScale},
		{"airframe.inertia_roll", c.Airframe.InertiaRoll},
		{"airframe.inertia_pitch", c.Airframe.InertiaPitch},
		{"airframe.inertia_yaw", c.Airframe.InertiaYaw},
		{"airframe.torque_per_unit", c.Airframe.TorquePerUnit},
		{"sim.dt", c.Sim.Dt},
		{"sim.duration", c.Sim.Duration},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return invalid("%s must be positive, got %v", p.name, p.value)
		}
	}

	if c.IMU.DataReadyDivider < 1 {
		return invalid("imu.data_ready_divider must be at least 1, got %d", c.IMU.DataReadyDivider)
	}
	switch c.IMU.Mounting {
	case MountingNormal, MountingInverted:
	default:
		return invalid("imu.mounting must be %q or %q, got %q", MountingNormal, MountingInverted, c.IMU.Mounting)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(flight.ErrInvalidConfig, format, args...)
}

// GetControllerParams exposes the tunable stabilizer gains by name, for the
// gain search and the live view.
func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"level_p":          c.Stabilize.LevelP,
		"level_i":          c.Stabilize.LevelI,
		"rate_pitchroll_p": c.Stabilize.RatePitchRollP,
		"rate_pitchroll_i": c.Stabilize.RatePitchRollI,
		"rate_pitchroll_d": c.Stabilize.RatePitchRollD,
		"yaw_p":            c.Stabilize.YawP,
		"yaw_i":            c.Stabilize.YawI,
	}
}

// SetControllerParam assigns one of the gains named by GetControllerParams.
func (c *Config) SetControllerParam(name string, value float64) error {
	switch name {
	case "level_p":
		c.Stabilize.LevelP = value
	case "level_i":
		c.Stabilize.LevelI = value
	case "rate_pitchroll_p":
		c.Stabilize.RatePitchRollP = value
	case "rate_pitchroll_i":
		c.Stabilize.RatePitchRollI = value
	case "rate_pitchroll_d":
		c.Stabilize.RatePitchRollD = value
	case "yaw_p":
		c.Stabilize.YawP = value
	case "yaw_i":
		c.Stabilize.YawI = value
	default:
		return errors.Errorf("unknown param: %s", name)
	}
	return nil
}

// Clone returns a deep copy; Config holds only values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
