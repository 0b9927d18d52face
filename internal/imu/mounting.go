package imu

import (
	"fmt"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/flight"
)

// Mounting maps gyro readings between the sensor frame and the body frame.
// Every mounting here is its own inverse.
type Mounting interface {
	Name() string
	Adjust(g *flight.GyroReading)
}

type Normal struct{}

func (Normal) Name() string                  { return config.MountingNormal }
func (Normal) Adjust(g *flight.GyroReading) {}

// Inverted is a board mounted upside down: the yaw rate is reversed.
type Inverted struct{}

func (Inverted) Name() string { return config.MountingInverted }

func (Inverted) Adjust(g *flight.GyroReading) {
	g[flight.Yaw] = -g[flight.Yaw]
}

// MountingFor returns the mounting named in configuration.
func MountingFor(name string) (Mounting, error) {
	switch name {
	case "", config.MountingNormal:
		return Normal{}, nil
	case config.MountingInverted:
		return Inverted{}, nil
	}
	return nil, fmt.Errorf("%w: unknown mounting %q", flight.ErrInvalidConfig, name)
}
