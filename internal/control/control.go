package control

import (
	"github.com/pkg/errors"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/flight"
)

// New builds the controller selected by cfg.Controller.
func New(cfg *config.Config) (flight.Controller, error) {
	switch cfg.Controller {
	case config.ControllerStabilize:
		return NewStabilize(cfg.Stabilize, cfg.IMU, cfg.Trim), nil
	case config.ControllerAcro:
		return NewAcro(cfg.Acro, cfg.IMU.GyroScale, cfg.Trim), nil
	}
	return nil, errors.Wrapf(flight.ErrInvalidConfig, "unknown controller: %s", cfg.Controller)
}

// Names lists the controllers New accepts.
func Names() []string {
	return []string{config.ControllerStabilize, config.ControllerAcro}
}
