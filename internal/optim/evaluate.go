package optim

import (
	"context"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/metrics"
	"github.com/san-kum/flightcore/internal/sim"
)

// SimEvaluator scores gains by running base with them applied, from x0,
// with the standard metric set.
func SimEvaluator(base *config.Config, x0 dynamo.State) Evaluate {
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetControllerParam(name, v); err != nil {
				return nil, err
			}
		}

		s, err := sim.New(cfg, nil)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Standard(cfg.IMU.MaxInclination) {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, x0, sim.ConfigFrom(cfg.Sim))
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	}
}
