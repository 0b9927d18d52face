package sim

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/dynamo"
)

// Ensemble repeats a run across consecutive seeds, typically to average
// metrics over sensor noise.
type Ensemble struct {
	cfg     *config.Config
	numRuns int
	metrics func() []dynamo.Metric
	logger  *log.Logger
}

// NewEnsemble prepares numRuns runs of cfg starting at cfg.Sim.Seed.
// metrics builds a fresh metric set per run.
func NewEnsemble(cfg *config.Config, numRuns int, metrics func() []dynamo.Metric, logger *log.Logger) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, metrics: metrics, logger: logger}
}

func (e *Ensemble) Run(ctx context.Context, x0 dynamo.State) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	dynamo.ParallelFor(e.numRuns, 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			cfgCopy := e.cfg.Clone()
			cfgCopy.Sim.Seed = e.cfg.Sim.Seed + int64(idx)

			s, err := New(cfgCopy, e.logger)
			if err != nil {
				errs[idx] = err
				continue
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			results[idx], errs[idx] = s.Run(ctx, x0, ConfigFrom(cfgCopy.Sim))
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanMetrics averages each metric across results.
func MeanMetrics(results []*Result) map[string]float64 {
	mean := make(map[string]float64)
	if len(results) == 0 {
		return mean
	}
	for _, r := range results {
		for k, v := range r.Metrics {
			mean[k] += v
		}
	}
	for k := range mean {
		mean[k] /= float64(len(results))
	}
	return mean
}
