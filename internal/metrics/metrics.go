// Package metrics scores closed-loop runs tick by tick.
package metrics

import "github.com/san-kum/flightcore/internal/dynamo"

// Standard returns the metric set every run records.
func Standard(maxInclination float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewStability(maxInclination),
		NewYawClampHits(),
		NewTrackingError(maxInclination),
	}
}
