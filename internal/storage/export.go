package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/sim"
)

type ExportData struct {
	RunMetadata
	Steps   int                 `json:"steps"`
	Times   []float64           `json:"times"`
	States  [][]float64         `json:"states"`
	Outputs []flight.AxisOutput `json:"outputs"`
	Demands []flight.Demands    `json:"demands"`
}

func NewExportData(meta RunMetadata, result *sim.Result) ExportData {
	meta.Metrics = result.Metrics
	meta.StaleTicks = result.StaleTicks
	data := ExportData{
		RunMetadata: meta,
		Steps:       result.StepsTaken,
		Times:       result.Times,
		States:      make([][]float64, len(result.States)),
		Outputs:     result.Outputs,
		Demands:     result.Demands,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

// ExportJSON writes a run to w as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(NewExportData(meta, result)), "encode export")
}

func ExportJSONFile(path string, meta RunMetadata, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	return ExportJSON(f, meta, result)
}

// LoadResult rebuilds a stored run as a Result so it can be exported like
// a fresh one. Metrics and stale ticks come from the metadata.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Times:      times,
		Metrics:    meta.Metrics,
		StaleTicks: meta.StaleTicks,
	}
	for i, row := range rows {
		if len(row) < len(Columns) {
			return nil, nil, errors.Errorf("run %s: row %d has %d columns", runID, i, len(row))
		}
		result.States = append(result.States, append([]float64(nil), row[:6]...))
		if i == len(rows)-1 {
			break
		}
		result.Outputs = append(result.Outputs, flight.AxisOutput{row[6], row[7], row[8]})
		result.Demands = append(result.Demands, flight.Demands{Roll: row[9], Pitch: row[10], Yaw: row[11], Throttle: row[12]})
	}
	result.StepsTaken = len(result.Outputs)
	return meta, result, nil
}
