// Package storage persists closed-loop runs as a metadata.json plus a
// states.csv per run directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/san-kum/flightcore/internal/sim"
)

// Columns is the states.csv header after the time column.
var Columns = []string{
	"roll", "pitch", "yaw", "p", "q", "r",
	"out_roll", "out_pitch", "out_yaw",
	"d_roll", "d_pitch", "d_yaw", "throttle",
}

// Column returns the index of name within a LoadStates row, or -1.
func Column(name string) int {
	for i, c := range Columns {
		if c == name {
			return i
		}
	}
	return -1
}

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return errors.Wrap(os.MkdirAll(s.baseDir, 0755), "create data dir")
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Controller string             `json:"controller"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Mounting   string             `json:"mounting"`
	StaleTicks int                `json:"stale_ticks"`
	Gains      map[string]float64 `json:"gains,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrapf(err, "create run dir %s", runDir)
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.StaleTicks = result.StaleTicks
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result); err != nil {
		return "", err
	}

	s.logger.Info("run saved", "id", runID, "steps", result.StepsTaken)
	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create metadata")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode metadata")
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create states")
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(append([]string{"time"}, Columns...)); err != nil {
		return errors.Wrap(err, "write header")
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for i := range result.States {
		row := []string{format(result.Times[i])}
		for _, val := range result.States[i] {
			row = append(row, format(val))
		}

		// The final state has no tick of its own.
		if i < len(result.Outputs) {
			for _, val := range result.Outputs[i] {
				row = append(row, format(val))
			}
			d := result.Demands[i]
			row = append(row, format(d.Roll), format(d.Pitch), format(d.Yaw), format(d.Throttle))
		} else {
			for j := 0; j < 7; j++ {
				row = append(row, "0")
			}
		}

		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}

	w.Flush()
	return errors.Wrap(w.Error(), "flush states")
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "read data dir")
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "load run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode run %s", runID)
	}

	return &meta, nil
}

// LoadStates reads states.csv back as rows laid out like Columns, plus the
// time column.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open states for %s", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read states for %s", runID)
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		times = append(times, t)
		rows = append(rows, row)
	}

	return rows, times, nil
}
