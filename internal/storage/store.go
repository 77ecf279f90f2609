// Package storage keeps run diagnostics on disk: one directory per run with
// metadata.json and a per-frame series.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Frames    int                `json:"frames"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Config    config.Config      `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
	Error     string             `json:"error,omitempty"`
}

// Series is the per-frame table of a run.
type Series struct {
	Times   []float64
	Names   []string
	Columns map[string][]float64
}

// Save writes result under a fresh run ID. runErr, if non-nil, is recorded
// in the metadata so unstable runs remain inspectable.
func (s *Store) Save(scenario string, cfg *config.Config, result *sim.Result, runErr error) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	runID, err := s.newRunID(scenario)
	if err != nil {
		return "", err
	}
	runDir := s.Dir(runID)

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Frames:    result.Frames,
		Elapsed:   result.Elapsed.Seconds(),
		Config:    *cfg,
		Metrics:   finiteOnly(result.Metrics),
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteSeriesCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

func (s *Store) newRunID(scenario string) (string, error) {
	if scenario == "" {
		scenario = "run"
	}
	base := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		err := os.Mkdir(s.Dir(id), 0755)
		if err == nil {
			return id, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
	}
}

// finiteOnly drops NaN and Inf values, which encoding/json rejects.
func finiteOnly(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WriteSeriesCSV writes a time column followed by one column per metric in
// name order.
func WriteSeriesCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			col := result.Series[name]
			v := "0"
			if i < len(col) {
				v = strconv.FormatFloat(col[i], 'g', 10, 64)
			}
			row = append(row, v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), "series.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{Columns: make(map[string][]float64)}
	if len(records) == 0 {
		return series, nil
	}
	series.Names = append(series.Names, records[0][1:]...)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)
		for j, name := range series.Names {
			v := 0.0
			if j+1 < len(record) {
				v, _ = strconv.ParseFloat(record[j+1], 64)
			}
			series.Columns[name] = append(series.Columns[name], v)
		}
	}
	return series, nil
}

// ExportJSON writes a run's metadata and series as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	columns := make(map[string][]*float64, len(series.Columns))
	for name, values := range series.Columns {
		columns[name] = nullable(values)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*RunMetadata
		Times  []float64             `json:"times"`
		Series map[string][]*float64 `json:"series"`
	}{meta, series.Times, columns})
}

// nullable maps non-finite samples to nil so they encode as JSON null.
func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if v := values[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = &v
		}
	}
	return out
}
