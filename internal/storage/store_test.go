package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: 3,
		Times:  []float64{0.001, 0.002, 0.003},
		Series: map[string][]float64{
			"total_density":  {1100, 1099.5, 1099},
			"kinetic_energy": {0, 0.25, 0.5},
		},
		Metrics: map[string]float64{
			"total_density":  1099,
			"kinetic_energy": 0.5,
		},
		Elapsed: 20 * time.Millisecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.DefaultConfig()

	runID, err := st.Save("swirl", cfg, sampleResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "swirl_") {
		t.Errorf("run id = %q, want swirl_ prefix", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "swirl" || meta.Frames != 3 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Config.Fluid != cfg.Fluid {
		t.Errorf("config = %+v, want %+v", meta.Config.Fluid, cfg.Fluid)
	}
	if meta.Metrics["kinetic_energy"] != 0.5 {
		t.Errorf("kinetic_energy = %v, want 0.5", meta.Metrics["kinetic_energy"])
	}
	if meta.Error != "" {
		t.Errorf("Error = %q, want empty", meta.Error)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Times) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(series.Times))
	}
	if got := strings.Join(series.Names, ","); got != "kinetic_energy,total_density" {
		t.Errorf("columns = %s", got)
	}
	if series.Columns["total_density"][1] != 1099.5 {
		t.Errorf("total_density[1] = %v", series.Columns["total_density"][1])
	}
}

func TestStoreSave_RecordsFailure(t *testing.T) {
	st := New(t.TempDir())
	result := sampleResult()
	result.Metrics["kinetic_energy"] = math.NaN()

	runID, err := st.Save("jet", config.DefaultConfig(), result, errors.New("frame 2: density: unstable"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, _ := st.Load(runID)
	if meta.Error == "" {
		t.Error("run error not recorded")
	}
	if _, ok := meta.Metrics["kinetic_energy"]; ok {
		t.Error("non-finite metric should be dropped from metadata")
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("List() on empty store = %v, %v", runs, err)
	}

	a, _ := st.Save("swirl", config.DefaultConfig(), sampleResult(), nil)
	b, _ := st.Save("swirl", config.DefaultConfig(), sampleResult(), nil)
	if a == b {
		t.Fatalf("run ids collide: %s", a)
	}
	os.MkdirAll(filepath.Join(dir, "stray"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("List() returned %d runs, want 2", len(runs))
	}
}

func TestStoreLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load() error = %v, want ErrRunNotFound", err)
	}
	if _, err := st.LoadSeries("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSeries() error = %v, want ErrRunNotFound", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, _ := st.Save("cross", config.DefaultConfig(), sampleResult(), nil)

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var doc struct {
		ID     string               `json:"id"`
		Times  []float64            `json:"times"`
		Series map[string][]float64 `json:"series"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if doc.ID != runID || len(doc.Times) != 3 || len(doc.Series["kinetic_energy"]) != 3 {
		t.Errorf("export = %+v", doc)
	}
}

func TestExportJSON_UnstableRun(t *testing.T) {
	st := New(t.TempDir())
	result := &sim.Result{
		Frames:  2,
		Times:   []float64{0.001, 0.002},
		Series:  map[string][]float64{"kinetic_energy": {1, math.NaN()}},
		Metrics: map[string]float64{"kinetic_energy": math.NaN()},
	}
	runErr := &fluid.InstabilityError{Frame: 1, Field: "velocity-x", Wrapped: fluid.ErrUnstable}
	runID, err := st.Save("jet", config.DefaultConfig(), result, runErr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var doc struct {
		Error  string                `json:"error"`
		Series map[string][]*float64 `json:"series"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	energy := doc.Series["kinetic_energy"]
	if len(energy) != 2 || energy[0] == nil || *energy[0] != 1 || energy[1] != nil {
		t.Errorf("kinetic_energy = %v, want [1 null]", energy)
	}
	if doc.Error == "" {
		t.Error("export lost the run error")
	}
}
