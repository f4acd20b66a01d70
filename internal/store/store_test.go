package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/config"
	"github.com/aredko/latdyn/internal/rollout"
)

func sampleRun() (*config.Config, *rollout.Trajectory, map[string]float64) {
	cfg := config.DefaultConfig()
	cfg.Seed = 42

	tr := &rollout.Trajectory{
		Times: []float64{0.0, 0.05},
		States: []*mat.Dense{
			mat.NewDense(1, 2, []float64{1.0, 0.0}),
			mat.NewDense(1, 2, []float64{0.9, -0.1}),
		},
	}
	return cfg, tr, map[string]float64{"rmse": 0.05}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, tr, metrics := sampleRun()
	runID, err := st.Save(cfg, tr, metrics)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Kind != "ldm" {
		t.Errorf("expected kind 'ldm', got '%s'", meta.Kind)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Metrics["rmse"] != 0.05 {
		t.Errorf("expected rmse 0.05, got %f", meta.Metrics["rmse"])
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Errorf("expected 2 rows, got %d states %d times", len(states), len(times))
	}
	if len(states[0]) != 2 {
		t.Errorf("expected 2 columns, got %d", len(states[0]))
	}
	if states[1][0] != 0.9 {
		t.Errorf("expected 0.9, got %f", states[1][0])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, tr, metrics := sampleRun()
	if _, err := st.Save(cfg, tr, metrics); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, tr, metrics := sampleRun()
	runID, err := st.Save(cfg, tr, metrics)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "states.csv")); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	cfg, tr, metrics := sampleRun()

	var buf bytes.Buffer
	if err := writeExport(&buf, cfg, tr, tr, metrics); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}

	if data.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", data.Steps)
	}
	if len(data.Predicted) != 2 || len(data.Reference) != 2 {
		t.Error("expected predicted and reference rows")
	}
	if data.Predicted[0][0] != 1.0 {
		t.Errorf("expected 1.0, got %f", data.Predicted[0][0])
	}
	if data.Metrics["rmse"] != 0.05 {
		t.Errorf("expected rmse 0.05, got %f", data.Metrics["rmse"])
	}
}

func TestExportJSON_File(t *testing.T) {
	cfg, tr, metrics := sampleRun()
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, cfg, tr, nil, metrics); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if data.Reference != nil {
		t.Error("expected reference to be omitted")
	}
}
