package store

import (
	"encoding/json"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/config"
	"github.com/aredko/latdyn/internal/rollout"
)

type ExportData struct {
	Kind      string             `json:"kind"`
	Dataset   string             `json:"dataset"`
	Method    string             `json:"method"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Predicted [][]float64        `json:"predicted"`
	Reference [][]float64        `json:"reference,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func exportData(cfg *config.Config, pred, ref *rollout.Trajectory, metrics map[string]float64) ExportData {
	data := ExportData{
		Kind:      cfg.Kind,
		Dataset:   cfg.Dataset,
		Method:    cfg.Rollout.Method,
		Dt:        cfg.Rollout.Dt,
		Duration:  cfg.Rollout.Duration,
		Steps:     pred.Len(),
		Times:     pred.Times,
		Predicted: trajectoryRows(pred),
		Metrics:   metrics,
	}
	if ref != nil {
		data.Reference = trajectoryRows(ref)
	}
	return data
}

func trajectoryRows(tr *rollout.Trajectory) [][]float64 {
	rows := make([][]float64, tr.Len())
	for i, st := range tr.States {
		rows[i] = mat.Row(nil, 0, st)
	}
	return rows
}

func ExportJSON(path string, cfg *config.Config, pred, ref *rollout.Trajectory, metrics map[string]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, cfg, pred, ref, metrics)
}

func ExportJSONStdout(cfg *config.Config, pred, ref *rollout.Trajectory, metrics map[string]float64) error {
	return writeExport(os.Stdout, cfg, pred, ref, metrics)
}

func writeExport(w io.Writer, cfg *config.Config, pred, ref *rollout.Trajectory, metrics map[string]float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(cfg, pred, ref, metrics))
}
