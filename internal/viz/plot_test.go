package viz

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/rollout"
)

func sineTrajectory(n int) *rollout.Trajectory {
	tr := &rollout.Trajectory{
		Times:  make([]float64, n),
		States: make([]*mat.Dense, n),
	}
	for i := 0; i < n; i++ {
		t := float64(i) * 0.1
		tr.Times[i] = t
		tr.States[i] = mat.NewDense(1, 2, []float64{t, -t})
	}
	return tr
}

func TestPlotTrajectory(t *testing.T) {
	tr := sineTrajectory(50)

	out := PlotTrajectory(tr, 0, "x0")
	if out == "" {
		t.Fatal("expected non-empty plot")
	}
	if !strings.Contains(out, "x0") {
		t.Error("expected caption in plot output")
	}
}

func TestPlotTrajectory_TooShort(t *testing.T) {
	tr := sineTrajectory(1)
	if out := PlotTrajectory(tr, 0, "x0"); out != "" {
		t.Error("expected empty plot for a single point")
	}
}

func TestPlotComparison(t *testing.T) {
	pred := sineTrajectory(50)
	ref := sineTrajectory(50)

	out := PlotComparison(pred, ref, 1, "x1")
	if out == "" {
		t.Fatal("expected non-empty plot")
	}
	if !strings.Contains(out, "x1") {
		t.Error("expected caption in plot output")
	}
}

func TestSparkline(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	out := Sparkline(data, 8)
	runes := []rune(out)
	if len(runes) != 8 {
		t.Fatalf("expected 8 runes, got %d", len(runes))
	}
	if runes[0] != '▁' || runes[7] != '█' {
		t.Errorf("expected full range, got %q", out)
	}
}

func TestSparkline_Truncates(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}
	out := Sparkline(data, 10)
	if len([]rune(out)) != 10 {
		t.Errorf("expected 10 runes, got %d", len([]rune(out)))
	}
}

func TestSparkline_Flat(t *testing.T) {
	out := Sparkline([]float64{1, 1, 1}, 10)
	if len([]rune(out)) != 3 {
		t.Errorf("expected 3 runes, got %d", len([]rune(out)))
	}
}

func TestMetricsTable(t *testing.T) {
	out := MetricsTable(map[string]float64{"rmse": 0.5, "mae": 0.25}, []string{"rmse", "mae", "missing"})
	if !strings.Contains(out, "rmse") || !strings.Contains(out, "mae") {
		t.Error("expected metric names in table")
	}
	if strings.Contains(out, "missing") {
		t.Error("absent metrics should be skipped")
	}
}
