// Package viz renders trajectories and live rollout state in the
// terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/aredko/latdyn/internal/rollout"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// PlotTrajectory renders one state feature of a trajectory as a line
// chart. Batch entry 0, column col.
func PlotTrajectory(tr *rollout.Trajectory, col int, caption string) string {
	data := tr.Series(0, col)
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotComparison overlays a predicted feature against its reference.
func PlotComparison(pred, ref *rollout.Trajectory, col int, caption string) string {
	p := pred.Series(0, col)
	r := ref.Series(0, col)
	if len(p) < 2 || len(r) != len(p) {
		return PlotTrajectory(pred, col, caption)
	}
	return asciigraph.PlotMany([][]float64{r, p},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Gray, asciigraph.Cyan),
		asciigraph.SeriesLegends("reference", "predicted"),
	)
}

// Sparkline renders a compact one-line chart of recent values.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	blocks := []rune("▁▂▃▄▅▆▇█")
	lo, hi := data[0], data[0]
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range data {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// MetricsTable renders metric name/value pairs, aligned.
func MetricsTable(metrics map[string]float64, order []string) string {
	var b strings.Builder
	for _, name := range order {
		v, ok := metrics[name]
		if !ok {
			continue
		}
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-10s", name)))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%12.6f", v)))
		b.WriteByte('\n')
	}
	return b.String()
}
