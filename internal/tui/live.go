// Package tui plays back a model rollout against its reference
// trajectory in the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aredko/latdyn/internal/rollout"
	"github.com/aredko/latdyn/internal/viz"
)

const frameInterval = 50 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model steps through a precomputed prediction, one time point per
// frame, plotting it against the reference.
type Model struct {
	title    string
	pred     *rollout.Trajectory
	ref      *rollout.Trajectory
	playHead int
	col      int
	cols     int
	paused   bool
	done     bool
	errHist  []float64
	width    int
	height   int
}

func NewModel(title string, pred, ref *rollout.Trajectory) Model {
	cols := 0
	if pred.Len() > 0 {
		_, cols = pred.States[0].Dims()
	}
	return Model{
		title:    title,
		pred:     pred,
		ref:      ref,
		playHead: 1,
		cols:     cols,
		errHist:  make([]float64, 0, pred.Len()),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused && !m.done {
				return m, tick()
			}
		case "r":
			m.playHead = 1
			m.done = false
			m.errHist = m.errHist[:0]
			if !m.paused {
				return m, tick()
			}
		case "left", "h":
			if m.col > 0 {
				m.col--
			}
		case "right", "l":
			if m.col < m.cols-1 {
				m.col++
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.paused || m.done {
			return m, nil
		}
		m.errHist = append(m.errHist, m.stepError(m.playHead-1))
		m.playHead++
		if m.playHead >= m.pred.Len() {
			m.playHead = m.pred.Len()
			m.done = true
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

// stepError is the max absolute error across features at point i.
func (m Model) stepError(i int) float64 {
	if m.ref == nil || i >= m.ref.Len() {
		return 0
	}
	worst := 0.0
	for j := 0; j < m.cols; j++ {
		d := math.Abs(m.pred.States[i].At(0, j) - m.ref.States[i].At(0, j))
		if d > worst {
			worst = d
		}
	}
	return worst
}

func (m Model) View() string {
	if m.pred.Len() < 2 {
		return "trajectory too short to play back\n"
	}

	var b strings.Builder

	status := viz.StatusRunning.Render("playing")
	if m.paused {
		status = viz.StatusDone.Render("paused")
	} else if m.done {
		status = viz.StatusDone.Render("done")
	}
	t := m.pred.Times[m.playHead-1]
	b.WriteString(viz.HeaderStyle.Render(fmt.Sprintf("%s  t=%.2fs  feature x%d  %s", m.title, t, m.col, status)))
	b.WriteString("\n")

	head := m.playHead
	if head < 2 {
		head = 2
	}
	pred := &rollout.Trajectory{Times: m.pred.Times[:head], States: m.pred.States[:head]}
	var chart string
	if m.ref != nil && m.ref.Len() >= head {
		ref := &rollout.Trajectory{Times: m.ref.Times[:head], States: m.ref.States[:head]}
		chart = viz.PlotComparison(pred, ref, m.col, fmt.Sprintf("x%d", m.col))
	} else {
		chart = viz.PlotTrajectory(pred, m.col, fmt.Sprintf("x%d", m.col))
	}
	b.WriteString(viz.GraphStyle.Render(chart))
	b.WriteString("\n")

	if len(m.errHist) > 0 {
		b.WriteString(viz.LabelStyle.Render("max error"))
		b.WriteString(viz.ValueStyle.Render(fmt.Sprintf("%.6f  ", m.errHist[len(m.errHist)-1])))
		b.WriteString(viz.Sparkline(m.errHist, 40))
		b.WriteString("\n")
	}

	b.WriteString(viz.HelpStyle.Render("space pause · r restart · ←/→ feature · q quit"))
	b.WriteString("\n")

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

// Run plays the trajectory in the alternate screen until quit.
func Run(title string, pred, ref *rollout.Trajectory) error {
	p := tea.NewProgram(NewModel(title, pred, ref), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
