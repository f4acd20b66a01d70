package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/mat"

	"github.com/aredko/latdyn/internal/rollout"
)

func rampTrajectory(n int) *rollout.Trajectory {
	tr := &rollout.Trajectory{
		Times:  make([]float64, n),
		States: make([]*mat.Dense, n),
	}
	for i := 0; i < n; i++ {
		tr.Times[i] = float64(i)
		tr.States[i] = mat.NewDense(1, 2, []float64{float64(i), -float64(i)})
	}
	return tr
}

func TestModel_TickAdvances(t *testing.T) {
	m := NewModel("test", rampTrajectory(10), rampTrajectory(10))

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.playHead != 2 {
		t.Errorf("expected play head 2, got %d", m.playHead)
	}
	if cmd == nil {
		t.Error("expected a follow-up tick")
	}
}

func TestModel_FinishesAtEnd(t *testing.T) {
	m := NewModel("test", rampTrajectory(3), nil)

	for i := 0; i < 5; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(Model)
	}
	if !m.done {
		t.Error("expected playback to finish")
	}
	if m.playHead != 3 {
		t.Errorf("expected play head clamped to 3, got %d", m.playHead)
	}
}

func TestModel_PauseStopsTicks(t *testing.T) {
	m := NewModel("test", rampTrajectory(10), nil)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if !m.paused {
		t.Fatal("expected paused")
	}

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.playHead != 1 {
		t.Errorf("expected play head unchanged, got %d", m.playHead)
	}
	if cmd != nil {
		t.Error("expected no tick while paused")
	}
}

func TestModel_FeatureSelection(t *testing.T) {
	m := NewModel("test", rampTrajectory(10), nil)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.col != 1 {
		t.Errorf("expected column 1, got %d", m.col)
	}

	// Already at the last feature.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.col != 1 {
		t.Errorf("expected column clamped to 1, got %d", m.col)
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel("ldm/pendulum", rampTrajectory(10), rampTrajectory(10))
	for i := 0; i < 4; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(Model)
	}

	out := m.View()
	if !strings.Contains(out, "ldm/pendulum") {
		t.Error("expected title in view")
	}
	if !strings.Contains(out, "x0") {
		t.Error("expected feature label in view")
	}
}
