package viz

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Bold(true)

	StatusRunning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	StatusDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	GraphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Padding(1, 0)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
