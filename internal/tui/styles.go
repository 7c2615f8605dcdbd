package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibseq/internal/ui"
)

// Styles derived from the active ui theme by initTUIStyles.
var (
	panelStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	indexStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	progressStyle    lipgloss.Style
	metricLabelStyle lipgloss.Style
	metricValueStyle lipgloss.Style
	stateStyles      map[string]lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the application has picked its theme.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	indexStyle = lipgloss.NewStyle().Foreground(t.Dim)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text)
	progressStyle = lipgloss.NewStyle().Foreground(t.Accent)
	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	stateStyles = map[string]lipgloss.Style{
		"Validating": lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		"Generating": lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		"Filtering":  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		"Completed":  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		"Canceled":   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

func stateStyle(name string) lipgloss.Style {
	if s, ok := stateStyles[name]; ok {
		return s
	}
	return dimStyle
}
