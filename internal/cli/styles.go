package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CLI output styles for consistent terminal output.
var (
	cliSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	cliWarn    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"})
	cliError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"})
	cliMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
	cliPrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#21759B", Dark: "#3FA9D8"}).Bold(true)
	cliBorder  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"})
)

func symSuccess() string { return cliSuccess.Render("✓") }
func symError() string   { return cliError.Render("✗") }
func symWarning() string { return cliWarn.Render("!") }
func symSkipped() string { return cliMuted.Render("○") }

// kv is one labelled row of a card.
type kv struct {
	Label string
	Value string
}

// renderCard draws title and lines inside a rounded border.
func renderCard(title string, lines []string) string {
	content := title
	if len(lines) > 0 {
		content += "\n\n" + strings.Join(lines, "\n")
	}
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cliBorder.GetForeground()).
		Padding(0, 2).
		MarginLeft(2)
	return boxStyle.Render(content)
}

// kvLines aligns labels into a column.
func kvLines(rows []kv) []string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Label))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := cliMuted.Render(fmt.Sprintf("%-*s", width, r.Label))
		lines = append(lines, label+"  "+r.Value)
	}
	return lines
}
