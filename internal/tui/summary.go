package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle    = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	failHeadStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
)

// RenderFailures lists up to limit names, then a count of the rest.
func RenderFailures(names []string, limit int) string {
	if len(names) == 0 {
		return ""
	}

	lines := []string{failHeadStyle.Render(fmt.Sprintf("Failed: %d file(s)", len(names)))}
	for i, name := range names {
		if limit > 0 && i == limit {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  ... and %d more", len(names)-limit)))
			break
		}
		lines = append(lines, "  - "+name)
	}
	return strings.Join(lines, "\n")
}
