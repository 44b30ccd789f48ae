package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"retroconv/internal/batch"
)

type SummaryRow struct {
	Label string
	Value string
}

// BatchRows builds the summary table rows for a finished batch.
func BatchRows(found int, s batch.Summary) []SummaryRow {
	return []SummaryRow{
		{Label: "Files found", Value: fmt.Sprintf("%d", found)},
		{Label: "Converted", Value: fmt.Sprintf("%d", s.OK)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped)},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		{Label: "Written", Value: humanize.Bytes(uint64(s.Bytes))},
	}
}

// RenderSummary draws rows as a two-column table. Styles are dropped when
// color is false.
func RenderSummary(rows []SummaryRow, color bool) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.Label))
		valueWidth = max(valueWidth, len(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		if color {
			label, value = labelStyle.Render(label), valueStyle.Render(value)
		}
		lines = append(lines, fmt.Sprintf("%s | %s", label, value))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// ItemLine formats one per-item result, e.g. "[OK] a.jpg -> a.png".
func ItemLine(item batch.Item, color bool) string {
	tag := item.Outcome.Tag()
	var b strings.Builder
	if color {
		tag = tagStyle(item.Outcome).Render(tag)
	}
	b.WriteString(tag)
	b.WriteString(" ")
	b.WriteString(item.Source)
	if item.Destination != "" && item.Outcome == batch.OutcomeOK {
		b.WriteString(" -> ")
		b.WriteString(item.Destination)
	}
	if item.Reason != "" && item.Outcome != batch.OutcomeOK {
		reason := "(" + item.Reason + ")"
		if color {
			reason = dimStyle.Render(reason)
		}
		b.WriteString(" ")
		b.WriteString(reason)
	}
	return b.String()
}

func tagStyle(o batch.Outcome) lipgloss.Style {
	switch o {
	case batch.OutcomeOK:
		return okStyle
	case batch.OutcomeSkipped:
		return skipStyle
	default:
		return errStyle
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
	errStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)
