package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/report"
	"github.com/theirongolddev/billu/internal/source"
	"github.com/theirongolddev/billu/internal/tui/components"
	"github.com/theirongolddev/billu/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const maxInsightCategories = 8

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.categories) == 0 {
		return components.ContentCard("Insights", muted.Render("No spending recorded yet."), cw)
	}

	widths := components.LayoutRow(cw, 2)

	var cats strings.Builder
	inner := components.CardInnerWidth(widths[0])
	nameW := 14
	barW := inner - nameW - 16
	if barW < 5 {
		barW = 5
	}
	top := a.categories
	if len(top) > maxInsightCategories {
		top = top[:maxInsightCategories]
	}
	peak := top[0].Amount
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	for i, c := range top {
		if i > 0 {
			cats.WriteString("\n")
		}
		filled := 0
		if peak > 0 {
			filled = int(math.Round(c.Amount / peak * float64(barW)))
		}
		fmt.Fprintf(&cats, "%s %s%s %s",
			muted.Render(fmt.Sprintf("%-*s", nameW, truncStr(source.CategoryName(c.Category), nameW))),
			barStyle.Render(strings.Repeat("█", filled)),
			strings.Repeat(" ", barW-filled),
			lipgloss.NewStyle().Foreground(t.TextPrimary).Render(fmt.Sprintf("%5.1f%%", c.SharePercent)),
		)
	}
	catCard := components.ContentCard("Spending by category", cats.String(), widths[0])

	values := make([]float64, len(a.weekdays))
	labels := make([]string, len(a.weekdays))
	colors := make([]lipgloss.Color, len(a.weekdays))
	for i, d := range a.weekdays {
		values[i] = d.Amount
		labels[i] = cli.FormatDayOfWeek(d.Weekday)
		colors[i] = t.Blue
		if i >= 5 {
			colors[i] = t.Magenta
		}
	}
	dayChart := components.BarChart(values, labels, colors, components.CardInnerWidth(widths[1]), 8)
	dayCard := components.ContentCard("Spending by weekday", dayChart, widths[1])

	var b strings.Builder
	b.WriteString(components.CardRow([]string{catCard, dayCard}))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Highlights", a.highlights(), cw))
	return b.String()
}

// highlights lists the notable patterns in the ledger, one per line.
func (a App) highlights() string {
	t := theme.Active
	text := lipgloss.NewStyle().Foreground(t.TextPrimary)
	tones := map[report.Tone]lipgloss.Style{
		report.ToneNeutral: lipgloss.NewStyle().Foreground(t.TextMuted),
		report.ToneUp:      lipgloss.NewStyle().Foreground(t.Red),
		report.ToneDown:    lipgloss.NewStyle().Foreground(t.Green),
	}

	hs := report.Highlights(a.weekdays, a.changes, 3)
	if len(hs) == 0 {
		return tones[report.ToneNeutral].Render("Spending is steady month over month.")
	}
	lines := make([]string, len(hs))
	for i, h := range hs {
		lines[i] = tones[h.Tone].Render(h.Marker) + " " + text.Render(h.Text)
	}
	return strings.Join(lines, "\n")
}
