package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/tui/components"
	"github.com/theirongolddev/billu/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw int) string {
	t := theme.Active

	if a.forecastErr != nil {
		msg := "Add transactions to your ledger to see a forecast."
		if !errors.Is(a.forecastErr, forecast.ErrInvalidInput) || len(a.history) > 0 {
			msg = "Forecast unavailable: " + a.forecastErr.Error()
		}
		return components.ContentCard("Forecast", lipgloss.NewStyle().Foreground(t.TextMuted).Render(msg), cw)
	}

	s := a.summary
	trendTone := components.ToneGood
	arrow := "▼"
	if s.Direction == forecast.DirectionUp {
		trendTone = components.ToneBad
		arrow = "▲"
	}

	metrics := []components.Metric{
		{Label: "Last month", Value: cli.FormatMoney(s.LastExpenses), Delta: fmt.Sprintf("%d months of history", len(a.history))},
		{Label: "Next month", Value: cli.FormatMoney(s.PredictedNext), Delta: fmt.Sprintf("%s %s vs last", arrow, cli.FormatPercent(s.TrendPercent)), Tone: trendTone},
		{Label: "Average spend", Value: cli.FormatMoney(s.AvgExpenses)},
	}
	if s.HasIncome {
		tone := components.ToneGood
		if s.ProjectedSavings < 0 {
			tone = components.ToneBad
		}
		metrics = append(metrics, components.Metric{
			Label: "Projected savings",
			Value: cli.FormatMoney(s.ProjectedSavings),
			Delta: "avg " + cli.FormatMoney(s.AvgSavings) + "/mo",
			Tone:  tone,
		})
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	values := make([]float64, len(a.points))
	labels := make([]string, len(a.points))
	colors := make([]lipgloss.Color, len(a.points))
	for i, p := range a.points {
		values[i] = p.Expenses
		labels[i] = shortLabel(p.Label)
		colors[i] = t.Accent
		if p.Kind == model.PointPredicted {
			colors[i] = t.Yellow
		}
	}

	chartH := a.height - 16
	if chartH < 6 {
		chartH = 6
	}
	if chartH > 16 {
		chartH = 16
	}
	legend := lipgloss.NewStyle().Foreground(t.Accent).Render("█ actual") + "  " +
		lipgloss.NewStyle().Foreground(t.Yellow).Render("█ predicted")
	chart := components.BarChart(values, labels, colors, components.CardInnerWidth(cw), chartH)
	b.WriteString(components.ContentCard("Monthly expenses", chart+"\n"+legend, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Predictions", a.predictionRows(), cw))
	return b.String()
}

func (a App) predictionRows() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	first := true
	for _, p := range a.points {
		if p.Kind != model.PointPredicted {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		fmt.Fprintf(&b, "%s %s", labelStyle.Render(fmt.Sprintf("%-10s", p.Label)), valueStyle.Render(cli.FormatMoney(p.Expenses)))
	}
	return b.String()
}

// shortLabel keeps chart x-axis labels narrow, e.g. "Period 4" -> "P4".
func shortLabel(label string) string {
	if strings.HasPrefix(label, "Period ") {
		return "P" + strings.TrimPrefix(label, "Period ")
	}
	return truncStr(label, 4)
}
