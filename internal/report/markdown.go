package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/goals"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/source"
)

// Data is everything a report covers. Zero-valued sections are omitted.
type Data struct {
	Generated  time.Time
	Months     []model.MonthlyStats
	Points     []model.ForecastPoint
	Summary    *forecast.Summary
	Portfolio  *goals.PortfolioSummary
	Categories []model.CategoryStats
	Highlights []Highlight
}

// Markdown renders d as a markdown document.
func Markdown(d Data) string {
	var b strings.Builder

	b.WriteString("# billu report\n\n")
	if !d.Generated.IsZero() {
		fmt.Fprintf(&b, "_Generated %s_\n\n", d.Generated.Format("02 Jan 2006 15:04"))
	}

	if len(d.Months) == 0 && d.Portfolio == nil {
		b.WriteString("Nothing to report yet. Record some transactions or create a goal.\n")
		return b.String()
	}

	if len(d.Points) > 0 {
		writeForecast(&b, d)
	}
	if d.Portfolio != nil && len(d.Portfolio.Goals) > 0 {
		writeGoals(&b, *d.Portfolio)
	}
	if len(d.Categories) > 0 {
		writeCategories(&b, d.Categories)
	}
	if len(d.Highlights) > 0 {
		b.WriteString("## Highlights\n\n")
		for _, h := range d.Highlights {
			fmt.Fprintf(&b, "- %s %s\n", h.Marker, h.Text)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeForecast(b *strings.Builder, d Data) {
	b.WriteString("## Forecast\n\n")
	if s := d.Summary; s != nil {
		arrow := "up"
		if s.Direction == forecast.DirectionDown {
			arrow = "down"
		}
		fmt.Fprintf(b, "Next month is predicted at **%s**, %s %.1f%% from last month.\n\n",
			cli.FormatMoney(s.PredictedNext), arrow, s.TrendPercent)
		if s.HasIncome {
			fmt.Fprintf(b, "Projected savings: **%s**.\n\n", cli.FormatMoney(s.ProjectedSavings))
		}
	}

	b.WriteString("| Period | Expenses | Kind |\n")
	b.WriteString("|---|---:|---|\n")
	for i, p := range d.Points {
		label := p.Label
		if i < len(d.Months) {
			label = d.Months[i].Month.Format("Jan 2006")
		}
		kind := string(p.Kind)
		if p.Kind == model.PointPredicted {
			kind = "_" + kind + "_"
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", label, cli.FormatMoney(p.Expenses), kind)
	}
	b.WriteString("\n")
}

func writeGoals(b *strings.Builder, p goals.PortfolioSummary) {
	b.WriteString("## Goals\n\n")
	fmt.Fprintf(b, "%s of %s saved (%s) across %d goals, %d completed.\n\n",
		cli.FormatMoney(p.TotalSaved), cli.FormatMoney(p.TotalTarget),
		cli.FormatPercent(p.Progress), len(p.Goals), p.Completed)

	b.WriteString("| Goal | Saved | Target | Progress | Left | Monthly |\n")
	b.WriteString("|---|---:|---:|---:|---|---:|\n")
	for _, st := range p.Goals {
		left := cli.FormatMonths(st.MonthsRemaining)
		if st.State == model.GoalCompleted {
			left = "done"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			escape(st.Goal.Name),
			cli.FormatMoney(st.Goal.CurrentAmount),
			cli.FormatMoney(st.Goal.TargetAmount),
			cli.FormatPercent(st.Progress),
			left,
			cli.FormatMoney(st.MonthlyNeeded))
	}
	b.WriteString("\n")
}

func writeCategories(b *strings.Builder, cats []model.CategoryStats) {
	b.WriteString("## Spending by category\n\n")
	b.WriteString("| Category | Amount | Share |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, c := range cats {
		fmt.Fprintf(b, "| %s | %s | %s |\n",
			escape(source.CategoryName(c.Category)), cli.FormatMoney(c.Amount), cli.FormatPercent(c.SharePercent))
	}
	b.WriteString("\n")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
