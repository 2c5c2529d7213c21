package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/goals"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/tui/components"
	"github.com/theirongolddev/billu/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.goals) == 0 {
		return components.ContentCard("Savings goals",
			muted.Render("No goals yet. Create one with `billu goals add`."), cw)
	}
	if a.goalsErr != nil {
		return components.ContentCard("Savings goals", muted.Render(a.goalsErr.Error()), cw)
	}

	p := a.portfolio
	metrics := []components.Metric{
		{Label: "Saved", Value: cli.FormatMoney(p.TotalSaved)},
		{Label: "Target", Value: cli.FormatMoney(p.TotalTarget)},
		{Label: "Portfolio", Value: cli.FormatPercent(p.Progress)},
		{Label: "Completed", Value: fmt.Sprintf("%d / %d", p.Completed, len(p.Goals))},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	labelW := 20
	barW := inner - labelW - 12
	if barW < 10 {
		barW = 10
	}

	cursorStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	var list strings.Builder
	for i, st := range p.Goals {
		marker := "  "
		if i == a.goalCursor {
			marker = cursorStyle.Render("▸ ")
		}
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString(marker)
		list.WriteString(components.GoalBar(st.Goal.Name, st.Progress, labelW, barW))
	}
	b.WriteString(components.ContentCard("Savings goals", list.String(), cw))
	b.WriteString("\n")

	if a.goalCursor < len(p.Goals) {
		b.WriteString(a.renderGoalDetail(p.Goals[a.goalCursor], cw))
	}
	return b.String()
}

func (a App) renderGoalDetail(st goals.Status, cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	state := lipgloss.NewStyle().Foreground(t.Yellow).Render("in progress")
	if st.State == model.GoalCompleted {
		state = lipgloss.NewStyle().Foreground(t.Green).Bold(true).Render("completed")
	}

	rows := []struct{ label, value string }{
		{"Category", goals.CategoryName(st.Goal.Category)},
		{"Saved", cli.FormatMoney(st.Goal.CurrentAmount) + " of " + cli.FormatMoney(st.Goal.TargetAmount)},
		{"Remaining", cli.FormatMoney(st.Remaining)},
		{"Target date", cli.FormatDate(st.Goal.TargetDate)},
		{"Time left", cli.FormatMonths(st.MonthsRemaining)},
		{"Monthly needed", cli.FormatMoney(st.MonthlyNeeded)},
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-15s", r.label)), valueStyle.Render(r.value))
	}
	fmt.Fprintf(&b, "%s %s", labelStyle.Render(fmt.Sprintf("%-15s", "Status")), state)

	return components.ContentCard(st.Goal.Name, b.String(), cw)
}
