package cmd

import (
	"fmt"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly totals with next month's prediction",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	if len(result.Transactions) == 0 {
		fmt.Println("\n  No transactions found.")
		fmt.Printf("  Add some with `billu add` or drop JSONL files into %s\n", ledgerDir())
		return nil
	}

	months := monthlyHistory(result.Transactions)
	if len(months) == 0 {
		fmt.Println("\n  No complete months in the selected range.")
		fmt.Println("  Try --include-current to use this month's partial data.")
		return nil
	}

	history := pipeline.History(months)
	opts := forecastOptions(1, -1, -1, 0)
	opts.Labels = pipeline.NextMonthLabels(months, opts.Horizon, "Jan 2006")
	points, err := forecast.Forecast(history, opts)
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}
	summary, err := forecast.Summarize(history, points)
	if err != nil {
		return fmt.Errorf("summarizing: %w", err)
	}

	first := months[0].Month.Format("Jan 2006")
	last := months[len(months)-1].Month.Format("Jan 2006")

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BILLU  %s - %s", first, last)))
	fmt.Println()

	var rows [][]string
	var prev float64
	for i, m := range months {
		delta := ""
		if i > 0 {
			delta = cli.FormatDelta(m.Expenses, prev)
		}
		savings := "-"
		if m.Income > 0 {
			savings = cli.FormatMoney(m.Income - m.Expenses)
		}
		rows = append(rows, []string{
			m.Month.Format("Jan 2006"),
			cli.FormatMoney(m.Expenses),
			delta,
			cli.FormatMoney(m.Income),
			savings,
			formatNumber(int64(m.Transactions)),
		})
		prev = m.Expenses
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Average", cli.FormatMoney(summary.AvgExpenses), "", "", avgSavings(summary), ""})
	rows = append(rows, []string{
		"Next (predicted)",
		cli.FormatMoney(summary.PredictedNext),
		trendString(summary),
		"", projectedSavings(summary), "",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Expenses", "Change", "Income", "Savings", "Txns"},
		Rows:    rows,
	}))

	if len(months) > 1 {
		spend := make([]float64, len(months))
		for i, m := range months {
			spend[i] = m.Expenses
		}
		fmt.Printf("  Spending trend  %s\n\n", cli.RenderSparkline(spend))
	}

	if st, err := openStore(); err == nil {
		defer func() { _ = st.Close() }()
		if n, err := st.GoalCount(); err == nil && n > 0 {
			fmt.Println(cli.RenderHint(fmt.Sprintf("  %d savings goals tracked. See `billu goals`.", n)))
			fmt.Println()
		}
	}

	return nil
}

func trendString(s forecast.Summary) string {
	arrow := "↑"
	if s.Direction == forecast.DirectionDown {
		arrow = "↓"
	}
	return cli.RenderTrend(fmt.Sprintf("%s %.1f%%", arrow, s.TrendPercent), s.Direction == forecast.DirectionUp)
}

func avgSavings(s forecast.Summary) string {
	if !s.HasIncome {
		return "-"
	}
	return cli.FormatMoney(s.AvgSavings)
}

func projectedSavings(s forecast.Summary) string {
	if !s.HasIncome {
		return "-"
	}
	return cli.FormatMoney(s.ProjectedSavings)
}
