package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagHorizon int
	flagFloor   float64
	flagSeed    int64
	flagNoise   float64
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project monthly expenses forward",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&flagHorizon, "horizon", 0, "Months to predict (default from config)")
	forecastCmd.Flags().Float64Var(&flagFloor, "floor", -1, "Minimum predicted monthly expense (default from config)")
	forecastCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Seed for the noise source (0 = random)")
	forecastCmd.Flags().Float64Var(&flagNoise, "noise", -1, "Noise amplitude in currency units (0 = deterministic)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	months := monthlyHistory(result.Transactions)
	if len(months) == 0 {
		fmt.Println("\n  Not enough ledger history to forecast.")
		fmt.Println("  Record at least one full month of expenses first.")
		return nil
	}

	history := pipeline.History(months)
	opts := forecastOptions(flagHorizon, flagFloor, flagNoise, flagSeed)
	opts.Labels = pipeline.NextMonthLabels(months, opts.Horizon, "Jan 2006")
	points, err := forecast.Forecast(history, opts)
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}
	summary, err := forecast.Summarize(history, points)
	if err != nil {
		return fmt.Errorf("summarizing: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("EXPENSE FORECAST  Next %s", cli.FormatMonths(opts.Horizon))))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly Expenses",
		Headers: []string{"Period", "Expenses", "", "Kind"},
		Rows:    forecastRows(months, points),
	}))

	rows := [][]string{
		{"Average", cli.FormatMoney(summary.AvgExpenses)},
		{"Last month", cli.FormatMoney(summary.LastExpenses)},
		{"Next month", fmt.Sprintf("%s  %s", cli.FormatMoney(summary.PredictedNext), trendString(summary))},
	}
	if summary.HasIncome {
		rows = append(rows,
			[]string{"---"},
			[]string{"Last income", cli.FormatMoney(summary.LastIncome)},
			[]string{"Avg savings", cli.FormatMoney(summary.AvgSavings)},
			[]string{"Projected savings", cli.FormatMoney(summary.ProjectedSavings)},
		)
	}
	if opts.Floor > 0 {
		rows = append(rows, []string{"---"}, []string{"Floor", cli.FormatMoney(opts.Floor)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Prediction",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	return nil
}

// forecastRows lays out actual and predicted points with an inline bar
// scaled to the largest value in the series.
func forecastRows(months []model.MonthlyStats, points []model.ForecastPoint) [][]string {
	var maxVal float64
	for _, p := range points {
		if p.Expenses > maxVal {
			maxVal = p.Expenses
		}
	}

	rows := make([][]string, 0, len(points)+1)
	for i, p := range points {
		label := p.Label
		if i < len(months) {
			label = months[i].Month.Format("Jan 2006")
		}
		if p.Kind == model.PointPredicted && i > 0 && points[i-1].Kind == model.PointActual {
			rows = append(rows, []string{"---"})
		}
		rows = append(rows, []string{
			label,
			cli.FormatMoney(p.Expenses),
			barString(p.Expenses, maxVal, 20),
			string(p.Kind),
		})
	}
	return rows
}

func barString(value, maxValue float64, width int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	n := int(value / maxValue * float64(width))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}
