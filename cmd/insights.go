package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/pipeline"
	"github.com/theirongolddev/billu/internal/report"
	"github.com/theirongolddev/billu/internal/source"

	"github.com/spf13/cobra"
)

var flagCategory string

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Spending by category and weekday",
	RunE:  runInsights,
}

func init() {
	insightsCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Only include categories matching this substring")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	since, until := window(time.Now())
	txs := pipeline.FilterByTime(result.Transactions, since, until)
	if flagCategory != "" {
		txs = pipeline.FilterByCategory(txs, flagCategory)
	}

	cats := pipeline.AggregateCategories(txs, time.Time{}, time.Time{})
	if len(cats) == 0 {
		fmt.Println("\n  No spending found in the selected range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING INSIGHTS"))
	fmt.Println()

	var total float64
	catRows := make([][]string, 0, len(cats)+2)
	for _, c := range cats {
		total += c.Amount
		catRows = append(catRows, []string{
			source.CategoryName(c.Category),
			cli.FormatMoney(c.Amount),
			cli.FormatPercent(c.SharePercent),
			formatNumber(int64(c.Transactions)),
		})
	}
	catRows = append(catRows, []string{"---"}, []string{"Total", cli.FormatMoney(total), "", ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Category",
		Headers: []string{"Category", "Amount", "Share", "Txns"},
		Rows:    catRows,
	}))

	days := pipeline.AggregateWeekdays(txs, time.Time{}, time.Time{})
	var peak float64
	for _, d := range days {
		if d.Amount > peak {
			peak = d.Amount
		}
	}
	dayRows := make([][]string, 0, len(days))
	for _, d := range days {
		perDay := "-"
		if d.Days > 0 {
			perDay = cli.FormatMoney(d.Amount / float64(d.Days))
		}
		dayRows = append(dayRows, []string{
			cli.FormatDayOfWeek(d.Weekday),
			cli.FormatMoney(d.Amount),
			perDay,
			barString(d.Amount, peak, 16),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Weekday",
		Headers: []string{"Day", "Amount", "Per Day", ""},
		Rows:    dayRows,
	}))

	var changes []pipeline.CategoryChange
	if months := pipeline.AggregateMonths(txs, time.Time{}, time.Time{}); len(months) > 0 {
		changes = pipeline.CompareCategories(txs, months[len(months)-1].Month)
	}
	hs := report.Highlights(days, changes, 5)
	if len(hs) > 0 {
		fmt.Println("  Highlights")
		for _, h := range hs {
			fmt.Printf("    %s %s\n", h.Marker, h.Text)
		}
		fmt.Println()
	}

	return nil
}
