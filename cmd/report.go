package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/goals"
	"github.com/theirongolddev/billu/internal/pipeline"
	"github.com/theirongolddev/billu/internal/report"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	flagRaw   bool
	flagStyle string
	flagWrap  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Forecast, goals, and insights as a markdown report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&flagRaw, "raw", false, "Print the markdown instead of rendering it")
	reportCmd.Flags().StringVar(&flagStyle, "style", "auto", "Render style: auto, dark, light, notty")
	reportCmd.Flags().IntVar(&flagWrap, "wrap", 100, "Wrap rendered text at this width")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	now := time.Now()
	data := report.Data{Generated: now}

	result, err := loadData()
	if err != nil {
		return err
	}

	since, until := window(now)
	txs := pipeline.FilterByTime(result.Transactions, since, until)
	data.Months = pipeline.AggregateMonths(txs, time.Time{}, time.Time{})
	if len(data.Months) > 0 {
		history := pipeline.History(data.Months)
		opts := forecastOptions(0, -1, -1, 0)
		opts.Labels = pipeline.NextMonthLabels(data.Months, opts.Horizon, "Jan 2006")
		points, err := forecast.Forecast(history, opts)
		if err != nil {
			return fmt.Errorf("forecasting: %w", err)
		}
		summary, err := forecast.Summarize(history, points)
		if err != nil {
			return fmt.Errorf("summarizing: %w", err)
		}
		data.Points = points
		data.Summary = &summary

		data.Categories = pipeline.AggregateCategories(txs, time.Time{}, time.Time{})
		changes := pipeline.CompareCategories(txs, data.Months[len(data.Months)-1].Month)
		days := pipeline.AggregateWeekdays(txs, time.Time{}, time.Time{})
		data.Highlights = report.Highlights(days, changes, 5)
	}

	st, err := openStore()
	if err != nil {
		log.WithError(err).Warn("goals unavailable")
	} else {
		defer func() { _ = st.Close() }()
		all, err := st.LoadGoals()
		if err != nil {
			return err
		}
		if len(all) > 0 {
			portfolio, err := goals.Summarize(all, now)
			if err != nil {
				return err
			}
			data.Portfolio = &portfolio
		}
	}

	md := report.Markdown(data)
	if flagRaw {
		fmt.Print(md)
		return nil
	}

	out, err := renderMarkdown(md, flagStyle, flagWrap)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func renderMarkdown(md, style string, wrap int) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}
