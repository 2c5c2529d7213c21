package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/billu/internal/config"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/pipeline"
	"github.com/theirongolddev/billu/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines would tear the alt screen.
	log.SetOutput(io.Discard)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	dir := ledgerDir()
	loader := func(progressFn pipeline.ProgressFunc) ([]model.Transaction, error) {
		var txs []model.Transaction
		if flagNoCache {
			r, err := pipeline.Load(dir, progressFn)
			if err != nil {
				return nil, err
			}
			txs = r.Transactions
		} else {
			r, err := pipeline.LoadWithCache(dir, st, progressFn)
			if err != nil {
				return nil, err
			}
			txs = r.Transactions
		}
		since, until := window(time.Now())
		return pipeline.FilterByTime(txs, since, until), nil
	}

	app := tui.NewApp(tui.Options{
		Loader:    loader,
		Goals:     st,
		Forecast:  forecastOptions(0, -1, -1, 0),
		Presets:   cfg.Goals.Presets,
		Config:    cfg,
		NeedSetup: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
