package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billu/internal/config"
	"github.com/theirongolddev/billu/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// Currencies offered by the setup form. Any ISO 4217 code can still be set
// in the config file.
var Currencies = []string{"INR", "USD", "EUR", "GBP", "JPY", "AUD", "CAD", "SGD"}

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Currency  string
	LedgerDir string
	Theme     string
	Horizon   int
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Currency:  cfg.General.Currency,
		LedgerDir: config.ResolveLedgerDir(cfg),
		Theme:     cfg.Appearance.Theme,
		Horizon:   cfg.Forecast.Horizon,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	if c := strings.ToUpper(strings.TrimSpace(v.Currency)); c != "" {
		cfg.General.Currency = c
	}
	if dir := strings.TrimSpace(v.LedgerDir); dir != "" {
		cfg.General.LedgerDir = dir
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if v.Horizon > 0 {
		cfg.Forecast.Horizon = v.Horizon
	}
}

// NewSetupForm builds the first-run form. txCount is the number of ledger
// transactions found so far, shown in the welcome note.
func NewSetupForm(txCount int, vals *SetupValues) *huh.Form {
	welcome := "No ledger transactions found yet."
	if txCount > 0 {
		welcome = fmt.Sprintf("Found %d ledger transactions.", txCount)
	}

	currencyOpts := make([]huh.Option[string], 0, len(Currencies))
	for _, c := range Currencies {
		currencyOpts = append(currencyOpts, huh.NewOption(c, c))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to billu").
				Description(welcome+"\nLet's set up a few things."),
			huh.NewSelect[string]().
				Title("Currency").
				Options(currencyOpts...).
				Value(&vals.Currency),
			huh.NewInput().
				Title("Ledger directory").
				Description("Folder of *.jsonl transaction files").
				Value(&vals.LedgerDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("ledger directory is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Forecast horizon").
				Options(
					huh.NewOption("3 months", 3),
					huh.NewOption("6 months", 6),
					huh.NewOption("12 months", 12),
				).
				Value(&vals.Horizon),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}
