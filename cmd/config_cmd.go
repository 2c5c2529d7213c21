// Package cmd implements the billu CLI commands.
package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger directory: %s\n", ledgerDir())
	fmt.Printf("    Currency:         %s\n", cfg.General.Currency)
	fmt.Printf("    Database:         %s\n", maskDSN(config.DatabaseDSN(cfg)))
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Horizon:          %s\n", cli.FormatMonths(cfg.Forecast.Horizon))
	fmt.Printf("    Smoothing factor: %.2f\n", cfg.Forecast.SmoothingFactor)
	fmt.Printf("    Floor:            %s\n", cli.FormatMoney(cfg.Forecast.Floor))
	if cfg.Forecast.NoiseAmplitude > 0 {
		fmt.Printf("    Noise amplitude:  %s\n", cli.FormatMoney(cfg.Forecast.NoiseAmplitude))
		if cfg.Forecast.Seed != 0 {
			fmt.Printf("    Seed:             %d\n", cfg.Forecast.Seed)
		}
	} else {
		fmt.Println("    Noise:            off")
	}
	fmt.Println()

	fmt.Println("  [Goals]")
	presets := make([]string, len(cfg.Goals.Presets))
	for i, p := range cfg.Goals.Presets {
		presets[i] = cli.FormatMoney(p)
	}
	fmt.Printf("    Presets: %s\n", strings.Join(presets, ", "))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println(cli.RenderHint("  Run `billu setup` to reconfigure."))
	return nil
}

// maskDSN hides the password of a database URL.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return u.String()
	}
	// url.URL escapes '*' in userinfo, so splice the mask in after encoding.
	u.User = url.User(u.User.Username())
	user := u.User.String()
	return strings.Replace(u.String(), "//"+user+"@", "//"+user+":****@", 1)
}
