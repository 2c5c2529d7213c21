package cmd

import (
	"fmt"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/config"
	"github.com/theirongolddev/billu/internal/source"
	"github.com/theirongolddev/billu/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	dir := ledgerDir()
	files, _ := source.ScanDir(dir)

	txCount := 0
	for _, f := range files {
		txCount += len(source.ParseFile(f).Transactions)
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(txCount, &vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	if len(files) > 0 {
		fmt.Printf("  Found %s transactions in %d ledger files (%d accounts)\n",
			formatNumber(int64(txCount)), len(files), source.CountAccounts(files))
	}
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println(cli.RenderHint("  Run `billu setup` anytime to reconfigure."))
	fmt.Println()

	return nil
}
