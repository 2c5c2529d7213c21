package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/config"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/logging"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/pipeline"
	"github.com/theirongolddev/billu/internal/store"
	"github.com/theirongolddev/billu/internal/tui/theme"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagLedgerDir      string
	flagDatabase       string
	flagCurrency       string
	flagMonths         int
	flagIncludeCurrent bool
	flagNoCache        bool
	flagQuiet          bool
	flagLogLevel       string
	flagLogFormat      string
)

// Loaded once per invocation by the root PersistentPreRunE.
var (
	cfg config.Config
	log = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:               "billu",
	Short:             "Expense forecasting and savings goals",
	Long:              "Forecast your monthly spending from a JSONL ledger and track progress toward savings goals.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLedgerDir, "ledger", "l", "", "Ledger directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "SQLite path or postgres:// URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "ISO 4217 currency code for display")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 0, "Use only the last N complete months (0 = all)")
	rootCmd.PersistentFlags().BoolVar(&flagIncludeCurrent, "include-current", false, "Include the current, incomplete month")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the transaction cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default $"+logging.EnvLevel+" or warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format: text or json")
}

// setup loads configuration and the logger before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	level := flagLogLevel
	if level == "" && !flagQuiet && os.Getenv(logging.EnvLevel) == "" {
		level = "info"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: flagLogFormat})
	if err != nil {
		return err
	}
	log = logger

	loaded, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("config unreadable, using defaults")
		loaded = config.DefaultConfig()
		config.ApplyEnv(&loaded)
	}
	cfg = loaded

	if flagLedgerDir != "" {
		cfg.General.LedgerDir = flagLedgerDir
	}
	if flagDatabase != "" {
		cfg.General.DatabaseURL = flagDatabase
	}
	if flagCurrency != "" {
		cfg.General.Currency = flagCurrency
	}
	cli.SetCurrency(cfg.General.Currency)
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

func ledgerDir() string {
	return config.ResolveLedgerDir(cfg)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DatabaseDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

// loadData is the shared data loading path used by all commands.
// Uses the store's transaction cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	dir := ledgerDir()
	log.WithField("dir", dir).Info("scanning ledger")

	progressFn := func(current, total int) {
		if current%100 == 0 || current == total {
			log.Debugf("parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := openStore()
		if err != nil {
			log.WithError(err).Warn("cache unavailable, doing full parse")
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(dir, cache, progressFn)
			if err != nil {
				log.WithError(err).Warn("cache error, falling back to full parse")
			} else {
				log.WithFields(logrus.Fields{
					"transactions": len(cr.Transactions),
					"cached":       cr.CacheHits,
					"reparsed":     cr.Reparsed,
					"accounts":     cr.AccountCount,
				}).Info("loaded ledger")
				warnParse(&cr.LoadResult)
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(dir, progressFn)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"transactions": len(result.Transactions),
		"files":        result.ParsedFiles,
		"accounts":     result.AccountCount,
	}).Info("parsed ledger")
	warnParse(result)
	return result, nil
}

func warnParse(r *pipeline.LoadResult) {
	if r.ParseErrors > 0 {
		log.Warnf("%d ledger lines could not be parsed", r.ParseErrors)
	}
	if r.FileErrors > 0 {
		log.Warnf("%d ledger files could not be read", r.FileErrors)
	}
}

// window returns the [since, until) range selected by --months and
// --include-current, relative to now.
func window(now time.Time) (time.Time, time.Time) {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	until := current
	if flagIncludeCurrent {
		until = current.AddDate(0, 1, 0)
	}
	var since time.Time
	if flagMonths > 0 {
		since = until.AddDate(0, -flagMonths, 0)
	}
	return since, until
}

// monthlyHistory aggregates the loaded transactions into the forecast window.
func monthlyHistory(txs []model.Transaction) []model.MonthlyStats {
	since, until := window(time.Now())
	return pipeline.AggregateMonths(txs, since, until)
}

// forecastOptions merges the [forecast] config with command flags.
func forecastOptions(horizon int, floor float64, noise float64, seed int64) forecast.Options {
	opts := forecast.DefaultOptions()
	if cfg.Forecast.Horizon > 0 {
		opts.Horizon = cfg.Forecast.Horizon
	}
	if cfg.Forecast.SmoothingFactor > 0 {
		opts.SmoothingFactor = cfg.Forecast.SmoothingFactor
	}
	if cfg.Forecast.Floor > 0 {
		opts.Floor = cfg.Forecast.Floor
	}
	amplitude := cfg.Forecast.NoiseAmplitude
	if seed == 0 {
		seed = cfg.Forecast.Seed
	}

	if horizon > 0 {
		opts.Horizon = horizon
	}
	if floor >= 0 {
		opts.Floor = floor
	}
	if noise >= 0 {
		amplitude = noise
	}

	if amplitude > 0 {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Noise = forecast.NewUniformNoise(amplitude, uint64(seed))
	}
	return opts
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
