// Package config loads and saves billu's TOML configuration and applies
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvCurrency    = "BILLU_CURRENCY"
	EnvDatabaseURL = "BILLU_DATABASE_URL"
	EnvLedgerDir   = "BILLU_LEDGER_DIR"
)

// Config holds all billu configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Goals      GoalsConfig      `toml:"goals"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	LedgerDir   string `toml:"ledger_dir,omitempty"`
	Currency    string `toml:"currency"`
	DatabaseURL string `toml:"database_url,omitempty"`
}

// ForecastConfig holds the defaults for the forecast command and TUI.
type ForecastConfig struct {
	Horizon         int     `toml:"horizon"`
	SmoothingFactor float64 `toml:"smoothing_factor"`
	Floor           float64 `toml:"floor"`
	NoiseAmplitude  float64 `toml:"noise_amplitude"`
	Seed            int64   `toml:"seed,omitempty"` // 0 picks a seed per run
}

// GoalsConfig holds goal tracking settings.
type GoalsConfig struct {
	Presets []float64 `toml:"presets"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "INR",
		},
		Forecast: ForecastConfig{
			Horizon:         3,
			SmoothingFactor: 0.3,
			Floor:           20000,
		},
		Goals: GoalsConfig{
			Presets: []float64{500, 1000, 5000},
		},
		Appearance: AppearanceConfig{
			Theme: "billu",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "billu")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "billu")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database
// and the default ledger.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "billu")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "billu")
}

// Load reads .env files and the config file, returning defaults if it
// doesn't exist, then applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if err := LoadDotEnv(filepath.Join(ConfigDir(), ".env"), ".env"); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadDotEnv loads each existing file into the process environment.
// Variables already set are left alone; missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from BILLU_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvCurrency)); v != "" {
		cfg.General.Currency = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDatabaseURL)); v != "" {
		cfg.General.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLedgerDir)); v != "" {
		cfg.General.LedgerDir = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// ResolveLedgerDir returns the configured ledger directory with a leading
// ~ expanded, or the default under DataDir.
func ResolveLedgerDir(cfg Config) string {
	dir := cfg.General.LedgerDir
	if dir == "" {
		return filepath.Join(DataDir(), "ledger")
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir
}

// DatabaseDSN returns the configured database URL or the default SQLite
// file under DataDir.
func DatabaseDSN(cfg Config) string {
	if cfg.General.DatabaseURL != "" {
		return cfg.General.DatabaseURL
	}
	return filepath.Join(DataDir(), "billu.db")
}
