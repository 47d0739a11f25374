// Package config provides configuration management for the trading
// back office.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Position  PositionConfig  `mapstructure:"position"`
	Inquiry   InquiryConfig   `mapstructure:"inquiry"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Log       LogConfig       `mapstructure:"log"`
}

// DataConfig holds input and output locations.
type DataConfig struct {
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// PricingConfig holds the display throttle and stream sizing.
type PricingConfig struct {
	ThrottleMs int   `mapstructure:"throttle_ms"`
	VisibleQty int64 `mapstructure:"visible_qty"`
	HiddenQty  int64 `mapstructure:"hidden_qty"`
}

// ExecutionConfig holds execution decision parameters. Prices are
// decimal strings so the tolerance sits exactly on the price grid.
type ExecutionConfig struct {
	SpreadTolerance string  `mapstructure:"spread_tolerance"`
	HiddenRatio     float64 `mapstructure:"hidden_ratio"`
}

// RiskConfig holds risk parameters.
type RiskConfig struct {
	PV01 float64 `mapstructure:"pv01"`
}

// PositionConfig holds position-keeping policy.
type PositionConfig struct {
	StrictBooks bool `mapstructure:"strict_books"`
}

// InquiryConfig holds inquiry quoting parameters.
type InquiryConfig struct {
	QuotePrice float64 `mapstructure:"quote_price"`
}

// JournalConfig holds the SQLite journal settings.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/bond-trader"
	}
	return filepath.Join(home, ".config", "bond-trader")
}

// Load loads configuration from the specified directory. A missing
// config file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.input_dir", "data")
	v.SetDefault("data.output_dir", "out")
	v.SetDefault("pricing.throttle_ms", 300)
	v.SetDefault("pricing.visible_qty", 1000000)
	v.SetDefault("pricing.hidden_qty", 1000000)
	// One half-tick (1/64), the smallest positive spread on the grid.
	v.SetDefault("execution.spread_tolerance", "0.015625")
	v.SetDefault("execution.hidden_ratio", 0.9)
	v.SetDefault("risk.pv01", 0.02)
	v.SetDefault("position.strict_books", false)
	v.SetDefault("inquiry.quote_price", 100.0)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "journal.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.console", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOND_TRADER_INPUT_DIR"); v != "" {
		cfg.Data.InputDir = v
	}
	if v := os.Getenv("BOND_TRADER_OUTPUT_DIR"); v != "" {
		cfg.Data.OutputDir = v
	}
	if v := os.Getenv("BOND_TRADER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// SpreadTolerance parses the configured tolerance.
func (c *Config) SpreadTolerance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Execution.SpreadTolerance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid spread_tolerance %q: %w", c.Execution.SpreadTolerance, err)
	}
	return d, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pricing.ThrottleMs < 0 {
		return fmt.Errorf("throttle_ms must be non-negative")
	}
	if c.Pricing.VisibleQty <= 0 || c.Pricing.HiddenQty < 0 {
		return fmt.Errorf("stream quantities must be positive")
	}
	if c.Execution.HiddenRatio < 0 || c.Execution.HiddenRatio > 1 {
		return fmt.Errorf("hidden_ratio must be between 0 and 1")
	}
	if _, err := c.SpreadTolerance(); err != nil {
		return err
	}
	if c.Risk.PV01 < 0 {
		return fmt.Errorf("pv01 must be non-negative")
	}
	if c.Inquiry.QuotePrice <= 0 {
		return fmt.Errorf("quote_price must be positive")
	}
	return nil
}
