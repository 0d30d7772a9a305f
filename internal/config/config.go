package config

import (
	"fmt"
	"path/filepath"

	"github.com/LeJamon/goMarketd/internal/core/types"
)

// DefaultConfigFile is looked up in the working directory when --conf is not given.
const DefaultConfigFile = "marketd.toml"

// Config represents the complete marketd configuration
type Config struct {
	// 1. Listeners
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// 2. State database
	NodeDB NodeDBConfig `toml:"node_db" mapstructure:"node_db"`

	// 3. Event history and fan-out
	History HistoryConfig `toml:"history" mapstructure:"history"`
	Events  EventsConfig  `toml:"events" mapstructure:"events"`

	// 4. Marketplace settings
	Market MarketConfig `toml:"market" mapstructure:"market"`

	// 5. Logging
	Log LogConfig `toml:"log" mapstructure:"log"`

	configPath string `toml:"-" mapstructure:"-"`
}

// GetConfigPath returns the path the configuration was loaded from, empty
// when only defaults were used.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// ConfigPathFromDir returns the configuration path inside configDir.
func ConfigPathFromDir(configDir string) string {
	return filepath.Join(configDir, DefaultConfigFile)
}

// MarketConfig represents the [market] section
type MarketConfig struct {
	// Registrar may change global fees and run admin transactions
	Registrar string `toml:"registrar" mapstructure:"registrar"`
	// Module is the account that holds escrowed offer funds and that token
	// owners approve
	Module        string `toml:"module" mapstructure:"module"`
	FindersFeeBps int    `toml:"finders_fee_bps" mapstructure:"finders_fee_bps"`
	// Decimals of the native currency, used for display only
	Decimals int32 `toml:"decimals" mapstructure:"decimals"`
}

// RegistrarID parses the registrar address.
func (m *MarketConfig) RegistrarID() (types.AccountID, error) {
	id, err := types.ParseAccountID(m.Registrar)
	if err != nil {
		return types.ZeroAccount, fmt.Errorf("market.registrar: %w", err)
	}
	return id, nil
}

// ModuleID parses the module address.
func (m *MarketConfig) ModuleID() (types.AccountID, error) {
	id, err := types.ParseAccountID(m.Module)
	if err != nil {
		return types.ZeroAccount, fmt.Errorf("market.module: %w", err)
	}
	return id, nil
}

// Validate performs validation on the market configuration
func (m *MarketConfig) Validate() error {
	registrar, err := m.RegistrarID()
	if err != nil {
		return err
	}
	module, err := m.ModuleID()
	if err != nil {
		return err
	}
	if registrar.IsZero() || module.IsZero() {
		return fmt.Errorf("market.registrar and market.module must be non-zero")
	}
	if registrar == module {
		return fmt.Errorf("market.registrar and market.module must differ")
	}
	if m.FindersFeeBps < 0 || m.FindersFeeBps > types.MaxBps {
		return fmt.Errorf("finders_fee_bps must be between 0 and %d, got %d", types.MaxBps, m.FindersFeeBps)
	}
	if m.Decimals < 0 || m.Decimals > 36 {
		return fmt.Errorf("decimals must be between 0 and 36, got %d", m.Decimals)
	}
	return nil
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
	// File receives JSON logs, rotated by size. Empty disables file output.
	File       string `toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
	Color      bool   `toml:"color" mapstructure:"color"`
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	if !contains_slice([]string{"debug", "info", "warn", "error"}, l.Level) {
		return fmt.Errorf("invalid log level: %s (valid options: debug, info, warn, error)", l.Level)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings must be non-negative")
	}
	return nil
}
