package config

import "fmt"

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.NodeDB.Validate(); err != nil {
		return fmt.Errorf("node_db validation failed: %w", err)
	}
	if err := config.History.Validate(); err != nil {
		return fmt.Errorf("history validation failed: %w", err)
	}
	if err := config.Events.Validate(); err != nil {
		return fmt.Errorf("events validation failed: %w", err)
	}
	if err := config.Market.Validate(); err != nil {
		return fmt.Errorf("market validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	return nil
}
