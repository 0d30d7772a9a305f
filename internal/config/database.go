package config

import (
	"fmt"
	"strings"
)

// NodeDBConfig represents the [node_db] section
// Configures the persistent store for marketplace state
type NodeDBConfig struct {
	Type      string `toml:"type" mapstructure:"type"`
	Path      string `toml:"path" mapstructure:"path"`
	CacheSize int    `toml:"cache_size" mapstructure:"cache_size"`
}

// Validate performs validation on the NodeDB configuration
func (n *NodeDBConfig) Validate() error {
	validTypes := []string{"pebble", "leveldb", "memory"}
	if !contains_slice(validTypes, strings.ToLower(n.Type)) {
		return fmt.Errorf("invalid node_db type: %s (valid options: pebble, leveldb, memory)", n.Type)
	}
	if n.Path == "" && !strings.EqualFold(n.Type, "memory") {
		return fmt.Errorf("node_db path is required")
	}
	if n.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", n.CacheSize)
	}
	return nil
}

// HistoryConfig represents the [history] section
// An empty driver disables the event history store.
type HistoryConfig struct {
	Driver string `toml:"driver" mapstructure:"driver"`
	DSN    string `toml:"dsn" mapstructure:"dsn"`
}

// Enabled reports whether a history store is configured.
func (h *HistoryConfig) Enabled() bool {
	return h.Driver != ""
}

// Validate performs validation on the history configuration
func (h *HistoryConfig) Validate() error {
	if !h.Enabled() {
		return nil
	}
	if !contains_slice([]string{"sqlite", "postgres"}, h.Driver) {
		return fmt.Errorf("invalid history driver: %s (valid options: sqlite, postgres)", h.Driver)
	}
	if h.DSN == "" {
		return fmt.Errorf("history dsn is required")
	}
	return nil
}

// EventsConfig represents the [events] section
type EventsConfig struct {
	// Buffer is the number of committed transactions queued for sinks
	Buffer int         `toml:"buffer" mapstructure:"buffer"`
	Kafka  KafkaConfig `toml:"kafka" mapstructure:"kafka"`
}

// KafkaConfig represents the [events.kafka] section
// No brokers disables the Kafka sink.
type KafkaConfig struct {
	Brokers []string `toml:"brokers" mapstructure:"brokers"`
	Topic   string   `toml:"topic" mapstructure:"topic"`
}

// Enabled reports whether the Kafka sink is configured.
func (k *KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Validate performs validation on the events configuration
func (e *EventsConfig) Validate() error {
	if e.Buffer < 1 {
		return fmt.Errorf("events buffer must be positive, got %d", e.Buffer)
	}
	if e.Kafka.Enabled() && e.Kafka.Topic == "" {
		return fmt.Errorf("events.kafka.topic is required when brokers are set")
	}
	return nil
}

func contains_slice(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
