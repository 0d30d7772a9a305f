package config

import "github.com/spf13/viper"

// Well-known development identities. A production config sets its own.
const (
	DefaultRegistrar = "0x00000000000000000000000000000000000000f0"
	DefaultModule    = "0x00000000000000000000000000000000000000f1"
)

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// 1. Listeners
	v.SetDefault("server.rpc", "127.0.0.1:5005")
	v.SetDefault("server.grpc", "127.0.0.1:50051")
	v.SetDefault("server.admin", []string{"127.0.0.1"})
	v.SetDefault("server.send_queue_limit", 100)

	// 2. State database
	v.SetDefault("node_db.type", "pebble")
	v.SetDefault("node_db.path", "data/state")
	v.SetDefault("node_db.cache_size", 16384)

	// 3. Events
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "data/history.db")
	v.SetDefault("events.buffer", 1024)
	v.SetDefault("events.kafka.topic", "marketd.events")

	// 4. Market
	v.SetDefault("market.registrar", DefaultRegistrar)
	v.SetDefault("market.module", DefaultModule)
	v.SetDefault("market.finders_fee_bps", 100)
	v.SetDefault("market.decimals", 18)

	// 5. Logging
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.color", true)
}
