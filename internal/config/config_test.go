package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
rpc = "0.0.0.0:6005"
grpc = ""

[node_db]
type = "leveldb"
path = "/tmp/test/state"

[history]
driver = "postgres"
dsn = "postgres://market@localhost/market?sslmode=disable"

[events.kafka]
brokers = ["localhost:9092"]
topic = "offers"

[market]
registrar = "0x00000000000000000000000000000000000000aa"
module = "0x00000000000000000000000000000000000000bb"
finders_fee_bps = 250
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.GetConfigPath())
	assert.Equal(t, "0.0.0.0:6005", config.Server.RPC)
	assert.Empty(t, config.Server.GRPC)
	assert.Equal(t, "leveldb", config.NodeDB.Type)
	assert.Equal(t, "/tmp/test/state", config.NodeDB.Path)
	assert.Equal(t, 16384, config.NodeDB.CacheSize)
	assert.Equal(t, "postgres", config.History.Driver)
	assert.True(t, config.Events.Kafka.Enabled())
	assert.Equal(t, "offers", config.Events.Kafka.Topic)
	assert.Equal(t, 250, config.Market.FindersFeeBps)
	assert.Equal(t, int32(18), config.Market.Decimals)

	registrar, err := config.Market.RegistrarID()
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", registrar.String())
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Empty(t, config.GetConfigPath())
	assert.Equal(t, "127.0.0.1:5005", config.Server.RPC)
	assert.Equal(t, "pebble", config.NodeDB.Type)
	assert.Equal(t, "sqlite", config.History.Driver)
	assert.False(t, config.Events.Kafka.Enabled())
	assert.Equal(t, 100, config.Market.FindersFeeBps)
	assert.Equal(t, "info", config.Log.Level)
	assert.True(t, config.Server.IsAdmin("127.0.0.1"))
	assert.False(t, config.Server.IsAdmin("10.0.0.1"))
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MARKETD_MARKET_FINDERS_FEE_BPS", "42")
	t.Setenv("MARKETD_NODE_DB_TYPE", "memory")

	config, err := LoadConfig(writeConfig(t, "[market]\nfinders_fee_bps = 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 42, config.Market.FindersFeeBps)
	assert.Equal(t, "memory", config.NodeDB.Type)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad node_db type", func(c *Config) { c.NodeDB.Type = "NuDB" }, "node_db"},
		{"missing node_db path", func(c *Config) { c.NodeDB.Path = "" }, "path is required"},
		{"memory needs no path", func(c *Config) { c.NodeDB.Type, c.NodeDB.Path = "memory", "" }, ""},
		{"bps too large", func(c *Config) { c.Market.FindersFeeBps = 10001 }, "finders_fee_bps"},
		{"bad registrar", func(c *Config) { c.Market.Registrar = "nope" }, "market.registrar"},
		{"registrar is module", func(c *Config) { c.Market.Registrar = c.Market.Module }, "must differ"},
		{"unknown history driver", func(c *Config) { c.History.Driver = "mysql" }, "history driver"},
		{"kafka without topic", func(c *Config) {
			c.Events.Kafka.Brokers = []string{"k:9092"}
			c.Events.Kafka.Topic = ""
		}, "topic"},
		{"rpc and grpc clash", func(c *Config) { c.Server.GRPC = c.Server.RPC }, "port conflict"},
		{"bad admin ip", func(c *Config) { c.Server.Admin = []string{"localhost"} }, "admin IP"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig("")
			require.NoError(t, err)
			tt.mutate(config)

			err = ValidateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
