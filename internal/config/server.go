package config

import (
	"fmt"
	"net"
)

// ServerConfig represents the [server] section: the listeners the daemon opens.
type ServerConfig struct {
	RPC  string `toml:"rpc" mapstructure:"rpc"`   // JSON-RPC over HTTP, also serves /ws
	GRPC string `toml:"grpc" mapstructure:"grpc"` // empty disables gRPC
	// Admin lists client IPs allowed to call admin methods such as sign
	Admin []string `toml:"admin" mapstructure:"admin"`
	// SendQueueLimit bounds buffered messages per websocket client
	SendQueueLimit int `toml:"send_queue_limit" mapstructure:"send_queue_limit"`
}

// IsAdmin reports whether ip may call admin methods.
func (s *ServerConfig) IsAdmin(ip string) bool {
	return contains_slice(s.Admin, ip)
}

// validateServerConfig validates the server configuration
func validateServerConfig(server *ServerConfig) error {
	if server.RPC == "" {
		return fmt.Errorf("server.rpc is required")
	}
	if err := validateListenAddr(server.RPC); err != nil {
		return fmt.Errorf("server.rpc: %w", err)
	}
	if server.GRPC != "" {
		if err := validateListenAddr(server.GRPC); err != nil {
			return fmt.Errorf("server.grpc: %w", err)
		}
		if server.GRPC == server.RPC {
			return fmt.Errorf("port conflict: rpc and grpc both use %s", server.RPC)
		}
	}
	for i, ip := range server.Admin {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("invalid admin IP at index %d: %s", i, ip)
		}
	}
	if server.SendQueueLimit < 1 {
		return fmt.Errorf("send_queue_limit must be positive, got %d", server.SendQueueLimit)
	}
	return nil
}

func validateListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if port == "" {
		return fmt.Errorf("missing port in %q", addr)
	}
	return nil
}
