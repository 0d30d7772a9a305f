// Package grpc serves the collection offer book over gRPC. Messages are
// google.protobuf.Struct values so clients need no generated stubs.
package grpc

import (
	"fmt"
	"net"
)

// ServerConfig holds configuration for the gRPC server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., "127.0.0.1:50051")
	Address string

	// MaxRecvMsgSize is the maximum message size in bytes the server can receive.
	// Default is 4MB if not set.
	MaxRecvMsgSize int

	// MaxSendMsgSize is the maximum message size in bytes the server can send.
	// Default is 4MB if not set.
	MaxSendMsgSize int

	// Decimals of the native currency, for display amounts
	Decimals int32
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:        "127.0.0.1:50051",
		MaxRecvMsgSize: 4 * 1024 * 1024, // 4MB
		MaxSendMsgSize: 4 * 1024 * 1024, // 4MB
		Decimals:       18,
	}
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}

	host, port, err := net.SplitHostPort(c.Address)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	if c.MaxRecvMsgSize <= 0 {
		return fmt.Errorf("max_recv_msg_size must be positive")
	}
	if c.MaxSendMsgSize <= 0 {
		return fmt.Errorf("max_send_msg_size must be positive")
	}
	if c.Decimals < 0 {
		return fmt.Errorf("decimals must not be negative")
	}
	return nil
}
