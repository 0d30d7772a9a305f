package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Server represents the gRPC server for the collection offer book.
type Server struct {
	mu sync.RWMutex

	// grpcServer is the underlying gRPC server
	grpcServer *grpc.Server

	// engine applies submitted transactions and exposes committed state
	engine *tx.Engine

	// config holds the server configuration
	config *ServerConfig

	// listener is the network listener
	listener net.Listener

	// running indicates if the server is currently running
	running bool

	log *zap.Logger
}

// NewServer creates a new gRPC server with the given configuration.
func NewServer(cfg *ServerConfig, engine *tx.Engine) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	server := &Server{
		engine: engine,
		config: cfg,
		log:    zap.L().Named("grpc"),
	}
	server.grpcServer = grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.UnaryInterceptor(UnaryServerInterceptor(server.log)),
	)
	server.grpcServer.RegisterService(&ServiceDesc, server)
	return server, nil
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.listener = lis
	s.running = true
	s.mu.Unlock()

	s.log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.Stop()
		return <-errCh
	}
}

// Stop gracefully stops the gRPC server.
// It stops accepting new connections and waits for existing connections to
// complete. A Serve started afterwards returns immediately.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// UnaryServerInterceptor logs every call with its status code and duration.
func UnaryServerInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("took", time.Since(start)))
		return resp, err
	}
}
