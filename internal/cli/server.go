package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/grpc"
	"github.com/LeJamon/goMarketd/internal/log"
	"github.com/LeJamon/goMarketd/internal/rpc"
	"github.com/LeJamon/goMarketd/internal/storage/history"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketd node",
	Long: `Start the node, which provides:
- HTTP JSON-RPC on the [server] rpc address
- WebSocket subscriptions on /ws of the same address
- gRPC on the [server] grpc address, when set

This is the default command when no subcommand is specified.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = runServer
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flush, err := log.Setup(cfg.Log, debug)
	if err != nil {
		return err
	}
	defer flush()
	logger := zap.L().Named("server")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := openNode(cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := collectionoffers.Bootstrap(n.ledger, uint16(cfg.Market.FindersFeeBps)); err != nil {
		return err
	}

	services := &rpc.ServiceContainer{
		Engine:   n.engine,
		Decimals: cfg.Market.Decimals,
		Version:  Version,
		Started:  time.Now(),
	}

	var sinks []events.Sink
	if cfg.History.Enabled() {
		store, err := history.Open(ctx, cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			return err
		}
		defer store.Close()
		services.History = store
		sinks = append(sinks, events.HistorySink{Store: store})
	}

	rpcServer := rpc.NewServer(services, rpc.DefaultTimeout, cfg.Server.IsAdmin)
	hub := rpc.NewHub(rpcServer, cfg.Server.SendQueueLimit)
	sinks = append(sinks, hub)

	if len(cfg.Events.Kafka.Brokers) > 0 {
		kafka := events.NewKafkaSink(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic)
		defer kafka.Close()
		sinks = append(sinks, kafka)
	}

	publisher := events.NewPublisher(cfg.Events.Buffer, sinks...)
	n.engine.SetEventSink(publisher)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return publisher.Run(gctx) })
	g.Go(func() error { return rpcServer.ListenAndServe(gctx, cfg.Server.RPC, hub) })
	if cfg.Server.GRPC != "" {
		grpcServer, err := grpc.NewServer(grpcConfig(cfg), n.engine)
		if err != nil {
			return err
		}
		g.Go(func() error { return grpcServer.Run(gctx) })
	}

	logger.Info("marketd started",
		zap.String("version", Version),
		zap.String("rpc", cfg.Server.RPC),
		zap.String("grpc", cfg.Server.GRPC),
		zap.String("node_db", cfg.NodeDB.Type),
		zap.Bool("history", cfg.History.Enabled()),
		zap.Int("sinks", len(sinks)))

	err = g.Wait()
	logger.Info("marketd stopped", zap.Error(err))
	return err
}

func grpcConfig(cfg *config.Config) *grpc.ServerConfig {
	c := grpc.DefaultServerConfig()
	c.Address = cfg.Server.GRPC
	c.Decimals = cfg.Market.Decimals
	return c
}
