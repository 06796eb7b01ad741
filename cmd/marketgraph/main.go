package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"marketGraph/internal/chain"
	"marketGraph/internal/config"
	"marketGraph/internal/discovery"
	"marketGraph/internal/graph"
	"marketGraph/internal/market"
	"marketGraph/internal/storage"
	"marketGraph/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "marketgraph",
		Short:        "Constant-product market graph builder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover pools and build the market graph once",
		RunE:  runDiscover,
	}
	addCommonFlags(discoverCmd)
	root.AddCommand(discoverCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Build the market graph and keep reserves fresh",
		RunE:  runWatch,
	}
	addCommonFlags(watchCmd)
	watchCmd.Flags().Duration("sync-interval", 12*time.Second, "reserve refresh interval")
	watchCmd.Flags().Int("max-retries", 3, "maximum sync retry attempts")
	watchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial sync retry backoff")
	root.AddCommand(watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "ledger RPC URL")
	cmd.Flags().String("batch-query", "", "batch query contract address")
	cmd.Flags().StringSlice("factory", nil, "factory addresses (comma-separated)")
	cmd.Flags().String("pivot", "", "pivot asset address")
	cmd.Flags().StringSlice("denylist", nil, "denylisted token addresses (comma-separated)")
	cmd.Flags().Uint64("batch-size", 1000, "registry entries per page")
	cmd.Flags().Int("max-batches", 100, "maximum pages per factory")
	cmd.Flags().String("liquidity-floor", "2000000000000000000", "minimum pivot-side reserve in wei")
	cmd.Flags().String("protocol", "uniswap-v2", "protocol tag for discovered markets")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for pair records (JSONL file when empty)")
	cmd.Flags().String("pairs-file", "./data/pairs.jsonl", "JSONL pair records path")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	client   *chain.Client
	cleanups []func()
}

func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	_, err = a.buildGraph(ctx)
	return err
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.cleanups = append(a.cleanups, func() { _ = logger.Sync() })

	if cfg.RPCURL == "" {
		a.close()
		return nil, fmt.Errorf("rpc url is required")
	}

	batchQuery, err := config.ParseAddress(cfg.BatchQuery)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("parse batch-query: %w", err)
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL, batchQuery)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	a.client = client
	a.cleanups = append(a.cleanups, client.Close)

	return a, nil
}

// buildGraph runs the full bootstrap: discovery, grouping, reserve
// sync, and the liquidity filter.
func (a *app) buildGraph(ctx context.Context) (graph.MarketGraph, error) {
	pivot, err := config.ParseAddress(a.cfg.Pivot)
	if err != nil {
		return nil, fmt.Errorf("parse pivot: %w", err)
	}
	factories, err := config.ParseAddresses(a.cfg.Factories)
	if err != nil {
		return nil, fmt.Errorf("parse factories: %w", err)
	}
	if len(factories) == 0 {
		return nil, fmt.Errorf("factory list is required")
	}
	denylist, err := config.ParseAddresses(a.cfg.Denylist)
	if err != nil {
		return nil, fmt.Errorf("parse denylist: %w", err)
	}
	floor, err := config.ParseWei(a.cfg.LiquidityFloor)
	if err != nil {
		return nil, fmt.Errorf("parse liquidity-floor: %w", err)
	}

	store, err := a.newPairStore(ctx)
	if err != nil {
		return nil, err
	}

	engine := discovery.NewEngine(discovery.Config{
		Pivot:          pivot,
		BatchSize:      a.cfg.BatchSize,
		MaxBatches:     a.cfg.MaxBatches,
		LiquidityFloor: floor,
		Denylist:       denylist,
		Protocol:       a.cfg.Protocol,
	}, a.client, a.client, store, market.PairSwapEncoder{}, a.logger)

	a.logger.Info("bootstrap start",
		zap.String("pivot", pivot.Hex()),
		zap.Int("factories", len(factories)),
		zap.Uint64("batch_size", a.cfg.BatchSize),
		zap.Int("max_batches", a.cfg.MaxBatches),
		zap.String("liquidity_floor", floor.String()),
		zap.Int("denylist", len(denylist)),
	)

	return engine.DiscoverAllMarkets(ctx, factories)
}

func (a *app) newPairStore(ctx context.Context) (storage.PairStore, error) {
	if a.cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, a.cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.cleanups = append(a.cleanups, store.Close)
		return store, nil
	}
	store, err := storage.NewJsonlStore(a.cfg.PairsFile)
	if err != nil {
		return nil, fmt.Errorf("open pairs file: %w", err)
	}
	return store, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
