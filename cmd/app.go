package cmd

import (
	"context"
	"fmt"

	"pns-snapshot/core/config"
	"pns-snapshot/core/database"
	"pns-snapshot/core/graph"
	"pns-snapshot/core/ledger"
	"pns-snapshot/core/logger"
	"pns-snapshot/core/metrics"
	"pns-snapshot/core/snapshot"
	"pns-snapshot/core/storage"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// app bundles the shared dependencies of every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    snapshot.Store
	ledger   *ledger.Ledger
}

// bootstrap loads configuration and opens the artifact store and run ledger.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	store, err := openStore(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	return &app{
		cfg:      cfg,
		logger:   l,
		registry: reg,
		metrics:  metrics.New(reg),
		store:    store,
		ledger:   openLedger(cfg.Database, l),
	}, nil
}

// openStore returns the artifact store selected by snapshot.backend.
func openStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (snapshot.Store, error) {
	if cfg.Snapshot.Backend == snapshot.BackendFile {
		l.Debug("Using file artifact store", zap.String("dir", cfg.Snapshot.Dir))
		return snapshot.NewFileStore(cfg.Snapshot.Dir), nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	store := snapshot.NewObjectStore(client, cfg.Storage.Bucket, cfg.Storage.Prefix)
	if err := store.EnsureBucket(ctx, cfg.Storage.Region); err != nil {
		return nil, err
	}
	l.Debug("Using object artifact store", zap.String("bucket", cfg.Storage.Bucket), zap.String("prefix", cfg.Storage.Prefix))
	return store, nil
}

// openLedger connects the run ledger. The ledger is optional: a connection
// failure is logged and harvests continue without it.
func openLedger(cfg database.Config, l *zap.Logger) *ledger.Ledger {
	if !cfg.Enabled {
		return nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		l.Warn("Run ledger unavailable", zap.Error(err))
		return nil
	}
	lg, err := ledger.New(db, cfg.AutoMigrate, l)
	if err != nil {
		l.Warn("Run ledger unavailable", zap.Error(err))
		return nil
	}
	return lg
}

// querier returns the subgraph client, optionally pointed at another endpoint.
func (a *app) querier(endpoint string) graph.Querier {
	cfg := a.cfg.Graph
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	return graph.NewClient(cfg, a.logger, graph.WithMetrics(a.metrics))
}
