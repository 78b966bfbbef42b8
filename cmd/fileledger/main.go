package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fileledger/fileledger/internal/logger"
	"github.com/fileledger/fileledger/pkg/config"
	"github.com/fileledger/fileledger/pkg/metrics"
	"github.com/fileledger/fileledger/pkg/registry"
	"github.com/fileledger/fileledger/pkg/snapshot"
)

const usage = `fileledger - file metadata registry tooling

Usage:
  fileledger check    [-config path]   Verify configuration and store health
  fileledger snapshot [-config path]   Export registry state to the snapshot sink
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := flags.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	case "check":
		err = runCheck(ctx, *configPath)
	case "snapshot":
		err = runSnapshot(ctx, *configPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// setup loads configuration, configures logging and metrics, and materializes
// the registry store.
func setup(ctx context.Context, configPath string) (*config.Config, registry.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)

	var storeMetrics metrics.StoreMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		storeMetrics = metrics.NewStoreMetrics(cfg.Registry.Type)
	}

	store, err := config.CreateStore(ctx, &cfg.Registry, storeMetrics)
	if err != nil {
		return nil, nil, err
	}

	return cfg, store, nil
}

// runCheck verifies the configuration loads and the configured store is
// healthy.
func runCheck(ctx context.Context, configPath string) error {
	_, store, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Healthcheck(ctx); err != nil {
		return err
	}

	logger.Info("configuration and store are healthy")
	return nil
}

// runSnapshot exports the registry state to the configured snapshot sink.
func runSnapshot(ctx context.Context, configPath string) error {
	cfg, store, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sink, err := config.CreateSnapshotSink(ctx, &cfg.Snapshot)
	if err != nil {
		return err
	}

	key, err := snapshot.NewWriter(store, sink).Write(ctx)
	if err != nil {
		return err
	}

	fmt.Println(key)
	return nil
}
