// Command meterimport loads a readings CSV into the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/milad/meterreads/internal/config"
	"github.com/milad/meterreads/internal/logger"
	"github.com/milad/meterreads/internal/repo/backend"
	"github.com/milad/meterreads/internal/repo/csvrepo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "meterimport: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to YAML config (default config/<ENV>.yaml)")
		csvPath    = flag.String("csv", "data/meter_reads.csv", "CSV file with cumulative,readingDate[,unit]")
		batchSize  = flag.Int("batch", 500, "readings per insert")
		strict     = flag.Bool("strict", false, "abort when any row fails to parse")
	)
	flag.Parse()

	env := config.GetEnv()
	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(env, *configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == "memory" {
		return fmt.Errorf("storage.driver is memory; nothing would persist")
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	readings, parseErr := csvrepo.ParseReadingsCSV(f)
	_ = f.Close()
	if parseErr != nil {
		if *strict || len(readings) == 0 {
			return fmt.Errorf("parse %s: %w", *csvPath, parseErr)
		}
		log.Warn("skipping bad rows", zap.Error(parseErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := importReadings(ctx, store, readings, *batchSize, os.Stderr)
	if err != nil {
		return err
	}
	log.Info("import finished", zap.Int("readings", n), zap.String("driver", cfg.Storage.Driver))
	return nil
}
