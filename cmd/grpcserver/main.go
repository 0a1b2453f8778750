package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	meterusagev1 "github.com/milad/meterreads/internal/api/meterusage/v1"
	"github.com/milad/meterreads/internal/config"
	"github.com/milad/meterreads/internal/ingest"
	"github.com/milad/meterreads/internal/logger"
	"github.com/milad/meterreads/internal/repo/backend"
	"github.com/milad/meterreads/internal/service"
	grpcserver "github.com/milad/meterreads/internal/transport/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "grpcserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to YAML config (default config/<ENV>.yaml)")
		addr       = flag.String("addr", "", "listen address, overrides grpc.addr")
		csvPath    = flag.String("csv", "", "seed CSV for the memory store, overrides storage.seed_csv")
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
	if *addr != "" {
		cfg.GRPC.Addr = *addr
	}
	if *csvPath != "" {
		cfg.Storage.SeedCSV = *csvPath
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	svc := service.NewMeterUsageService(store)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %q: %w", cfg.GRPC.Addr, err)
	}

	g := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogging(log)))
	meterusagev1.RegisterMeterUsageServiceServer(g, grpcserver.New(svc))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(meterusagev1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(g, hs)

	if cfg.Kafka.Enabled {
		consumer, err := ingest.NewConsumer(cfg.Kafka, svc, log)
		if err != nil {
			return err
		}
		defer func() { _ = consumer.Close() }()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Error("kafka ingest stopped", zap.Error(err))
			}
		}()
		log.Info("kafka ingest started", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down gRPC")
		hs.Shutdown()
		ch := make(chan struct{})
		go func() {
			g.GracefulStop()
			close(ch)
		}()
		select {
		case <-ch:
		case <-time.After(time.Duration(cfg.GRPC.ShutdownSec) * time.Second):
			g.Stop()
		}
	}()

	log.Info("gRPC listening", zap.String("addr", cfg.GRPC.Addr), zap.String("storage", cfg.Storage.Driver))
	if err := g.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
