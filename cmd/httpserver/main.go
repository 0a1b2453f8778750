package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	meterusagev1 "github.com/milad/meterreads/internal/api/meterusage/v1"
	"github.com/milad/meterreads/internal/config"
	"github.com/milad/meterreads/internal/logger"
	httpserver "github.com/milad/meterreads/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "httpserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to YAML config (default config/<ENV>.yaml)")
		addr       = flag.String("addr", "", "listen address, overrides http.addr")
		grpcAddr   = flag.String("grpc", "", "gRPC target host:port, overrides http.grpc_target")
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
		cfg.HTTP.Addr = *addr
	}
	if *grpcAddr != "" {
		cfg.HTTP.GRPCTarget = *grpcAddr
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(cfg.HTTP.GRPCTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial gRPC %q: %w", cfg.HTTP.GRPCTarget, err)
	}
	defer conn.Close()

	// docker-compose starts both services together.
	waitForGRPC(ctx, log, conn, cfg.HTTP.GRPCWait())

	srv := httpserver.New(meterusagev1.NewMeterUsageServiceClient(conn),
		httpserver.WithLogger(log),
		httpserver.WithUpstreamTimeout(cfg.HTTP.UpstreamTimeout()),
	)

	h := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %q: %w", cfg.HTTP.Addr, err)
	}
	log.Info("HTTP listening", zap.String("addr", cfg.HTTP.Addr), zap.String("grpc_target", cfg.HTTP.GRPCTarget))

	go func() {
		<-ctx.Done()
		log.Info("shutting down HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		_ = h.Shutdown(shutdownCtx)
	}()

	if err := h.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func waitForGRPC(ctx context.Context, log *zap.Logger, conn *grpc.ClientConn, maxWait time.Duration) {
	if maxWait <= 0 {
		return
	}

	hc := healthpb.NewHealthClient(conn)
	deadline := time.Now().Add(maxWait)

	backoff := 100 * time.Millisecond
	for {
		if ctx.Err() != nil {
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, time.Second)
		_, err := hc.Check(reqCtx, &healthpb.HealthCheckRequest{Service: meterusagev1.ServiceName})
		cancel()
		if err == nil {
			log.Info("gRPC is ready")
			return
		}

		if time.Now().After(deadline) {
			log.Warn("gRPC not ready, continuing anyway", zap.Duration("waited", maxWait), zap.Error(err))
			return
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, time.Second)
	}
}
