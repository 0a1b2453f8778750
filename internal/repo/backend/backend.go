// Package backend opens the reading store selected in configuration.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/milad/meterreads/internal/config"
	"github.com/milad/meterreads/internal/repo"
	"github.com/milad/meterreads/internal/repo/csvrepo"
	"github.com/milad/meterreads/internal/repo/mysqlrepo"
	"github.com/milad/meterreads/internal/repo/redisrepo"
)

// Store is an open reading repository and the function that releases it.
type Store struct {
	repo.ReadingRepository
	Close func() error
}

// Open connects to the configured driver. For the memory driver a non-empty
// seed file is loaded; rows that fail to parse are logged and skipped.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case "memory":
		return openMemory(cfg.SeedCSV, log)
	case "mysql":
		db, _, err := mysqlrepo.Open(cfg.MySQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		r := mysqlrepo.New(db)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("ping mysql: %w", err)
		}
		if err := r.EnsureSchema(ctx); err != nil {
			_ = r.Close()
			return nil, err
		}
		log.Info("using mysql reading store")
		return &Store{ReadingRepository: r, Close: r.Close}, nil
	case "redis":
		client, err := redisrepo.NewClient(redisrepo.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		r := redisrepo.New(client, cfg.Redis.KeyPrefix)
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		log.Info("using redis reading store", zap.Strings("addrs", cfg.Redis.Addrs))
		return &Store{ReadingRepository: r, Close: func() error { r.Close(); return nil }}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func openMemory(seed string, log *zap.Logger) (*Store, error) {
	noop := func() error { return nil }
	if seed == "" {
		log.Info("using empty in-memory reading store")
		return &Store{ReadingRepository: csvrepo.New(nil), Close: noop}, nil
	}

	r, err := csvrepo.NewFromFile(seed)
	if r == nil {
		return nil, err
	}
	if err != nil {
		log.Warn("seed file has bad rows", zap.String("path", seed), zap.Error(err))
	}
	log.Info("using in-memory reading store", zap.String("seed", seed), zap.Int("readings", r.Len()))
	return &Store{ReadingRepository: r, Close: noop}, nil
}
