package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rn-academy/progress-hub/config"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/badger"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/memory"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/redis"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/sqlite"
	"github.com/rn-academy/progress-hub/pkg/logger"
	"github.com/rn-academy/progress-hub/pkg/retry"
)

// backend is what every store implementation provides.
type backend interface {
	shared.Store
	shared.Pinger
	io.Closer
	Keys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, keys ...string) error
}

var (
	_ backend = (*memory.Store)(nil)
	_ backend = (*badger.Store)(nil)
	_ backend = (*redis.Store)(nil)
	_ backend = (*postgres.Store)(nil)
	_ backend = (*sqlite.Store)(nil)
)

// openStore opens the configured backend.
func openStore(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (backend, error) {
	log = log.With(logger.Component("store"), logger.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory store, progress is lost on exit")
		return memory.NewStore(), nil

	case config.BackendBadger:
		bc := badger.DefaultConfig(cfg.Badger.Path)
		bc.InMemory = cfg.Badger.InMemory
		bc.SyncWrites = cfg.Badger.SyncWrites
		bc.GCInterval = cfg.Badger.GCInterval
		bc.GCDiscardRatio = cfg.Badger.GCDiscardRatio
		return badger.Open(bc, log)

	case config.BackendRedis:
		rc := redis.DefaultConfig()
		rc.Host = cfg.Redis.Host
		rc.Port = cfg.Redis.Port
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB
		rc.PoolSize = cfg.Redis.PoolSize
		rc.MinIdleConns = cfg.Redis.MinIdleConns
		rc.DialTimeout = cfg.Redis.DialTimeout
		rc.ReadTimeout = cfg.Redis.ReadTimeout
		rc.WriteTimeout = cfg.Redis.WriteTimeout
		log.Info("connecting to redis", logger.String("addr", rc.Addr()))
		return connect(ctx, cfg, log, func(context.Context) (*redis.Store, error) {
			return redis.NewStore(rc)
		})

	case config.BackendPostgres:
		pc := postgres.Config{
			URL:             cfg.Postgres.URL,
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			Database:        cfg.Postgres.Database,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxConns:        int32(cfg.Postgres.MaxConns),
			MinConns:        int32(cfg.Postgres.MinConns),
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
			ConnectTimeout:  cfg.Postgres.ConnectTimeout,
		}
		log.Info("connecting to postgres", logger.String("database", pc.Database))
		return connect(ctx, cfg, log, func(ctx context.Context) (*postgres.Store, error) {
			return postgres.Open(ctx, pc)
		})

	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLite.Path)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// connect retries open while the server is unreachable.
func connect[S backend](ctx context.Context, cfg config.StorageConfig, log *logger.Logger, open func(context.Context) (S, error)) (backend, error) {
	st, err := retry.DoWithData(ctx, open,
		retry.WithMaxAttempts(cfg.ConnectAttempts),
		retry.WithInitialDelay(cfg.ConnectBackoff),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("store connection failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}
