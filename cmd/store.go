package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/resilience"
	"github.com/sells-group/taco-index/internal/store"
)

// initStore opens the configured store, retrying transient connection errors.
func initStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	retry := resilience.FromAttempts(cfg.Store.ConnectAttempts, cfg.Store.ConnectBackoff)
	retry.OnRetry = resilience.RetryLogger("store connect")

	err := resilience.Do(ctx, retry, func(ctx context.Context) error {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		st = s
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	zap.L().Info("store opened", zap.String("driver", cfg.Store.Driver))
	return st, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "taco.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
