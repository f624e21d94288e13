package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/pg"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/sqlite"
	"github.com/DjordjeVuckovic/daily-news/pkg/server"
)

// NewStore opens the article store selected by cfg.Type.
func NewStore(ctx context.Context, cfg StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.SQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store: %w", err)
		}
		slog.Info("Using SQLite article store", "path", cfg.SQLitePath)
		return store, nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("invalid config for PostgreSQL storage: missing pool config")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		slog.Info("Using PostgreSQL article store")
		return pg.NewStore(pool), nil

	case storage.InMem:
		slog.Info("Using in-memory article store")
		return in_mem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStore), cfg.Type)
	}
}

// NewHealthChecker reports store connectivity when the backend supports it.
func NewHealthChecker(store storage.Store) server.HealthChecker {
	if p, ok := store.(server.Pinger); ok {
		return server.NewPingHealthChecker("article_store", p)
	}
	return server.NewOkHealthChecker()
}
