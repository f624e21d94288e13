package factory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/pg"
	"github.com/adrg/xdg"
)

const appDir = "daily-news"

type StorageConfig struct {
	storage.Type
	SQLitePath string
	Pg         *pg.PoolConfig
}

// DefaultSQLitePath is the article cache under the user's XDG cache directory.
func DefaultSQLitePath() string {
	return filepath.Join(xdg.CacheHome, appDir, "articles.db")
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		storageType = storage.SQLite
	}
	if !isSupported(storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.SQLite:
		cfg.SQLitePath = os.Getenv("SQLITE_PATH")
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = DefaultSQLitePath()
		}
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	return cfg, nil
}

func isSupported(t storage.Type) bool {
	for _, st := range storage.Types {
		if st == t {
			return true
		}
	}
	return false
}
