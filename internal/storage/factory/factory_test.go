package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/sqlite"
	pkgserver "github.com/DjordjeVuckovic/daily-news/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Run("defaults to sqlite under the cache dir", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "")
		t.Setenv("SQLITE_PATH", "")

		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, storage.SQLite, cfg.Type)
		assert.Equal(t, DefaultSQLitePath(), cfg.SQLitePath)
		assert.Equal(t, "articles.db", filepath.Base(cfg.SQLitePath))
	})

	t.Run("explicit sqlite path", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "sqlite")
		t.Setenv("SQLITE_PATH", "/tmp/news.db")

		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/news.db", cfg.SQLitePath)
	})

	t.Run("pg requires a connection string", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "pg")
		t.Setenv("PG_CONNECTION_STRING", "")

		_, err := LoadEnv()
		require.Error(t, err)

		t.Setenv("PG_CONNECTION_STRING", "postgres://u:p@localhost:5432/news")
		cfg, err := LoadEnv()
		require.NoError(t, err)
		require.NotNil(t, cfg.Pg)
		assert.Equal(t, "postgres://u:p@localhost:5432/news", cfg.Pg.ConnStr)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "es")

		_, err := LoadEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "es")
	})
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("in memory", func(t *testing.T) {
		store, err := NewStore(ctx, StorageConfig{Type: storage.InMem})
		require.NoError(t, err)
		assert.IsType(t, &in_mem.Store{}, store)
		assert.IsType(t, &pkgserver.OkHealthChecker{}, NewHealthChecker(store))
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := NewStore(ctx, StorageConfig{
			Type:       storage.SQLite,
			SQLitePath: filepath.Join(t.TempDir(), "nested", "articles.db"),
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		assert.IsType(t, &sqlite.Store{}, store)
		assert.True(t, NewHealthChecker(store).Healthy(ctx))
	})

	t.Run("pg without pool config", func(t *testing.T) {
		_, err := NewStore(ctx, StorageConfig{Type: storage.PG})
		require.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewStore(ctx, StorageConfig{Type: "es"})
		require.Error(t, err)
		assert.Equal(t, "unsupported store type: es", err.Error())
	})
}
