package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "articles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	storetest.RunContract(t, func(t *testing.T) storage.Store {
		return openTemp(t)
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "articles.db")

	s, err := Open(path)
	require.NoError(t, err)
	saved := storetest.Article("https://a", "A", "2024-01-01T00:00:00Z", "general")
	saved.IsSaved, saved.SavedAt = true, 500
	require.NoError(t, s.UpsertMany(ctx, []domain.Article{saved}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByURL(ctx, "https://a")
	require.NoError(t, err)
	assert.Equal(t, saved, *got)
}

func TestStore_BlankCategoryStoredAsDefault(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.UpsertMany(ctx, []domain.Article{
		storetest.Article("https://a", "A", "2024-01-01T00:00:00Z", ""),
	}))

	general, err := s.ListByCategory(ctx, domain.CategoryGeneral)
	require.NoError(t, err)
	assert.Len(t, general, 1)
}

func TestStore_Ping(t *testing.T) {
	s := openTemp(t)
	assert.NoError(t, s.Ping(context.Background()))
}
