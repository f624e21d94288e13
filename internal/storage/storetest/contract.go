// Package storetest holds the behaviour every storage.Store backend must share.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. The store is closed by the caller's cleanup.
type Factory func(t *testing.T) storage.Store

func Article(url, title, publishedAt, category string) domain.Article {
	return domain.Article{
		URL:         url,
		Title:       title,
		Description: "About " + title,
		PublishedAt: publishedAt,
		Source:      domain.Source{ID: "src", Name: "Source"},
		Category:    category,
	}
}

func RunContract(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("upsert replaces by url", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.UpsertMany(ctx, []domain.Article{
			Article("https://a", "First", "2024-01-01T00:00:00Z", "general"),
		}))
		replaced := Article("https://a", "Second", "2024-01-02T00:00:00Z", "sports")
		replaced.Author = "Jane"
		replaced.Source = domain.Source{Name: "Wire"}
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{replaced}))

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, replaced, all[0])
	})

	t.Run("upsert keeps saved state of existing row", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		saved := Article("https://a", "First", "2024-01-01T00:00:00Z", "general")
		saved.IsSaved, saved.SavedAt = true, 700
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{saved}))

		refreshed := Article("https://a", "Refreshed", "2024-01-02T00:00:00Z", "general")
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{refreshed}))

		got, err := s.GetByURL(ctx, "https://a")
		require.NoError(t, err)
		assert.Equal(t, "Refreshed", got.Title)
		assert.True(t, got.IsSaved)
		assert.Equal(t, int64(700), got.SavedAt)

		resaved := refreshed
		resaved.IsSaved, resaved.SavedAt = true, 900
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{resaved}))
		got, err = s.GetByURL(ctx, "https://a")
		require.NoError(t, err)
		assert.Equal(t, int64(700), got.SavedAt)

		unsaved := got.MarkUnsaved()
		require.NoError(t, s.Update(ctx, unsaved))
		got, err = s.GetByURL(ctx, "https://a")
		require.NoError(t, err)
		assert.False(t, got.IsSaved)
		assert.Zero(t, got.SavedAt)
	})

	t.Run("list all orders by published desc", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.UpsertMany(ctx, []domain.Article{
			Article("https://old", "Old", "2024-01-01T00:00:00Z", "general"),
			Article("https://new", "New", "2024-03-01T00:00:00Z", "general"),
			Article("https://mid", "Mid", "2024-02-01T00:00:00Z", "science"),
		}))

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://new", "https://mid", "https://old"}, domain.URLs(all))
	})

	t.Run("list by category", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.UpsertMany(ctx, []domain.Article{
			Article("https://g1", "G1", "2024-01-01T00:00:00Z", "general"),
			Article("https://s1", "S1", "2024-01-02T00:00:00Z", "sports"),
			Article("https://s2", "S2", "2024-01-03T00:00:00Z", "sports"),
		}))

		sports, err := s.ListByCategory(ctx, "sports")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://s2", "https://s1"}, domain.URLs(sports))

		none, err := s.ListByCategory(ctx, "health")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list saved orders by saved at desc", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		a := Article("https://a", "A", "2024-01-03T00:00:00Z", "general")
		a.IsSaved, a.SavedAt = true, 100
		b := Article("https://b", "B", "2024-01-01T00:00:00Z", "general")
		b.IsSaved, b.SavedAt = true, 300
		c := Article("https://c", "C", "2024-01-02T00:00:00Z", "general")
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{a, b, c}))

		saved, err := s.ListSaved(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://b", "https://a"}, domain.URLs(saved))
	})

	t.Run("search matches title or description case-insensitively", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		a := Article("https://a", "Markets Rally", "2024-01-01T00:00:00Z", "business")
		b := Article("https://b", "Weather", "2024-01-02T00:00:00Z", "general")
		b.Description = "the market closed early"
		c := Article("https://c", "Football", "2024-01-03T00:00:00Z", "sports")
		d := Article("https://d", "Discount 50% off", "2024-01-04T00:00:00Z", "general")
		e := Article("https://e", "Über Élan", "2024-01-05T00:00:00Z", "general")
		e.Description = "ПРИВЕТ from abroad"
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{a, b, c, d, e}))

		found, err := s.Search(ctx, "MARKET")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"https://a", "https://b"}, domain.URLs(found))

		literal, err := s.Search(ctx, "50%")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://d"}, domain.URLs(literal))

		for _, q := range []string{"über", "ÜBER", "élan", "привет"} {
			unicode, err := s.Search(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, []string{"https://e"}, domain.URLs(unicode), q)
		}

		none, err := s.Search(ctx, "cricket")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update replaces existing row", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		a := Article("https://a", "A", "2024-01-01T00:00:00Z", "general")
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{a}))

		a.IsSaved, a.SavedAt = true, 42
		require.NoError(t, s.Update(ctx, a))

		got, err := s.GetByURL(ctx, "https://a")
		require.NoError(t, err)
		assert.True(t, got.IsSaved)
		assert.Equal(t, int64(42), got.SavedAt)
	})

	t.Run("update of missing row is not found", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(context.Background(), Article("https://missing", "M", "2024-01-01T00:00:00Z", "general"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("get by url", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.GetByURL(ctx, "https://a")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		a := Article("https://a", "A", "2024-01-01T00:00:00Z", "general")
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{a}))
		got, err := s.GetByURL(ctx, "https://a")
		require.NoError(t, err)
		assert.Equal(t, a, *got)
	})

	t.Run("evict unsaved keeps saved rows", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		saved := Article("https://saved", "Saved", "2024-01-01T00:00:00Z", "general")
		saved.IsSaved, saved.SavedAt = true, 500
		require.NoError(t, s.UpsertMany(ctx, []domain.Article{
			saved,
			Article("https://x", "X", "2024-01-02T00:00:00Z", "general"),
			Article("https://y", "Y", "2024-01-03T00:00:00Z", "sports"),
		}))

		n, err := s.EvictUnsaved(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Article{saved}, all)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.UpsertMany(ctx, nil))

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("concurrent reads and writes", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.UpsertMany(ctx, []domain.Article{
					Article("https://shared", "Shared", "2024-01-01T00:00:00Z", "general"),
				}))
			}()
			go func() {
				defer wg.Done()
				_, err := s.ListAll(ctx)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
