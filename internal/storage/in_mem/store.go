package in_mem

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
)

// Store keeps articles in a map keyed by URL. Reads share the lock, writes hold it exclusively,
// so a batch upsert is observed either entirely or not at all.
type Store struct {
	storageLock sync.RWMutex
	storage     map[string]domain.Article
}

var _ storage.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		storage: make(map[string]domain.Article),
	}
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Article, error) {
	return s.list(func(domain.Article) bool { return true }, byPublishedDesc), nil
}

func (s *Store) ListSaved(ctx context.Context) ([]domain.Article, error) {
	return s.list(func(a domain.Article) bool { return a.IsSaved }, bySavedDesc), nil
}

func (s *Store) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	return s.list(func(a domain.Article) bool { return a.Category == category }, byPublishedDesc), nil
}

func (s *Store) Search(ctx context.Context, text string) ([]domain.Article, error) {
	needle := strings.ToLower(text)
	return s.list(func(a domain.Article) bool {
		return strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Description), needle)
	}, byPublishedDesc), nil
}

func (s *Store) UpsertMany(ctx context.Context, articles []domain.Article) error {
	for _, a := range articles {
		if a.URL == "" {
			return apperr.NewIO("upsert articles", storage.StoreError("article without url"))
		}
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, a := range articles {
		if old, ok := s.storage[a.URL]; ok && old.IsSaved {
			a.IsSaved, a.SavedAt = true, old.SavedAt
		}
		s.storage[a.URL] = a
	}
	slog.Debug("Upserted articles into in-memory store", "count", len(articles))
	return nil
}

func (s *Store) Update(ctx context.Context, article domain.Article) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if _, ok := s.storage[article.URL]; !ok {
		return storage.ErrNotFound
	}
	s.storage[article.URL] = article
	return nil
}

func (s *Store) EvictUnsaved(ctx context.Context) (int64, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	var n int64
	for url, a := range s.storage {
		if !a.IsSaved {
			delete(s.storage, url)
			n++
		}
	}
	return n, nil
}

func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	a, ok := s.storage[url]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) list(keep func(domain.Article) bool, order func(a, b domain.Article) int) []domain.Article {
	s.storageLock.RLock()
	out := make([]domain.Article, 0, len(s.storage))
	for _, a := range s.storage {
		if keep(a) {
			out = append(out, a)
		}
	}
	s.storageLock.RUnlock()

	slices.SortFunc(out, order)
	return out
}

func byPublishedDesc(a, b domain.Article) int {
	if c := cmp.Compare(b.PublishedAt, a.PublishedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.URL, b.URL)
}

func bySavedDesc(a, b domain.Article) int {
	if c := cmp.Compare(b.SavedAt, a.SavedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.URL, b.URL)
}
