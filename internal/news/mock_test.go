package news

import (
	"context"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/stretchr/testify/mock"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) TopHeadlines(ctx context.Context, category string) ([]domain.Article, error) {
	args := m.Called(ctx, category)
	articles, _ := args.Get(0).([]domain.Article)
	return articles, args.Error(1)
}

func (m *mockSource) Search(ctx context.Context, query string) ([]domain.Article, error) {
	args := m.Called(ctx, query)
	articles, _ := args.Get(0).([]domain.Article)
	return articles, args.Error(1)
}

// failingStore fails the operations named in fail and delegates everything else.
type failingStore struct {
	storage.Store
	fail map[string]error
}

func (s *failingStore) ListSaved(ctx context.Context) ([]domain.Article, error) {
	if err := s.fail["ListSaved"]; err != nil {
		return nil, err
	}
	return s.Store.ListSaved(ctx)
}

func (s *failingStore) EvictUnsaved(ctx context.Context) (int64, error) {
	if err := s.fail["EvictUnsaved"]; err != nil {
		return 0, err
	}
	return s.Store.EvictUnsaved(ctx)
}

func (s *failingStore) UpsertMany(ctx context.Context, articles []domain.Article) error {
	if err := s.fail["UpsertMany"]; err != nil {
		return err
	}
	return s.Store.UpsertMany(ctx, articles)
}

func (s *failingStore) Search(ctx context.Context, text string) ([]domain.Article, error) {
	if err := s.fail["Search"]; err != nil {
		return nil, err
	}
	return s.Store.Search(ctx, text)
}

// hookStore runs beforeEvict ahead of the wrapped EvictUnsaved.
type hookStore struct {
	storage.Store
	beforeEvict func(ctx context.Context)
}

func (s *hookStore) EvictUnsaved(ctx context.Context) (int64, error) {
	if s.beforeEvict != nil {
		s.beforeEvict(ctx)
	}
	return s.Store.EvictUnsaved(ctx)
}
