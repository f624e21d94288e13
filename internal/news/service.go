package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/metrics"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
)

// Source provides remote headlines.
type Source interface {
	TopHeadlines(ctx context.Context, category string) ([]domain.Article, error)
	Search(ctx context.Context, query string) ([]domain.Article, error)
}

type Option func(*Service)

// WithClock overrides the time source used for savedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service reconciles remote headlines with the local article store.
type Service struct {
	store  storage.Store
	source Source
	now    func() time.Time
}

func NewService(store storage.Store, source Source, opts ...Option) *Service {
	s := &Service{
		store:  store,
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Headlines emits Loading and then exactly one terminal state. The channel is closed afterwards.
func (s *Service) Headlines(ctx context.Context, category string) <-chan Resource {
	states := make(chan Resource, 2)
	go func() {
		defer close(states)
		states <- loading()
		states <- s.headlines(ctx, strings.TrimSpace(category))
	}()
	return states
}

func (s *Service) HeadlinesSync(ctx context.Context, category string) Resource {
	return Last(s.Headlines(ctx, category))
}

func (s *Service) headlines(ctx context.Context, category string) Resource {
	label := domain.CategoryOrDefault(category)

	saved, err := s.store.ListSaved(ctx)
	if err != nil {
		return s.storageFailure(label, err)
	}

	// Unsaved rows are dropped before the fetch; a failed fetch falls back to whatever remains.
	evicted, err := s.store.EvictUnsaved(ctx)
	if err != nil {
		return s.storageFailure(label, err)
	}
	metrics.EvictedArticlesTotal.Add(float64(evicted))

	fetched, fetchErr := s.source.TopHeadlines(ctx, category)
	if fetchErr == nil {
		articles := make([]domain.Article, len(fetched))
		for i, a := range fetched {
			articles[i] = a.WithCategory(category).MarkUnsaved()
		}
		restoreSaved(articles, saved)

		if err := s.store.UpsertMany(ctx, articles); err != nil {
			return s.storageFailure(label, err)
		}

		// A save that landed after the snapshot above is kept by the store; report it.
		current, err := s.store.ListSaved(ctx)
		if err != nil {
			return s.storageFailure(label, err)
		}
		restoreSaved(articles, current)

		slog.Info("Headlines loaded", "category", label, "count", len(articles), "from", metrics.ResultNetwork)
		metrics.HeadlineLoadsTotal.WithLabelValues(label, metrics.ResultNetwork).Inc()
		return success(articles, true)
	}

	slog.Warn("Failed to fetch headlines, falling back to cache", "category", label, "error", fetchErr)

	var cached []domain.Article
	if category != "" {
		cached, err = s.store.ListByCategory(ctx, category)
	} else {
		cached, err = s.store.ListAll(ctx)
	}
	if err != nil {
		return s.storageFailure(label, err)
	}

	if len(cached) == 0 {
		metrics.HeadlineLoadsTotal.WithLabelValues(label, metrics.ResultError).Inc()
		return failure(fetchErr)
	}

	slog.Info("Headlines loaded", "category", label, "count", len(cached), "from", metrics.ResultCache)
	metrics.HeadlineLoadsTotal.WithLabelValues(label, metrics.ResultCache).Inc()
	return success(cached, true)
}

func restoreSaved(articles []domain.Article, saved []domain.Article) {
	savedAt := make(map[string]int64, len(saved))
	for _, a := range saved {
		savedAt[a.URL] = a.SavedAt
	}
	for i, a := range articles {
		if at, ok := savedAt[a.URL]; ok {
			articles[i].IsSaved = true
			articles[i].SavedAt = at
		}
	}
}

func (s *Service) storageFailure(category string, err error) Resource {
	slog.Error("Article store failure while loading headlines", "category", category, "error", err)
	metrics.HeadlineLoadsTotal.WithLabelValues(category, metrics.ResultError).Inc()
	return failure(err)
}

// Search emits Loading, local matches when there are any, and then one terminal state.
func (s *Service) Search(ctx context.Context, query string) <-chan Resource {
	states := make(chan Resource, 3)
	go func() {
		defer close(states)
		states <- loading()
		s.search(ctx, strings.TrimSpace(query), states)
	}()
	return states
}

func (s *Service) SearchSync(ctx context.Context, query string) Resource {
	return Last(s.Search(ctx, query))
}

func (s *Service) search(ctx context.Context, query string, states chan<- Resource) {
	if query == "" {
		metrics.SearchesTotal.WithLabelValues(metrics.ResultError).Inc()
		states <- failure(apperr.NewValidation("search query must not be empty"))
		return
	}

	local, err := s.store.Search(ctx, query)
	if err != nil {
		s.searchFailure(query, err, states)
		return
	}
	if len(local) > 0 {
		states <- success(local, false)
	}

	remote, fetchErr := s.source.Search(ctx, query)
	if fetchErr == nil {
		slog.Info("Search completed", "query", query, "count", len(remote), "from", metrics.ResultNetwork)
		metrics.SearchesTotal.WithLabelValues(metrics.ResultNetwork).Inc()
		states <- success(remote, true)
		return
	}

	slog.Warn("Remote search failed, falling back to cache", "query", query, "error", fetchErr)

	local, err = s.store.Search(ctx, query)
	if err != nil {
		s.searchFailure(query, err, states)
		return
	}
	if len(local) == 0 {
		metrics.SearchesTotal.WithLabelValues(metrics.ResultError).Inc()
		states <- failure(fetchErr)
		return
	}

	metrics.SearchesTotal.WithLabelValues(metrics.ResultLocal).Inc()
	states <- success(local, true)
}

func (s *Service) searchFailure(query string, err error, states chan<- Resource) {
	slog.Error("Article store failure while searching", "query", query, "error", err)
	metrics.SearchesTotal.WithLabelValues(metrics.ResultError).Inc()
	states <- failure(err)
}

// Save marks the article as saved now. An article that is not cached yet, such as a
// remote search result, is inserted.
func (s *Service) Save(ctx context.Context, article domain.Article) (domain.Article, error) {
	saved := article.MarkSaved(s.now())

	err := s.store.Update(ctx, saved)
	if errors.Is(err, storage.ErrNotFound) {
		saved = saved.WithCategory(saved.Category)
		err = s.store.UpsertMany(ctx, []domain.Article{saved})
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to save article: %w", err)
	}

	slog.Info("Article saved", "url", saved.URL, "title", saved.Title)
	metrics.SavesTotal.WithLabelValues(metrics.ResultSaved).Inc()
	return saved, nil
}

func (s *Service) Unsave(ctx context.Context, article domain.Article) (domain.Article, error) {
	unsaved := article.MarkUnsaved()

	if err := s.store.Update(ctx, unsaved); err != nil {
		return domain.Article{}, fmt.Errorf("failed to unsave article: %w", err)
	}

	slog.Info("Article unsaved", "url", unsaved.URL, "title", unsaved.Title)
	metrics.SavesTotal.WithLabelValues(metrics.ResultUnsaved).Inc()
	return unsaved, nil
}

// ToggleSaved flips the saved flag of a cached article.
func (s *Service) ToggleSaved(ctx context.Context, url string) (domain.Article, error) {
	article, err := s.store.GetByURL(ctx, url)
	if err != nil {
		return domain.Article{}, err
	}
	if article.IsSaved {
		return s.Unsave(ctx, *article)
	}
	return s.Save(ctx, *article)
}

func (s *Service) Saved(ctx context.Context) ([]domain.Article, error) {
	return s.store.ListSaved(ctx)
}

func (s *Service) IsSaved(ctx context.Context, url string) (bool, error) {
	article, err := s.store.GetByURL(ctx, url)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return article.IsSaved, nil
}

func (s *Service) Article(ctx context.Context, url string) (*domain.Article, error) {
	return s.store.GetByURL(ctx, url)
}

// ClearCache evicts every unsaved article and returns how many were removed.
func (s *Service) ClearCache(ctx context.Context) (int64, error) {
	n, err := s.store.EvictUnsaved(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	slog.Info("Cache cleared", "evicted", n)
	metrics.EvictedArticlesTotal.Add(float64(n))
	return n, nil
}
