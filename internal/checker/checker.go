// Package checker looks for headlines that are not cached yet and notifies about them.
package checker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/metrics"
	"github.com/DjordjeVuckovic/daily-news/internal/notify"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
)

const (
	// MaxAttempts is the number of attempts a scheduler makes per cycle.
	MaxAttempts = 3
	// MaxArticlesToCheck bounds how much of the fetched batch is compared with the cache.
	MaxArticlesToCheck = 10
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetry
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetry:
		return "retry"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Source provides the general top headlines.
type Source interface {
	TopHeadlines(ctx context.Context, category string) ([]domain.Article, error)
}

type Checker struct {
	store    storage.Store
	source   Source
	notifier notify.Notifier
}

func New(store storage.Store, source Source, notifier notify.Notifier) *Checker {
	return &Checker{
		store:    store,
		source:   source,
		notifier: notifier,
	}
}

// Check runs one attempt. attempt is 1-based; a failed attempt asks for a retry
// until MaxAttempts is reached.
func (c *Checker) Check(ctx context.Context, attempt int) Outcome {
	found, err := c.check(ctx)
	if err == nil {
		slog.Info("Update check completed", "attempt", attempt, "new", found)
		metrics.CheckOutcomesTotal.WithLabelValues(OutcomeSuccess.String()).Inc()
		return OutcomeSuccess
	}

	outcome := OutcomeRetry
	if attempt >= MaxAttempts {
		outcome = OutcomeFailure
	}
	slog.Warn("Update check failed", "attempt", attempt, "outcome", outcome.String(), "error", err)
	metrics.CheckOutcomesTotal.WithLabelValues(outcome.String()).Inc()
	return outcome
}

func (c *Checker) check(ctx context.Context) (int, error) {
	fetched, err := c.source.TopHeadlines(ctx, domain.CategoryGeneral)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch headlines: %w", err)
	}
	if len(fetched) == 0 {
		return 0, nil
	}

	existing, err := c.store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list cached articles: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		known[a.URL] = struct{}{}
	}

	if len(fetched) > MaxArticlesToCheck {
		fetched = fetched[:MaxArticlesToCheck]
	}
	var fresh []domain.Article
	for _, a := range fetched {
		if _, ok := known[a.URL]; ok {
			continue
		}
		known[a.URL] = struct{}{}
		fresh = append(fresh, a.WithCategory(domain.CategoryGeneral))
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := c.store.UpsertMany(ctx, fresh); err != nil {
		return 0, fmt.Errorf("failed to store new articles: %w", err)
	}
	metrics.NewArticlesTotal.Add(float64(len(fresh)))

	c.notifier.Notify(ctx, fresh)
	return len(fresh), nil
}
