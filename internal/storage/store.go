package storage

import (
	"context"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
)

// Store is the local article cache. Articles are keyed by URL.
// Failures are reported as *apperr.IOError, a missing article as ErrNotFound.
type Store interface {
	// ListAll returns every cached article, newest publishedAt first.
	ListAll(ctx context.Context) ([]domain.Article, error)
	// ListSaved returns saved articles, most recently saved first.
	ListSaved(ctx context.Context) ([]domain.Article, error)
	// ListByCategory returns the articles of one category, newest publishedAt first.
	ListByCategory(ctx context.Context, category string) ([]domain.Article, error)
	// Search matches text case-insensitively against title or description.
	Search(ctx context.Context, text string) ([]domain.Article, error)
	// UpsertMany inserts or replaces every article by URL. Either the whole batch is stored or none of it.
	// A row that is already saved stays saved with its savedAt; only Update clears it.
	UpsertMany(ctx context.Context, articles []domain.Article) error
	// Update replaces the row with the same URL.
	Update(ctx context.Context, article domain.Article) error
	// EvictUnsaved deletes every article that is not saved and returns how many were removed.
	EvictUnsaved(ctx context.Context) (int64, error)
	GetByURL(ctx context.Context, url string) (*domain.Article, error)
	Close() error
}

var ErrNotFound = apperr.ErrNotFound

type Type string

const (
	SQLite Type = "sqlite"
	PG     Type = "pg"
	InMem  Type = "in_mem"
)

var Types = []Type{SQLite, PG, InMem}

type StoreError string

const (
	ErrUnsupportedStore StoreError = "unsupported store type: %s"
)

func (e StoreError) Error() string {
	return string(e)
}

// EscapeLike escapes the LIKE wildcards in text so it matches literally with ESCAPE '\'.
func EscapeLike(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		switch r {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
