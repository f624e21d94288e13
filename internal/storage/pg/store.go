package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the store needs; pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

const columns = "url, title, description, url_to_image, published_at, content, author, source, category, is_saved, saved_at"

const upsertSQL = `
	INSERT INTO articles (` + columns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (url) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		url_to_image = EXCLUDED.url_to_image,
		published_at = EXCLUDED.published_at,
		content = EXCLUDED.content,
		author = EXCLUDED.author,
		source = EXCLUDED.source,
		category = EXCLUDED.category,
		is_saved = articles.is_saved OR EXCLUDED.is_saved,
		saved_at = CASE WHEN articles.is_saved THEN articles.saved_at ELSE EXCLUDED.saved_at END
`

type Store struct {
	db    DBTX
	close func()
}

var _ storage.Store = (*Store)(nil)

func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.conn, close: pool.Close}
}

// NewStoreWithDB builds a store over any DBTX. Closing the store does not close db.
func NewStoreWithDB(db DBTX) *Store {
	return &Store{db: db, close: func() {}}
}

func (s *Store) Close() error {
	s.close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.query(ctx, "SELECT "+columns+" FROM articles ORDER BY published_at DESC, url")
	if err != nil {
		return nil, apperr.NewIO("list articles", err)
	}
	return articles, nil
}

func (s *Store) ListSaved(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.query(ctx, "SELECT "+columns+" FROM articles WHERE is_saved ORDER BY saved_at DESC, url")
	if err != nil {
		return nil, apperr.NewIO("list saved articles", err)
	}
	return articles, nil
}

func (s *Store) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	articles, err := s.query(ctx,
		"SELECT "+columns+" FROM articles WHERE category = $1 ORDER BY published_at DESC, url", category)
	if err != nil {
		return nil, apperr.NewIO("list articles by category", err)
	}
	return articles, nil
}

func (s *Store) Search(ctx context.Context, text string) ([]domain.Article, error) {
	term := "%" + storage.EscapeLike(text) + "%"
	articles, err := s.query(ctx,
		"SELECT "+columns+` FROM articles
		WHERE title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY published_at DESC, url`, term)
	if err != nil {
		return nil, apperr.NewIO("search articles", err)
	}
	return articles, nil
}

func (s *Store) UpsertMany(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperr.NewIO("upsert articles", fmt.Errorf("failed to begin transaction: %w", err))
	}

	for _, a := range articles {
		args, err := values(a)
		if err == nil {
			_, err = tx.Exec(ctx, upsertSQL, args...)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("Failed to roll back article upsert", "error", rbErr)
			}
			return apperr.NewIO("upsert articles", fmt.Errorf("article %s: %w", a.URL, err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.NewIO("upsert articles", fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

func (s *Store) Update(ctx context.Context, a domain.Article) error {
	args, err := values(a)
	if err != nil {
		return apperr.NewIO("update article", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE articles SET
			title = $2, description = $3, url_to_image = $4, published_at = $5, content = $6,
			author = $7, source = $8, category = $9, is_saved = $10, saved_at = $11
		WHERE url = $1
	`, args...)
	if err != nil {
		return apperr.NewIO("update article", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) EvictUnsaved(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM articles WHERE NOT is_saved")
	if err != nil {
		return 0, apperr.NewIO("evict unsaved articles", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	row := s.db.QueryRow(ctx, "SELECT "+columns+" FROM articles WHERE url = $1", url)
	a, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, apperr.NewIO("get article", err)
	}
	return &a, nil
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return articles, nil
}

func scan(row pgx.Row) (domain.Article, error) {
	var (
		a          domain.Article
		sourceJSON []byte
	)
	if err := row.Scan(
		&a.URL,
		&a.Title,
		&a.Description,
		&a.ImageURL,
		&a.PublishedAt,
		&a.Content,
		&a.Author,
		&sourceJSON,
		&a.Category,
		&a.IsSaved,
		&a.SavedAt,
	); err != nil {
		return domain.Article{}, err
	}

	if err := json.Unmarshal(sourceJSON, &a.Source); err != nil {
		return domain.Article{}, fmt.Errorf("failed to unmarshal source: %w", err)
	}
	return a, nil
}

func values(a domain.Article) ([]any, error) {
	sourceJSON, err := json.Marshal(a.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal source: %w", err)
	}
	return []any{
		a.URL,
		a.Title,
		a.Description,
		a.ImageURL,
		a.PublishedAt,
		a.Content,
		a.Author,
		string(sourceJSON),
		domain.CategoryOrDefault(a.Category),
		a.IsSaved,
		a.SavedAt,
	}, nil
}
