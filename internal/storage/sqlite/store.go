// Package sqlite is the default on-device article cache.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	msqlite "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS articles (
		url          TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		url_to_image TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL,
		content      TEXT NOT NULL DEFAULT '',
		author       TEXT NOT NULL DEFAULT '',
		source       TEXT NOT NULL,
		category     TEXT NOT NULL DEFAULT 'general',
		is_saved     INTEGER NOT NULL DEFAULT 0,
		saved_at     INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category, published_at DESC);
	CREATE INDEX IF NOT EXISTS idx_articles_saved ON articles(is_saved, saved_at DESC);
`

const columns = "url, title, description, url_to_image, published_at, content, author, source, category, is_saved, saved_at"

// lowerFunc folds case for every script; the built-in lower() and LIKE fold ASCII only.
const lowerFunc = "news_lower"

var registerOnce = sync.OnceValue(func() error {
	return msqlite.RegisterDeterministicScalarFunction(lowerFunc, 1, unicodeLower)
})

func unicodeLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", lowerFunc, v)
	}
}

// Store uses one read-only handle for queries and a single-connection handle for writes,
// so writers are serialized while WAL readers proceed.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

func Open(dbPath string) (*Store, error) {
	if err := registerOnce(); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", lowerFunc, err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	if _, err := writeDB.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to set wal mode: %w", err)
	}
	if _, err := writeDB.Exec(schema); err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	readDB, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=query_only(1)")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to open read db: %w", err)
	}

	slog.Debug("Opened sqlite article store", "path", dbPath)
	return &Store{readDB: readDB, writeDB: writeDB}, nil
}

func (s *Store) Close() error {
	return errors.Join(s.readDB.Close(), s.writeDB.Close())
}

func (s *Store) Ping(ctx context.Context) error {
	return s.readDB.PingContext(ctx)
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.query(ctx, "SELECT "+columns+" FROM articles ORDER BY published_at DESC, url")
	if err != nil {
		return nil, apperr.NewIO("list articles", err)
	}
	return articles, nil
}

func (s *Store) ListSaved(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.query(ctx, "SELECT "+columns+" FROM articles WHERE is_saved = 1 ORDER BY saved_at DESC, url")
	if err != nil {
		return nil, apperr.NewIO("list saved articles", err)
	}
	return articles, nil
}

func (s *Store) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	articles, err := s.query(ctx,
		"SELECT "+columns+" FROM articles WHERE category = ? ORDER BY published_at DESC, url", category)
	if err != nil {
		return nil, apperr.NewIO("list articles by category", err)
	}
	return articles, nil
}

func (s *Store) Search(ctx context.Context, text string) ([]domain.Article, error) {
	term := "%" + storage.EscapeLike(strings.ToLower(text)) + "%"
	articles, err := s.query(ctx,
		"SELECT "+columns+` FROM articles
		WHERE `+lowerFunc+`(title) LIKE ?1 ESCAPE '\' OR `+lowerFunc+`(description) LIKE ?1 ESCAPE '\'
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

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewIO("upsert articles", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url_to_image = excluded.url_to_image,
			published_at = excluded.published_at,
			content = excluded.content,
			author = excluded.author,
			source = excluded.source,
			category = excluded.category,
			is_saved = articles.is_saved OR excluded.is_saved,
			saved_at = CASE WHEN articles.is_saved THEN articles.saved_at ELSE excluded.saved_at END
	`)
	if err != nil {
		return apperr.NewIO("upsert articles", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		args, err := values(a)
		if err != nil {
			return apperr.NewIO("upsert articles", err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperr.NewIO("upsert articles", fmt.Errorf("article %s: %w", a.URL, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.NewIO("upsert articles", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, a domain.Article) error {
	args, err := values(a)
	if err != nil {
		return apperr.NewIO("update article", err)
	}

	res, err := s.writeDB.ExecContext(ctx, `
		UPDATE articles SET
			title = ?2, description = ?3, url_to_image = ?4, published_at = ?5, content = ?6,
			author = ?7, source = ?8, category = ?9, is_saved = ?10, saved_at = ?11
		WHERE url = ?1
	`, args...)
	if err != nil {
		return apperr.NewIO("update article", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewIO("update article", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) EvictUnsaved(ctx context.Context) (int64, error) {
	res, err := s.writeDB.ExecContext(ctx, "DELETE FROM articles WHERE is_saved = 0")
	if err != nil {
		return 0, apperr.NewIO("evict unsaved articles", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.NewIO("evict unsaved articles", err)
	}
	return n, nil
}

func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	row := s.readDB.QueryRowContext(ctx, "SELECT "+columns+" FROM articles WHERE url = ?", url)
	a, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, apperr.NewIO("get article", err)
	}
	return &a, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
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
	return articles, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Article, error) {
	var (
		a      domain.Article
		source string
	)
	err := row.Scan(&a.URL, &a.Title, &a.Description, &a.ImageURL, &a.PublishedAt, &a.Content,
		&a.Author, &source, &a.Category, &a.IsSaved, &a.SavedAt)
	if err != nil {
		return domain.Article{}, err
	}
	if err := json.Unmarshal([]byte(source), &a.Source); err != nil {
		return domain.Article{}, fmt.Errorf("failed to unmarshal source of %s: %w", a.URL, err)
	}
	return a, nil
}

func values(a domain.Article) ([]any, error) {
	source, err := json.Marshal(a.Source)
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
		string(source),
		domain.CategoryOrDefault(a.Category),
		a.IsSaved,
		a.SavedAt,
	}, nil
}
