package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/news"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/daily-news/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	headlines []domain.Article
	results   []domain.Article
	err       error
}

func (f *fakeSource) TopHeadlines(context.Context, string) ([]domain.Article, error) {
	return f.headlines, f.err
}

func (f *fakeSource) Search(context.Context, string) ([]domain.Article, error) {
	return f.results, f.err
}

func newArticle(url, title string) domain.Article {
	return domain.Article{
		URL:         url,
		Title:       title,
		PublishedAt: "2024-01-01T00:00:00Z",
		Source:      domain.Source{Name: "Wire"},
	}
}

type fixture struct {
	e     *echo.Echo
	store *in_mem.Store
}

func newFixture(t *testing.T, source *fakeSource) fixture {
	t.Helper()
	store := in_mem.NewStore()
	svc := news.NewService(store, source, news.WithClock(func() time.Time { return time.UnixMilli(1_000) }))

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewNewsRouter(e, svc).Bind()
	return fixture{e: e, store: store}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHeadlines(t *testing.T) {
	f := newFixture(t, &fakeSource{headlines: []domain.Article{newArticle("https://example.com/a", "A")}})

	rec := f.do(http.MethodGet, "/headlines?category=Sports", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ArticlesResponse](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "sports", resp.Articles[0].Category)
}

func TestHeadlines_InvalidCategory(t *testing.T) {
	f := newFixture(t, &fakeSource{})

	rec := f.do(http.MethodGet, "/headlines?category=weather", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "weather")
}

func TestHeadlines_NetworkFailureWithoutCache(t *testing.T) {
	f := newFixture(t, &fakeSource{err: apperr.NewNetwork("unable to reach News API")})

	rec := f.do(http.MethodGet, "/headlines", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to reach News API")
}

func TestHeadlinesStream(t *testing.T) {
	f := newFixture(t, &fakeSource{headlines: []domain.Article{newArticle("https://example.com/a", "A")}})

	rec := f.do(http.MethodGet, "/headlines/stream", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))

	events := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.Len(t, events, 2)
	assert.True(t, strings.HasPrefix(events[0], "event: loading\n"))
	assert.True(t, strings.HasPrefix(events[1], "event: success\n"))
	assert.Contains(t, events[1], `"terminal":true`)
	assert.Contains(t, events[1], "https://example.com/a")
}

func TestSearchStream_LocalThenRemote(t *testing.T) {
	f := newFixture(t, &fakeSource{results: []domain.Article{newArticle("https://example.com/remote", "Go remote")}})
	require.NoError(t, f.store.UpsertMany(context.Background(), []domain.Article{
		newArticle("https://example.com/local", "Go local").WithCategory(""),
	}))

	rec := f.do(http.MethodGet, "/search/stream?q=go", "")

	events := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.Len(t, events, 3)
	assert.Contains(t, events[1], "https://example.com/local")
	assert.Contains(t, events[1], `"terminal":false`)
	assert.Contains(t, events[2], "https://example.com/remote")
}

func TestSearch(t *testing.T) {
	f := newFixture(t, &fakeSource{results: []domain.Article{newArticle("https://example.com/r", "R")}})

	rec := f.do(http.MethodGet, "/search?q=r", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[ArticlesResponse](t, rec).Count)

	rec = f.do(http.MethodGet, "/search?q=", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveUnsaveAndSaved(t *testing.T) {
	f := newFixture(t, &fakeSource{})
	ctx := context.Background()
	require.NoError(t, f.store.UpsertMany(ctx, []domain.Article{
		newArticle("https://example.com/a", "A").WithCategory(""),
		newArticle("https://example.com/b", "B").WithCategory(""),
	}))

	rec := f.do(http.MethodPost, "/articles/save", `{"url":"https://example.com/a"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[domain.Article](t, rec)
	assert.True(t, saved.IsSaved)
	assert.Equal(t, int64(1_000), saved.SavedAt)

	rec = f.do(http.MethodGet, "/articles/saved?page=1&size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pagination.OffsetResult[domain.Article]](t, rec)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, []string{"https://example.com/a"}, domain.URLs(page.Items))

	rec = f.do(http.MethodPost, "/articles/unsave", `{"url":"https://example.com/a"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[domain.Article](t, rec).IsSaved)

	rec = f.do(http.MethodGet, "/articles?url=https://example.com/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[domain.Article](t, rec).IsSaved)
}

func TestSaveUnsave_OpaqueURL(t *testing.T) {
	f := newFixture(t, &fakeSource{})
	require.NoError(t, f.store.UpsertMany(context.Background(), []domain.Article{
		newArticle("a", "A").WithCategory(""),
	}))

	rec := f.do(http.MethodPost, "/articles/save", `{"url":"a"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[domain.Article](t, rec).IsSaved)

	rec = f.do(http.MethodPost, "/articles/unsave", `{"url":"a"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[domain.Article](t, rec).IsSaved)
}

func TestSave_UncachedArticle(t *testing.T) {
	f := newFixture(t, &fakeSource{})

	rec := f.do(http.MethodPost, "/articles/save", `{"url":"https://example.com/x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPost, "/articles/save",
		`{"article":{"url":"https://example.com/x","title":"X","publishedAt":"2024-01-01T00:00:00Z","source":{"name":"Wire"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := f.store.GetByURL(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.True(t, stored.IsSaved)
}

func TestSave_Validation(t *testing.T) {
	f := newFixture(t, &fakeSource{})

	for _, body := range []string{`{}`, `{"url":""}`, `{"url":"https://a.example.com","article":{"url":"https://b.example.com"}}`, `{`} {
		rec := f.do(http.MethodPost, "/articles/save", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestArticle_Missing(t *testing.T) {
	f := newFixture(t, &fakeSource{})

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/articles?url=https://example.com/none", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/articles", "").Code)
}

func TestClearCache(t *testing.T) {
	f := newFixture(t, &fakeSource{})
	require.NoError(t, f.store.UpsertMany(context.Background(), []domain.Article{
		newArticle("https://example.com/a", "A").WithCategory(""),
	}))

	rec := f.do(http.MethodDelete, "/articles/cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, CacheResponse{Evicted: 1}, decode[CacheResponse](t, rec))
}

func TestCategories(t *testing.T) {
	f := newFixture(t, &fakeSource{})

	rec := f.do(http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Categories, decode[CategoriesResponse](t, rec).Categories)
}

func TestStorageFailureMapsTo500(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewNewsRouter(e, brokenService{}).Bind()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/articles/cache", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "article store unavailable")
}

type brokenService struct {
	NewsService
}

func (brokenService) ClearCache(context.Context) (int64, error) {
	return 0, apperr.NewIO("evict unsaved articles", errors.New("disk full"))
}
