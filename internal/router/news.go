package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/news"
	"github.com/DjordjeVuckovic/daily-news/pkg/pagination"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

// NewsService is the part of news.Service the HTTP API exposes.
type NewsService interface {
	Headlines(ctx context.Context, category string) <-chan news.Resource
	Search(ctx context.Context, query string) <-chan news.Resource
	Saved(ctx context.Context) ([]domain.Article, error)
	Article(ctx context.Context, url string) (*domain.Article, error)
	Save(ctx context.Context, article domain.Article) (domain.Article, error)
	Unsave(ctx context.Context, article domain.Article) (domain.Article, error)
	ClearCache(ctx context.Context) (int64, error)
}

type ArticlesResponse struct {
	Articles []domain.Article `json:"articles"`
	Count    int              `json:"count"`
}

type ArticleRequest struct {
	// URL identifies the article; it is an opaque key and is not checked as a link.
	URL string `json:"url"`
	// Article is saved as given when it is not cached yet, e.g. a remote search result.
	Article *domain.Article `json:"article,omitempty"`
}

func (r ArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required),
	)
}

type CacheResponse struct {
	Evicted int64 `json:"evicted"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type NewsRouter struct {
	e   *echo.Echo
	svc NewsService
}

func NewNewsRouter(e *echo.Echo, svc NewsService) *NewsRouter {
	return &NewsRouter{
		e:   e,
		svc: svc,
	}
}

func (r *NewsRouter) Bind() {
	r.e.GET("/headlines", r.headlinesHandler)
	r.e.GET("/headlines/stream", r.headlinesStreamHandler)
	r.e.GET("/search", r.searchHandler)
	r.e.GET("/search/stream", r.searchStreamHandler)
	r.e.GET("/categories", r.categoriesHandler)

	articles := r.e.Group("/articles")
	articles.GET("", r.articleHandler)
	articles.GET("/saved", r.savedHandler)
	articles.POST("/save", r.saveHandler)
	articles.POST("/unsave", r.unsaveHandler)
	articles.DELETE("/cache", r.clearCacheHandler)
}

// headlinesHandler godoc
// @Summary Top headlines
// @Description Fetches top headlines, falling back to the local cache when the News API is unreachable
// @Tags headlines
// @Produce json
// @Param category query string false "Category" Enums(general, business, entertainment, health, science, sports, technology)
// @Success 200 {object} ArticlesResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /headlines [get]
func (r *NewsRouter) headlinesHandler(c echo.Context) error {
	category, err := categoryParam(c)
	if err != nil {
		return err
	}
	return respond(c, news.Last(r.svc.Headlines(c.Request().Context(), category)))
}

// headlinesStreamHandler godoc
// @Summary Top headlines as a state stream
// @Description Streams every state (loading, success, error) as Server-Sent Events
// @Tags headlines
// @Produce text/event-stream
// @Param category query string false "Category"
// @Success 200 {object} news.Resource
// @Router /headlines/stream [get]
func (r *NewsRouter) headlinesStreamHandler(c echo.Context) error {
	category, err := categoryParam(c)
	if err != nil {
		return err
	}
	return stream(c, r.svc.Headlines(c.Request().Context(), category))
}

// searchHandler godoc
// @Summary Search articles
// @Description Searches the News API, falling back to cached matches
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} ArticlesResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /search [get]
func (r *NewsRouter) searchHandler(c echo.Context) error {
	return respond(c, news.Last(r.svc.Search(c.Request().Context(), c.QueryParam("q"))))
}

// searchStreamHandler godoc
// @Summary Search as a state stream
// @Description Streams loading, local matches and the final result as Server-Sent Events
// @Tags search
// @Produce text/event-stream
// @Param q query string true "Search query"
// @Success 200 {object} news.Resource
// @Router /search/stream [get]
func (r *NewsRouter) searchStreamHandler(c echo.Context) error {
	return stream(c, r.svc.Search(c.Request().Context(), c.QueryParam("q")))
}

// categoriesHandler godoc
// @Summary Supported categories
// @Tags headlines
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (r *NewsRouter) categoriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: domain.Categories})
}

// savedHandler godoc
// @Summary Saved articles
// @Description Lists saved articles, most recently saved first
// @Tags articles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.OffsetResult[domain.Article]
// @Router /articles/saved [get]
func (r *NewsRouter) savedHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	saved, err := r.svc.Saved(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.Paginate(saved, req))
}

// articleHandler godoc
// @Summary Cached article
// @Tags articles
// @Produce json
// @Param url query string true "Article URL"
// @Success 200 {object} domain.Article
// @Failure 404 {object} map[string]string
// @Router /articles [get]
func (r *NewsRouter) articleHandler(c echo.Context) error {
	url := strings.TrimSpace(c.QueryParam("url"))
	if url == "" {
		return apperr.NewValidation("url query parameter is required")
	}

	article, err := r.svc.Article(c.Request().Context(), url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// saveHandler godoc
// @Summary Save an article
// @Tags articles
// @Accept json
// @Produce json
// @Param request body ArticleRequest true "Article to save"
// @Success 200 {object} domain.Article
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /articles/save [post]
func (r *NewsRouter) saveHandler(c echo.Context) error {
	req, err := bindArticleRequest(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	article := req.Article
	if article == nil {
		if article, err = r.svc.Article(ctx, req.URL); err != nil {
			return err
		}
	}

	saved, err := r.svc.Save(ctx, *article)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

// unsaveHandler godoc
// @Summary Unsave an article
// @Tags articles
// @Accept json
// @Produce json
// @Param request body ArticleRequest true "Article to unsave"
// @Success 200 {object} domain.Article
// @Failure 404 {object} map[string]string
// @Router /articles/unsave [post]
func (r *NewsRouter) unsaveHandler(c echo.Context) error {
	req, err := bindArticleRequest(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	article, err := r.svc.Article(ctx, req.URL)
	if err != nil {
		return err
	}

	unsaved, err := r.svc.Unsave(ctx, *article)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unsaved)
}

// clearCacheHandler godoc
// @Summary Clear cache
// @Description Evicts every unsaved article from the local cache
// @Tags articles
// @Produce json
// @Success 200 {object} CacheResponse
// @Router /articles/cache [delete]
func (r *NewsRouter) clearCacheHandler(c echo.Context) error {
	n, err := r.svc.ClearCache(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CacheResponse{Evicted: n})
}

func categoryParam(c echo.Context) (string, error) {
	category := c.QueryParam("category")
	if err := domain.ValidateCategory(category); err != nil {
		return "", apperr.NewValidation(err.Error())
	}
	return domain.NormalizeCategory(category), nil
}

func bindArticleRequest(c echo.Context) (ArticleRequest, error) {
	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return req, apperr.NewValidationWrap("invalid request body", err)
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" && req.Article != nil {
		req.URL = req.Article.URL
	}
	if req.Article != nil && req.Article.URL != req.URL {
		return req, apperr.NewValidation("url does not match article url")
	}
	if err := req.Validate(); err != nil {
		return req, apperr.NewValidationWrap("invalid request body", err)
	}
	return req, nil
}

func respond(c echo.Context, state news.Resource) error {
	if state.Status == news.StatusError {
		return state.Err
	}
	return c.JSON(http.StatusOK, ArticlesResponse{Articles: state.Articles, Count: len(state.Articles)})
}

func stream(c echo.Context, states <-chan news.Resource) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	for state := range states {
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to encode state: %w", err)
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", state.Status, data); err != nil {
			return err
		}
		w.Flush()
	}
	return nil
}
