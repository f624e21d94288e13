package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	pkgserver "github.com/DjordjeVuckovic/daily-news/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downChecker struct{}

func (downChecker) Healthy(context.Context) bool { return false }

func newTestServer(hc pkgserver.HealthChecker) *Server {
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}}, hc).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics")
	return s
}

func TestServer_HealthCheck(t *testing.T) {
	s := newTestServer(pkgserver.NewOkHealthChecker())
	t.Cleanup(s.Stop)

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := newTestServer(downChecker{})
	t.Cleanup(down.Stop)

	rec = httptest.NewRecorder()
	down.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(pkgserver.NewOkHealthChecker())
	t.Cleanup(s.Stop)

	s.Echo.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `daily_news_http_requests_total{method="GET",path="/health",status="200"}`)
}

func TestServer_ErrorHandler(t *testing.T) {
	s := newTestServer(pkgserver.NewOkHealthChecker())
	t.Cleanup(s.Stop)
	s.Echo.GET("/fail", func(c echo.Context) error {
		return apperr.NewNetwork("News API error: rate limited")
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limited")
}

func TestServer_StartStopsOnShutdown(t *testing.T) {
	s := newTestServer(pkgserver.NewOkHealthChecker())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	s.Stop()
	assert.NoError(t, <-errCh)
	assert.Error(t, s.Context().Err())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("USE_HTTP2", "true")
	t.Setenv("CORS_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.UseHttp2)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CorsOrigins)

	t.Setenv("CORS_ORIGINS", "")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.CorsOrigins)

	t.Setenv("PORT", "99999")
	_, err = LoadConfig()
	assert.Error(t, err)
}
