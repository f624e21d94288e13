package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/metrics"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

type ClientOption func(client *Client)

// Client talks to the News API v2 REST endpoints.
type Client struct {
	base    url.URL
	apiKey  string
	country string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	country := cfg.Country
	if country == "" {
		country = DefaultCountry
	}

	client := &Client{
		base:    *base,
		apiKey:  cfg.APIKey,
		country: country,
		http: &http.Client{
			Timeout: timeout,
		},
	}
	if cfg.RequestsPerMinute > 0 {
		client.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(client *Client) {
		client.limiter = limiter
	}
}

// TopHeadlines fetches the top headlines of the configured country.
// A blank category means no category filter.
func (c *Client) TopHeadlines(ctx context.Context, category string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("country", c.country)
	if category = strings.TrimSpace(category); category != "" {
		params.Set("category", category)
	}
	return c.fetch(ctx, "top-headlines", params)
}

// Search queries every indexed article, newest first.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	return c.fetch(ctx, "everything", params)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, apperr.NewNetwork("News API key is not configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperr.NewNetworkWrap("request cancelled while waiting for rate limit", err)
		}
	}

	params.Set("apiKey", c.apiKey)

	start := time.Now()
	var resp Response
	if err := c.do(ctx, path, params, &resp); err != nil {
		metrics.SourceRequestDuration.WithLabelValues(path, "error").Observe(time.Since(start).Seconds())
		return nil, err
	}
	metrics.SourceRequestDuration.WithLabelValues(path, "ok").Observe(time.Since(start).Seconds())

	articles := make([]domain.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if strings.TrimSpace(a.URL) == "" {
			slog.Debug("Skipping article without url", "title", a.Title)
			continue
		}
		articles = append(articles, a.ToDomain())
	}
	return articles, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values, respData *Response) error {
	reqURL := c.base.JoinPath(path)
	reqURL.RawQuery = params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return apperr.NewNetworkWrap("failed to build request", err)
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return apperr.NewNetworkWrap(transportMessage(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(respData); err != nil {
		return apperr.NewNetworkWrap("invalid response from News API", err)
	}
	if respData.Status != statusOK {
		return apperr.NewNetwork(remoteMessage(respData.Code, respData.Message))
	}
	return nil
}

func transportMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		return "request to News API timed out"
	}
	return "unable to reach News API, check your connection"
}

func statusError(status int, body []byte) error {
	var remote Response
	if err := json.Unmarshal(body, &remote); err == nil && remote.Message != "" {
		return apperr.NewNetworkWrap(
			remoteMessage(remote.Code, remote.Message),
			fmt.Errorf("unexpected status code: %d", status),
		)
	}
	return apperr.NewNetworkWrap(
		fmt.Sprintf("News API returned %d %s", status, http.StatusText(status)),
		fmt.Errorf("unexpected status code: %d, body: %s", status, string(body)),
	)
}

func remoteMessage(code, message string) string {
	switch {
	case message != "":
		return "News API error: " + message
	case code != "":
		return "News API error: " + code
	default:
		return "News API returned an unexpected status"
	}
}
