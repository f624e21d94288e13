package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const headlinesBody = `{
	"status": "ok",
	"totalResults": 3,
	"articles": [
		{
			"source": {"id": "bbc-news", "name": "BBC News"},
			"author": null,
			"title": "First",
			"description": "First description",
			"url": "https://example.com/1",
			"urlToImage": "https://example.com/1.jpg",
			"publishedAt": "2024-01-02T10:00:00Z",
			"content": "Body"
		},
		{
			"source": {"id": null, "name": "Wire"},
			"author": "Jane",
			"title": "Second",
			"description": null,
			"url": "https://example.com/2",
			"urlToImage": null,
			"publishedAt": "2024-01-01T10:00:00Z",
			"content": null
		},
		{
			"source": {"id": null, "name": "Wire"},
			"title": "[Removed]",
			"url": ""
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:  "secret",
		BaseURL: srv.URL + "/v2",
		Country: "us",
		Timeout: time.Second,
	}, opts...)
	require.NoError(t, err)
	return client
}

func requireNetworkError(t *testing.T, err error) *apperr.NetworkError {
	t.Helper()
	require.Error(t, err)
	var netErr *apperr.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.NotEmpty(t, netErr.Message)
	return netErr
}

func TestClient_TopHeadlines(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/top-headlines", r.URL.Path)
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, "sports", r.URL.Query().Get("category"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(headlinesBody))
	})

	articles, err := client.TopHeadlines(context.Background(), "sports")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "https://example.com/1", articles[0].URL)
	assert.Equal(t, "BBC News", articles[0].Source.Name)
	assert.Equal(t, "bbc-news", articles[0].Source.ID)
	assert.Equal(t, "https://example.com/1.jpg", articles[0].ImageURL)
	assert.Empty(t, articles[0].Author)
	assert.False(t, articles[0].IsSaved)

	assert.Empty(t, articles[1].Description)
	assert.Empty(t, articles[1].Source.ID)
	assert.Equal(t, "Jane", articles[1].Author)
}

func TestClient_TopHeadlinesWithoutCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["category"]
		assert.False(t, ok)
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	})

	articles, err := client.TopHeadlines(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "golang generics", r.URL.Query().Get("q"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		_, _ = w.Write([]byte(headlinesBody))
	})

	articles, err := client.Search(context.Background(), "golang generics")
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantMessage string
	}{
		{
			name: "error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
			},
			wantMessage: "News API error: Your API key is invalid.",
		},
		{
			name: "non json error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			wantMessage: "News API returned 502 Bad Gateway",
		},
		{
			name: "status not ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
			},
			wantMessage: "News API error: rateLimited",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"ok","articles":[`))
			},
			wantMessage: "invalid response from News API",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			articles, err := client.TopHeadlines(context.Background(), "")
			assert.Nil(t, articles)
			netErr := requireNetworkError(t, err)
			assert.Equal(t, tt.wantMessage, netErr.Message)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.TopHeadlines(context.Background(), "")
	netErr := requireNetworkError(t, err)
	assert.Equal(t, "request to News API timed out", netErr.Message)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: baseURL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "x")
	requireNetworkError(t, err)
}

func TestClient_MissingAPIKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.TopHeadlines(context.Background(), "")
	requireNetworkError(t, err)
	_, err = client.Search(context.Background(), "x")
	requireNetworkError(t, err)
	assert.Zero(t, calls)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}, WithRateLimiter(limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.TopHeadlines(ctx, "")
	requireNetworkError(t, err)
}

func TestClient_WithHttpClient(t *testing.T) {
	var seen bool
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = true
		return nil, fmt.Errorf("offline")
	})

	client, err := NewClient(Config{APIKey: "k", BaseURL: DefaultBaseURL},
		WithHttpClient(&http.Client{Transport: transport}))
	require.NoError(t, err)

	_, err = client.TopHeadlines(context.Background(), "")
	requireNetworkError(t, err)
	assert.True(t, seen)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
