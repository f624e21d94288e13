// Package app wires the article store, the News API client and the services built on them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/daily-news/internal/checker"
	"github.com/DjordjeVuckovic/daily-news/internal/news"
	"github.com/DjordjeVuckovic/daily-news/internal/newsapi"
	"github.com/DjordjeVuckovic/daily-news/internal/notify"
	"github.com/DjordjeVuckovic/daily-news/internal/scheduler"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/factory"
	"github.com/DjordjeVuckovic/daily-news/pkg/config/env"
	"github.com/DjordjeVuckovic/daily-news/pkg/logging"
)

type Config struct {
	Env       string
	Log       logging.Config
	Storage   factory.StorageConfig
	NewsAPI   newsapi.Config
	Scheduler scheduler.Config
}

// LoadConfig reads the optional .env file and then every package's environment config.
func LoadConfig(defaultEnvPath string) (*Config, error) {
	appEnv := os.Getenv("ENV")
	if err := env.LoadDotEnv(appEnv, defaultEnvPath); err != nil {
		return nil, err
	}

	logCfg, err := logging.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	apiCfg, err := newsapi.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load News API config: %w", err)
	}

	schedCfg, err := scheduler.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduler config: %w", err)
	}

	return &Config{
		Env:       appEnv,
		Log:       *logCfg,
		Storage:   *storageCfg,
		NewsAPI:   *apiCfg,
		Scheduler: *schedCfg,
	}, nil
}

type App struct {
	Store   storage.Store
	Source  *newsapi.Client
	News    *news.Service
	Checker *checker.Checker
	Runner  *scheduler.Runner
}

// New opens the store and builds the services. Close releases the store.
func New(ctx context.Context, cfg *Config, notifier notify.Notifier) (*App, error) {
	store, err := factory.NewStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	client, err := newsapi.NewClient(cfg.NewsAPI)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create News API client: %w", err)
	}
	if cfg.NewsAPI.APIKey == "" {
		slog.Warn("NEWS_API_KEY is not set, only cached articles will be available")
	}

	chk := checker.New(store, client, notifier)

	return &App{
		Store:   store,
		Source:  client,
		News:    news.NewService(store, client),
		Checker: chk,
		Runner:  scheduler.NewRunner(chk, cfg.Scheduler),
	}, nil
}

func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("failed to close article store: %w", err)
	}
	return nil
}
