// Package main Daily News API
// @title Daily News API
// @version 1.0
// @description Top headlines and article search backed by a local cache with offline fallback
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/DjordjeVuckovic/daily-news/docs"
	"github.com/DjordjeVuckovic/daily-news/internal/app"
	"github.com/DjordjeVuckovic/daily-news/internal/notify"
	"github.com/DjordjeVuckovic/daily-news/internal/router"
	"github.com/DjordjeVuckovic/daily-news/internal/server"
	"github.com/DjordjeVuckovic/daily-news/internal/storage/factory"
	"github.com/DjordjeVuckovic/daily-news/pkg/logging"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Daily News API stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig("cmd/news_api/.env")
	if err != nil {
		return fmt.Errorf("failed to load app configuration: %w", err)
	}
	logger := logging.Setup(cfg.Log)

	sCfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	a, err := app.New(context.Background(), cfg, notify.Multi{notify.NewLogNotifier(logger)})
	if err != nil {
		return fmt.Errorf("failed to initialise application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close resources", "error", err)
		}
	}()

	s := server.New(sCfg, factory.NewHealthChecker(a.Store)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*").
		SetupMetrics("/metrics")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Daily News API is running")
	})

	router.NewNewsRouter(s.Echo, a.News).Bind()

	g, ctx := errgroup.WithContext(s.Context())
	g.Go(s.Start)
	if cfg.Scheduler.Enabled {
		g.Go(func() error {
			return a.Runner.Run(ctx)
		})
	} else {
		slog.Info("Background update check disabled")
	}

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	return g.Wait()
}
