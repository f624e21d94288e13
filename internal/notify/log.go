package notify

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/metrics"
)

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, articles []domain.Article) {
	if len(articles) == 0 {
		return
	}
	notification := Render(articles)
	n.logger.InfoContext(ctx, "New articles available",
		"id", notification.ID,
		"title", notification.Title,
		"count", notification.Count,
		"urls", domain.URLs(articles),
	)
	metrics.NotificationsTotal.WithLabelValues("log").Inc()
}
