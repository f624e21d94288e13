package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/metrics"
	"github.com/charmbracelet/lipgloss"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 1)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Faint(true)
)

// ConsoleNotifier prints a boxed notification to w.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Notify(ctx context.Context, articles []domain.Article) {
	if len(articles) == 0 {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := fmt.Fprintln(n.w, Format(Render(articles))); err != nil {
		slog.Warn("Failed to write notification", "error", err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues("console").Inc()
}

// Format renders a notification as a styled block of text.
func Format(notification Notification) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(notification.Title))
	b.WriteString("\n")
	b.WriteString(notification.Text)
	for _, line := range notification.Lines {
		b.WriteString("\n  ")
		b.WriteString(line)
	}
	if notification.Summary != "" {
		b.WriteString("\n")
		b.WriteString(summaryStyle.Render(notification.Summary))
	}
	if notification.URL != "" {
		b.WriteString("\n")
		b.WriteString(summaryStyle.Render(notification.URL))
	}
	return boxStyle.Render(b.String())
}
