// Package notify tells the user about newly discovered headlines.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/google/uuid"
)

const (
	maxLines    = 5
	defaultText = "Check out the latest news"
)

// Notifier receives a non-empty batch of new articles. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, articles []domain.Article)
}

type Notification struct {
	ID      string
	Title   string
	Text    string
	Summary string
	Lines   []string
	Count   int
	// URL links the article of a single-article notification.
	URL string
}

// Render builds the notification shown for articles.
func Render(articles []domain.Article) Notification {
	n := Notification{
		ID:    uuid.NewString(),
		Count: len(articles),
	}

	if len(articles) == 1 {
		a := articles[0]
		n.Title = a.Title
		n.Text = a.Description
		if strings.TrimSpace(n.Text) == "" {
			n.Text = defaultText
		}
		n.Summary = a.Source.Name
		n.URL = a.URL
		return n
	}

	n.Title = fmt.Sprintf("%d new articles available", len(articles))
	n.Text = defaultText
	for i, a := range articles {
		if i == maxLines {
			n.Lines = append(n.Lines, fmt.Sprintf("+%d more", len(articles)-maxLines))
			break
		}
		n.Lines = append(n.Lines, a.Source.Name+": "+a.Title)
	}
	return n
}

// Multi fans a batch out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, articles []domain.Article) {
	for _, n := range m {
		n.Notify(ctx, articles)
	}
}
