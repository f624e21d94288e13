package domain

import (
	"strings"
	"time"
)

const ArticleDefaultCategory = CategoryGeneral

// PublishedDateLayout is the layout used when rendering PublishedAt for humans.
const PublishedDateLayout = "Jan 02, 2006"

type Article struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content,omitempty"`
	Author      string `json:"author,omitempty"`
	Source      Source `json:"source"`
	Category    string `json:"category"`
	IsSaved     bool   `json:"isSaved"`
	// SavedAt is epoch millis, 0 while the article is not saved.
	SavedAt int64 `json:"savedAt"`
}

type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// MarkSaved returns a copy of the article flagged as saved at now.
func (a Article) MarkSaved(now time.Time) Article {
	a.IsSaved = true
	a.SavedAt = now.UnixMilli()
	if a.SavedAt <= 0 {
		a.SavedAt = 1
	}
	return a
}

// MarkUnsaved returns a copy of the article with the saved flag cleared.
func (a Article) MarkUnsaved() Article {
	a.IsSaved = false
	a.SavedAt = 0
	return a
}

// WithCategory returns a copy stamped with category, or the default when category is blank.
func (a Article) WithCategory(category string) Article {
	a.Category = CategoryOrDefault(category)
	return a
}

// SavedTime returns the time the article was saved, zero when unsaved.
func (a Article) SavedTime() time.Time {
	if !a.IsSaved || a.SavedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(a.SavedAt)
}

func (a Article) PublishedDate() (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(a.PublishedAt))
}

// FormatPublished renders PublishedAt as "Jan 02, 2006". Unparseable timestamps are returned as is.
func (a Article) FormatPublished() string {
	t, err := a.PublishedDate()
	if err != nil {
		return a.PublishedAt
	}
	return t.Format(PublishedDateLayout)
}

// URLs returns the identities of the given articles in order.
func URLs(articles []Article) []string {
	urls := make([]string, len(articles))
	for i, a := range articles {
		urls[i] = a.URL
	}
	return urls
}
