package newsapi

import "github.com/DjordjeVuckovic/daily-news/internal/domain"

const statusOK = "ok"

type Response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToDomain maps a remote article. JSON nulls arrive as empty strings.
func (a Article) ToDomain() domain.Article {
	return domain.Article{
		URL:         a.URL,
		Title:       a.Title,
		Description: a.Description,
		ImageURL:    a.URLToImage,
		PublishedAt: a.PublishedAt,
		Content:     a.Content,
		Author:      a.Author,
		Source:      domain.Source{ID: a.Source.ID, Name: a.Source.Name},
	}
}
