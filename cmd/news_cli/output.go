package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/pkg/stringsutil"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const maxTitleWidth = 60

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, expected table, json or yaml", format)
	}
}

// articleView is the printed shape of an article.
type articleView struct {
	Title       string `json:"title" yaml:"title"`
	Source      string `json:"source" yaml:"source"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Category    string `json:"category" yaml:"category"`
	Published   string `json:"published" yaml:"published"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Saved       bool   `json:"saved" yaml:"saved"`
}

func toView(a domain.Article) articleView {
	return articleView{
		Title:       a.Title,
		Source:      a.Source.Name,
		Author:      a.Author,
		Category:    a.Category,
		Published:   a.FormatPublished(),
		URL:         a.URL,
		Description: a.Description,
		Saved:       a.IsSaved,
	}
}

func printArticles(w io.Writer, format string, articles []domain.Article) error {
	views := make([]articleView, len(articles))
	for i, a := range articles {
		views[i] = toView(a)
	}

	switch format {
	case formatJSON:
		return printJSON(w, views)
	case formatYAML:
		return printYAML(w, views)
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("No articles."))
		return err
	}
	_, err := fmt.Fprintln(w, articleTable(views))
	return err
}

func printArticle(w io.Writer, format string, article domain.Article) error {
	switch format {
	case formatJSON:
		return printJSON(w, toView(article))
	case formatYAML:
		return printYAML(w, toView(article))
	}
	_, err := fmt.Fprintln(w, articleTable([]articleView{toView(article)}))
	return err
}

// printValue writes a plain message in table mode and v otherwise.
func printValue(w io.Writer, format string, message string, v any) error {
	switch format {
	case formatJSON:
		return printJSON(w, v)
	case formatYAML:
		return printYAML(w, v)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}

func articleTable(views []articleView) string {
	rows := make([][]string, len(views))
	for i, v := range views {
		saved := ""
		if v.Saved {
			saved = "*"
		}
		rows[i] = []string{saved, stringsutil.Truncate(v.Title, maxTitleWidth), v.Source, v.Published, v.URL}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("", "TITLE", "SOURCE", "PUBLISHED", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return savedStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
