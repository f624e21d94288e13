package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
	"github.com/DjordjeVuckovic/daily-news/internal/news"
	"github.com/DjordjeVuckovic/daily-news/internal/storage"
	"github.com/spf13/cobra"
)

func newHeadlinesCmd(c *cli) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "headlines",
		Short: "Show top headlines, falling back to cached articles when offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateCategory(category); err != nil {
				return apperr.NewValidation(err.Error())
			}
			state := c.app.News.HeadlinesSync(cmd.Context(), domain.NormalizeCategory(category))
			return c.printState(cmd, state)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "",
		fmt.Sprintf("headline category (%s)", strings.Join(domain.Categories, ", ")))
	return cmd
}

func newSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search articles, showing cached matches when offline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := c.app.News.SearchSync(cmd.Context(), strings.Join(args, " "))
			return c.printState(cmd, state)
		},
	}
}

func newSavedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved articles, most recently saved first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := c.app.News.Saved(cmd.Context())
			if err != nil {
				return err
			}
			return printArticles(cmd.OutOrStdout(), c.output, saved)
		},
	}
}

func newSaveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "save <url>",
		Short: "Save a cached article so it survives cache eviction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := c.cachedArticle(cmd, args[0])
			if err != nil {
				return err
			}
			saved, err := c.app.News.Save(cmd.Context(), *article)
			if err != nil {
				return err
			}
			return printArticle(cmd.OutOrStdout(), c.output, saved)
		},
	}
}

func newUnsaveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <url>",
		Short: "Remove an article from the saved list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := c.cachedArticle(cmd, args[0])
			if err != nil {
				return err
			}
			unsaved, err := c.app.News.Unsave(cmd.Context(), *article)
			if err != nil {
				return err
			}
			return printArticle(cmd.OutOrStdout(), c.output, unsaved)
		},
	}
}

type clearCacheResult struct {
	Evicted int64 `json:"evicted" yaml:"evicted"`
}

func newClearCacheCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete every cached article that is not saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.News.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Removed %d cached article(s).", n)
			if n == 0 {
				msg = "Nothing to remove."
			}
			return printValue(cmd.OutOrStdout(), c.output, msg, clearCacheResult{Evicted: n})
		},
	}
}

func (c *cli) cachedArticle(cmd *cobra.Command, url string) (*domain.Article, error) {
	url = strings.TrimSpace(url)
	article, err := c.app.News.Article(cmd.Context(), url)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("article %s is not cached, load it with headlines or search first: %w", url, err)
	}
	return article, err
}

func (c *cli) printState(cmd *cobra.Command, state news.Resource) error {
	if state.Status == news.StatusError {
		return state.Err
	}
	return printArticles(cmd.OutOrStdout(), c.output, state.Articles)
}
