package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/daily-news/internal/app"
	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/notify"
	"github.com/DjordjeVuckovic/daily-news/pkg/logging"
	"github.com/spf13/cobra"
)

const defaultEnvPath = "cmd/news_cli/.env"

type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	output  string
	verbose bool
	app     *app.App
	cfg     *app.Config
}

func newRootCmd(c *cli, info buildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "news_cli",
		Short:         "Top headlines and article search from the terminal",
		Long:          "Fetches top headlines and searches articles through News API, keeping a local cache that is used when the network is unavailable.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationSkipApp] == "true" {
				return nil
			}
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.output, "output", "o", formatTable, "output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newHeadlinesCmd(c),
		newSearchCmd(c),
		newSavedCmd(c),
		newSaveCmd(c),
		newUnsaveCmd(c),
		newClearCacheCmd(c),
		newCheckCmd(c),
		newWatchCmd(c),
		newVersionCmd(info),
	)

	return root
}

const annotationSkipApp = "skip-app"

func (c *cli) open(cmd *cobra.Command) error {
	if err := validateFormat(c.output); err != nil {
		return err
	}

	cfg, err := app.LoadConfig(defaultEnvPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = slog.LevelDebug
	}
	logging.Setup(cfg.Log)

	a, err := app.New(cmd.Context(), cfg, notify.NewConsoleNotifier(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.app = a
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func newVersionCmd(info buildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{annotationSkipApp: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "news_cli %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, info buildInfo) int {
	c := &cli{}
	root := newRootCmd(c, info)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil {
		slog.Error("Failed to close resources", "error", cerr)
	}
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", apperr.UserMessage(err))
		return 1
	}
	return 0
}
