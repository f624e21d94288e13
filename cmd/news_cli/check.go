package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type cycleResult struct {
	ID       string `json:"id" yaml:"id"`
	Outcome  string `json:"outcome" yaml:"outcome"`
	Attempts int    `json:"attempts" yaml:"attempts"`
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check once for new headlines and print a notification for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cycle, err := c.app.Runner.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			res := cycleResult{ID: cycle.ID, Outcome: cycle.Outcome.String(), Attempts: cycle.Attempts}
			msg := fmt.Sprintf("Update check finished: %s after %d attempt(s).", res.Outcome, res.Attempts)
			return printValue(cmd.OutOrStdout(), c.output, msg, res)
		},
	}
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Check for new headlines periodically until interrupted",
		Long: `Runs the update check on a schedule: every CHECK_INTERVAL, at a random
instant inside the last CHECK_FLEX of the interval. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sched := c.cfg.Scheduler
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching for new headlines every %s (flex %s). Press Ctrl+C to stop.\n",
				sched.Interval, sched.Flex)
			return c.app.Runner.Run(cmd.Context())
		},
	}
}
