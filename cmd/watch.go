package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/handoff/cli"
	"github.com/grovetools/handoff/handoff"
)

// NewWatchCmd creates the `watch` command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [branch]",
		Short: "Republish the session whenever its log changes",
		Long: `Watches the local session directory for the working directory and
republishes the branch's session after each burst of log writes,
debounced by the interval. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
	}

	cmd.Flags().Duration("interval", 30*time.Second, "Debounce interval between publishes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

		tc, err := newToolchain(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		branch, err := resolveBranch(args, tc.cwd, "")
		if err != nil {
			return handler.Handle(err)
		}

		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		publisher := handoff.NewPublisher(tc.cfg, tc.store, tc.assets, tc.arc)
		watcher := handoff.NewWatcher(tc.cfg, publisher, interval)

		if err := watcher.Watch(ctx, tc.cwd, branch); err != nil && ctx.Err() == nil {
			return handler.Handle(err)
		}
		return nil
	}

	return cmd
}
