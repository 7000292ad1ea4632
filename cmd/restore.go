package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/handoff/cli"
	"github.com/grovetools/handoff/handoff"
)

// NewRestoreCmd creates the `restore` command
func NewRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [branch]",
		Short: "Download the branch's published session into the local log store",
		Long: `Downloads the archive published under the branch's tag, extracts the
session log into the store directory for the working directory, and
rewrites path references when the session was recorded elsewhere. A
branch with no published session is a successful no-op.

In CI the session id and restore outcome are appended to GITHUB_OUTPUT
and GITHUB_ENV when those files are available.`,
		Args: cobra.MaximumNArgs(1),
	}

	cmd.Flags().String("dest", "", "Extract into this directory instead of the log store")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

		tc, err := newToolchain(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		// Detached-HEAD checkouts are common in CI, so restore falls back
		// to a fixed branch rather than failing.
		branch, err := resolveBranch(args, tc.cwd, defaultRestoreBranch)
		if err != nil {
			return handler.Handle(err)
		}

		dest, _ := cmd.Flags().GetString("dest")

		restorer := handoff.NewRestorer(tc.cfg, tc.store, tc.assets, tc.arc)
		result, err := restorer.Restore(cmd.Context(), tc.cwd, branch, dest)
		if err != nil {
			return handler.Handle(err)
		}

		if err := handoff.ExportCIOutputs(result); err != nil {
			return handler.Handle(err)
		}

		if result.Restored && result.SessionID != "" {
			fmt.Println(result.SessionID)
		}
		return nil
	}

	return cmd
}
