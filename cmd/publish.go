package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/handoff/cli"
	"github.com/grovetools/handoff/handoff"
)

// NewPublishCmd creates the `publish` command
func NewPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [branch]",
		Short: "Archive the current session and upload it under the branch's tag",
		Long: `Locates the newest session log for the working directory and branch,
packages it with a metadata record, and upserts both as release assets
under the tag <prefix><branch>. Finding no session is a successful no-op
so automation hooks stay non-fatal.`,
		Args: cobra.MaximumNArgs(1),
	}

	cmd.Flags().Bool("dry-run", false, "Package the session but skip the upload")

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

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		publisher := handoff.NewPublisher(tc.cfg, tc.store, tc.assets, tc.arc)
		result, err := publisher.Publish(cmd.Context(), tc.cwd, branch, dryRun)
		if err != nil {
			return handler.Handle(err)
		}

		if result.Published {
			fmt.Println(result.SessionID)
		}
		return nil
	}

	return cmd
}
