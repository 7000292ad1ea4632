package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/handoff/cli"
	"github.com/grovetools/handoff/session"
)

// NewLocateCmd creates the `locate` command
func NewLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate [branch]",
		Short: "Print the session id for the current directory and branch",
		Long: `Scans the local session-log store for logs whose first record matches
the working directory and branch, and prints the id of the most recently
modified match to stdout. Diagnostics go to stderr so the output is safe
to capture in scripts.`,
		Args: cobra.MaximumNArgs(1),
	}

	cmd.Flags().Bool("all", false, "List every matching session, newest last")

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

		locator := session.NewLocator(tc.store)

		if all, _ := cmd.Flags().GetBool("all"); all {
			matches, err := locator.LocateAll(cmd.Context(), tc.cwd, branch)
			if err != nil {
				return handler.Handle(err)
			}
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(matches, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s\t%s\n", m.SessionID, m.ModTime.Format("2006-01-02 15:04:05"))
			}
			return nil
		}

		located, err := locator.Locate(cmd.Context(), tc.cwd, branch)
		if err != nil {
			return handler.Handle(err)
		}

		fmt.Println(located.SessionID)
		return nil
	}

	return cmd
}
