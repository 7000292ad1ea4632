package main

import (
	"os"

	"github.com/grovetools/handoff/cli"
	"github.com/grovetools/handoff/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"handoff",
		"Publish and restore Claude Code sessions through release assets",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewLocateCmd())
	rootCmd.AddCommand(cmd.NewPublishCmd())
	rootCmd.AddCommand(cmd.NewRestoreCmd())
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		if !cli.WasHandled(err) {
			cli.PrintError(rootCmd, err)
		}
		os.Exit(1)
	}
}
