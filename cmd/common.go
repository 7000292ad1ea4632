package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/handoff/archive"
	"github.com/grovetools/handoff/cli"
	"github.com/grovetools/handoff/config"
	"github.com/grovetools/handoff/errors"
	"github.com/grovetools/handoff/git"
	"github.com/grovetools/handoff/release"
	"github.com/grovetools/handoff/session"
)

// defaultRestoreBranch is the branch a restore falls back to when no
// branch is given and the working directory is not a checkout. Publishing
// has no such fallback; publishing the wrong branch's session is worse
// than publishing nothing.
const defaultRestoreBranch = "main"

// toolchain bundles the collaborators every subcommand wires up.
type toolchain struct {
	cfg    *config.Config
	cwd    string
	store  session.Store
	assets release.AssetStore
	arc    archive.Archiver
}

func newToolchain(cmd *cobra.Command) (*toolchain, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to determine working directory")
	}

	return &toolchain{
		cfg:    cfg,
		cwd:    cwd,
		store:  session.NewFSStore(cfg.ProjectsDir),
		assets: release.NewGHClient(cwd),
		arc:    archive.NewTarGz(),
	}, nil
}

// resolveBranch returns the branch to operate on: the positional argument
// when given, else the current git branch. fallback is used when neither
// is available; an empty fallback makes that an error instead.
func resolveBranch(args []string, cwd, fallback string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	branch, err := git.CurrentBranch(cwd)
	if err == nil {
		return branch, nil
	}

	if fallback != "" {
		return fallback, nil
	}
	return "", errors.NoBranch()
}
