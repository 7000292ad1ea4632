package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/handoff/command"
	"github.com/grovetools/handoff/errors"
	"github.com/grovetools/handoff/logging"
	"github.com/sirupsen/logrus"
)

// GHClient implements AssetStore by shelling out to the gh CLI. Repository
// selection, authentication and network behavior (timeouts, retries) are
// inherited from gh itself.
type GHClient struct {
	builder *command.SafeBuilder
	log     *logrus.Entry

	// dir is the working directory gh runs in; gh derives the target
	// repository from it. Empty means the process working directory.
	dir string
}

// Ensure it implements the interface
var _ AssetStore = (*GHClient)(nil)

// NewGHClient creates a gh-backed asset store operating in dir
func NewGHClient(dir string) *GHClient {
	return NewGHClientWithExecutor(dir, &command.RealExecutor{})
}

// NewGHClientWithExecutor creates a GHClient with a custom command executor
func NewGHClientWithExecutor(dir string, exec command.Executor) *GHClient {
	return &GHClient{
		builder: command.NewSafeBuilderWithExecutor(exec),
		log:     logging.NewLogger("release"),
		dir:     dir,
	}
}

// Preflight fails before any side effect when gh is absent
func (c *GHClient) Preflight() error {
	if _, err := c.builder.LookPath("gh"); err != nil {
		return errors.PreconditionMissing("gh")
	}
	return nil
}

// TagExists checks the tag via `gh release view`
func (c *GHClient) TagExists(ctx context.Context, tag string) (bool, error) {
	if err := c.builder.Validate("tagName", tag); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid tag name")
	}

	// gh exits non-zero both for a missing release and for real failures;
	// the original tooling treats every non-zero as "does not exist" and
	// lets the subsequent create surface genuine problems.
	_, err := c.run(ctx, "release", "view", tag)
	if err != nil {
		c.log.WithField("tag", tag).Debug("Release view failed, treating tag as absent")
		return false, nil
	}
	return true, nil
}

// CreateDraft creates the tag as a draft release carrying the assets
func (c *GHClient) CreateDraft(ctx context.Context, tag, title, notes string, assetPaths []string) error {
	if err := c.builder.Validate("tagName", tag); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid tag name")
	}
	for _, p := range assetPaths {
		if err := c.builder.Validate("fileName", p); err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid asset path")
		}
	}

	args := append([]string{"release", "create", tag,
		"--draft",
		"--title", title,
		"--notes", notes,
	}, assetPaths...)

	if out, err := c.run(ctx, args...); err != nil {
		return errors.UploadFailed(tag, err).WithDetail("output", out)
	}

	c.log.WithFields(logrus.Fields{"tag": tag, "assets": len(assetPaths)}).Info("Created draft release")
	return nil
}

// UploadAssets uploads assets to an existing tag, overwriting same-named ones
func (c *GHClient) UploadAssets(ctx context.Context, tag string, assetPaths []string) error {
	if err := c.builder.Validate("tagName", tag); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid tag name")
	}
	for _, p := range assetPaths {
		if err := c.builder.Validate("fileName", p); err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid asset path")
		}
	}

	args := append([]string{"release", "upload", tag}, assetPaths...)
	args = append(args, "--clobber")

	if out, err := c.run(ctx, args...); err != nil {
		return errors.UploadFailed(tag, err).WithDetail("output", out)
	}

	c.log.WithFields(logrus.Fields{"tag": tag, "assets": len(assetPaths)}).Info("Uploaded assets")
	return nil
}

// DeleteAsset removes one named asset from the tag
func (c *GHClient) DeleteAsset(ctx context.Context, tag, name string) error {
	if err := c.builder.Validate("tagName", tag); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid tag name")
	}
	if err := c.builder.Validate("assetName", name); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid asset name")
	}

	if out, err := c.run(ctx, "release", "delete-asset", tag, name, "--yes"); err != nil {
		return errors.Wrap(err, errors.ErrCodeCommandFailed,
			fmt.Sprintf("failed to delete asset '%s' from tag '%s'", name, tag)).
			WithDetail("output", out)
	}
	return nil
}

// DownloadAsset fetches one named asset into destDir
func (c *GHClient) DownloadAsset(ctx context.Context, tag, name, destDir string) error {
	if err := c.builder.Validate("tagName", tag); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid tag name")
	}
	if err := c.builder.Validate("assetName", name); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid asset name")
	}

	out, err := c.run(ctx, "release", "download", tag, "--pattern", name, "--dir", destDir)
	if err != nil {
		return errors.DownloadFailed(tag, name, err).WithDetail("output", out)
	}
	return nil
}

// run executes gh with the given arguments and returns combined output
func (c *GHClient) run(ctx context.Context, args ...string) (string, error) {
	cmd, err := c.builder.Build(ctx, "gh", args...)
	if err != nil {
		return "", err
	}

	execCmd := cmd.Exec()
	execCmd.Dir = c.dir
	out, err := execCmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), err
	}
	return strings.TrimSpace(string(out)), nil
}
