package release

import (
	"context"
	"os/exec"
	"testing"

	"github.com/grovetools/handoff/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor captures gh invocations and substitutes a harmless
// command with a scripted exit status.
type recordingExecutor struct {
	calls    [][]string
	fail     bool
	lookErr  error
	lookPath string
}

func (e *recordingExecutor) Command(name string, args ...string) *exec.Cmd {
	return e.CommandContext(context.Background(), name, args...)
}

func (e *recordingExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	e.calls = append(e.calls, append([]string{name}, args...))
	if e.fail {
		return exec.CommandContext(ctx, "false")
	}
	return exec.CommandContext(ctx, "true")
}

func (e *recordingExecutor) LookPath(name string) (string, error) {
	if e.lookErr != nil {
		return "", e.lookErr
	}
	if e.lookPath != "" {
		return e.lookPath, nil
	}
	return "/usr/bin/" + name, nil
}

func lastCall(t *testing.T, e *recordingExecutor) []string {
	t.Helper()
	require.NotEmpty(t, e.calls)
	return e.calls[len(e.calls)-1]
}

func TestPreflight(t *testing.T) {
	exec := &recordingExecutor{}
	client := NewGHClientWithExecutor("", exec)
	require.NoError(t, client.Preflight())

	exec.lookErr = assert.AnError
	err := client.Preflight()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodePreconditionMissing))
}

func TestTagExists(t *testing.T) {
	exec := &recordingExecutor{}
	client := NewGHClientWithExecutor("", exec)

	exists, err := client.TagExists(context.Background(), "claude-sessions-main")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []string{"gh", "release", "view", "claude-sessions-main"}, lastCall(t, exec))

	// Non-zero gh exit means the tag is absent, not an error
	exec.fail = true
	exists, err = client.TagExists(context.Background(), "claude-sessions-main")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTagExistsRejectsUnsafeTag(t *testing.T) {
	client := NewGHClientWithExecutor("", &recordingExecutor{})

	_, err := client.TagExists(context.Background(), "tag;rm -rf /")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCreateDraft(t *testing.T) {
	exec := &recordingExecutor{}
	client := NewGHClientWithExecutor("", exec)

	err := client.CreateDraft(context.Background(), "claude-sessions-feature/foo",
		"Claude session for feature/foo", "Session abc", []string{"/tmp/a.tar.gz", "/tmp/m.json"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"gh", "release", "create", "claude-sessions-feature/foo",
		"--draft",
		"--title", "Claude session for feature/foo",
		"--notes", "Session abc",
		"/tmp/a.tar.gz", "/tmp/m.json",
	}, lastCall(t, exec))
}

func TestCreateDraftFailure(t *testing.T) {
	exec := &recordingExecutor{fail: true}
	client := NewGHClientWithExecutor("", exec)

	err := client.CreateDraft(context.Background(), "claude-sessions-main", "t", "n", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUploadFailed))
}

func TestUploadAssetsUsesClobber(t *testing.T) {
	exec := &recordingExecutor{}
	client := NewGHClientWithExecutor("", exec)

	require.NoError(t, client.UploadAssets(context.Background(), "claude-sessions-main",
		[]string{"/tmp/a.tar.gz"}))
	assert.Equal(t, []string{
		"gh", "release", "upload", "claude-sessions-main", "/tmp/a.tar.gz", "--clobber",
	}, lastCall(t, exec))
}

func TestDeleteAsset(t *testing.T) {
	exec := &recordingExecutor{}
	client := NewGHClientWithExecutor("", exec)

	require.NoError(t, client.DeleteAsset(context.Background(), "claude-sessions-main", "claude-session.tar.gz"))
	assert.Equal(t, []string{
		"gh", "release", "delete-asset", "claude-sessions-main", "claude-session.tar.gz", "--yes",
	}, lastCall(t, exec))
}

func TestDownloadAsset(t *testing.T) {
	exec := &recordingExecutor{}
	client := NewGHClientWithExecutor("", exec)

	require.NoError(t, client.DownloadAsset(context.Background(), "claude-sessions-main",
		"session-metadata.json", "/tmp/scratch"))
	assert.Equal(t, []string{
		"gh", "release", "download", "claude-sessions-main",
		"--pattern", "session-metadata.json", "--dir", "/tmp/scratch",
	}, lastCall(t, exec))

	exec.fail = true
	err := client.DownloadAsset(context.Background(), "claude-sessions-main",
		"session-metadata.json", "/tmp/scratch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDownloadFailed))
}
