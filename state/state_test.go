package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	state, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	saved := State{
		"main": {SessionID: "abc-123", Tag: "claude-sessions-main", PublishedAt: at},
	}
	require.NoError(t, Save(dir, saved))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestRecordPublish(t *testing.T) {
	dir := t.TempDir()
	at := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, RecordPublish(dir, "feature/foo", "abc-123", "claude-sessions-feature/foo", at))
	require.NoError(t, RecordPublish(dir, "main", "def-456", "claude-sessions-main", at))

	state, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, state, 2)
	assert.Equal(t, "abc-123", state["feature/foo"].SessionID)
	assert.Equal(t, "claude-sessions-main", state["main"].Tag)

	// Re-publishing the same branch replaces its record
	require.NoError(t, RecordPublish(dir, "main", "ghi-789", "claude-sessions-main", at.Add(time.Hour)))
	state, err = Load(dir)
	require.NoError(t, err)
	require.Len(t, state, 2)
	assert.Equal(t, "ghi-789", state["main"].SessionID)
}

func TestLoadCorruptState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".handoff"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".handoff", "state.yml"), []byte("[broken"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
