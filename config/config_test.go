package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "claude-sessions-", cfg.TagPrefix)
	assert.Equal(t, "claude-session.tar.gz", cfg.ArchiveName)
	assert.Equal(t, "session-metadata.json", cfg.MetadataName)
	assert.Contains(t, cfg.ProjectsDir, filepath.Join(".claude", "projects"))
	assert.False(t, cfg.Quiet)
}

func TestLoadFromBytesExplicitValues(t *testing.T) {
	data := []byte(`
projects_dir: /srv/claude/projects
tag_prefix: sessions-
archive_name: archive.tgz
quiet: true
`)
	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "/srv/claude/projects", cfg.ProjectsDir)
	assert.Equal(t, "sessions-", cfg.TagPrefix)
	assert.Equal(t, "archive.tgz", cfg.ArchiveName)
	assert.True(t, cfg.Quiet)
	// Unset fields still receive defaults
	assert.Equal(t, "session-metadata.json", cfg.MetadataName)
}

func TestLoadFromBytesEnvExpansion(t *testing.T) {
	t.Setenv("HANDOFF_TEST_DIR", "/data/projects")

	cfg, err := LoadFromBytes([]byte("projects_dir: ${HANDOFF_TEST_DIR}\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/projects", cfg.ProjectsDir)
}

func TestLoadFromBytesUnknownVarLeftVerbatim(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("tag_prefix: ${HANDOFF_UNSET_VAR_42}\n"))
	require.NoError(t, err)

	assert.Equal(t, "${HANDOFF_UNSET_VAR_42}", cfg.TagPrefix)
}

func TestLoadFromBytesInvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("projects_dir: [unclosed"))
	assert.Error(t, err)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	configPath := filepath.Join(root, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("tag_prefix: x-\n"), 0o644))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)
}

func TestFindConfigFileMissing(t *testing.T) {
	_, err := FindConfigFile(t.TempDir())
	assert.Error(t, err)
}

func TestLoadFromProjectOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ConfigFileName),
		[]byte("tag_prefix: team-sessions-\n"),
		0o644,
	))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "team-sessions-", cfg.TagPrefix)
	assert.Equal(t, "claude-session.tar.gz", cfg.ArchiveName)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.Path())
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ConfigFileName),
		[]byte("projects_dir: /from/file\n"),
		0o644,
	))

	t.Setenv("CLAUDE_PROJECTS_DIR", "/from/env")
	t.Setenv("QUIET", "1")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.ProjectsDir)
	assert.True(t, cfg.Quiet)
}

func TestUnmarshalExtension(t *testing.T) {
	data := []byte(`
extensions:
  logging:
    level: debug
    report_caller: true
`)
	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)

	var logCfg struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))

	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)
}

func TestUnmarshalExtensionAbsentSection(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("{}"))
	require.NoError(t, err)

	var out struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &out))
	assert.Empty(t, out.Level)
}
