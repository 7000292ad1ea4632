package config

import (
	"github.com/mitchellh/mapstructure"
)

// Config is the parsed handoff.yml configuration.
type Config struct {
	// ProjectsDir is the root of the local session-log store
	// (Claude Code's ~/.claude/projects tree).
	ProjectsDir string `yaml:"projects_dir"`

	// TagPrefix is prepended to the branch label to form the remote tag.
	TagPrefix string `yaml:"tag_prefix"`

	// ScratchDir is the root under which restore scratch directories are created.
	ScratchDir string `yaml:"scratch_dir"`

	// ArchiveName is the fixed asset name of the published session archive.
	ArchiveName string `yaml:"archive_name"`

	// MetadataName is the fixed asset name of the published metadata record.
	MetadataName string `yaml:"metadata_name"`

	// Quiet suppresses informational output. The QUIET environment variable
	// and --quiet flag override it.
	Quiet bool `yaml:"quiet"`

	// Extensions holds tool-specific configuration sections (e.g. "logging")
	// that are decoded on demand by the owning package.
	Extensions map[string]interface{} `yaml:"extensions,omitempty"`

	// path the config was loaded from, empty for pure defaults
	path string
}

// Path returns the file this configuration was loaded from, or "" when the
// configuration is defaults-only.
func (c *Config) Path() string {
	return c.path
}

// UnmarshalExtension decodes a named extension section into out.
// Returns nil without touching out when the section is absent.
func (c *Config) UnmarshalExtension(name string, out interface{}) error {
	raw, ok := c.Extensions[name]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "yaml",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(raw)
}
