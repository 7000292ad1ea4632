package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/handoff/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project-level configuration file searched for by
// walking up from the working directory.
const ConfigFileName = "handoff.yml"

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a handoff configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// LoadFromBytes parses configuration data with environment variable expansion
// and applies defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadDefault loads configuration with hierarchical merging:
// 1. Built-in defaults - base layer
// 2. Global config (~/.config/handoff/handoff.yml) - overrides defaults
// 3. Project config (handoff.yml, found by upward walk) - overrides global
// Environment overrides are applied last. A missing config file is not an
// error; the tool is fully functional on defaults alone.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	final := defaultConfig()

	// Global layer (optional)
	if globalPath := globalConfigPath(); globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			if global, err := Load(globalPath); err == nil {
				final.merge(global)
				final.path = globalPath
			}
		}
	}

	// Project layer (optional)
	if projectPath, err := FindConfigFile(startDir); err == nil {
		project, err := Load(projectPath)
		if err != nil {
			return nil, err
		}
		final.merge(project)
		final.path = projectPath
	}

	final.applyEnvOverrides()
	return final, nil
}

// FindConfigFile walks up from startDir looking for handoff.yml
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(ConfigFileName)
		}
		dir = parent
	}
}

// globalConfigPath returns the XDG-compliant global configuration path
func globalConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "handoff", ConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "handoff", ConfigFileName)
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ProjectsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.ProjectsDir = filepath.Join(home, ".claude", "projects")
		}
	}
	if c.TagPrefix == "" {
		c.TagPrefix = "claude-sessions-"
	}
	if c.ScratchDir == "" {
		c.ScratchDir = os.TempDir()
	}
	if c.ArchiveName == "" {
		c.ArchiveName = "claude-session.tar.gz"
	}
	if c.MetadataName == "" {
		c.MetadataName = "session-metadata.json"
	}
}

// merge overlays non-zero fields of other onto c
func (c *Config) merge(other *Config) {
	if other.ProjectsDir != "" {
		c.ProjectsDir = other.ProjectsDir
	}
	if other.TagPrefix != "" {
		c.TagPrefix = other.TagPrefix
	}
	if other.ScratchDir != "" {
		c.ScratchDir = other.ScratchDir
	}
	if other.ArchiveName != "" {
		c.ArchiveName = other.ArchiveName
	}
	if other.MetadataName != "" {
		c.MetadataName = other.MetadataName
	}
	if other.Quiet {
		c.Quiet = true
	}
	if len(other.Extensions) > 0 {
		if c.Extensions == nil {
			c.Extensions = make(map[string]interface{})
		}
		for k, v := range other.Extensions {
			c.Extensions[k] = v
		}
	}
}

// applyEnvOverrides applies environment variable overrides, which win over
// every file layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CLAUDE_PROJECTS_DIR"); v != "" {
		c.ProjectsDir = v
	}
	if v := os.Getenv("HANDOFF_TAG_PREFIX"); v != "" {
		c.TagPrefix = v
	}
	if v := os.Getenv("HANDOFF_TMPDIR"); v != "" {
		c.ScratchDir = v
	}
	if v := os.Getenv("QUIET"); v == "1" || strings.EqualFold(v, "true") {
		c.Quiet = true
	}
}

// expandEnvVars expands ${VAR} references in raw config text
func expandEnvVars(data string) string {
	return envVarRegex.ReplaceAllStringFunc(data, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}
