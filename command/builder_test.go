package command

import (
	"context"
	"testing"
	"time"
)

func TestValidateBranchLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple branch", "main", false},
		{"branch with slash", "feature/foo", false},
		{"branch with nested slashes", "user/feature/foo-bar", false},
		{"branch with dots", "release-1.2", false},
		{"empty label", "", true},
		{"parent traversal", "feature/../main", true},
		{"starts with hyphen", "-branch", true},
		{"shell metacharacters", "main;rm", true},
		{"whitespace", "my branch", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBranchLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBranchLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTagName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain tag", "claude-sessions-main", false},
		{"tag with embedded separator", "claude-sessions-feature/foo", false},
		{"empty tag", "", true},
		{"traversal", "claude-sessions-../main", true},
		{"injection", "tag$(whoami)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTagName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTagName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"archive asset", "claude-session.tar.gz", false},
		{"metadata asset", "session-metadata.json", false},
		{"empty name", "", true},
		{"path separator", "dir/file.json", true},
		{"injection", "file.json;id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid path", "/path/to/file.txt", false},
		{"relative path", "relative/path.txt", false},
		{"directory traversal", "../etc/passwd", true},
		{"command injection semicolon", "file.txt; rm -rf /", true},
		{"command injection pipe", "file.txt | cat", true},
		{"command injection dollar", "$(whoami)", true},
		{"command injection backtick", "`whoami`", true},
		{"empty path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestBuilderValidate(t *testing.T) {
	sb := NewSafeBuilder()

	if err := sb.Validate("branchLabel", "feature/foo"); err != nil {
		t.Errorf("Validate(branchLabel) unexpected error: %v", err)
	}
	if err := sb.Validate("noSuchType", "value"); err == nil {
		t.Error("Validate should fail for unknown argument type")
	}
}

func TestBuildAppliesTimeout(t *testing.T) {
	sb := NewSafeBuilder()

	cmd, err := sb.Build(context.Background(), "git", "rev-parse", "HEAD")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cmd.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, cmd.timeout)
	}

	cmd = cmd.WithTimeout(20 * time.Minute)
	if cmd.timeout != MaxTimeout {
		t.Errorf("timeout should be capped at %v, got %v", MaxTimeout, cmd.timeout)
	}

	if deadline, ok := cmd.ctx.Deadline(); !ok || time.Until(deadline) > MaxTimeout {
		t.Error("command context should carry the capped deadline")
	}
}

func TestBuildRejectsEmptyName(t *testing.T) {
	sb := NewSafeBuilder()

	if _, err := sb.Build(context.Background(), ""); err == nil {
		t.Error("Build should reject empty command name")
	}
}
