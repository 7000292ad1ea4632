package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMunge(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"simple path", "/work/app", "-work-app"},
		{"dots replaced", "/home/user/my.app", "-home-user-my-app"},
		{"underscores replaced", "/srv/my_app", "-srv-my-app"},
		{"hyphens preserved", "/srv/my-app", "-srv-my-app"},
		{"root", "/", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Munge(tt.path); got != tt.want {
				t.Errorf("Munge(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := Expand("~/projects")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got != filepath.Join(home, "projects") {
		t.Errorf("Expand(~/projects) = %q", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PATHUTIL_TEST_ROOT", "/data")

	got, err := Expand("$PATHUTIL_TEST_ROOT/projects")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got != "/data/projects" {
		t.Errorf("Expand($PATHUTIL_TEST_ROOT/projects) = %q", got)
	}
}

func TestExpandRelativeBecomesAbsolute(t *testing.T) {
	got, err := Expand("relative/dir")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expand should return an absolute path, got %q", got)
	}
}
