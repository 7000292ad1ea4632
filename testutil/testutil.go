package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/handoff/util/pathutil"
)

// RequireGit skips the test if the git CLI is not available
func RequireGit(t *testing.T) {
	t.Helper()

	cmd := exec.Command("git", "version")
	if err := cmd.Run(); err != nil {
		t.Skip("git not available")
	}
}

// InitGitRepo initializes a git repository in the given directory
func InitGitRepo(t *testing.T, dir string) {
	t.Helper()

	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}

	// Configure git user
	cmd = exec.Command("git", "config", "user.name", "Test User")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to configure git user.name: %v", err)
	}

	cmd = exec.Command("git", "config", "user.email", "test@example.com")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to configure git user.email: %v", err)
	}

	// Create initial commit
	testFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(testFile, []byte("# Test Project\n"), 0600); err != nil {
		t.Fatalf("Failed to create README: %v", err)
	}

	cmd = exec.Command("git", "add", ".")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to git add: %v", err)
	}

	cmd = exec.Command("git", "commit", "-m", "Initial commit")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to git commit: %v", err)
	}

	// Ensure we have a main branch (rename from master if needed)
	cmd = exec.Command("git", "branch", "-m", "main")
	cmd.Dir = dir
	_ = cmd.Run() // Ignore error as branch might already be named main
}

// CreateBranch creates and checks out a new git branch
func CreateBranch(t *testing.T, dir, branch string) {
	t.Helper()

	cmd := exec.Command("git", "checkout", "-b", branch)
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to create branch %s: %v", branch, err)
	}
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// NewSessionID returns a fresh session identifier in the UUID format the
// session-log store uses for file stems.
func NewSessionID() string {
	return uuid.NewString()
}

// WriteSessionLog writes a minimal session log file into the projects tree
// rooted at projectsDir, under the munged directory for cwd. The first record
// carries the cwd and gitBranch fields the locator consults; a second record
// exists so scans must stop at the first. Returns the session id.
func WriteSessionLog(t *testing.T, projectsDir, cwd, branch string) string {
	t.Helper()

	sessionID := NewSessionID()
	WriteSessionLogWithID(t, projectsDir, cwd, branch, sessionID)
	return sessionID
}

// WriteSessionLogWithID is WriteSessionLog with a caller-chosen session id.
// Returns the written file path.
func WriteSessionLogWithID(t *testing.T, projectsDir, cwd, branch, sessionID string) string {
	t.Helper()

	projectDir := filepath.Join(projectsDir, pathutil.Munge(cwd))
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("Failed to create project dir: %v", err)
	}

	content := fmt.Sprintf(
		`{"type":"user","cwd":%q,"gitBranch":%q,"sessionId":%q,"message":{"role":"user","content":"hello"}}`+"\n"+
			`{"type":"assistant","message":{"role":"assistant","content":"hi"}}`+"\n",
		cwd, branch, sessionID,
	)

	path := filepath.Join(projectDir, sessionID+".jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write session log: %v", err)
	}
	return path
}

// Touch sets a file's modification time, for mtime-ordering fixtures
func Touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()

	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime on %s: %v", path, err)
	}
}
