package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BranchState records the last publish for one branch. It is bookkeeping
// only; the remote tag remains the source of truth.
type BranchState struct {
	SessionID   string    `yaml:"session_id"`
	Tag         string    `yaml:"tag"`
	PublishedAt time.Time `yaml:"published_at"`
}

// State maps branch labels to their last-publish records.
type State map[string]BranchState

// stateFilePath returns the path to the state file, .handoff/state.yml
// under the given project directory. Each worktree keeps its own state.
func stateFilePath(dir string) string {
	return filepath.Join(dir, ".handoff", "state.yml")
}

// Load loads the state for a project directory.
// Returns an empty state if the file doesn't exist.
func Load(dir string) (State, error) {
	data, err := os.ReadFile(stateFilePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return make(State), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	if state == nil {
		state = make(State)
	}

	return state, nil
}

// Save writes the state for a project directory, creating .handoff/ if needed
func Save(dir string, state State) error {
	path := stateFilePath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// RecordPublish updates the branch's last-publish record and persists it
func RecordPublish(dir, branch, sessionID, tag string, at time.Time) error {
	state, err := Load(dir)
	if err != nil {
		return err
	}

	state[branch] = BranchState{
		SessionID:   sessionID,
		Tag:         tag,
		PublishedAt: at,
	}

	return Save(dir, state)
}
