package session

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/handoff/errors"
)

// LogExt is the extension session log files carry in the store.
const LogExt = ".jsonl"

// LogFile describes one session log in the store. The session id is the
// file name without the extension.
type LogFile struct {
	SessionID string
	Path      string
	ModTime   time.Time
}

// Store lists and reads the local session-log store. The production
// implementation walks the filesystem; tests use an in-memory fake.
type Store interface {
	// List enumerates every session log under the store root.
	List(ctx context.Context) ([]LogFile, error)

	// Head extracts the authoritative first-record fields from a log file.
	Head(path string) (Head, error)

	// Resolve maps a session id back to an existing log file path.
	Resolve(ctx context.Context, sessionID string) (string, error)

	// Root returns the store root directory.
	Root() string
}

// FSStore is the filesystem-backed session-log store rooted at the Claude
// projects directory. It never writes; the restorer creates files through
// its own path so existing sessions are never mutated.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at the given projects directory
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

// Ensure it implements the interface
var _ Store = (*FSStore)(nil)

// Root returns the store root directory
func (s *FSStore) Root() string {
	return s.root
}

// List walks the store root recursively and returns every session log.
// Files whose stem is not a session identifier (agent sidecars, editor
// droppings) are skipped. A missing root yields an empty list, not an
// error: first-time use has no store yet.
func (s *FSStore) List(ctx context.Context) ([]LogFile, error) {
	var logs []LogFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), LogExt) {
			return nil
		}

		stem := strings.TrimSuffix(d.Name(), LogExt)
		if uuid.Validate(stem) != nil {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		logs = append(logs, LogFile{
			SessionID: stem,
			Path:      path,
			ModTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil && err != ctx.Err() {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to walk session-log store").
			WithDetail("root", s.root)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return logs, nil
}

// Head reads the first-record fields from the log file at path
func (s *FSStore) Head(path string) (Head, error) {
	return ReadHead(path)
}

// Resolve maps a session id to its current log file path. The lookup
// re-walks the store so it catches a log that moved between discovery and
// packaging; a vanished log is a SessionNotFound.
func (s *FSStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	logs, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	for _, log := range logs {
		if log.SessionID == sessionID {
			return log.Path, nil
		}
	}

	return "", errors.New(errors.ErrCodeSessionNotFound,
		"session id does not resolve to an existing log file").
		WithDetail("sessionId", sessionID)
}
