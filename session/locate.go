package session

import (
	"context"

	"github.com/grovetools/handoff/errors"
	"github.com/grovetools/handoff/logging"
	"github.com/sirupsen/logrus"
)

// Locator finds the session log matching a working directory and branch.
type Locator struct {
	store Store
	log   *logrus.Entry
}

// NewLocator creates a locator over the given store
func NewLocator(store Store) *Locator {
	return &Locator{
		store: store,
		log:   logging.NewLogger("locator"),
	}
}

// Locate returns the most recently modified session log whose first record
// matches cwd and branch exactly. Matching is string equality with no
// normalization. When two matches share the maximal modification time the
// first one encountered during the walk wins.
func (l *Locator) Locate(ctx context.Context, cwd, branch string) (LogFile, error) {
	matches, err := l.matches(ctx, cwd, branch)
	if err != nil {
		return LogFile{}, err
	}
	if len(matches) == 0 {
		return LogFile{}, errors.SessionNotFound(cwd, branch)
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.ModTime.After(best.ModTime) {
			best = m
		}
	}

	l.log.WithFields(logrus.Fields{
		"sessionId": best.SessionID,
		"mtime":     best.ModTime,
		"matches":   len(matches),
	}).Info("Located session")

	return best, nil
}

// LocateAll returns every matching session log in walk order, for
// debugging with `handoff locate --all`.
func (l *Locator) LocateAll(ctx context.Context, cwd, branch string) ([]LogFile, error) {
	matches, err := l.matches(ctx, cwd, branch)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.SessionNotFound(cwd, branch)
	}
	return matches, nil
}

func (l *Locator) matches(ctx context.Context, cwd, branch string) ([]LogFile, error) {
	logs, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"root":   l.store.Root(),
		"files":  len(logs),
		"branch": branch,
	}).Debug("Scanning session-log store")

	var matches []LogFile
	for _, candidate := range logs {
		head, err := l.store.Head(candidate.Path)
		if err != nil {
			// A log we cannot read the head of is not a match; note it
			// and move on.
			l.log.WithError(err).WithField("path", candidate.Path).Debug("Skipping unreadable log head")
			continue
		}

		if head.Cwd == cwd && head.GitBranch == branch {
			matches = append(matches, candidate)
		}
	}

	return matches, nil
}
