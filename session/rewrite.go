package session

import (
	"os"
	"strings"

	"github.com/grovetools/handoff/errors"
)

// RewritePaths replaces every literal occurrence of oldCwd with newCwd in
// the file at path and reports how many occurrences changed. The
// substitution is exact string replacement; nothing else in the file is
// touched. A no-op (equal paths or zero occurrences) leaves the file
// unwritten so its modification time survives.
func RewritePaths(path, oldCwd, newCwd string) (int, error) {
	if oldCwd == "" || oldCwd == newCwd {
		return 0, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat restored log").
			WithDetail("path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to read restored log").
			WithDetail("path", path)
	}

	count := strings.Count(string(data), oldCwd)
	if count == 0 {
		return 0, nil
	}

	rewritten := strings.ReplaceAll(string(data), oldCwd, newCwd)
	if err := os.WriteFile(path, []byte(rewritten), info.Mode().Perm()); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to write rewritten log").
			WithDetail("path", path)
	}

	return count, nil
}
