package session

import (
	"bufio"
	"os"

	"github.com/grovetools/handoff/errors"
	"github.com/tidwall/gjson"
)

const (
	// maxLineBytes bounds a single log line; assistant turns can carry
	// whole file contents inline.
	maxLineBytes = 4 * 1024 * 1024

	// maxHeadLines bounds how far into a file the head scan looks. The
	// fields live on the first conversational record; anything deeper is
	// not a session log worth matching.
	maxHeadLines = 32
)

// Head holds the two first-record fields this tooling consults.
type Head struct {
	Cwd       string
	GitBranch string
}

// ReadHead extracts the working directory and branch label from the first
// record of a session log that carries them. Only the head of the file is
// read. A record that has a cwd but no branch is malformed and fails
// explicitly rather than matching with an empty label.
func ReadHead(path string) (Head, error) {
	f, err := os.Open(path)
	if err != nil {
		return Head{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to open session log").
			WithDetail("path", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for line := 0; line < maxHeadLines && scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if !gjson.ValidBytes(raw) {
			continue
		}

		cwd := gjson.GetBytes(raw, "cwd")
		if !cwd.Exists() {
			// Summary and sidecar records precede the conversation;
			// keep scanning.
			continue
		}

		branch := gjson.GetBytes(raw, "gitBranch")
		if !branch.Exists() {
			return Head{}, errors.New(errors.ErrCodeInternal,
				"session record carries cwd but no gitBranch").
				WithDetail("path", path)
		}

		return Head{Cwd: cwd.String(), GitBranch: branch.String()}, nil
	}
	if err := scanner.Err(); err != nil {
		return Head{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to read session log head").
			WithDetail("path", path)
	}

	return Head{}, errors.New(errors.ErrCodeInternal, "no record with cwd and gitBranch in file head").
		WithDetail("path", path)
}
