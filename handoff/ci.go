package handoff

import (
	"fmt"
	"os"

	"github.com/grovetools/handoff/errors"
)

// ExportCIOutputs appends the restore outcome to the step-output and
// environment files GitHub Actions exposes, when they are present. Outside
// a pipeline both variables are unset and this is a no-op.
func ExportCIOutputs(result RestoreResult) error {
	if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
		lines := fmt.Sprintf("session-id=%s\nsession-restored=%t\n", result.SessionID, result.Restored)
		if err := appendFile(path, lines); err != nil {
			return err
		}
	}

	if path := os.Getenv("GITHUB_ENV"); path != "" {
		lines := fmt.Sprintf("CLAUDE_SESSION_ID=%s\nCLAUDE_SESSION_RESTORED=%t\n", result.SessionID, result.Restored)
		if err := appendFile(path, lines); err != nil {
			return err
		}
	}

	return nil
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to open pipeline output file").
			WithDetail("path", path)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write pipeline output").
			WithDetail("path", path)
	}
	return f.Close()
}
