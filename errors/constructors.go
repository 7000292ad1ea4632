package errors

import (
	"fmt"
	"os/exec"
)

// PreconditionMissing creates an error for a required external tool that is absent
func PreconditionMissing(tool string) *HandoffError {
	return New(ErrCodePreconditionMissing, fmt.Sprintf("required tool '%s' not found in PATH", tool)).
		WithDetail("tool", tool)
}

// NoBranch creates an error for an undeterminable branch label
func NoBranch() *HandoffError {
	return New(ErrCodeInvalidInput, "no branch label supplied and current branch could not be determined")
}

// SessionNotFound creates an error for a session that matched nothing
func SessionNotFound(cwd, branch string) *HandoffError {
	return New(ErrCodeSessionNotFound,
		fmt.Sprintf("no session log matches cwd %s on branch '%s'", cwd, branch)).
		WithDetail("cwd", cwd).
		WithDetail("branch", branch)
}

// TagNotFound creates an error for a missing remote tag
func TagNotFound(tag string) *HandoffError {
	return New(ErrCodeTagNotFound, fmt.Sprintf("remote tag '%s' does not exist", tag)).
		WithDetail("tag", tag)
}

// DownloadFailed creates an error for a failed asset download
func DownloadFailed(tag, asset string, err error) *HandoffError {
	return Wrap(err, ErrCodeDownloadFailed,
		fmt.Sprintf("failed to download asset '%s' from tag '%s'", asset, tag)).
		WithDetail("tag", tag).
		WithDetail("asset", asset)
}

// UploadFailed creates an error for a failed asset upload
func UploadFailed(tag string, err error) *HandoffError {
	return Wrap(err, ErrCodeUploadFailed, fmt.Sprintf("failed to upload assets to tag '%s'", tag)).
		WithDetail("tag", tag)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *HandoffError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *HandoffError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *HandoffError {
	handoffErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		handoffErr = handoffErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return handoffErr
}
