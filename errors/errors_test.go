package errors

import (
	"fmt"
	"testing"
)

func TestHandoffError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeSessionNotFound, "no matching session")
	if err.Code != ErrCodeSessionNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSessionNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeUploadFailed, "upload failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeUploadFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeSessionNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("branch", "main").WithDetail("matches", 0)
	if detailed.Details["branch"] != "main" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test SessionNotFound
	err := SessionNotFound("/home/user/project", "feature/foo")
	if err.Code != ErrCodeSessionNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSessionNotFound, err.Code)
	}
	if err.Details["branch"] != "feature/foo" {
		t.Error("SessionNotFound should include branch detail")
	}

	// Test TagNotFound
	err = TagNotFound("claude-sessions-main")
	if err.Code != ErrCodeTagNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeTagNotFound, err.Code)
	}
	if err.Details["tag"] != "claude-sessions-main" {
		t.Error("TagNotFound should include tag detail")
	}

	// Test PreconditionMissing
	err = PreconditionMissing("gh")
	if err.Code != ErrCodePreconditionMissing {
		t.Errorf("expected code %s, got %s", ErrCodePreconditionMissing, err.Code)
	}
}
