package clierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsThroughWrapping(t *testing.T) {
	t.Parallel()

	base := Newf(TaskNotFound, "task not found: #%d", 7).WithDetails(map[string]any{"id": 7})
	wrapped := fmt.Errorf("loading: %w", base)

	if !Is(wrapped, TaskNotFound) {
		t.Fatalf("expected wrapped error to match %s", TaskNotFound)
	}
	if Is(wrapped, Forbidden) {
		t.Fatal("wrapped error should not match FORBIDDEN")
	}
	if Is(nil, TaskNotFound) {
		t.Fatal("nil should never match")
	}
	if got := Code(errors.New("plain")); got != "" {
		t.Errorf("Code(plain) = %q, want empty", got)
	}
	if base.Details["id"] != 7 {
		t.Errorf("details lost: %v", base.Details)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	if got := New(InternalError, "boom").ExitCode(); got != 2 {
		t.Errorf("internal exit code = %d, want 2", got)
	}
	if got := New(Validation, "bad").ExitCode(); got != 1 {
		t.Errorf("validation exit code = %d, want 1", got)
	}
	if got := (&SilentError{Code: 3}).Error(); got != "exit 3" {
		t.Errorf("SilentError.Error() = %q", got)
	}
}
