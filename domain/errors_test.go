package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(ErrGoalNotFound, ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND match")
	}
	if IsDomainError(ErrGoalNotFound, ErrCodeConflict) {
		t.Fatalf("codes must not cross-match")
	}
	if IsDomainError(errors.New("plain"), ErrCodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestWrapError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrCodeInternal, "failed to list goals", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause must be reachable via errors.Is")
	}
	if got := err.Error(); got != "failed to list goals: connection refused" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestIsDomainError_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrTaskNotFound)
	if !IsDomainError(err, ErrCodeNotFound) {
		t.Fatalf("expected code to survive fmt.Errorf wrapping")
	}
}
