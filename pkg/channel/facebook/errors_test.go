package facebook

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := NewError(ErrorValidation, "too many buttons")
	if got := err.Error(); got != "validation_failed: too many buttons" {
		t.Fatalf("Error() = %q", got)
	}

	bare := &Error{Category: ErrorUserOptOut}
	if got := bare.Error(); got != ErrorUserOptOut {
		t.Fatalf("Error() = %q, want bare category", got)
	}
}

func TestCategoryFromError(t *testing.T) {
	if got := CategoryFromError(nil); got != "" {
		t.Fatalf("CategoryFromError(nil) = %q", got)
	}

	wrapped := fmt.Errorf("send reply: %w", NewError(ErrorInvalidSession, "no session"))
	if got := CategoryFromError(wrapped); got != ErrorInvalidSession {
		t.Fatalf("CategoryFromError = %q, want %q", got, ErrorInvalidSession)
	}

	if got := CategoryFromError(errors.New("plain")); got != ErrorService {
		t.Fatalf("CategoryFromError = %q, want %q", got, ErrorService)
	}
}
