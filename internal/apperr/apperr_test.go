package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("open: %w", New(BackendException, "open", base))

	if !Is(wrapped, BackendException) {
		t.Fatalf("expected Is to find BackendException through fmt.Errorf wrapping")
	}
	if Is(wrapped, IoError) {
		t.Fatalf("expected Is(IoError) to be false")
	}
}

func TestIsFalseForUnrelatedError(t *testing.T) {
	if Is(errors.New("plain"), CreateFailure) {
		t.Fatalf("expected Is to be false for a non-apperr error")
	}
}

func TestErrorStringIncludesOpAndKind(t *testing.T) {
	err := New(InputPathMissing, "create", nil)
	got := err.Error()
	if got != "create: InputPathMissing" {
		t.Fatalf("got %q", got)
	}
}
