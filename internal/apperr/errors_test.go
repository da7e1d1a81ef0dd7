package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWithPath_Unwraps(t *testing.T) {
	err := WithPath("documents/a.md", fmt.Errorf("%w: missing title", ErrMetadata))
	if !errors.Is(err, ErrMetadata) {
		t.Fatalf("errors.Is(ErrMetadata) = false for %v", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatal("expected *PathError")
	}
	if pe.Path != "documents/a.md" {
		t.Errorf("path = %q", pe.Path)
	}
	if err.Error() != "documents/a.md: invalid metadata: missing title" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestWithPath_Nil(t *testing.T) {
	if err := WithPath("x", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
