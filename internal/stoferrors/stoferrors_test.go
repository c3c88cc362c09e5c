package stoferrors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

func TestNew_FormatsMessage(t *testing.T) {
	err := stoferrors.New(stoferrors.KindAssertFailed, "value %d is not truthy", 0)
	if !strings.Contains(err.Error(), "value 0 is not truthy") {
		t.Fatalf("Error() = %q, missing formatted message", err.Error())
	}
	if err.Kind != stoferrors.KindAssertFailed {
		t.Fatalf("Kind = %v, want KindAssertFailed", err.Kind)
	}
}

func TestWrap_UnwrapsUnderlyingError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := stoferrors.Wrap(stoferrors.KindFilesystemIO, cause, "reading %s", "file.json")
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Error() = %q, missing wrapped cause text", err.Error())
	}
}

func TestError_Is_ComparesByKind(t *testing.T) {
	a := stoferrors.New(stoferrors.KindAssertFailed, "a")
	b := stoferrors.New(stoferrors.KindAssertFailed, "b")
	c := stoferrors.New(stoferrors.KindFilesystemIO, "c")
	if !errors.Is(a, b) {
		t.Fatalf("expected two errors of the same Kind to match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Fatalf("expected errors of different Kind not to match")
	}
}

func TestWithStack_AppendsFramesDeepestLast(t *testing.T) {
	err := stoferrors.New(stoferrors.KindAssertFailed, "oops").WithStack([]string{"main", "helper"})
	unwound := err.Unwind()
	mainIdx := strings.Index(unwound, "at main")
	helperIdx := strings.Index(unwound, "at helper")
	if mainIdx == -1 || helperIdx == -1 || helperIdx > mainIdx {
		t.Fatalf("expected helper frame to print before main frame (deepest last), got %q", unwound)
	}
}

func TestThrow_SetsKindThrown(t *testing.T) {
	err := stoferrors.Throw(42)
	if err.Kind != stoferrors.KindThrown {
		t.Fatalf("Kind = %v, want KindThrown", err.Kind)
	}
	if err.Thrown != 42 {
		t.Fatalf("Thrown = %v, want 42", err.Thrown)
	}
}
