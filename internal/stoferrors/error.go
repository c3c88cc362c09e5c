// Package stoferrors implements Stof's language-level error model
// (component I): a closed, family-organized error kind plus call-stack
// capture and "unwind" trace rendering, mirrored from the original
// implementation's flat Error enum.
package stoferrors

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// Kind groups errors by family, the same banner-separated families the
// original flat enum organizes its variants into.
type Kind int

const (
	KindUnknown Kind = iota

	// Format family.
	KindFormatNotFound
	KindFormatImportNotImplemented
	KindFormatExportNotImplemented
	KindFormatBinaryImportUtf8
	KindFormatFileImportNotAllowed

	// Filesystem family.
	KindFilesystemNotAllowed
	KindFilesystemNotFound
	KindFilesystemIO

	// Library family.
	KindLibraryNotFound
	KindLibraryFuncNotFound

	// Cast / value-op family.
	KindCastNotPossible
	KindValueOpNotSupported
	KindSortIncomparable
	KindDivideByZero

	// Stack family.
	KindStackEmpty
	KindStackType

	// Call / arity family.
	KindCallArity
	KindCallNotFound
	KindCallNotCallable

	// Declaration family.
	KindDeclareInvalidName
	KindDeclareRedeclared
	KindDeclareInvalidType
	KindUndeclaredVariable
	KindAssignError

	// Assert family.
	KindAssertFailed

	// Permission family.
	KindPermissionDenied

	// Process family.
	KindWaitTargetGone

	// Graph family.
	KindNodeNotFound

	// A user-level `throw` of an arbitrary value.
	KindThrown
)

var kindNames = map[Kind]string{
	KindUnknown:                     "Unknown",
	KindFormatNotFound:              "FormatNotFound",
	KindFormatImportNotImplemented:  "FormatImportNotImplemented",
	KindFormatExportNotImplemented:  "FormatExportNotImplemented",
	KindFormatBinaryImportUtf8:      "FormatBinaryImportUtf8Error",
	KindFormatFileImportNotAllowed:  "FormatFileImportNotAllowed",
	KindFilesystemNotAllowed:        "FilesystemNotAllowed",
	KindFilesystemNotFound:          "FilesystemNotFound",
	KindFilesystemIO:                "FilesystemIO",
	KindLibraryNotFound:             "LibraryNotFound",
	KindLibraryFuncNotFound:         "LibraryFuncNotFound",
	KindCastNotPossible:             "CastNotPossible",
	KindValueOpNotSupported:         "ValueOpNotSupported",
	KindSortIncomparable:            "SortIncomparable",
	KindDivideByZero:                "DivideByZero",
	KindStackEmpty:                  "StackEmpty",
	KindStackType:                   "StackType",
	KindCallArity:                   "CallArity",
	KindCallNotFound:                "CallNotFound",
	KindCallNotCallable:             "CallNotCallable",
	KindDeclareInvalidName:          "DeclareInvalidName",
	KindDeclareRedeclared:           "DeclareRedeclared",
	KindDeclareInvalidType:          "DeclareInvalidType",
	KindUndeclaredVariable:          "UndeclaredVariable",
	KindAssignError:                 "AssignError",
	KindAssertFailed:                "AssertFailed",
	KindPermissionDenied:            "PermissionDenied",
	KindWaitTargetGone:              "WaitTargetGone",
	KindNodeNotFound:                "NodeNotFound",
	KindThrown:                      "Thrown",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is a Stof runtime error: a kind, a human message, the call stack at
// the point of construction (deepest call last), and an optional thrown
// value (only set when Kind == KindThrown).
type Error struct {
	Kind      Kind
	Message   string
	CallStack []string
	Thrown    any
	Wrapped   error
}

// New constructs an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Throw wraps an arbitrary script-level value in a KindThrown error.
func Throw(value any) *Error {
	return &Error{Kind: KindThrown, Message: "thrown value", Thrown: value}
}

// Wrap annotates an existing Go error with a Stof error kind.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithStack returns a copy of e with the call stack attached (deepest frame
// last), matching the original's capture-at-construction semantics.
func (e *Error) WithStack(stack []string) *Error {
	cp := *e
	cp.CallStack = append([]string(nil), stack...)
	return &cp
}

func (e *Error) Error() string {
	return e.Unwind()
}

func (e *Error) Unwind() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Wrapped != nil {
		fmt.Fprintf(&b, " (%v)", e.Wrapped)
	}
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n  at %s", e.CallStack[i])
	}
	return wordwrap.WrapString(b.String(), 100)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is supports errors.Is comparisons by Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
