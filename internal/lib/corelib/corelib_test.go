package corelib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/lib/corelib"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, name string, args ...value.Val) (value.Val, *stoferrors.Error) {
	t.Helper()
	for _, f := range corelib.Funcs() {
		if f.Name == name {
			return f.Impl(context.Background(), graph.New(), value.Val{}, args)
		}
	}
	t.Fatalf("no Std.%s registered", name)
	return value.Val{}, nil
}

func TestStd_Assert_PassesOnTruthy(t *testing.T) {
	if _, err := call(t, "assert", value.BoolVal(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStd_Assert_FailsOnFalsy(t *testing.T) {
	_, err := call(t, "assert", value.BoolVal(false))
	if err == nil {
		t.Fatalf("expected assert(false) to fail")
	}
	if err.Kind != stoferrors.KindAssertFailed {
		t.Fatalf("Kind = %v, want KindAssertFailed", err.Kind)
	}
}

func TestStd_AssertNot(t *testing.T) {
	if _, err := call(t, "assert_not", value.BoolVal(false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := call(t, "assert_not", value.BoolVal(true)); err == nil {
		t.Fatalf("expected assert_not(true) to fail")
	}
}

func TestStd_AssertEqAndNeq(t *testing.T) {
	if _, err := call(t, "assert_eq", value.IntVal(1), value.IntVal(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := call(t, "assert_eq", value.IntVal(1), value.IntVal(2)); err == nil {
		t.Fatalf("expected assert_eq(1, 2) to fail")
	}
	if _, err := call(t, "assert_neq", value.IntVal(1), value.IntVal(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := call(t, "assert_neq", value.IntVal(1), value.IntVal(1)); err == nil {
		t.Fatalf("expected assert_neq(1, 1) to fail")
	}
}

func TestStd_Sleep_RespectsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, f := range corelib.Funcs() {
		if f.Name == "sleep" {
			if _, err := f.Impl(ctx, graph.New(), value.Val{}, []value.Val{value.IntVal(5000)}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}
	}
	t.Fatalf("no Std.sleep registered")
}

func TestStd_Pln_AcceptsVariadicArgs(t *testing.T) {
	if _, err := call(t, "pln", value.StrVal("hello"), value.IntVal(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
