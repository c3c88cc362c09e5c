package library_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func double(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
	n := args[0].Num()
	res, _ := n.Add(n)
	return value.NumVal(res), nil
}

func TestRegistry_RegisterAndCall(t *testing.T) {
	r := library.NewRegistry()
	r.Register(library.Func{Library: "Number", Name: "double", MinArity: 1, MaxArity: 1, Impl: double})

	g := graph.New()
	v, err := r.Call(context.Background(), g, "Number", "double", value.VoidVal(), []value.Val{value.IntVal(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num().Int != 6 {
		t.Fatalf("expected 6, got %v", v.Num().Int)
	}
}

func TestRegistry_Call_UnknownFunction(t *testing.T) {
	r := library.NewRegistry()
	g := graph.New()
	if _, err := r.Call(context.Background(), g, "Number", "missing", value.VoidVal(), nil); err == nil {
		t.Fatalf("expected calling an unregistered function to fail")
	} else if err.Kind != stoferrors.KindLibraryFuncNotFound {
		t.Fatalf("Kind = %v, want KindLibraryFuncNotFound", err.Kind)
	}
}

func TestRegistry_Call_ArityChecked(t *testing.T) {
	r := library.NewRegistry()
	r.Register(library.Func{Library: "Number", Name: "double", MinArity: 1, MaxArity: 1, Impl: double})

	g := graph.New()
	if _, err := r.Call(context.Background(), g, "Number", "double", value.VoidVal(), nil); err == nil {
		t.Fatalf("expected calling with too few arguments to fail arity validation")
	} else if err.Kind != stoferrors.KindCallArity {
		t.Fatalf("Kind = %v, want KindCallArity", err.Kind)
	}
}

func TestRegistry_HasLibraryAndRemoveLibrary(t *testing.T) {
	r := library.NewRegistry()
	r.Register(library.Func{Library: "Number", Name: "double", MinArity: 1, MaxArity: 1, Impl: double})

	if !r.HasLibrary("Number") {
		t.Fatalf("expected HasLibrary(Number) to be true after registering a function")
	}
	r.RemoveLibrary("Number")
	if r.HasLibrary("Number") {
		t.Fatalf("expected HasLibrary(Number) to be false after RemoveLibrary")
	}
	if _, ok := r.Lookup("Number", "double"); ok {
		t.Fatalf("expected Lookup to fail for a removed library")
	}
}

func TestRegistry_Register_OverwritesSameNameFunction(t *testing.T) {
	r := library.NewRegistry()
	r.Register(library.Func{Library: "Number", Name: "double", MinArity: 1, MaxArity: 1, Impl: double})
	r.Register(library.Func{Library: "Number", Name: "double", MinArity: 1, MaxArity: 1, Impl: func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
		return value.IntVal(99), nil
	}})

	g := graph.New()
	v, err := r.Call(context.Background(), g, "Number", "double", value.VoidVal(), []value.Val{value.IntVal(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num().Int != 99 {
		t.Fatalf("expected the later registration to win, got %v", v.Num().Int)
	}
}
