package funclib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/lib/funclib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, g *graph.Graph, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range funclib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), g, self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Function.%s registered", name)
	return value.Val{}
}

func fixture(g *graph.Graph, root *graph.Node) value.Val {
	d := graph.NewFunctionData(ids.NewSId(), "greet")
	d.Function.Params = []graph.FuncParam{{Name: "name"}}
	d.Function.Attributes["async"] = value.BoolVal(true)
	g.AttachData(ids.NewNodeRef(root.Id), "greet", d)
	return value.FnVal(ids.NewDataRef(d.Id))
}

func TestFunction_Name(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	self := fixture(g, root)
	if v := call(t, g, "name", self); v.Str() != "greet" {
		t.Fatalf("name = %q, want greet", v.Str())
	}
}

func TestFunction_Arity(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	self := fixture(g, root)
	if v := call(t, g, "arity", self); v.Num().Int != 1 {
		t.Fatalf("arity = %v, want 1", v.Num().Int)
	}
}

func TestFunction_IsAsync(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	self := fixture(g, root)
	if v := call(t, g, "is_async", self); !v.Bool() {
		t.Fatalf("expected is_async to be true")
	}
}

func TestFunction_HasAttribute(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	self := fixture(g, root)
	if v := call(t, g, "has_attribute", self, value.StrVal("async")); !v.Bool() {
		t.Fatalf("expected has_attribute(async) to be true")
	}
	if v := call(t, g, "has_attribute", self, value.StrVal("missing")); v.Bool() {
		t.Fatalf("expected has_attribute(missing) to be false")
	}
}

func TestFunction_NameOnNonFunctionFails(t *testing.T) {
	g := graph.New()
	if _, err := funclib.Funcs()[0].Impl(context.Background(), g, value.IntVal(1), nil); err == nil {
		t.Fatalf("expected Function.name on a non-function value to fail")
	}
}
