package objectlib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/lib/objectlib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, g *graph.Graph, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range objectlib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), g, self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Object.%s registered", name)
	return value.Val{}
}

func TestObject_SetProtoAndProto(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	self := value.ObjVal(ids.NewNodeRef(root.Id))

	if v := call(t, g, "proto", self); v.Kind != value.Null {
		t.Fatalf("expected proto() to be Null before any prototype is set")
	}
	call(t, g, "set_proto", self, value.StrVal("Widget"), value.StrVal("app.Widget"))
	if v := call(t, g, "proto", self); v.Str() != "Widget" {
		t.Fatalf("proto() = %q, want Widget", v.Str())
	}
}

func TestObject_UpcastAndInstanceOf(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	self := value.ObjVal(ids.NewNodeRef(root.Id))

	call(t, g, "set_proto", self, value.StrVal("Base"))
	call(t, g, "upcast", self, value.StrVal("Derived"))

	if v := call(t, g, "instance_of", self, value.StrVal("Base")); !v.Bool() {
		t.Fatalf("expected instance_of(Base) to remain true after upcast")
	}
	if v := call(t, g, "instance_of", self, value.StrVal("Derived")); !v.Bool() {
		t.Fatalf("expected instance_of(Derived) to be true")
	}
	if v := call(t, g, "instance_of", self, value.StrVal("Other")); v.Bool() {
		t.Fatalf("expected instance_of(Other) to be false")
	}
}

func TestObject_Attributes(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	root.InsertAttribute("exported", value.BoolVal(true))
	self := value.ObjVal(ids.NewNodeRef(root.Id))

	v := call(t, g, "attributes", self)
	names := v.List()
	found := false
	for _, n := range names {
		if n.Str() == "exported" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected attributes() to include %q, got %+v", "exported", names)
	}
}

func TestObject_ProtoOnNonObjectFails(t *testing.T) {
	g := graph.New()
	if _, err := objectlib.Funcs()[0].Impl(context.Background(), g, value.IntVal(1), nil); err == nil {
		t.Fatalf("expected Object.proto on a non-object value to fail")
	}
}
