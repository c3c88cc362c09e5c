package datalib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/lib/datalib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, g *graph.Graph, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range datalib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), g, self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Data.%s registered", name)
	return value.Val{}
}

func TestData_ExistsAndRefCount(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	d := graph.NewFieldData(ids.NewSId(), value.IntVal(1))
	g.AttachData(ids.NewNodeRef(root.Id), "x", d)

	self := value.DataVal(ids.NewDataRef(d.Id))
	if v := call(t, g, "exists", self); !v.Bool() {
		t.Fatalf("expected exists to be true for an attached data item")
	}
	if v := call(t, g, "ref_count", self); v.Num().Int != 1 {
		t.Fatalf("ref_count = %v, want 1", v.Num().Int)
	}
}

func TestData_Drop_DetachesFromEveryNode(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	child, _ := g.NewChild(root.Id, "c")
	d := graph.NewFieldData(ids.NewSId(), value.IntVal(1))
	g.AttachData(ids.NewNodeRef(root.Id), "x", d)
	g.AttachData(ids.NewNodeRef(child.Id), "x", d)

	self := value.DataVal(ids.NewDataRef(d.Id))
	if v := call(t, g, "drop", self); !v.Bool() {
		t.Fatalf("expected drop to report true")
	}
	if _, ok := g.Data(d.Id); ok {
		t.Fatalf("expected data item to be gone after drop")
	}
}

func TestData_Move_ReattachesBeforeDetaching(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	other := g.NewRoot("other")
	d := graph.NewFieldData(ids.NewSId(), value.IntVal(1))
	g.AttachData(ids.NewNodeRef(root.Id), "x", d)

	self := value.DataVal(ids.NewDataRef(d.Id))
	fromArg := value.ObjVal(ids.NewNodeRef(root.Id))
	toArg := value.ObjVal(ids.NewNodeRef(other.Id))
	if v := call(t, g, "move", self, fromArg, toArg, value.StrVal("y")); !v.Bool() {
		t.Fatalf("expected move to report true")
	}

	moved, ok := g.Data(d.Id)
	if !ok {
		t.Fatalf("expected data item to survive the move")
	}
	if moved.RefCount() != 1 {
		t.Fatalf("expected exactly one referrer after move, got %d", moved.RefCount())
	}
	if _, ok := other.GetData("y"); !ok {
		t.Fatalf("expected the moved-to node to reference the data under the new name")
	}
	if _, ok := root.GetData("x"); ok {
		t.Fatalf("expected the moved-from node to no longer reference the data")
	}
}
