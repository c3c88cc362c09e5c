package graph_test

import (
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func TestGraph_NewRootAndChild(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	if len(g.Roots()) != 1 || g.Roots()[0] != root.Id {
		t.Fatalf("expected root to be registered as the sole root")
	}
	child, ok := g.NewChild(root.Id, "settings")
	if !ok {
		t.Fatalf("expected NewChild to succeed under a valid parent")
	}
	if got, ok := g.FindChildNamed(root.Id, "settings"); !ok || got != child.Id {
		t.Fatalf("FindChildNamed did not resolve the new child")
	}
}

func TestGraph_SetGetFieldValue(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")

	g.SetFieldValue(root.Id, "count", value.IntVal(1))
	v, ok := g.GetFieldValue(root.Id, "count")
	if !ok || v.Num().Int != 1 {
		t.Fatalf("expected count == 1, got %+v ok=%v", v, ok)
	}

	g.SetFieldValue(root.Id, "count", value.IntVal(2))
	v, ok = g.GetFieldValue(root.Id, "count")
	if !ok || v.Num().Int != 2 {
		t.Fatalf("expected overwritten count == 2, got %+v ok=%v", v, ok)
	}
}

func TestGraph_AttachData_ManyToMany(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	child, _ := g.NewChild(root.Id, "other")

	d := graph.NewFieldData(ids.NewSId(), value.StrVal("shared"))
	g.AttachData(ids.NewNodeRef(root.Id), "shared", d)
	g.AttachData(ids.NewNodeRef(child.Id), "shared", d)

	if d.RefCount() != 2 {
		t.Fatalf("expected data item to be referenced by both nodes, RefCount() = %d", d.RefCount())
	}

	g.DetachData(ids.NewNodeRef(root.Id), d.Id)
	if d.RefCount() != 1 {
		t.Fatalf("expected RefCount 1 after detaching from root, got %d", d.RefCount())
	}
	if _, ok := g.Data(d.Id); !ok {
		t.Fatalf("expected data item to survive while still referenced by child")
	}

	g.DetachData(ids.NewNodeRef(child.Id), d.Id)
	if _, ok := g.Data(d.Id); ok {
		t.Fatalf("expected data item to be removed once its last reference is detached")
	}
}

func TestGraph_RemoveNode(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	if !g.RemoveNode(root.Id) {
		t.Fatalf("expected RemoveNode to succeed")
	}
	if g.NodeExists(root.Id) {
		t.Fatalf("expected node to no longer exist after removal")
	}
	if !g.WasRemoved(root.Id) {
		t.Fatalf("expected WasRemoved to report true for a removed node")
	}
}

func TestGraph_SetProto_InstanceOf(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")

	if g.InstanceOf(root.Id, "Widget") {
		t.Fatalf("expected InstanceOf to be false before any prototype is set")
	}

	protoData, ok := g.SetProto(root.Id, "Widget", "app.Widget")
	if !ok {
		t.Fatalf("expected SetProto to succeed")
	}
	if !g.InstanceOf(root.Id, "Widget") {
		t.Fatalf("expected InstanceOf(Widget) to be true after SetProto")
	}

	g.DetachData(ids.NewNodeRef(root.Id), protoData.Id)
	if g.InstanceOf(root.Id, "Widget") {
		t.Fatalf("expected InstanceOf to become false once the prototype is detached")
	}
}

func TestGraph_SetProto_ExtendsChain(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")

	g.SetProto(root.Id, "Base", "app.Base")
	g.SetProto(root.Id, "Derived", "app.Derived")

	if !g.InstanceOf(root.Id, "Base") {
		t.Fatalf("expected InstanceOf(Base) to remain true after upcasting to Derived")
	}
	if !g.InstanceOf(root.Id, "Derived") {
		t.Fatalf("expected InstanceOf(Derived) to be true")
	}
}
