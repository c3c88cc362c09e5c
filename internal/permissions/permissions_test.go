package permissions_test

import (
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/permissions"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func TestPermissions_DefaultAccessIsWrite(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	p := permissions.New()
	if access := p.Access(g, ids.NewNodeRef(root.Id), nil); access != permissions.AccessWrite {
		t.Fatalf("expected default access to resolve to Write, got %v", access)
	}
}

func TestPermissions_ScopedAccessFromCaller(t *testing.T) {
	g := graph.New()
	scopeA := g.NewRoot("scopeA")
	callerB := g.NewRoot("callerB")

	p := permissions.New()
	p.SetAccessFrom(ids.NewNodeRef(callerB.Id), ids.NewNodeRef(scopeA.Id), permissions.AccessWrite)
	p.SetGeneralAccess(ids.NewNodeRef(scopeA.Id), permissions.AccessRead)

	fromB := ids.NewNodeRef(callerB.Id)
	if access := p.Access(g, ids.NewNodeRef(scopeA.Id), &fromB); access != permissions.AccessWrite {
		t.Fatalf("expected caller B to have write access to scope A, got %v", access)
	}
	if access := p.Access(g, ids.NewNodeRef(scopeA.Id), nil); access != permissions.AccessRead {
		t.Fatalf("expected default caller to have only read access to scope A, got %v", access)
	}
}

func TestPermissions_Locked(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	p := permissions.Locked()
	if access := p.Access(g, ids.NewNodeRef(root.Id), nil); access != permissions.AccessNone {
		t.Fatalf("expected a locked document to deny all access, got %v", access)
	}
}

func TestDocPermissions_PrivateFieldGating(t *testing.T) {
	g := graph.New()
	owner := g.NewRoot("owner")
	outsider := g.NewRoot("outsider")

	d := graph.NewFieldData(ids.NewSId(), value.IntVal(1))
	d.Field.Attributes["private"] = value.BoolVal(true)
	g.AttachData(ids.NewNodeRef(owner.Id), "secret", d)

	dp := permissions.NewDocPermissions()

	ownerRef := ids.NewNodeRef(owner.Id)
	if !dp.CanReadField(g, d, &ownerRef) {
		t.Fatalf("expected the owning node to read its own private field")
	}

	outsiderRef := ids.NewNodeRef(outsider.Id)
	if dp.CanReadField(g, d, &outsiderRef) {
		t.Fatalf("expected a different node to be denied access to a private field")
	}
	if dp.CanReadField(g, d, nil) {
		t.Fatalf("expected a callerless read of a private field to be denied")
	}
}

func TestDocPermissions_ReadonlyFieldDeniesWrites(t *testing.T) {
	g := graph.New()
	owner := g.NewRoot("owner")

	d := graph.NewFieldData(ids.NewSId(), value.IntVal(1))
	d.Field.Attributes["readonly"] = value.BoolVal(true)
	g.AttachData(ids.NewNodeRef(owner.Id), "fixed", d)

	dp := permissions.NewDocPermissions()
	ownerRef := ids.NewNodeRef(owner.Id)
	if dp.CanWriteField(g, d, &ownerRef) {
		t.Fatalf("expected a readonly field to deny writes even from its own node")
	}
	if !dp.CanReadField(g, d, &ownerRef) {
		t.Fatalf("expected a readonly (non-private) field to still allow reads")
	}
}
