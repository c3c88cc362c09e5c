package jsonfmt_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/format/jsonfmt"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

func TestFormat_StringImport_SetsFields(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")

	f := jsonfmt.New()
	err := f.StringImport(context.Background(), g, format.NodeTarget{Id: string(root.Id)}, `{"name": "ok", "count": 3, "ratio": 1.5, "active": true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, ok := g.GetFieldValue(root.Id, "name")
	if !ok || name.Str() != "ok" {
		t.Fatalf("expected name == ok, got %+v ok=%v", name, ok)
	}
	count, ok := g.GetFieldValue(root.Id, "count")
	if !ok || count.Num().Int != 3 {
		t.Fatalf("expected count == 3, got %+v ok=%v", count, ok)
	}
}

func TestFormat_RoundTrip_ImportThenExport(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")

	f := jsonfmt.New()
	target := format.NodeTarget{Id: string(root.Id)}
	if err := f.StringImport(context.Background(), g, target, `{"greeting": "hi"}`); err != nil {
		t.Fatalf("unexpected import error: %v", err)
	}

	out, err := f.StringExport(context.Background(), g, target)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if out == "" {
		t.Fatalf("expected non-empty export")
	}

	g2 := graph.New()
	root2 := g2.NewRoot("app2")
	target2 := format.NodeTarget{Id: string(root2.Id)}
	if err := f.StringImport(context.Background(), g2, target2, out); err != nil {
		t.Fatalf("unexpected re-import error: %v", err)
	}
	v, ok := g2.GetFieldValue(root2.Id, "greeting")
	if !ok || v.Str() != "hi" {
		t.Fatalf("expected round-tripped greeting == hi, got %+v ok=%v", v, ok)
	}
}

func TestFormat_BinaryImport_DeclinesWithUtf8Fallback(t *testing.T) {
	f := jsonfmt.New()
	g := graph.New()
	err := f.BinaryImport(context.Background(), g, format.Root(), []byte(`{}`))
	if err == nil || err.Kind != stoferrors.KindFormatBinaryImportUtf8 {
		t.Fatalf("expected BinaryImport to decline with KindFormatBinaryImportUtf8, got %v", err)
	}
}

func TestFormat_StringImport_RejectsNonObjectTop(t *testing.T) {
	f := jsonfmt.New()
	g := graph.New()
	root := g.NewRoot("app")
	if err := f.StringImport(context.Background(), g, format.NodeTarget{Id: string(root.Id)}, `[1,2,3]`); err == nil {
		t.Fatalf("expected a top-level JSON array to be rejected")
	}
}
