package bytesfmt_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/format/bytesfmt"
	"github.com/dev-formata-io/stof-sub002/internal/fscap"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
)

func TestFormat_BinaryRoundTrip(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")

	f := bytesfmt.New()
	target := format.NodeTarget{Id: string(root.Id)}
	if err := f.BinaryImport(context.Background(), g, target, []byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected import error: %v", err)
	}
	data, err := f.BinaryExport(context.Background(), g, target)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if len(data) != 3 || data[0] != 1 || data[2] != 3 {
		t.Fatalf("expected round-tripped bytes, got %v", data)
	}
}

func TestFormat_FileImportExport_RequiresFilesystemCapability(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	target := format.NodeTarget{Id: string(root.Id)}

	f := bytesfmt.New()
	if err := f.FileImport(context.Background(), g, target, "x.bin"); err == nil {
		t.Fatalf("expected FileImport to fail without a filesystem capability")
	}
}

func TestFormat_FileImportExport_WithMemFilesystem(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("app")
	target := format.NodeTarget{Id: string(root.Id)}

	f := bytesfmt.WithFilesystem(fscap.Mem())
	if err := f.BinaryImport(context.Background(), g, target, []byte("payload")); err != nil {
		t.Fatalf("unexpected import error: %v", err)
	}
	if err := f.FileExport(context.Background(), g, target, "out.bin"); err != nil {
		t.Fatalf("unexpected FileExport error: %v", err)
	}

	g2 := graph.New()
	root2 := g2.NewRoot("app2")
	target2 := format.NodeTarget{Id: string(root2.Id)}
	if err := f.FileImport(context.Background(), g2, target2, "out.bin"); err != nil {
		t.Fatalf("unexpected FileImport error: %v", err)
	}
	data, err := f.BinaryExport(context.Background(), g2, target2)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("expected round-tripped file content, got %q", data)
	}
}
