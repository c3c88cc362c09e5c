package graphfs_test

import (
	"os"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/graphfs"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func fixture(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	root := g.NewRoot("app")
	child, ok := g.NewChild(root.Id, "settings")
	if !ok {
		t.Fatalf("failed to create child node")
	}
	g.SetFieldValue(root.Id, "name", value.StrVal("widget"))

	fn := graph.NewFunctionData(ids.NewSId(), "greet")
	fn.Function.Params = []graph.FuncParam{{Name: "who"}}
	g.AttachData(ids.NewNodeRef(child.Id), "greet", fn)

	return g
}

func TestReadDir_Root_ListsRootNodes(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	infos, err := fs.ReadDir("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 || infos[0].Name() != "app" || !infos[0].IsDir() {
		t.Fatalf("ReadDir(/) = %+v, want a single dir named app", infos)
	}
}

func TestReadDir_NestedNode_ListsChildrenAndData(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	infos, err := fs.ReadDir("/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := map[string]bool{}
	for _, fi := range infos {
		names[fi.Name()] = true
	}
	if !names["settings"] || !names["name"] {
		t.Fatalf("ReadDir(/app) = %+v, want settings dir and name field", infos)
	}
}

func TestOpen_FieldFile_RendersValue(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	f, err := fs.Open("/app/name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 64)
	n, _ := f.Read(buf)
	got := string(buf[:n])
	if got != "widget\n" {
		t.Fatalf("rendered field content = %q, want widget", got)
	}
}

func TestOpen_FunctionFile_RendersSignature(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	f, err := fs.Open("/app/settings/greet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 64)
	n, _ := f.Read(buf)
	got := string(buf[:n])
	if got != "fn greet(who)\n" {
		t.Fatalf("rendered function content = %q, want fn greet(who)", got)
	}
}

func TestOpen_DirectoryPath_Fails(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	if _, err := fs.Open("/app/settings"); err == nil {
		t.Fatalf("expected opening a directory as a file to fail")
	}
}

func TestOpen_MissingPath_Fails(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	if _, err := fs.Open("/app/missing"); err == nil {
		t.Fatalf("expected opening a missing path to fail")
	}
}

func TestLstat_Root(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	fi, err := fs.Lstat("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fi.IsDir() {
		t.Fatalf("expected / to be a directory")
	}
}

func TestWriteOperations_AllFailReadOnly(t *testing.T) {
	g := fixture(t)
	fs := graphfs.NewGraphFS(g)

	if _, err := fs.Create("/app/new"); err == nil {
		t.Fatalf("expected Create to fail on a read-only filesystem")
	}
	if err := fs.Remove("/app/name"); err == nil {
		t.Fatalf("expected Remove to fail on a read-only filesystem")
	}
	if err := fs.Rename("/app/name", "/app/other"); err == nil {
		t.Fatalf("expected Rename to fail on a read-only filesystem")
	}
	if err := fs.MkdirAll("/app/new", 0o755); err == nil {
		t.Fatalf("expected MkdirAll to fail on a read-only filesystem")
	}
	if _, err := fs.OpenFile("/app/name", os.O_RDWR, 0o644); err == nil {
		t.Fatalf("expected OpenFile with write flags to fail on a read-only filesystem")
	}
}
