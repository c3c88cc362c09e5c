package stof

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-formata-io/stof-sub002/internal/fscap"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/proc"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// attach compiles ins as a function named name on node, tagged with attrs,
// returning nothing to the caller beyond the side effect.
func attach(doc *Document, node *graph.Node, name string, params []graph.FuncParam, attrs []string, ins proc.Instructions) {
	d := graph.NewFunctionData(ids.NewSId(), name)
	d.Function.Params = params
	d.Function.Body = ins
	for _, a := range attrs {
		d.Function.Attributes[a] = value.BoolVal(true)
	}
	doc.Graph.AttachData(ids.NewNodeRef(node.Id), name, d)
}

func TestDocument_Call_RunsCompiledFunctionToCompletion(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("app")

	ins := proc.NewInstructions(
		&proc.PushConst{Val: value.IntVal(2)},
		&proc.PushConst{Val: value.IntVal(3)},
		&proc.BinOp{Op: "+"},
		&proc.ReturnIns{HasValue: true},
	)
	attach(doc, root, "add", nil, nil, ins)

	v, err := doc.Call(context.Background(), ids.NewNodeRef(root.Id), "add", nil)
	require.Nil(t, err)
	assert.Equal(t, int64(5), v.Num().Int)
}

func TestDocument_Call_ArityMismatchFails(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("app")

	ins := proc.NewInstructions(&proc.ReturnIns{HasValue: false})
	attach(doc, root, "needsOne", []graph.FuncParam{{Name: "x"}}, nil, ins)

	_, err := doc.Call(context.Background(), ids.NewNodeRef(root.Id), "needsOne", nil)
	require.NotNil(t, err)
	assert.Equal(t, stoferrors.KindCallArity, err.Kind)
}

func TestDocument_Call_UnknownFunctionFails(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("app")

	_, err := doc.Call(context.Background(), ids.NewNodeRef(root.Id), "missing", nil)
	require.NotNil(t, err)
	assert.Equal(t, stoferrors.KindLibraryFuncNotFound, err.Kind)
}

func TestDocument_RunAttributeFunctions_RunsTaggedOnly(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("app")

	tagged := proc.NewInstructions(
		&proc.PushConst{Val: value.IntVal(1)},
		&proc.ReturnIns{HasValue: true},
	)
	attach(doc, root, "onInit", nil, []string{"init"}, tagged)

	untagged := proc.NewInstructions(&proc.ReturnIns{HasValue: false})
	attach(doc, root, "helper", nil, nil, untagged)

	results, errs := doc.RunAttributeFunctions(context.Background(), ids.NewNodeRef(root.Id), []string{"init"}, false)
	assert.Empty(t, errs)
	require.Contains(t, results, "onInit")
	assert.Equal(t, int64(1), results["onInit"].Num().Int)
	assert.NotContains(t, results, "helper")
}

func TestDocument_RunTests_CountsPassAndFail(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("app")

	passing := proc.NewInstructions(
		&proc.PushConst{Val: value.BoolVal(true)},
		&proc.ReturnIns{HasValue: true},
	)
	attach(doc, root, "testPass", nil, []string{"test"}, passing)

	failing := proc.NewInstructions(
		&proc.PushConst{Val: value.BoolVal(false)},
		&proc.CallLibFunc{Registry: doc.Libraries, Library: "Std", Name: "assert", Argc: 1},
		&proc.ReturnIns{HasValue: false},
	)
	attach(doc, root, "testFail", nil, []string{"test"}, failing)

	report := doc.RunTests(context.Background(), ids.NewNodeRef(root.Id), false, "")
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
}

func TestDocument_FileImportExport_RequiresFilesystemCapability(t *testing.T) {
	doc := New().WithFilesystem(fscap.Mem())
	root := doc.Graph.NewRoot("app")
	ref := ids.NewNodeRef(root.Id)

	path := "/roundtrip.bin"
	require.Nil(t, doc.Filesystem.WriteFile(path, []byte("hello")))
	require.Nil(t, doc.FileImport(context.Background(), "bytes", path, &ref))

	out := "/out.bin"
	require.Nil(t, doc.FileExport(context.Background(), "bytes", out, &ref))
	data, rerr := doc.Filesystem.ReadFile(out)
	require.Nil(t, rerr)
	assert.Equal(t, []byte("hello"), data)
}

func TestDocument_FileImport_WithoutCapabilityFails(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("app")
	ref := ids.NewNodeRef(root.Id)

	err := doc.FileImport(context.Background(), "json", "/nope.json", &ref)
	require.NotNil(t, err)
}
