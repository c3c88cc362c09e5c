package sqlitefmt

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func TestFormat_BinaryRoundTrip(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("root")
	g.SetFieldValue(root.Id, "greeting", value.StrVal("hello"))

	f := New()
	out, err := f.BinaryExport(context.Background(), g, format.Root())
	require.Nil(t, err)
	require.NotEmpty(t, out)

	g2 := graph.New()
	require.Nil(t, f.BinaryImport(context.Background(), g2, format.Root(), out))
	_, ok := g2.Node(root.Id)
	assert.True(t, ok, "round-tripped graph should recreate the original root node")
}

func TestOpenQueryable_StofRefs(t *testing.T) {
	g := graph.New()
	root := g.NewRoot("root")
	child, ok := g.NewChild(root.Id, "child")
	require.True(t, ok)

	data, ok := g.SetFieldValue(root.Id, "shared", value.IntVal(7))
	require.True(t, ok)
	require.True(t, g.AttachData(ids.NewNodeRef(child.Id), "shared", data))

	f := New()
	out, ferr := f.BinaryExport(context.Background(), g, format.Root())
	require.Nil(t, ferr)

	tmp, oerr := os.CreateTemp("", "stof-query-*.sqlite")
	require.NoError(t, oerr)
	defer os.Remove(tmp.Name())
	_, werr := tmp.Write(out)
	require.NoError(t, werr)
	require.NoError(t, tmp.Close())

	db, closeFn, qerr := OpenQueryable("refs-test", tmp.Name())
	require.Nil(t, qerr)
	defer closeFn()

	_, verr := db.Exec(`CREATE VIRTUAL TABLE refs USING stof_refs(refs-test)`)
	require.NoError(t, verr)

	rows, qerr2 := db.Query(`SELECT node_id FROM refs WHERE data_id = ?`, string(data.Id))
	require.NoError(t, qerr2)
	defer rows.Close()

	var nodeIds []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		nodeIds = append(nodeIds, id)
	}
	assert.ElementsMatch(t, []string{string(root.Id), string(child.Id)}, nodeIds)
}
