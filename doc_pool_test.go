package stof

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// TestDocumentPool_ConcurrentIsolation demonstrates §5's "one scheduler +
// graph per request" isolation contract: N concurrently running Documents,
// driven by errgroup, never observe each other's graph state.
func TestDocumentPool_ConcurrentIsolation(t *testing.T) {
	const n = 8
	var g errgroup.Group

	for i := range n {
		i := i
		g.Go(func() error {
			doc := New()
			root := doc.Graph.NewRoot("root")
			nodeRef := ids.NewNodeRef(root.Id)

			source := fmt.Sprintf(`{"n": %d}`, i)
			if err := doc.StringImport(context.Background(), "json", source, &nodeRef); err != nil {
				return err
			}
			v, ok := doc.Graph.GetFieldValue(root.Id, "n")
			if !ok {
				return fmt.Errorf("request %d: field n missing after import", i)
			}
			if v.Num().AsFloat() != float64(i) {
				return fmt.Errorf("request %d: field n = %v, want %d (cross-request contamination)", i, v, i)
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}

func TestDocument_StdLibRevocation(t *testing.T) {
	doc := New()
	require.True(t, doc.Libraries.HasLibrary("Std"))
	doc.RemoveLib("Std")
	assert.False(t, doc.Libraries.HasLibrary("Std"))
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	doc := New()
	root := doc.Graph.NewRoot("root")
	ref := ids.NewNodeRef(root.Id)

	const source = `{"a": 1, "name": "x"}`
	require.Nil(t, doc.StringImport(context.Background(), "json", source, &ref))

	a, ok := doc.Graph.GetFieldValue(root.Id, "a")
	require.True(t, ok)
	assert.Equal(t, value.IntVal(1).Num().AsFloat(), a.Num().AsFloat())

	out, err := doc.StringExport(context.Background(), "json", &ref)
	require.Nil(t, err)
	assert.Contains(t, out, `"a"`)
}
