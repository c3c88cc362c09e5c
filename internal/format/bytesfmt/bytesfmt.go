// Package bytesfmt implements the "bytes" format: a raw passthrough that
// stores/retrieves a single blob field named "bytes", with no structured
// parsing at all. Deliberately stdlib-only — a raw byte passthrough has no
// parsing concern for any pack library to serve.
package bytesfmt

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/fscap"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const blobField = "bytes"

// Format optionally carries a filesystem capability; FileImport/FileExport
// fail with KindFilesystemNotAllowed if fs is nil, matching the capability-
// revocation contract of spec.md §4.J.
type Format struct {
	fs *fscap.Capability
}

func New() *Format { return &Format{} }

// WithFilesystem grants this format plugin a filesystem capability,
// satisfying format.FileCapableFormat.
func WithFilesystem(fs *fscap.Capability) *Format { return &Format{fs: fs} }

func (*Format) Name() string { return "bytes" }

func (f *Format) BinaryImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, data []byte) *stoferrors.Error {
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return stoferrors.New(stoferrors.KindNodeNotFound, "import target not found")
	}
	cp := append([]byte(nil), data...)
	g.SetFieldValue(nodeId, blobField, value.BlobVal(cp))
	return nil
}

func (f *Format) StringImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, text string) *stoferrors.Error {
	return f.BinaryImport(ctx, g, node, []byte(text))
}

func (f *Format) BinaryExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) ([]byte, *stoferrors.Error) {
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return nil, stoferrors.New(stoferrors.KindNodeNotFound, "export target not found")
	}
	v, ok := g.GetFieldValue(nodeId, blobField)
	if !ok || v.Kind != value.Blob {
		return nil, stoferrors.New(stoferrors.KindFormatExportNotImplemented, "no bytes field on node")
	}
	return v.Blob(), nil
}

func (f *Format) StringExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) (string, *stoferrors.Error) {
	data, err := f.BinaryExport(ctx, g, node)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *Format) FileImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, path string) *stoferrors.Error {
	data, err := f.fs.ReadFile(path)
	if err != nil {
		return err
	}
	return f.BinaryImport(ctx, g, node, data)
}

func (f *Format) FileExport(ctx context.Context, g *graph.Graph, node format.NodeTarget, path string) *stoferrors.Error {
	data, err := f.BinaryExport(ctx, g, node)
	if err != nil {
		return err
	}
	return f.fs.WriteFile(path, data)
}

func resolveNode(g *graph.Graph, node format.NodeTarget) (ids.SId, bool) {
	if node.Id == "" {
		roots := g.Roots()
		if len(roots) == 0 {
			return "", false
		}
		return roots[0], true
	}
	id := ids.SId(node.Id)
	return id, g.NodeExists(id)
}
