// Package format implements Stof's format registry (component H): a set
// of named import/export plugins with the fallback chains described in
// spec.md §4.H, grounded on
// original_source/src/model/formats/format.rs's Format trait.
package format

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

// Format is the contract every format plugin implements. A plugin need not
// implement every method meaningfully — Registry.ImportBytes/ExportBytes
// fall back from the binary method to the string one (binary->utf8->string),
// Document.FileImport/FileExport fall back from file to binary for formats
// that are not file-capable, and a plugin that truly can't support a direction returns a
// KindFormatImportNotImplemented/KindFormatExportNotImplemented error.
type Format interface {
	// Name is the registry key ("json", "hcl", "sqlite", "bytes", ...).
	Name() string

	// BinaryImport parses raw bytes into node, attaching fields/children to
	// it. Most text formats implement this by requiring the bytes be valid
	// UTF-8 and delegating to StringImport.
	BinaryImport(ctx context.Context, g *graph.Graph, node NodeTarget, data []byte) *stoferrors.Error

	// StringImport parses text into node.
	StringImport(ctx context.Context, g *graph.Graph, node NodeTarget, text string) *stoferrors.Error

	// BinaryExport serializes node to raw bytes.
	BinaryExport(ctx context.Context, g *graph.Graph, node NodeTarget) ([]byte, *stoferrors.Error)

	// StringExport serializes node to text. Most binary-only formats
	// (sqlite) implement this by returning KindFormatExportNotImplemented.
	StringExport(ctx context.Context, g *graph.Graph, node NodeTarget) (string, *stoferrors.Error)
}

// NodeTarget identifies the node an import/export operation is scoped to.
// It's a thin wrapper rather than a bare ids.SId so format plugins don't
// need to import internal/ids directly for the common case of "the whole
// document" (Id == "").
type NodeTarget struct {
	Id string
}

func Root() NodeTarget { return NodeTarget{} }

// FileCapableFormat is implemented by plugins that can also import/export
// directly against a filesystem path, gated by whatever fscap.Filesystem
// the embedder registered (spec.md §4.H's "format+filesystem" combination,
// §4.J's capability-revocation note: a format that implements this
// interface simply isn't usable for file import/export if no filesystem
// capability was registered with the Document).
type FileCapableFormat interface {
	Format
	FileImport(ctx context.Context, g *graph.Graph, node NodeTarget, path string) *stoferrors.Error
	FileExport(ctx context.Context, g *graph.Graph, node NodeTarget, path string) *stoferrors.Error
}

// Registry is the document-wide table of registered formats.
type Registry struct {
	formats map[string]Format
}

func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

func (r *Registry) Register(f Format) {
	r.formats[f.Name()] = f
}

func (r *Registry) Lookup(name string) (Format, bool) {
	f, ok := r.formats[name]
	return f, ok
}

// ImportBytes implements the binary->utf8->string fallback chain: if a
// plugin's BinaryImport declines with KindFormatBinaryImportUtf8, the
// caller retries as StringImport on the same bytes decoded as UTF-8.
func (r *Registry) ImportBytes(ctx context.Context, g *graph.Graph, name string, node NodeTarget, data []byte) *stoferrors.Error {
	f, ok := r.formats[name]
	if !ok {
		return stoferrors.New(stoferrors.KindFormatNotFound, "format %q not registered", name)
	}
	err := f.BinaryImport(ctx, g, node, data)
	if err != nil && err.Kind == stoferrors.KindFormatBinaryImportUtf8 {
		return f.StringImport(ctx, g, node, string(data))
	}
	return err
}

func (r *Registry) ImportString(ctx context.Context, g *graph.Graph, name string, node NodeTarget, text string) *stoferrors.Error {
	f, ok := r.formats[name]
	if !ok {
		return stoferrors.New(stoferrors.KindFormatNotFound, "format %q not registered", name)
	}
	return f.StringImport(ctx, g, node, text)
}

// ExportBytes implements the binary->string fallback chain: if a plugin
// has no meaningful binary form, it falls back to its string export
// encoded as UTF-8.
func (r *Registry) ExportBytes(ctx context.Context, g *graph.Graph, name string, node NodeTarget) ([]byte, *stoferrors.Error) {
	f, ok := r.formats[name]
	if !ok {
		return nil, stoferrors.New(stoferrors.KindFormatNotFound, "format %q not registered", name)
	}
	data, err := f.BinaryExport(ctx, g, node)
	if err != nil && err.Kind == stoferrors.KindFormatExportNotImplemented {
		s, serr := f.StringExport(ctx, g, node)
		if serr != nil {
			return nil, serr
		}
		return []byte(s), nil
	}
	return data, err
}

func (r *Registry) ExportString(ctx context.Context, g *graph.Graph, name string, node NodeTarget) (string, *stoferrors.Error) {
	f, ok := r.formats[name]
	if !ok {
		return "", stoferrors.New(stoferrors.KindFormatNotFound, "format %q not registered", name)
	}
	return f.StringExport(ctx, g, node)
}

// ImportFile and ExportFile require the format to implement
// FileCapableFormat; absent that, they fail with
// KindFormatFileImportNotAllowed, matching the capability-gated contract.
func (r *Registry) ImportFile(ctx context.Context, g *graph.Graph, name string, node NodeTarget, path string) *stoferrors.Error {
	f, ok := r.formats[name]
	if !ok {
		return stoferrors.New(stoferrors.KindFormatNotFound, "format %q not registered", name)
	}
	fc, ok := f.(FileCapableFormat)
	if !ok {
		return stoferrors.New(stoferrors.KindFormatFileImportNotAllowed, "format %q has no file capability", name)
	}
	return fc.FileImport(ctx, g, node, path)
}

func (r *Registry) ExportFile(ctx context.Context, g *graph.Graph, name string, node NodeTarget, path string) *stoferrors.Error {
	f, ok := r.formats[name]
	if !ok {
		return stoferrors.New(stoferrors.KindFormatNotFound, "format %q not registered", name)
	}
	fc, ok := f.(FileCapableFormat)
	if !ok {
		return stoferrors.New(stoferrors.KindFormatFileImportNotAllowed, "format %q has no file capability", name)
	}
	return fc.FileExport(ctx, g, node, path)
}
