// Package jsonfmt implements the "json" format plugin using ohler55/ojg,
// grounded on the teacher's internal/ingest/json_walker.go (a JSONPath-
// style walk over parsed JSON) generalized from file-record ingestion to
// populating graph fields.
package jsonfmt

import (
	"context"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

type Format struct{}

func New() *Format { return &Format{} }

func (*Format) Name() string { return "json" }

func (f *Format) BinaryImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, data []byte) *stoferrors.Error {
	return stoferrors.New(stoferrors.KindFormatBinaryImportUtf8, "json import requires utf8 text")
}

func (f *Format) StringImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, text string) *stoferrors.Error {
	parsed, err := oj.ParseString(text)
	if err != nil {
		return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "parse json")
	}
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return stoferrors.New(stoferrors.KindNodeNotFound, "import target not found")
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return stoferrors.New(stoferrors.KindFormatImportNotImplemented, "json import requires a top-level object")
	}
	for k, v := range obj {
		g.SetFieldValue(nodeId, k, toVal(v))
	}
	return nil
}

func (f *Format) BinaryExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) ([]byte, *stoferrors.Error) {
	return nil, stoferrors.New(stoferrors.KindFormatExportNotImplemented, "json export has no distinct binary form")
}

func (f *Format) StringExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) (string, *stoferrors.Error) {
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return "", stoferrors.New(stoferrors.KindNodeNotFound, "export target not found")
	}
	out := map[string]any{}
	g.EachField(nodeId, func(name string, v value.Val) {
		out[name] = fromVal(v)
	})
	return oj.JSON(out, &oj.Options{Sort: true}), nil
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

// toVal maps ojg's generic any-tree (from oj.ParseString) into value.Val.
func toVal(v any) value.Val {
	switch t := v.(type) {
	case nil:
		return value.NullVal()
	case bool:
		return value.BoolVal(t)
	case int64:
		return value.IntVal(t)
	case float64:
		return value.FloatVal(t)
	case string:
		return value.StrVal(t)
	case []any:
		items := make([]value.Val, len(t))
		for i, e := range t {
			items[i] = toVal(e)
		}
		return value.ListVal(items)
	case map[string]any:
		m := value.NewOrderedMap()
		for k, e := range t {
			m.Set(value.StrVal(k), toVal(e))
		}
		return value.MapVal(m)
	default:
		return value.NullVal()
	}
}

func fromVal(v value.Val) any {
	switch v.Kind {
	case value.Null, value.Void:
		return nil
	case value.Bool:
		return v.Bool()
	case value.Number:
		n := v.Num()
		if n.Kind == value.NumInt {
			return n.Int
		}
		return n.AsFloat()
	case value.String:
		return v.Str()
	case value.List:
		items := v.List()
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = fromVal(e)
		}
		return out
	case value.Tuple:
		items := v.Tuple()
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = fromVal(e)
		}
		return out
	case value.Map:
		out := map[string]any{}
		v.Map().Each(func(k, val value.Val) {
			out[k.Str()] = fromVal(val)
		})
		return out
	default:
		return v.Str()
	}
}

// Query evaluates a JSONPath expression against node's exported JSON,
// giving scripts a Path()-style query surface over a sub-document (wired to
// the Json library's query(path) function in internal/lib/jsonlib).
func Query(ctx context.Context, g *graph.Graph, node format.NodeTarget, path string) ([]any, *stoferrors.Error) {
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return nil, stoferrors.New(stoferrors.KindNodeNotFound, "query target not found")
	}
	out := map[string]any{}
	g.EachField(nodeId, func(name string, v value.Val) {
		out[name] = fromVal(v)
	})
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "parse jsonpath %q", path)
	}
	return expr.Get(out), nil
}
