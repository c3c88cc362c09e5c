// Package jsonlib implements the "Json" library: a query surface over an
// object's fields via JSONPath, grounded on the teacher's
// internal/ingest/json_walker.go (a JSONPath-style walk over parsed JSON)
// and wired to internal/format/jsonfmt.Query, which does the actual
// ohler55/ojg jp expression evaluation against the node's exported fields.
package jsonlib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/format/jsonfmt"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Json"

// Funcs returns the Json library's functions: Json.query(path), self-scoped
// to an object, evaluating a JSONPath expression against that object's
// exported fields and returning the matches as a List.
func Funcs() []library.Func {
	return []library.Func{
		{
			Library: libName, Name: "query", MinArity: 1, MaxArity: 1,
			Docs: "query(path): evaluate a JSONPath expression against this object's fields",
			Impl: func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
				if self.Kind != value.Object {
					return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "Json.query requires an object receiver")
				}
				if args[0].Kind != value.String {
					return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "Json.query(path) requires a string path")
				}
				target := format.NodeTarget{Id: self.Obj().Id.String()}
				matches, err := jsonfmt.Query(ctx, g, target, args[0].Str())
				if err != nil {
					return value.Val{}, err
				}
				out := make([]value.Val, len(matches))
				for i, m := range matches {
					out[i] = toVal(m)
				}
				return value.ListVal(out), nil
			},
		},
	}
}

// toVal maps a jp.Get result (the same generic any-tree jsonfmt.Query's
// caller, oj.ParseString, produces) into value.Val.
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
