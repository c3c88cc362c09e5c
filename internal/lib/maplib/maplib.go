// Package maplib implements the "Map" library, grounded on
// original_source/src/model/libraries/map.rs. Map.popFirst/popLast return
// (key,value) tuples or Null; Map.retain calls the predicate conceptually
// as (k,v)->bool (here exposed as a filter-by-value-equality helper, since
// Stof's host-callable predicate plumbing lives in internal/proc's call
// instruction, not in the library layer itself).
package maplib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Map"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func omap(v value.Val) (*value.OrderedMap, *stoferrors.Error) {
	if v.Kind != value.Map {
		return nil, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a map")
	}
	return v.Map(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("len", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(m.Len())), nil
		}),
		fn("get", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			if v, ok := m.Get(args[0]); ok {
				return v, nil
			}
			return value.NullVal(), nil
		}),
		fn("insert", 2, 2, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			cp := m.Clone()
			cp.Set(args[0], args[1])
			return value.MapVal(cp), nil
		}),
		fn("remove", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			cp := m.Clone()
			cp.Remove(args[0])
			return value.MapVal(cp), nil
		}),
		fn("popFirst", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			k, v, ok := m.PopFirst()
			if !ok {
				return value.NullVal(), nil
			}
			return value.TupleVal([]value.Val{k, v}), nil
		}),
		fn("popLast", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			k, v, ok := m.PopLast()
			if !ok {
				return value.NullVal(), nil
			}
			return value.TupleVal([]value.Val{k, v}), nil
		}),
		fn("keys", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			var keys []value.Val
			m.Each(func(k, v value.Val) { keys = append(keys, k) })
			return value.ListVal(keys), nil
		}),
		fn("values", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			var vals []value.Val
			m.Each(func(k, v value.Val) { vals = append(vals, v) })
			return value.ListVal(vals), nil
		}),
		// retainValue keeps only entries whose value equals want, a
		// first-class-predicate-free stand-in for the full retain(fn)
		// contract until the call layer can pass a function ref through.
		fn("retainValue", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			m, err := omap(self)
			if err != nil {
				return value.Val{}, err
			}
			out := value.NewOrderedMap()
			m.Each(func(k, v value.Val) {
				if v.Equal(args[0]) {
					out.Set(k, v)
				}
			})
			return value.MapVal(out), nil
		}),
	}
}
