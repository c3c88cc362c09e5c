// Package tuplelib implements the "Tuple" library: fixed-arity,
// index-accessed value groups, grounded on
// original_source/src/model/libraries/tuple.rs.
package tuplelib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Tuple"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func tup(v value.Val) ([]value.Val, *stoferrors.Error) {
	if v.Kind != value.Tuple {
		return nil, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a tuple")
	}
	return v.Tuple(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("len", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := tup(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(len(items))), nil
		}),
		fn("at", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := tup(self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "at() requires an index")
			}
			i := int(args[0].Num().AsFloat())
			if i < 0 || i >= len(items) {
				return value.Val{}, stoferrors.New(stoferrors.KindCallArity, "tuple index %d out of range", i)
			}
			return items[i], nil
		}),
		fn("toList", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := tup(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.ListVal(append([]value.Val(nil), items...)), nil
		}),
	}
}
