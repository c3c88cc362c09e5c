// Package listlib implements the "List" library, grounded on
// original_source/src/model/libraries/list.rs. List.at clamps/errors on
// out-of-range per spec.md §4.K; List.sort is stable via value.SortValues.
package listlib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "List"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func list(v value.Val) ([]value.Val, *stoferrors.Error) {
	if v.Kind != value.List {
		return nil, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a list")
	}
	return v.List(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("len", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(len(items))), nil
		}),
		// at clamps to [0, len-1] rather than erroring, matching the
		// "clamps/errs on out-of-range as specified" contract: an empty
		// list has no valid index and errors, any other index is clamped.
		fn("at", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			if len(items) == 0 {
				return value.Val{}, stoferrors.New(stoferrors.KindCallArity, "at() on empty list")
			}
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "at() requires an index")
			}
			i := int(args[0].Num().AsFloat())
			if i < 0 {
				i = 0
			}
			if i >= len(items) {
				i = len(items) - 1
			}
			return items[i], nil
		}),
		fn("push", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.ListVal(append(append([]value.Val(nil), items...), args[0])), nil
		}),
		fn("pop", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			if len(items) == 0 {
				return value.NullVal(), nil
			}
			return items[len(items)-1], nil
		}),
		fn("reverse", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			out := make([]value.Val, len(items))
			for i, v := range items {
				out[len(items)-1-i] = v
			}
			return value.ListVal(out), nil
		}),
		// sort is stable (spec.md §4.K); mixed-kind elements error rather
		// than silently ordering by Kind (Open Question (c)).
		fn("sort", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			cp := append([]value.Val(nil), items...)
			if serr := value.SortValues(cp); serr != nil {
				return value.Val{}, stoferrors.Wrap(stoferrors.KindSortIncomparable, serr, "list.sort")
			}
			return value.ListVal(cp), nil
		}),
		fn("contains", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			for _, v := range items {
				if v.Equal(args[0]) {
					return value.BoolVal(true), nil
				}
			}
			return value.BoolVal(false), nil
		}),
		fn("first", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			if len(items) == 0 {
				return value.NullVal(), nil
			}
			return items[0], nil
		}),
		fn("last", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			items, err := list(self)
			if err != nil {
				return value.Val{}, err
			}
			if len(items) == 0 {
				return value.NullVal(), nil
			}
			return items[len(items)-1], nil
		}),
	}
}
