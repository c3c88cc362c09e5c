// Package setlib implements the "Set" library, grounded on
// original_source/src/model/libraries/set.rs. Sets are ordered by sorted
// key (Open Question (b)) and expose the full algebra contract from
// spec.md §4.K.
package setlib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Set"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func oset(v value.Val) (*value.OrderedSet, *stoferrors.Error) {
	if v.Kind != value.Set {
		return nil, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a set")
	}
	return v.Set(), nil
}

func pair(self, arg value.Val) (*value.OrderedSet, *value.OrderedSet, *stoferrors.Error) {
	a, err := oset(self)
	if err != nil {
		return nil, nil, err
	}
	b, err := oset(arg)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("len", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := oset(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(s.Len())), nil
		}),
		fn("contains", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := oset(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(s.Contains(args[0])), nil
		}),
		fn("insert", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := oset(self)
			if err != nil {
				return value.Val{}, err
			}
			cp := s.Clone()
			cp.Insert(args[0])
			return value.SetVal(cp), nil
		}),
		fn("remove", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := oset(self)
			if err != nil {
				return value.Val{}, err
			}
			cp := s.Clone()
			cp.Remove(args[0])
			return value.SetVal(cp), nil
		}),
		fn("union", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.SetVal(a.Union(b)), nil
		}),
		fn("intersection", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.SetVal(a.Intersection(b)), nil
		}),
		fn("difference", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.SetVal(a.Difference(b)), nil
		}),
		fn("symmetric_difference", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.SetVal(a.SymmetricDifference(b)), nil
		}),
		fn("subset", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(a.IsSubsetOf(b)), nil
		}),
		fn("superset", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(a.IsSupersetOf(b)), nil
		}),
		fn("disjoint", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			a, b, err := pair(self, args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(a.IsDisjoint(b)), nil
		}),
	}
}
