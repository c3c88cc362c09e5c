// Package versionlib implements the "Version" library: semantic-version
// component accessors, setters, and comparison, grounded on
// original_source/src/model/libraries/version.rs.
package versionlib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Version"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func ver(v value.Val) (value.Version, *stoferrors.Error) {
	if v.Kind != value.Ver {
		return value.Version{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a version")
	}
	return v.Ver(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("major", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(v.Major), nil
		}),
		fn("minor", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(v.Minor), nil
		}),
		fn("patch", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(v.Patch), nil
		}),
		fn("release", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			if v.Release == "" {
				return value.NullVal(), nil
			}
			return value.StrVal(v.Release), nil
		}),
		fn("set_major", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "set_major requires an int")
			}
			v.Major = int64(args[0].Num().AsFloat())
			return value.VerVal(v), nil
		}),
		fn("set_minor", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "set_minor requires an int")
			}
			v.Minor = int64(args[0].Num().AsFloat())
			return value.VerVal(v), nil
		}),
		fn("set_patch", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "set_patch requires an int")
			}
			v.Patch = int64(args[0].Num().AsFloat())
			return value.VerVal(v), nil
		}),
		fn("set_release", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "set_release requires a string")
			}
			v.Release = args[0].Str()
			return value.VerVal(v), nil
		}),
		fn("clear_release", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			v.Release = ""
			return value.VerVal(v), nil
		}),
		fn("compare", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			v, err := ver(self)
			if err != nil {
				return value.Val{}, err
			}
			o, err := ver(args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(v.Compare(o))), nil
		}),
	}
}
