// Package funclib implements the "Function" library: introspection over a
// function reference's name, parameters, and attributes, grounded on
// original_source/src/model/libraries/function.rs. Invocation itself is
// internal/proc's job (a function call is compiled to a CallIns, not
// dispatched through this library), so this library only exposes
// reflection.
package funclib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Function"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func funcData(g *graph.Graph, v value.Val) (*graph.FunctionData, *stoferrors.Error) {
	if v.Kind != value.Function {
		return nil, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a function reference")
	}
	ref := v.Fn()
	d, ok := g.Data(ref.Id)
	if !ok || d.Kind != graph.KindFunction {
		return nil, stoferrors.New(stoferrors.KindNodeNotFound, "function data gone")
	}
	return d.Function, nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("name", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			f, err := funcData(g, self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(f.Name), nil
		}),
		fn("arity", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			f, err := funcData(g, self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(len(f.Params))), nil
		}),
		fn("is_async", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			f, err := funcData(g, self)
			if err != nil {
				return value.Val{}, err
			}
			_, async := f.Attributes["async"]
			return value.BoolVal(async), nil
		}),
		fn("has_attribute", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			f, err := funcData(g, self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "has_attribute requires a string")
			}
			_, ok := f.Attributes[args[0].Str()]
			return value.BoolVal(ok), nil
		}),
	}
}
