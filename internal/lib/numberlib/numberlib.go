// Package numberlib implements the "Number" library (component K),
// grounded on original_source/src/model/libraries/number.rs.
package numberlib

import (
	"context"
	"math"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Number"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func unary(op func(float64) float64) library.Call {
	return func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
		if self.Kind != value.Number {
			return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a number")
		}
		n := self.Num()
		r := op(n.AsFloat())
		if n.Kind == value.NumInt {
			return value.IntVal(int64(r)), nil
		}
		if n.Kind == value.NumUnits {
			return value.NumVal(value.WithUnits(r, n.Units)), nil
		}
		return value.FloatVal(r), nil
	}
}

// Funcs returns every Number library function.
func Funcs() []library.Func {
	return []library.Func{
		fn("abs", 0, 0, unary(math.Abs)),
		fn("floor", 0, 0, unary(math.Floor)),
		fn("ceil", 0, 0, unary(math.Ceil)),
		fn("round", 0, 0, unary(math.Round)),
		fn("sqrt", 0, 0, unary(math.Sqrt)),
		fn("pow", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Number || args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "pow requires numbers")
			}
			return value.FloatVal(math.Pow(self.Num().AsFloat(), args[0].Num().AsFloat())), nil
		}),
		fn("toFixed", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Number || args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "toFixed requires numbers")
			}
			places := args[0].Num().AsFloat()
			mult := math.Pow(10, places)
			return value.FloatVal(math.Round(self.Num().AsFloat()*mult) / mult), nil
		}),
		fn("to_units", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Number || self.Num().Kind != value.NumUnits || args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "to_units requires a units number and a unit name")
			}
			target, ok := value.UnitsByName(args[0].Str())
			if !ok {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "unknown unit %q", args[0].Str())
			}
			converted, ok := value.Convert(self.Num().Float, self.Num().Units, target)
			if !ok {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "incompatible unit families")
			}
			return value.NumVal(value.WithUnits(converted, target)), nil
		}),
	}
}
