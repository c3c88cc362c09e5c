// Package strlib implements the "String" library, grounded on
// original_source/src/model/libraries/string.rs. Case conversion uses
// golang.org/x/text/cases for locale-aware Unicode casing instead of
// strings.ToUpper/ToLower.
package strlib

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "String"

var upper = cases.Upper(language.Und)
var lower = cases.Lower(language.Und)

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func str(v value.Val) (string, *stoferrors.Error) {
	if v.Kind != value.String {
		return "", stoferrors.New(stoferrors.KindValueOpNotSupported, "not a string")
	}
	return v.Str(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("len", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(len([]rune(s)))), nil
		}),
		fn("upper", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(upper.String(s)), nil
		}),
		fn("lower", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(lower.String(s)), nil
		}),
		fn("trim", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(strings.TrimSpace(s)), nil
		}),
		fn("contains", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			sub, err := str(args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(strings.Contains(s, sub)), nil
		}),
		fn("replace", 2, 2, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			from, err := str(args[0])
			if err != nil {
				return value.Val{}, err
			}
			to, err := str(args[1])
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(strings.ReplaceAll(s, from, to)), nil
		}),
		fn("split", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			sep, err := str(args[0])
			if err != nil {
				return value.Val{}, err
			}
			parts := strings.Split(s, sep)
			out := make([]value.Val, len(parts))
			for i, p := range parts {
				out[i] = value.StrVal(p)
			}
			return value.ListVal(out), nil
		}),
		fn("starts_with", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			p, err := str(args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(strings.HasPrefix(s, p)), nil
		}),
		fn("ends_with", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			s, err := str(self)
			if err != nil {
				return value.Val{}, err
			}
			p, err := str(args[0])
			if err != nil {
				return value.Val{}, err
			}
			return value.BoolVal(strings.HasSuffix(s, p)), nil
		}),
	}
}
