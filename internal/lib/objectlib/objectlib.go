// Package objectlib implements the "Object" library: prototype chain
// manipulation and field schema normalization, grounded on
// original_source/src/model/libraries/object.rs and the Supplemented
// Features note on typepath/typename inheritance stacks.
package objectlib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Object"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func Funcs() []library.Func {
	return []library.Func{
		fn("proto", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Object {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "not an object")
			}
			d, ok := g.Proto(self.Obj().Id)
			if !ok {
				return value.NullVal(), nil
			}
			return value.StrVal(d.Prototype.TypeName), nil
		}),
		fn("set_proto", 1, 2, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Object || args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "set_proto requires an object and a type name")
			}
			path := ""
			if len(args) > 1 && args[1].Kind == value.String {
				path = args[1].Str()
			}
			g.SetProto(self.Obj().Id, args[0].Str(), path)
			return value.BoolVal(true), nil
		}),
		// upcast re-points self's prototype to typeName, extending the
		// inheritance stack rather than replacing it, so instance_of still
		// recognizes the prior, now-ancestor type.
		fn("upcast", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Object || args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "upcast requires an object and a type name")
			}
			g.SetProto(self.Obj().Id, args[0].Str(), "")
			return value.BoolVal(true), nil
		}),
		fn("instance_of", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Object || args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "instance_of requires an object and a type name")
			}
			return value.BoolVal(g.InstanceOf(self.Obj().Id, args[0].Str())), nil
		}),
		// schemafy casts every field under self to its declared type,
		// leaving undeclared fields untouched — a normalization pass
		// rather than a cast of any single value.
		fn("schemafy", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Object {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "not an object")
			}
			n, ok := g.Node(self.Obj().Id)
			if !ok {
				return value.BoolVal(true), nil
			}
			for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
				d, ok := g.Data(pair.Value)
				if !ok || d.Kind != graph.KindField || d.Field.DeclaredType == nil {
					continue
				}
				cast, err := d.Field.Value.Cast(*d.Field.DeclaredType)
				if err != nil {
					return value.Val{}, err
				}
				d.Field.Value = cast
			}
			return value.BoolVal(true), nil
		}),
		fn("attributes", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if self.Kind != value.Object {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "not an object")
			}
			n, ok := g.Node(self.Obj().Id)
			if !ok {
				return value.ListVal(nil), nil
			}
			names := make([]value.Val, 0, len(n.Attrs))
			for k := range n.Attrs {
				names = append(names, value.StrVal(k))
			}
			return value.ListVal(names), nil
		}),
	}
}
