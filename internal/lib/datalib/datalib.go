// Package datalib implements the "Data" library: inspection and movement
// of data items across nodes, grounded on
// original_source/src/model/libraries/data.rs. Data.drop releases a data
// item from every referring node; Data.move is atomic in the sense that no
// intermediate unattached state is observable — it attaches to the new
// node before detaching from the old one.
package datalib

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Data"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func dataRef(v value.Val) (ids.DataRef, *stoferrors.Error) {
	if v.Kind != value.Data {
		return ids.DataRef{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a data reference")
	}
	return v.Data(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("exists", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			ref, err := dataRef(self)
			if err != nil {
				return value.Val{}, err
			}
			_, ok := g.Data(ref.Id)
			return value.BoolVal(ok), nil
		}),
		fn("ref_count", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			ref, err := dataRef(self)
			if err != nil {
				return value.Val{}, err
			}
			d, ok := g.Data(ref.Id)
			if !ok {
				return value.IntVal(0), nil
			}
			return value.IntVal(int64(d.RefCount())), nil
		}),
		// drop detaches this data item from every node that currently
		// references it, recycling it to the deadpool once unreferenced.
		fn("drop", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			ref, err := dataRef(self)
			if err != nil {
				return value.Val{}, err
			}
			d, ok := g.Data(ref.Id)
			if !ok {
				return value.BoolVal(false), nil
			}
			for _, n := range append([]ids.NodeRef(nil), d.Nodes...) {
				g.DetachData(n, ref.Id)
			}
			return value.BoolVal(true), nil
		}),
		// move re-attaches this data item under (to, name) before detaching
		// it from from, so the item always has at least one referrer.
		fn("move", 3, 3, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			ref, err := dataRef(self)
			if err != nil {
				return value.Val{}, err
			}
			if args[0].Kind != value.Object || args[1].Kind != value.Object || args[2].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "move(from, to, name) requires (object, object, string)")
			}
			from := args[0].Obj()
			to := args[1].Obj()
			name := args[2].Str()
			d, ok := g.Data(ref.Id)
			if !ok {
				return value.BoolVal(false), nil
			}
			g.AttachData(to, name, d)
			g.DetachData(from, ref.Id)
			return value.BoolVal(true), nil
		}),
	}
}
