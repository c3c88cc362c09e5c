// Package bloblib implements the "Blob" library: conversions to/from
// UTF-8, base64, and url-safe base64, grounded on
// original_source/src/model/libraries/blob.rs. dustin/go-humanize backs a
// human-readable size for debug/print support.
package bloblib

import (
	"context"
	"encoding/base64"

	"github.com/dustin/go-humanize"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Blob"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func blob(v value.Val) ([]byte, *stoferrors.Error) {
	if v.Kind != value.Blob {
		return nil, stoferrors.New(stoferrors.KindValueOpNotSupported, "not a blob")
	}
	return v.Blob(), nil
}

func Funcs() []library.Func {
	return []library.Func{
		fn("len", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			b, err := blob(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.IntVal(int64(len(b))), nil
		}),
		fn("to_utf8", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			b, err := blob(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(string(b)), nil
		}),
		fn("from_utf8", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "from_utf8 requires a string")
			}
			return value.BlobVal([]byte(args[0].Str())), nil
		}),
		fn("to_base64", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			b, err := blob(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(base64.StdEncoding.EncodeToString(b)), nil
		}),
		fn("from_base64", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "from_base64 requires a string")
			}
			data, derr := base64.StdEncoding.DecodeString(args[0].Str())
			if derr != nil {
				return value.Val{}, stoferrors.Wrap(stoferrors.KindCastNotPossible, derr, "decode base64")
			}
			return value.BlobVal(data), nil
		}),
		fn("to_url_base64", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			b, err := blob(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(base64.URLEncoding.EncodeToString(b)), nil
		}),
		fn("from_url_base64", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "from_url_base64 requires a string")
			}
			data, derr := base64.URLEncoding.DecodeString(args[0].Str())
			if derr != nil {
				return value.Val{}, stoferrors.Wrap(stoferrors.KindCastNotPossible, derr, "decode url-base64")
			}
			return value.BlobVal(data), nil
		}),
		fn("human_size", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			b, err := blob(self)
			if err != nil {
				return value.Val{}, err
			}
			return value.StrVal(humanize.Bytes(uint64(len(b)))), nil
		}),
	}
}
