// Package corelib implements the "Std" library: printing, assertions, and
// sleep, grounded on
// original_source/src/model/libraries/stof_std/{print,assert,mod}.rs. It is
// named corelib rather than stdlib to avoid colliding with Go's own
// standard library in import statements.
package corelib

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
	"github.com/dustin/go-humanize"
)

const libName = "Std"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

// render formats a value the way pln/dbg/err join their arguments: strings
// pass through bare, everything else falls back to a Go-ish rendering, and
// the join separator becomes ", " unless any argument was a string (mirrors
// the original's "seen_str" rule — messages built with a leading string
// literal read as a sentence, not a comma list).
func render(v value.Val) string {
	if v.Kind == value.Blob {
		return humanize.Bytes(uint64(len(v.Blob())))
	}
	return v.Display()
}

func join(values []value.Val) string {
	sep := ""
	seenStr := false
	for _, v := range values {
		if v.Kind == value.String {
			seenStr = true
		}
	}
	if !seenStr {
		sep = ", "
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = render(v)
	}
	return strings.Join(parts, sep)
}

func Funcs() []library.Func {
	return []library.Func{
		fn("pln", 0, -1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			fmt.Println(join(args))
			return value.VoidVal(), nil
		}),
		fn("dbg", 0, -1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			fmt.Println(join(args))
			return value.VoidVal(), nil
		}),
		fn("err", 0, -1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			fmt.Fprintln(os.Stderr, join(args))
			return value.VoidVal(), nil
		}),
		fn("sleep", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "sleep requires a number of milliseconds")
			}
			d := time.Duration(args[0].Num().AsFloat()) * time.Millisecond
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
			}
			return value.VoidVal(), nil
		}),
		fn("assert", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if !args[0].Truthy() {
				return value.Val{}, stoferrors.New(stoferrors.KindAssertFailed, "%s is not truthy", render(args[0]))
			}
			return value.VoidVal(), nil
		}),
		fn("assert_not", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Truthy() {
				return value.Val{}, stoferrors.New(stoferrors.KindAssertFailed, "%s is truthy", render(args[0]))
			}
			return value.VoidVal(), nil
		}),
		fn("assert_eq", 2, 2, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if !args[0].Equal(args[1]) {
				return value.Val{}, stoferrors.New(stoferrors.KindAssertFailed, "%s does not equal %s", render(args[0]), render(args[1]))
			}
			return value.VoidVal(), nil
		}),
		fn("assert_neq", 2, 2, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Equal(args[1]) {
				return value.Val{}, stoferrors.New(stoferrors.KindAssertFailed, "%s equals %s", render(args[0]), render(args[1]))
			}
			return value.VoidVal(), nil
		}),
	}
}
