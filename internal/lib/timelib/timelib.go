// Package timelib implements the "Time" library: wall-clock access and
// RFC3339 formatting, grounded on original_source/src/model/libraries/time.rs.
// The runtime reports wall time in milliseconds, matching the original's
// millisecond-resolution Time value rather than Go's nanosecond default.
package timelib

import (
	"context"
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

const libName = "Time"

func fn(name string, min, max int, impl library.Call) library.Func {
	return library.Func{Library: libName, Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func Funcs() []library.Func {
	return []library.Func{
		fn("now", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			return value.IntVal(time.Now().UnixMilli()), nil
		}),
		fn("now_ns", 0, 0, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			return value.IntVal(time.Now().UnixNano()), nil
		}),
		// diff returns self - other in milliseconds, both operands already
		// millisecond timestamps (as returned by now()).
		fn("diff", 2, 2, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.Number || args[1].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "diff requires two timestamps")
			}
			a := args[0].Num().AsFloat()
			b := args[1].Num().AsFloat()
			return value.IntVal(int64(a - b)), nil
		}),
		// sleep blocks the calling goroutine for the given number of
		// milliseconds, honoring ctx cancellation so a dropped process
		// doesn't leak a timer.
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
		fn("to_rfc3339", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.Number {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "to_rfc3339 requires a timestamp")
			}
			ms := int64(args[0].Num().AsFloat())
			t := time.UnixMilli(ms).UTC()
			return value.StrVal(t.Format(time.RFC3339Nano)), nil
		}),
		fn("from_rfc3339", 1, 1, func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
			if args[0].Kind != value.String {
				return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "from_rfc3339 requires a string")
			}
			t, err := time.Parse(time.RFC3339Nano, args[0].Str())
			if err != nil {
				return value.Val{}, stoferrors.Wrap(stoferrors.KindCastNotPossible, err, "invalid rfc3339 timestamp")
			}
			return value.IntVal(t.UnixMilli()), nil
		}),
	}
}
