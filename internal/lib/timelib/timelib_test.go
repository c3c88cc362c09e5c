package timelib_test

import (
	"context"
	"testing"
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/lib/timelib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range timelib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), graph.New(), self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Time.%s registered", name)
	return value.Val{}
}

func TestTime_NowIsMillisecondResolution(t *testing.T) {
	before := time.Now().UnixMilli()
	v := call(t, "now", value.Val{})
	after := time.Now().UnixMilli()
	if v.Num().Int < before || v.Num().Int > after {
		t.Fatalf("now() = %v, want between %v and %v", v.Num().Int, before, after)
	}
}

func TestTime_Diff(t *testing.T) {
	v := call(t, "diff", value.Val{}, value.IntVal(1000), value.IntVal(400))
	if v.Num().Int != 600 {
		t.Fatalf("diff(1000, 400) = %v, want 600", v.Num().Int)
	}
}

func TestTime_Rfc3339RoundTrip(t *testing.T) {
	ms := int64(1700000000000)
	formatted := call(t, "to_rfc3339", value.Val{}, value.IntVal(ms))
	back := call(t, "from_rfc3339", value.Val{}, formatted)
	if back.Num().Int != ms {
		t.Fatalf("rfc3339 round trip = %v, want %v", back.Num().Int, ms)
	}
}

func TestTime_Sleep_RespectsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, f := range timelib.Funcs() {
		if f.Name == "sleep" {
			start := time.Now()
			if _, err := f.Impl(ctx, graph.New(), value.Val{}, []value.Val{value.IntVal(10000)}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if time.Since(start) > time.Second {
				t.Fatalf("expected sleep to return promptly once ctx was already cancelled")
			}
			return
		}
	}
	t.Fatalf("no Time.sleep registered")
}
