package numberlib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/lib/numberlib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range numberlib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), graph.New(), self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Number.%s registered", name)
	return value.Val{}
}

func TestNumber_Abs(t *testing.T) {
	if v := call(t, "abs", value.IntVal(-5)); v.Num().Int != 5 {
		t.Fatalf("abs(-5) = %v, want 5", v.Num().Int)
	}
}

func TestNumber_Floor_Ceil_Round(t *testing.T) {
	if v := call(t, "floor", value.FloatVal(1.7)); v.Num().AsFloat() != 1 {
		t.Fatalf("floor(1.7) = %v, want 1", v.Num().AsFloat())
	}
	if v := call(t, "ceil", value.FloatVal(1.2)); v.Num().AsFloat() != 2 {
		t.Fatalf("ceil(1.2) = %v, want 2", v.Num().AsFloat())
	}
	if v := call(t, "round", value.FloatVal(1.5)); v.Num().AsFloat() != 2 {
		t.Fatalf("round(1.5) = %v, want 2", v.Num().AsFloat())
	}
}

func TestNumber_Sqrt(t *testing.T) {
	if v := call(t, "sqrt", value.FloatVal(9)); v.Num().AsFloat() != 3 {
		t.Fatalf("sqrt(9) = %v, want 3", v.Num().AsFloat())
	}
}

func TestNumber_Pow(t *testing.T) {
	if v := call(t, "pow", value.FloatVal(2), value.FloatVal(10)); v.Num().AsFloat() != 1024 {
		t.Fatalf("2.pow(10) = %v, want 1024", v.Num().AsFloat())
	}
}

func TestNumber_ToFixed(t *testing.T) {
	if v := call(t, "toFixed", value.FloatVal(3.14159), value.IntVal(2)); v.Num().AsFloat() != 3.14 {
		t.Fatalf("toFixed(2) = %v, want 3.14", v.Num().AsFloat())
	}
}

func TestNumber_ToUnits_ConvertsWithinFamily(t *testing.T) {
	minutes := value.NumVal(value.WithUnits(3, value.Minutes))
	for _, f := range numberlib.Funcs() {
		if f.Name == "to_units" {
			v, err := f.Impl(context.Background(), graph.New(), minutes, []value.Val{value.StrVal("seconds")})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Num().AsFloat() != 180 {
				t.Fatalf("3min.to_units(seconds) = %v, want 180", v.Num().AsFloat())
			}
			return
		}
	}
	t.Fatalf("no Number.to_units registered")
}

func TestNumber_AbsOnNonNumber_Fails(t *testing.T) {
	for _, f := range numberlib.Funcs() {
		if f.Name == "abs" {
			if _, err := f.Impl(context.Background(), graph.New(), value.StrVal("x"), nil); err == nil {
				t.Fatalf("expected abs() on a non-number to fail")
			}
			return
		}
	}
	t.Fatalf("no Number.abs registered")
}
