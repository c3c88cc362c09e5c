package listlib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/lib/listlib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range listlib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), graph.New(), self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no List.%s registered", name)
	return value.Val{}
}

func list123() value.Val {
	return value.ListVal([]value.Val{value.IntVal(1), value.IntVal(2), value.IntVal(3)})
}

func TestList_Len(t *testing.T) {
	if v := call(t, "len", list123()); v.Num().Int != 3 {
		t.Fatalf("len = %v, want 3", v.Num().Int)
	}
}

func TestList_At_ClampsOutOfRange(t *testing.T) {
	if v := call(t, "at", list123(), value.IntVal(10)); v.Num().Int != 3 {
		t.Fatalf("at(10) = %v, want clamped to last element 3", v.Num().Int)
	}
	if v := call(t, "at", list123(), value.IntVal(-5)); v.Num().Int != 1 {
		t.Fatalf("at(-5) = %v, want clamped to first element 1", v.Num().Int)
	}
}

func TestList_At_EmptyListErrors(t *testing.T) {
	for _, f := range listlib.Funcs() {
		if f.Name == "at" {
			if _, err := f.Impl(context.Background(), graph.New(), value.ListVal(nil), []value.Val{value.IntVal(0)}); err == nil {
				t.Fatalf("expected at() on an empty list to fail")
			}
			return
		}
	}
	t.Fatalf("no List.at registered")
}

func TestList_Push(t *testing.T) {
	v := call(t, "push", list123(), value.IntVal(4))
	items := v.List()
	if len(items) != 4 || items[3].Num().Int != 4 {
		t.Fatalf("push = %+v, want [1 2 3 4]", items)
	}
}

func TestList_Reverse(t *testing.T) {
	v := call(t, "reverse", list123())
	items := v.List()
	if items[0].Num().Int != 3 || items[2].Num().Int != 1 {
		t.Fatalf("reverse = %+v, want [3 2 1]", items)
	}
}

func TestList_Sort(t *testing.T) {
	unsorted := value.ListVal([]value.Val{value.IntVal(3), value.IntVal(1), value.IntVal(2)})
	v := call(t, "sort", unsorted)
	items := v.List()
	if items[0].Num().Int != 1 || items[1].Num().Int != 2 || items[2].Num().Int != 3 {
		t.Fatalf("sort = %+v, want [1 2 3]", items)
	}
}

func TestList_Contains(t *testing.T) {
	if v := call(t, "contains", list123(), value.IntVal(2)); !v.Bool() {
		t.Fatalf("expected contains(2) to be true")
	}
	if v := call(t, "contains", list123(), value.IntVal(9)); v.Bool() {
		t.Fatalf("expected contains(9) to be false")
	}
}

func TestList_FirstLast(t *testing.T) {
	if v := call(t, "first", list123()); v.Num().Int != 1 {
		t.Fatalf("first = %v, want 1", v.Num().Int)
	}
	if v := call(t, "last", list123()); v.Num().Int != 3 {
		t.Fatalf("last = %v, want 3", v.Num().Int)
	}
	if v := call(t, "first", value.ListVal(nil)); v.Kind != value.Null {
		t.Fatalf("expected first() on an empty list to be Null")
	}
}
