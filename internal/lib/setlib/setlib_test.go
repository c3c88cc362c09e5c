package setlib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/lib/setlib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range setlib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), graph.New(), self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Set.%s registered", name)
	return value.Val{}
}

func setOf(ints ...int64) value.Val {
	s := value.NewOrderedSet()
	for _, i := range ints {
		s.Insert(value.IntVal(i))
	}
	return value.SetVal(s)
}

func TestSet_LenAndContains(t *testing.T) {
	s := setOf(1, 2, 3)
	if v := call(t, "len", s); v.Num().Int != 3 {
		t.Fatalf("len = %v, want 3", v.Num().Int)
	}
	if v := call(t, "contains", s, value.IntVal(2)); !v.Bool() {
		t.Fatalf("expected contains(2) to be true")
	}
	if v := call(t, "contains", s, value.IntVal(9)); v.Bool() {
		t.Fatalf("expected contains(9) to be false")
	}
}

func TestSet_InsertAndRemove(t *testing.T) {
	s := setOf(1, 2)
	v := call(t, "insert", s, value.IntVal(3))
	if v.Set().Len() != 3 {
		t.Fatalf("expected insert to grow the set to 3, got %d", v.Set().Len())
	}
	v = call(t, "remove", v, value.IntVal(1))
	if v.Set().Len() != 2 || v.Set().Contains(value.IntVal(1)) {
		t.Fatalf("expected remove(1) to drop it from the set")
	}
}

func TestSet_UnionIntersectionDifference(t *testing.T) {
	a := setOf(1, 2, 3)
	b := setOf(2, 3, 4)

	if v := call(t, "union", a, b); v.Set().Len() != 4 {
		t.Fatalf("union len = %d, want 4", v.Set().Len())
	}
	if v := call(t, "intersection", a, b); v.Set().Len() != 2 {
		t.Fatalf("intersection len = %d, want 2", v.Set().Len())
	}
	if v := call(t, "difference", a, b); v.Set().Len() != 1 || !v.Set().Contains(value.IntVal(1)) {
		t.Fatalf("difference should be {1}, got len=%d", v.Set().Len())
	}
	if v := call(t, "symmetric_difference", a, b); v.Set().Len() != 2 {
		t.Fatalf("symmetric_difference len = %d, want 2", v.Set().Len())
	}
}

func TestSet_SubsetSupersetDisjoint(t *testing.T) {
	small := setOf(1, 2)
	big := setOf(1, 2, 3)
	disjoint := setOf(9, 10)

	if v := call(t, "subset", small, big); !v.Bool() {
		t.Fatalf("expected {1,2} to be a subset of {1,2,3}")
	}
	if v := call(t, "superset", big, small); !v.Bool() {
		t.Fatalf("expected {1,2,3} to be a superset of {1,2}")
	}
	if v := call(t, "disjoint", small, disjoint); !v.Bool() {
		t.Fatalf("expected {1,2} and {9,10} to be disjoint")
	}
	if v := call(t, "disjoint", small, big); v.Bool() {
		t.Fatalf("expected {1,2} and {1,2,3} not to be disjoint")
	}
}
