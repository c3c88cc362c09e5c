package symbols_test

import (
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/symbols"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func TestTable_DeclareAndGet(t *testing.T) {
	tbl := symbols.New()
	if err := tbl.Declare("x", value.IntVal(1), nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := tbl.Get("x")
	if !ok || v.Value.Num().Int != 1 {
		t.Fatalf("expected x == 1, got %+v ok=%v", v, ok)
	}
}

func TestTable_RedeclareInSameScopeFails(t *testing.T) {
	tbl := symbols.New()
	_ = tbl.Declare("x", value.IntVal(1), nil, false)
	if err := tbl.Declare("x", value.IntVal(2), nil, false); err == nil {
		t.Fatalf("expected redeclaration in the same scope to fail")
	}
}

func TestTable_ScopesShadowAndPop(t *testing.T) {
	tbl := symbols.New()
	_ = tbl.Declare("x", value.IntVal(1), nil, false)

	tbl.PushScope()
	_ = tbl.Declare("x", value.IntVal(2), nil, false)
	v, _ := tbl.Get("x")
	if v.Value.Num().Int != 2 {
		t.Fatalf("expected inner scope to shadow outer, got %v", v.Value.Num().Int)
	}
	tbl.PopScope()

	v, _ = tbl.Get("x")
	if v.Value.Num().Int != 1 {
		t.Fatalf("expected outer binding to resurface after PopScope, got %v", v.Value.Num().Int)
	}
}

func TestTable_SetRequiresExistingBinding(t *testing.T) {
	tbl := symbols.New()
	if err := tbl.Set("missing", value.IntVal(1)); err == nil {
		t.Fatalf("expected Set on an undeclared variable to fail")
	}
}

func TestTable_ConstRejectsReassignment(t *testing.T) {
	tbl := symbols.New()
	_ = tbl.Declare("x", value.IntVal(1), nil, true)
	if err := tbl.Set("x", value.IntVal(2)); err == nil {
		t.Fatalf("expected assignment to a const variable to fail")
	}
}

func TestTable_DeclaredTypeEnforcedOnAssign(t *testing.T) {
	tbl := symbols.New()
	numType := value.KindType(value.Number)
	if err := tbl.Declare("x", value.IntVal(1), &numType, false); err != nil {
		t.Fatalf("unexpected error declaring typed variable: %v", err)
	}
	if err := tbl.Set("x", value.StrVal("oops")); err == nil {
		t.Fatalf("expected assigning a string to a Number-typed variable to fail")
	}
	if err := tbl.Set("x", value.IntVal(2)); err != nil {
		t.Fatalf("expected assigning a matching-type value to succeed: %v", err)
	}
}

func TestTable_Remove(t *testing.T) {
	tbl := symbols.New()
	_ = tbl.Declare("x", value.IntVal(1), nil, false)
	if !tbl.Remove("x") {
		t.Fatalf("expected Remove to report true for an existing variable")
	}
	if _, ok := tbl.Get("x"); ok {
		t.Fatalf("expected x to be gone after Remove")
	}
}
