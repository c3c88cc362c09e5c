package value

import "testing"

func TestNum_Add_SameFamilyUnitsConvert(t *testing.T) {
	threeMin := WithUnits(3, Minutes)
	fourSec := WithUnits(4, Seconds)
	sum, ok := threeMin.Add(fourSec)
	if !ok {
		t.Fatalf("expected 3min + 4s to succeed")
	}
	base := ToBase(sum.Float, sum.Units)
	if base != 184 {
		t.Fatalf("expected 184 base seconds, got %v", base)
	}
}

func TestNum_Add_CrossFamilyUnitsFails(t *testing.T) {
	threeMin := WithUnits(3, Minutes)
	fourKg := WithUnits(4, Kilograms)
	if _, ok := threeMin.Add(fourKg); ok {
		t.Fatalf("expected 3min + 4kg to fail (incompatible unit families)")
	}
}

func TestVal_Equal(t *testing.T) {
	if !IntVal(5).Equal(IntVal(5)) {
		t.Fatalf("expected 5 == 5")
	}
	if IntVal(5).Equal(IntVal(6)) {
		t.Fatalf("expected 5 != 6")
	}
	if !StrVal("a").Equal(StrVal("a")) {
		t.Fatalf("expected equal strings to compare equal")
	}
	if BoolVal(true).Equal(BoolVal(false)) {
		t.Fatalf("expected true != false")
	}
}

func TestVal_Truthy(t *testing.T) {
	cases := []struct {
		v    Val
		want bool
	}{
		{BoolVal(true), true},
		{BoolVal(false), false},
		{IntVal(0), false},
		{IntVal(1), true},
		{StrVal(""), false},
		{StrVal("x"), true},
		{NullVal(), false},
		{VoidVal(), false},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v.Kind, got, c.want)
		}
	}
}

func TestVal_Display(t *testing.T) {
	if got := StrVal("hi").Display(); got != "hi" {
		t.Errorf("Display() = %q, want %q", got, "hi")
	}
	if got := IntVal(42).Display(); got != "42" {
		t.Errorf("Display() = %q, want %q", got, "42")
	}
	if got := BoolVal(true).Display(); got != "true" {
		t.Errorf("Display() = %q, want %q", got, "true")
	}
	if got := NullVal().Display(); got != "null" {
		t.Errorf("Display() = %q, want %q", got, "null")
	}
	list := ListVal([]Val{IntVal(1), IntVal(2)})
	if got := list.Display(); got != "[1, 2]" {
		t.Errorf("Display() = %q, want %q", got, "[1, 2]")
	}
}

func TestCompare_Numbers(t *testing.T) {
	c, err := Compare(IntVal(1), IntVal(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c >= 0 {
		t.Errorf("expected 1 < 2, got compare result %d", c)
	}
}
