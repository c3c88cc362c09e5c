package value

// NumKind distinguishes Num's three representations.
type NumKind int

const (
	NumInt NumKind = iota
	NumFloat
	NumUnits
)

// Num is Stof's numeric value: an exact integer, an IEEE float, or a float
// tagged with a unit of measure. Equality between variants follows the
// original's Num::eq rules: Int and Float compare by numeric value; Units
// compare by family-aware conversion (with the angle family's extra
// positive-radians normalization); a Units value compares against a plain
// Int/Float by treating the plain number as dimensionless (equal only when
// its units-converted base value matches the bare number exactly).
type Num struct {
	Kind  NumKind
	Int   int64
	Float float64
	Units Units
}

func Int(v int64) Num   { return Num{Kind: NumInt, Int: v} }
func Float(v float64) Num { return Num{Kind: NumFloat, Float: v} }
func WithUnits(v float64, u Units) Num { return Num{Kind: NumUnits, Float: v, Units: u} }

// AsFloat returns the numeric magnitude regardless of kind.
func (n Num) AsFloat() float64 {
	switch n.Kind {
	case NumInt:
		return float64(n.Int)
	default:
		return n.Float
	}
}

// Equal implements the original's PartialEq for Num.
func (n Num) Equal(o Num) bool {
	switch {
	case n.Kind == NumUnits && o.Kind == NumUnits:
		return UnitsEqual(n.Float, n.Units, o.Float, o.Units)
	case n.Kind == NumUnits:
		return ToBase(n.Float, n.Units) == o.AsFloat()
	case o.Kind == NumUnits:
		return n.AsFloat() == ToBase(o.Float, o.Units)
	default:
		return n.AsFloat() == o.AsFloat()
	}
}

// Add, Sub, Mul, Div implement unit-aware arithmetic: an operation between
// two Units values of the same family converts the right-hand side into the
// left-hand side's unit first; mixing families is a caller-level error
// (reported by the number library, not here).
func (n Num) Add(o Num) (Num, bool) { return n.arith(o, func(a, b float64) float64 { return a + b }) }
func (n Num) Sub(o Num) (Num, bool) { return n.arith(o, func(a, b float64) float64 { return a - b }) }
func (n Num) Mul(o Num) (Num, bool) { return n.arith(o, func(a, b float64) float64 { return a * b }) }

// Div implements unit-aware division, failing outright on a zero divisor
// rather than letting the shared arith() path silently produce Inf/NaN (or,
// worse, truncate one of those into a garbage int64).
func (n Num) Div(o Num) (Num, bool) {
	divisor := o.AsFloat()
	if o.Kind == NumUnits && n.Kind == NumUnits {
		converted, ok := Convert(o.Float, o.Units, n.Units)
		if !ok {
			return Num{}, false
		}
		divisor = converted
	}
	if divisor == 0 {
		return Num{}, false
	}
	return n.arith(o, func(a, b float64) float64 { return a / b })
}

func (n Num) arith(o Num, op func(a, b float64) float64) (Num, bool) {
	if n.Kind == NumUnits && o.Kind == NumUnits {
		converted, ok := Convert(o.Float, o.Units, n.Units)
		if !ok {
			return Num{}, false
		}
		return WithUnits(op(n.Float, converted), n.Units), true
	}
	if n.Kind == NumUnits {
		return WithUnits(op(n.Float, o.AsFloat()), n.Units), true
	}
	if o.Kind == NumUnits {
		return WithUnits(op(n.AsFloat(), o.Float), o.Units), true
	}
	if n.Kind == NumInt && o.Kind == NumInt {
		return Int(int64(op(float64(n.Int), float64(o.Int)))), true
	}
	return Float(op(n.AsFloat(), o.AsFloat())), true
}
