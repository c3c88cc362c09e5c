package proc

import (
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// PushConst pushes a literal value onto the process stack.
type PushConst struct{ Val value.Val }

func (p PushConst) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	env.PushValue(p.Val)
	return NoneState(), nil
}

// LoadVar resolves name in the current symbol table and pushes its value.
type LoadVar struct{ Name string }

func (l LoadVar) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.Table.Get(l.Name)
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindUndeclaredVariable, "undeclared variable %q", l.Name)
	}
	env.PushValue(v.Value)
	return NoneState(), nil
}

// DeclareVar pops a value off the stack and declares name in the current
// scope, matching symbols.Table.Declare's const/type semantics.
type DeclareVar struct {
	Name        string
	Type        *value.Type
	Const       bool
	HasInitExpr bool
}

func (d DeclareVar) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v := value.NullVal()
	if d.HasInitExpr {
		popped, ok := env.PopValue()
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no init value for %q", d.Name)
		}
		v = popped
	}
	if err := env.Table.Declare(d.Name, v, d.Type, d.Const); err != nil {
		return State{}, stoferrors.Wrap(stoferrors.KindDeclareRedeclared, err, "declare %q", d.Name)
	}
	return NoneState(), nil
}

// AssignVar pops a value off the stack and assigns it to an existing,
// in-scope, non-const variable.
type AssignVar struct{ Name string }

func (a AssignVar) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no assign value for %q", a.Name)
	}
	if err := env.Table.Set(a.Name, v); err != nil {
		return State{}, stoferrors.Wrap(stoferrors.KindAssignError, err, "assign %q", a.Name)
	}
	return NoneState(), nil
}

// BinOp pops rhs then lhs, applies op, and pushes the result. Arithmetic
// ops delegate to value.Num's unit-aware arith; comparison ops delegate to
// value.Compare/value.Val.Equal.
type BinOp struct{ Op string }

func (b BinOp) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	rhs, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "missing rhs operand")
	}
	lhs, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "missing lhs operand")
	}

	switch b.Op {
	case "+", "-", "*", "/":
		if lhs.Kind == value.Number && rhs.Kind == value.Number {
			var res value.Num
			var ok2 bool
			switch b.Op {
			case "+":
				res, ok2 = lhs.Num().Add(rhs.Num())
			case "-":
				res, ok2 = lhs.Num().Sub(rhs.Num())
			case "*":
				res, ok2 = lhs.Num().Mul(rhs.Num())
			case "/":
				res, ok2 = lhs.Num().Div(rhs.Num())
			}
			if !ok2 {
				if b.Op == "/" {
					return State{}, stoferrors.New(stoferrors.KindDivideByZero, "division by zero")
				}
				return State{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "incompatible units for %s", b.Op)
			}
			env.PushValue(value.NumVal(res))
			return NoneState(), nil
		}
		res, err := containerBinOp(b.Op, lhs, rhs)
		if err != nil {
			return State{}, err
		}
		env.PushValue(res)
	case "and", "or", "xor", "shl", "shr":
		res, err := bitwiseBinOp(b.Op, lhs, rhs)
		if err != nil {
			return State{}, err
		}
		env.PushValue(res)
	case "==":
		env.PushValue(value.BoolVal(lhs.Equal(rhs)))
	case "!=":
		env.PushValue(value.BoolVal(!lhs.Equal(rhs)))
	case "<", "<=", ">", ">=":
		cmp, err := value.Compare(lhs, rhs)
		if err != nil {
			return State{}, stoferrors.Wrap(stoferrors.KindValueOpNotSupported, err, "%s", b.Op)
		}
		var res bool
		switch b.Op {
		case "<":
			res = cmp < 0
		case "<=":
			res = cmp <= 0
		case ">":
			res = cmp > 0
		case ">=":
			res = cmp >= 0
		}
		env.PushValue(value.BoolVal(res))
	case "&&":
		env.PushValue(value.BoolVal(lhs.Truthy() && rhs.Truthy()))
	case "||":
		env.PushValue(value.BoolVal(lhs.Truthy() || rhs.Truthy()))
	default:
		return State{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "unknown binary op %q", b.Op)
	}
	return NoneState(), nil
}

// containerBinOp implements +/-/* over the non-numeric operand pairs spec
// component C names: `+` concatenates strings, extends lists, and unions
// maps/sets (right-biased, matching OrderedMap.Set's overwrite-on-collision
// behavior); `-` removes rhs's elements/keys from a copy of lhs (set
// difference, or list/map filtered against rhs's membership); `*` repeats a
// list rhs times, the one non-numeric reading of multiplication the
// language gives a container. Division has no container reading and falls
// through to the default error.
func containerBinOp(op string, lhs, rhs value.Val) (value.Val, *stoferrors.Error) {
	switch op {
	case "+":
		switch {
		case lhs.Kind == value.String && rhs.Kind == value.String:
			return value.StrVal(lhs.Str() + rhs.Str()), nil
		case lhs.Kind == value.List && rhs.Kind == value.List:
			out := append(append([]value.Val(nil), lhs.List()...), rhs.List()...)
			return value.ListVal(out), nil
		case lhs.Kind == value.Map && rhs.Kind == value.Map:
			out := lhs.Map().Clone()
			rhs.Map().Each(func(k, v value.Val) { out.Set(k, v) })
			return value.MapVal(out), nil
		case lhs.Kind == value.Set && rhs.Kind == value.Set:
			return value.SetVal(lhs.Set().Union(rhs.Set())), nil
		}
	case "-":
		switch {
		case lhs.Kind == value.Set && rhs.Kind == value.Set:
			return value.SetVal(lhs.Set().Difference(rhs.Set())), nil
		case lhs.Kind == value.List && rhs.Kind == value.List:
			remove := rhs.List()
			out := make([]value.Val, 0, len(lhs.List()))
			for _, e := range lhs.List() {
				skip := false
				for _, r := range remove {
					if e.Equal(r) {
						skip = true
						break
					}
				}
				if !skip {
					out = append(out, e)
				}
			}
			return value.ListVal(out), nil
		case lhs.Kind == value.Map && rhs.Kind == value.Map:
			out := lhs.Map().Clone()
			rhs.Map().Each(func(k, _ value.Val) { out.Remove(k) })
			return value.MapVal(out), nil
		}
	case "*":
		if lhs.Kind == value.List && rhs.Kind == value.Number && rhs.Num().Kind == value.NumInt {
			n := rhs.Num().Int
			if n < 0 {
				n = 0
			}
			out := make([]value.Val, 0, int64(len(lhs.List()))*n)
			for i := int64(0); i < n; i++ {
				out = append(out, lhs.List()...)
			}
			return value.ListVal(out), nil
		}
	}
	return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "%s not supported between %s and %s", op, lhs.Kind, rhs.Kind)
}

// bitwiseBinOp implements the integer-only bitwise family spec component C
// requires (and/or/xor/shl/shr). Both operands must be plain integer
// Numbers; a Units or Float operand is a type error, matching division's
// refusal to operate on anything but clean numeric values.
func bitwiseBinOp(op string, lhs, rhs value.Val) (value.Val, *stoferrors.Error) {
	if lhs.Kind != value.Number || rhs.Kind != value.Number ||
		lhs.Num().Kind != value.NumInt || rhs.Num().Kind != value.NumInt {
		return value.Val{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "%s requires integers", op)
	}
	a, b := lhs.Num().Int, rhs.Num().Int
	var r int64
	switch op {
	case "and":
		r = a & b
	case "or":
		r = a | b
	case "xor":
		r = a ^ b
	case "shl":
		r = a << uint64(b)
	case "shr":
		r = a >> uint64(b)
	}
	return value.IntVal(r), nil
}

// NotOp pops a value and pushes its boolean negation.
type NotOp struct{}

func (NotOp) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "missing operand for !")
	}
	env.PushValue(value.BoolVal(!v.Truthy()))
	return NoneState(), nil
}

// NewObjIns creates a new child node under the current self (or a root if
// there is no parent), pushes it onto the new-obj stack, and pushes a
// value.Val object reference onto the value stack.
type NewObjIns struct {
	Name        string
	UnderParent bool
}

func (n NewObjIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	var node *graph.Node
	if n.UnderParent {
		child, ok := g.NewChild(env.SelfPtr().Id, n.Name)
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindNodeNotFound, "parent node gone")
		}
		node = child
	} else {
		node = g.NewRoot(n.Name)
	}
	ref := ids.NewNodeRef(node.Id)
	env.NewStack = append(env.NewStack, ref)
	env.PushValue(value.ObjVal(ref))
	return NoneState(), nil
}

// PopNewObj pops the new-obj stack once a new-object literal's field
// initializers have executed; the self stack is left unchanged.
type PopNewObj struct{}

func (PopNewObj) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if len(env.NewStack) > 0 {
		env.NewStack = env.NewStack[:len(env.NewStack)-1]
	}
	return NoneState(), nil
}
