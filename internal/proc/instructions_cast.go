package proc

import (
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// CastIns pops a value and pushes it cast to Target, implementing spec
// component C's `cast` primitive. An Object target additionally consults
// the node's prototype chain (via graph.InstanceOf) — the one case
// value.Val.Cast can't resolve on its own, since it has no graph access.
type CastIns struct{ Target value.Type }

func (c CastIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no value to cast")
	}
	if c.Target.Kind == value.Object && v.Kind == value.Object && c.Target.Object != "" {
		if !g.InstanceOf(v.Obj().Id, c.Target.Object) {
			return State{}, stoferrors.New(stoferrors.KindCastNotPossible, "object is not an instance of %s", c.Target.Object)
		}
		env.PushValue(v)
		return NoneState(), nil
	}
	cast, err := v.Cast(c.Target)
	if err != nil {
		return State{}, err
	}
	env.PushValue(cast)
	return NoneState(), nil
}

// TypeofIns pops a value and pushes its generic type name ("number",
// "string", "object", ...).
type TypeofIns struct{}

func (TypeofIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no value for typeof")
	}
	env.PushValue(value.StrVal(v.Kind.String()))
	return NoneState(), nil
}

// TypenameIns pops a value and pushes its most specific type name: an
// object's prototype type path if it has one, otherwise the same generic
// name TypeofIns would report.
type TypenameIns struct{}

func (TypenameIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no value for typename")
	}
	name := v.Kind.String()
	if v.Kind == value.Object {
		if proto, ok := g.Proto(v.Obj().Id); ok && proto.Prototype.TypePath != "" {
			name = proto.Prototype.TypePath
		}
	}
	env.PushValue(value.StrVal(name))
	return NoneState(), nil
}

// NewListIns pops Count values off the stack (in push order) and pushes a
// List literal built from them.
type NewListIns struct{ Count int }

func (n NewListIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	items, err := popN(env, n.Count, "list literal")
	if err != nil {
		return State{}, err
	}
	env.PushValue(value.ListVal(items))
	return NoneState(), nil
}

// NewTupleIns is NewListIns's Tuple counterpart.
type NewTupleIns struct{ Count int }

func (n NewTupleIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	items, err := popN(env, n.Count, "tuple literal")
	if err != nil {
		return State{}, err
	}
	env.PushValue(value.TupleVal(items))
	return NoneState(), nil
}

// NewSetIns pops Count values and pushes a Set literal.
type NewSetIns struct{ Count int }

func (n NewSetIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	items, err := popN(env, n.Count, "set literal")
	if err != nil {
		return State{}, err
	}
	s := value.NewOrderedSet()
	for _, v := range items {
		s.Insert(v)
	}
	env.PushValue(value.SetVal(s))
	return NoneState(), nil
}

// NewMapIns pops Count key/value pairs (value on top of its key, pairs in
// push order) and pushes a Map literal.
type NewMapIns struct{ Count int }

func (n NewMapIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	m := value.NewOrderedMap()
	pairs := make([][2]value.Val, n.Count)
	for i := n.Count - 1; i >= 0; i-- {
		v, ok := env.PopValue()
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "map literal missing value")
		}
		k, ok := env.PopValue()
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "map literal missing key")
		}
		pairs[i] = [2]value.Val{k, v}
	}
	for _, p := range pairs {
		m.Set(p[0], p[1])
	}
	env.PushValue(value.MapVal(m))
	return NoneState(), nil
}

func popN(env *ProcEnv, count int, what string) ([]value.Val, *stoferrors.Error) {
	items := make([]value.Val, count)
	for i := count - 1; i >= 0; i-- {
		v, ok := env.PopValue()
		if !ok {
			return nil, stoferrors.New(stoferrors.KindStackEmpty, "%s missing element", what)
		}
		items[i] = v
	}
	return items, nil
}
