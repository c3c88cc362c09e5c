package proc

import (
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// runBlock executes items against env/g to completion, splicing in any
// StateMore continuation inline, and returns the first non-None terminal
// State (or error) it produces. It's the shared engine behind CallFunc and
// TryCatch: both need to run a nested instruction sequence against the
// current environment without spinning up a whole separate Process.
// Sleep/Wait states fall out of this function unresolved — the caller is
// expected to propagate them up to the real Process.Progress loop, which
// is the only place that can honor a suspension.
func runBlock(items []Instruction, env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	queue := NewInstructions(items...)
	for {
		ins, rest, ok := queue.PopFront()
		if !ok {
			return NoneState(), nil
		}
		queue = rest
		state, err := ins.Exec(env, g)
		if err != nil {
			return State{}, err
		}
		if state.Kind == StateMore {
			queue = queue.PushFront(state.More...)
			continue
		}
		if state.Kind != StateNone {
			return state, nil
		}
	}
}

// CallFunc pops Argc arguments, a Function value, and (if HasSelf) a
// receiver object, then runs the referenced graph.FunctionData's compiled
// body to completion against a fresh symbol scope — mirroring the
// parameter-binding document.go's Call performs for externally-invoked
// functions, but inline rather than through a new scheduled Process, since
// a direct call shares its caller's call stack rather than running
// concurrently (spec.md's `spawn` is the concurrent path; a plain function
// call is not). Sleeping or awaiting inside a directly-called function body
// isn't supported by this synchronous call path; it surfaces as a
// KindCallNotCallable error rather than silently losing the suspension.
type CallFunc struct {
	Argc    int
	HasSelf bool
}

func (c CallFunc) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	args, perr := popN(env, c.Argc, "function call")
	if perr != nil {
		return State{}, perr
	}
	fnVal, ok := env.PopValue()
	if !ok || fnVal.Kind != value.Function {
		return State{}, stoferrors.New(stoferrors.KindCallNotCallable, "value is not callable")
	}
	ref := fnVal.Fn()
	d, ok := g.Data(ref.Id)
	if !ok || d.Kind != graph.KindFunction {
		return State{}, stoferrors.New(stoferrors.KindCallNotFound, "function not found")
	}
	body, ok := d.Function.Body.(Instructions)
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindCallNotCallable, "function %q has no compiled body", d.Function.Name)
	}

	if c.HasSelf {
		selfVal, ok := env.PopValue()
		if !ok || selfVal.Kind != value.Object {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "missing receiver for function call")
		}
		env.PushSelf(selfVal.Obj())
		defer env.PopSelf()
	}

	env.Table.PushScope()
	defer env.Table.PopScope()
	for i, p := range d.Function.Params {
		var v value.Val
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			v = *p.Default
		default:
			v = value.NullVal()
		}
		if p.DeclaredType != nil {
			cast, cerr := v.Cast(*p.DeclaredType)
			if cerr != nil {
				return State{}, cerr
			}
			v = cast
		}
		if derr := env.Table.Declare(p.Name, v, p.DeclaredType, false); derr != nil {
			return State{}, stoferrors.New(stoferrors.KindDeclareRedeclared, "%s", derr)
		}
	}

	env.CallStack = append(env.CallStack, ref)
	state, err := runBlock(body.items, env, g)
	if err != nil {
		if len(err.CallStack) == 0 {
			err = err.WithStack(renderCallStack(env.CallStack, g))
		}
		env.CallStack = env.CallStack[:len(env.CallStack)-1]
		return State{}, err
	}
	env.CallStack = env.CallStack[:len(env.CallStack)-1]

	switch state.Kind {
	case StateReturn:
		if state.HasValue {
			env.PushValue(state.Value)
		} else {
			env.PushValue(value.VoidVal())
		}
	case StateSleepFor, StateSleepOn, StateWait:
		return State{}, stoferrors.New(stoferrors.KindCallNotCallable, "%s: sleep/await inside a direct call is unsupported", d.Function.Name)
	default:
		// Body exhausted without an explicit return.
		env.PushValue(value.VoidVal())
	}
	return NoneState(), nil
}

// TryCatch runs Body; if it raises an error, the error (or the script-level
// value a `throw` carried) is optionally bound to CatchVar in a fresh scope
// and Handler runs instead. A successful Body, or a Handler that itself
// errors, propagates normally.
type TryCatch struct {
	Body        []Instruction
	Handler     []Instruction
	CatchVar    string
	HasCatchVar bool
}

func (t TryCatch) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	state, err := runBlock(t.Body, env, g)
	if err == nil {
		return state, nil
	}
	if !t.HasCatchVar {
		return runBlock(t.Handler, env, g)
	}

	thrown := value.StrVal(err.Error())
	if err.Kind == stoferrors.KindThrown {
		if tv, ok := err.Thrown.(value.Val); ok {
			thrown = tv
		}
	}
	env.Table.PushScope()
	defer env.Table.PopScope()
	if derr := env.Table.Declare(t.CatchVar, thrown, nil, false); derr != nil {
		return State{}, stoferrors.New(stoferrors.KindDeclareRedeclared, "%s", derr)
	}
	return runBlock(t.Handler, env, g)
}
