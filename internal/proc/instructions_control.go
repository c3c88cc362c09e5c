package proc

import (
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

// Tag is a no-op marker instruction that CtrlForwardTo/CtrlBackTo jump to
// by name, matching the original's nanoid-tagged jump targets.
type Tag struct{ Name string }

func (t Tag) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	return NoneState(), nil
}

// jumpTo returns the suffix of ins starting at the Tag instruction named
// name, or (nil, false) if the tag isn't found in it (the caller is
// expected to search the right sequence).
func jumpTo(ins []Instruction, name string) ([]Instruction, bool) {
	for i, in := range ins {
		if t, ok := in.(Tag); ok && t.Name == name {
			return ins[i:], true
		}
	}
	return nil, false
}

// CtrlForwardTo unconditionally jumps forward to a tag within the
// remaining instruction stream it's handed at construction time (the
// compiling instruction, e.g. IfIns, hands each jump instruction the full
// tagged tail it needs to search).
type CtrlForwardTo struct {
	Tag  string
	Tail []Instruction
}

func (c CtrlForwardTo) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if rest, ok := jumpTo(c.Tail, c.Tag); ok {
		return MoreState(rest[1:]...), nil
	}
	return NoneState(), nil
}

// CtrlForwardToIfNotTruthy pops a bool off the stack and jumps only if it
// is falsy (used to compile `if`/`while` tests).
type CtrlForwardToIfNotTruthy struct {
	Tag  string
	Tail []Instruction
}

func (c CtrlForwardToIfNotTruthy) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return NoneState(), stoferrors.New(stoferrors.KindStackEmpty, "no test value on stack")
	}
	if v.Truthy() {
		return NoneState(), nil
	}
	if rest, ok := jumpTo(c.Tail, c.Tag); ok {
		return MoreState(rest[1:]...), nil
	}
	return NoneState(), nil
}

// CtrlBackTo jumps to a tag within the body it was compiled with — used to
// loop back to a while's top.
type CtrlBackTo struct {
	Tag  string
	Full []Instruction
}

func (c CtrlBackTo) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if rest, ok := jumpTo(c.Full, c.Tag); ok {
		return MoreState(rest...), nil
	}
	return NoneState(), nil
}

// PushSymbolScope/PopSymbolScope bracket a lexical block.
type PushSymbolScope struct{}

func (PushSymbolScope) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	env.Table.PushScope()
	return NoneState(), nil
}

type PopSymbolScope struct{}

func (PopSymbolScope) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	env.Table.PopScope()
	return NoneState(), nil
}

// PushLoopTagIns/PopLoopTagIns bracket a compiled loop body, registering
// where BreakIns/ContinueIns should jump to while this loop is the
// innermost one in scope.
type PushLoopTagIns struct {
	Tag        string
	ContinueTo []Instruction
	BreakTo    []Instruction
}

func (p PushLoopTagIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	env.PushLoopTag(p.Tag, p.ContinueTo, p.BreakTo)
	return NoneState(), nil
}

type PopLoopTagIns struct{}

func (PopLoopTagIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	env.PopLoopTag()
	return NoneState(), nil
}

// BreakIns/ContinueIns/ReturnIns surface loop/function control flow to the
// process scheduler. Break/Continue first check for an enclosing loop
// frame (pushed by PushLoopTagIns) and, if one exists, jump straight to its
// break/continue target via StateMore instead of bubbling a bare
// StateBreak/StateContinue up to Process.Progress — which only sees those
// when a break/continue escapes every enclosing loop (a script bug, not a
// normal loop exit).
type BreakIns struct{}

func (BreakIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if frame, ok := env.currentLoopFrame(); ok {
		return MoreState(frame.breakTo...), nil
	}
	return BreakState(), nil
}

type ContinueIns struct{}

func (ContinueIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if frame, ok := env.currentLoopFrame(); ok {
		return MoreState(frame.continueTo...), nil
	}
	return ContinueState(), nil
}

type ReturnIns struct{ HasValue bool }

func (r ReturnIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if !r.HasValue {
		return ReturnVoid(), nil
	}
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no return value on stack")
	}
	return ReturnState(v), nil
}
