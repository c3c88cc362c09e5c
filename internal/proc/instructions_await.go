package proc

import (
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// AwaitIns pops a Promise value and suspends the process until its pid
// completes (spec.md §4.F). The actual continuation — casting the target's
// result to the promise's expected type, or re-raising its error — runs as
// AwaitResume once the Scheduler wakes this process back up; Exec can't do
// that part itself since at suspension time the target hasn't finished
// yet.
type AwaitIns struct{}

func (AwaitIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, ok := env.PopValue()
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no promise to await")
	}
	if v.Kind != value.Promise {
		return State{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "await requires a promise")
	}
	return WaitState(v.PromisePid(), AwaitResume{ExpectedType: v.PromiseType()}), nil
}

// AwaitResume is queued by AwaitIns as the continuation to run once the
// awaited process wakes this one. The Scheduler stashes the target's
// outcome on env.AwaitResult/AwaitErr before resuming; this instruction
// consumes whichever is set, casts a successful result to ExpectedType,
// and pushes it (or re-raises the target's error so an enclosing try/catch
// can handle it transparently, per spec.md §4.F).
type AwaitResume struct{ ExpectedType value.Type }

func (a AwaitResume) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	if env.AwaitErr != nil {
		err := env.AwaitErr
		env.AwaitErr = nil
		return State{}, err
	}
	v := value.VoidVal()
	if env.AwaitResult != nil {
		v = *env.AwaitResult
	}
	env.AwaitResult = nil
	cast, err := v.Cast(a.ExpectedType)
	if err != nil {
		return State{}, err
	}
	env.PushValue(cast)
	return NoneState(), nil
}
