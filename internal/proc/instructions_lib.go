package proc

import (
	"context"
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// SleepForIns pops a millisecond count off the stack and yields the whole
// process back to the Scheduler for that duration, grounded on
// original_source/src/model/libraries/stof_std/mod.rs's StdIns::Sleep
// (which pushes a Base::CtrlSleepFor instruction rather than blocking
// in-place). HasValue false means the duration is baked in at Ms instead
// of being popped (used when a caller already has a constant duration).
type SleepForIns struct {
	HasValue bool
	Ms       float64
}

func (s SleepForIns) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	ms := s.Ms
	if s.HasValue {
		v, ok := env.PopValue()
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "no sleep duration on stack")
		}
		if v.Kind != value.Number {
			return State{}, stoferrors.New(stoferrors.KindValueOpNotSupported, "sleep requires a number of milliseconds")
		}
		ms = v.Num().AsFloat()
	}
	if ms < 0 {
		ms = -ms
	}
	return SleepForState(time.Duration(ms) * time.Millisecond), nil
}

// CallLibFunc dispatches a named library function against self and Argc
// stack-popped arguments, grounded on original_source/src/model/
// libraries/mod.rs's LibFunc call path. Sleep functions are special-cased:
// rather than invoke Impl (which would block the scheduler's single
// goroutine for the full duration), the instruction yields the process via
// SleepForState, matching the cooperative-scheduling contract every other
// suspension point in spec.md §5 relies on.
type CallLibFunc struct {
	Registry *library.Registry
	Library  string
	Name     string
	Argc     int
	HasSelf  bool
}

func (c CallLibFunc) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	args := make([]value.Val, c.Argc)
	for i := c.Argc - 1; i >= 0; i-- {
		v, ok := env.PopValue()
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "missing argument to %s.%s", c.Library, c.Name)
		}
		args[i] = v
	}
	self := value.VoidVal()
	if c.HasSelf {
		s, ok := env.PopValue()
		if !ok {
			return State{}, stoferrors.New(stoferrors.KindStackEmpty, "missing receiver for %s.%s", c.Library, c.Name)
		}
		self = s
	}

	if (c.Library == "Std" || c.Library == "Time") && c.Name == "sleep" {
		if len(args) != 1 || args[0].Kind != value.Number {
			return State{}, stoferrors.New(stoferrors.KindCallArity, "%s.sleep expects a single numeric duration", c.Library)
		}
		ms := args[0].Num().AsFloat()
		if c.Library == "Time" {
			// Time.sleep's argument is already in the Time library's own
			// millisecond convention; nothing further to convert.
		}
		if ms < 0 {
			ms = -ms
		}
		return SleepForState(time.Duration(ms) * time.Millisecond), nil
	}

	fn, ok := c.Registry.Lookup(c.Library, c.Name)
	if !ok {
		return State{}, stoferrors.New(stoferrors.KindLibraryFuncNotFound, "%s.%s not found", c.Library, c.Name)
	}
	if fn.IsAsync && env.Scheduler != nil {
		// spec.md §4.G: an async library function wraps the work in a
		// spawn+return-promise sequence rather than running inline. The
		// spawned process runs the call via asyncLibCall (Registry.Call
		// checks arity and binds arguments there) and returns its result
		// as that process's own Result, which the caller later collects
		// through await.
		pid := env.Scheduler.Spawn(env.SelfPtr(), NewInstructions(asyncLibCall{
			Registry: c.Registry, Library: c.Library, Name: c.Name, Self: self, Args: args,
		}))
		returnType := value.UnknownType()
		if fn.ReturnType != nil {
			returnType = *fn.ReturnType
		}
		env.PushValue(value.PromiseVal(pid, returnType))
		return NoneState(), nil
	}

	v, err := c.Registry.Call(context.Background(), g, c.Library, c.Name, self, args)
	if err != nil {
		return State{}, err
	}
	env.PushValue(v)
	return NoneState(), nil
}

// asyncLibCall is the single instruction an async library call's spawned
// process runs: invoke the function through Registry.Call and surface its result
// (or error) as that process's terminal State, exactly like a ReturnIns.
type asyncLibCall struct {
	Registry *library.Registry
	Library  string
	Name     string
	Self     value.Val
	Args     []value.Val
}

func (a asyncLibCall) Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error) {
	v, err := a.Registry.Call(context.Background(), g, a.Library, a.Name, a.Self, a.Args)
	if err != nil {
		return State{}, err
	}
	return ReturnState(v), nil
}
