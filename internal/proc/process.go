package proc

import (
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// ProcResKind is the tag of ProcRes.
type ProcResKind int

const (
	ResDone ProcResKind = iota
	ResMore
	ResWait
	ResSleepFor
	ResSleep
)

// ProcRes reports what a single scheduler tick of a process produced,
// grounded verbatim on original_source/src/runtime/proc.rs::ProcRes.
type ProcRes struct {
	Kind     ProcResKind
	WaitPid  SId
	SleepFor time.Duration
	WakeRef  SId
}

// Process is one cooperatively-scheduled unit of execution: an
// environment, a pending instruction stream, and its terminal result/error
// once done.
type Process struct {
	Env          *ProcEnv
	Instructions Instructions
	Result       *value.Val
	Err          *stoferrors.Error
	Waiting      *SId
}

// NewProcessFor constructs a process rooted at self, ready to run ins.
func NewProcessFor(pid SId, self ids.NodeRef, ins Instructions) *Process {
	return &Process{Env: NewEnv(pid, self), Instructions: ins}
}

// renderCallStack turns a raw CallStack of data refs into the named frames
// an Error's Unwind() trace prints, resolving each ref to its function name
// when the data is still live (a ref surviving past its function's removal
// just prints its bare id).
func renderCallStack(stack []ids.DataRef, g *graph.Graph) []string {
	out := make([]string, len(stack))
	for i, ref := range stack {
		name := string(ref.Id)
		if d, ok := g.Data(ref.Id); ok && d.Kind == graph.KindFunction && d.Function.Name != "" {
			name = d.Function.Name
		}
		out[i] = name
	}
	return out
}

// Progress runs instructions off the front of the queue until the process
// finishes (Result or Err set), yields control (ResWait/ResSleep*), or the
// step budget is exhausted (ResMore — the scheduler should call Progress
// again next tick).
func (p *Process) Progress(g *graph.Graph, stepLimit int) ProcRes {
	steps := 0
	for steps < stepLimit {
		ins, rest, ok := p.Instructions.PopFront()
		if !ok {
			v := value.VoidVal()
			p.Result = &v
			return ProcRes{Kind: ResDone}
		}
		p.Instructions = rest
		steps++

		state, err := ins.Exec(p.Env, g)
		if err != nil {
			// Attach the call stack at the point of failure, unless a
			// deeper frame (e.g. CallFunc) already attached one — the
			// deepest attachment point has the most precise trace.
			if len(err.CallStack) == 0 {
				err = err.WithStack(renderCallStack(p.Env.CallStack, g))
			}
			p.Err = err
			return ProcRes{Kind: ResDone}
		}
		switch state.Kind {
		case StateNone:
			// continue to next instruction
		case StateMore:
			p.Instructions = p.Instructions.PushFront(state.More...)
		case StateReturn:
			if state.HasValue {
				v := state.Value
				p.Result = &v
			} else {
				v := value.VoidVal()
				p.Result = &v
			}
			return ProcRes{Kind: ResDone}
		case StateBreak, StateContinue:
			// Unhandled break/continue at the top level terminates the
			// process the same way an uncaught return does. Well-formed
			// loop bodies never reach here: BreakIns/ContinueIns consult
			// the loop stack and jump via StateMore directly, so this only
			// fires for a break/continue outside of any enclosing loop.
			v := value.VoidVal()
			p.Result = &v
			return ProcRes{Kind: ResDone}
		case StateSleepFor:
			return ProcRes{Kind: ResSleepFor, SleepFor: state.SleepFor}
		case StateSleepOn:
			return ProcRes{Kind: ResSleep, WakeRef: state.WakeRef}
		case StateWait:
			if len(state.More) > 0 {
				p.Instructions = p.Instructions.PushFront(state.More...)
			}
			return ProcRes{Kind: ResWait, WaitPid: state.WaitPid}
		}
	}
	return ProcRes{Kind: ResMore}
}
