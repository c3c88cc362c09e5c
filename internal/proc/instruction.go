// Package proc implements Stof's instruction model and process scheduler
// (components E and F). Instruction and ProcEnv are co-located in one
// package because they are mutually referential in the design this is
// grounded on (original_source/src/runtime/{instruction,proc}.rs both live
// in the same `runtime` module and reference each other) — splitting them
// into two Go packages would require an artificial interface boundary with
// no benefit.
package proc

import (
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// StateKind is the tag of an instruction's execution result.
type StateKind int

const (
	StateNone StateKind = iota
	StateMore
	StateReturn
	StateBreak
	StateContinue
	StateSleepFor
	StateSleepOn
	StateWait
)

// State is what executing one instruction against a process yields: either
// nothing, more instructions to run next (injected at the front of the
// queue), a return, loop control, or a scheduler-level suspension. This
// generalizes the original's older State{None,Return(bool),Break,Continue}
// with the richer variant spec.md requires: More carries new instructions
// rather than being a bare flag, and SleepFor/SleepOn let an instruction
// yield the whole process back to the Scheduler (mirrors
// original_source/src/runtime/proc.rs::ProcRes::{SleepFor,Sleep}) instead of
// blocking the goroutine the scheduler ticks every process on.
type State struct {
	Kind     StateKind
	Value    value.Val
	HasValue bool
	More     []Instruction
	SleepFor time.Duration
	WakeRef  ids.SId
	WaitPid  ids.SId
}

func NoneState() State     { return State{Kind: StateNone} }
func BreakState() State    { return State{Kind: StateBreak} }
func ContinueState() State { return State{Kind: StateContinue} }
func ReturnState(v value.Val) State {
	return State{Kind: StateReturn, Value: v, HasValue: true}
}
func ReturnVoid() State { return State{Kind: StateReturn} }
func MoreState(ins ...Instruction) State {
	return State{Kind: StateMore, More: ins}
}
func SleepForState(d time.Duration) State { return State{Kind: StateSleepFor, SleepFor: d} }
func SleepOnState(ref ids.SId) State      { return State{Kind: StateSleepOn, WakeRef: ref} }

// WaitState suspends the process until target completes, optionally
// queuing a continuation (e.g. AwaitResume) to run once it's woken.
func WaitState(target ids.SId, continuation ...Instruction) State {
	return State{Kind: StateWait, WaitPid: target, More: continuation}
}

// Instruction is one executable step. Exec may push a value onto env's
// stack, mutate the graph, or return a State directing the scheduler.
type Instruction interface {
	Exec(env *ProcEnv, g *graph.Graph) (State, *stoferrors.Error)
}

// Instructions is an ordered, append-friendly sequence of instructions.
// Go slices already give the "cheap prefix sharing, branch on append"
// property the original's imbl::Vector persistent vector buys in Rust —
// see DESIGN.md for why no third-party persistent-vector library is used.
type Instructions struct {
	items []Instruction
}

func NewInstructions(items ...Instruction) Instructions {
	return Instructions{items: items}
}

func (ins Instructions) Len() int { return len(ins.items) }

func (ins Instructions) Append(more ...Instruction) Instructions {
	return Instructions{items: append(append([]Instruction(nil), ins.items...), more...)}
}

func (ins Instructions) PushFront(more ...Instruction) Instructions {
	out := make([]Instruction, 0, len(more)+len(ins.items))
	out = append(out, more...)
	out = append(out, ins.items...)
	return Instructions{items: out}
}

// PopFront returns the first instruction and the remainder.
func (ins Instructions) PopFront() (Instruction, Instructions, bool) {
	if len(ins.items) == 0 {
		return nil, ins, false
	}
	return ins.items[0], Instructions{items: ins.items[1:]}, true
}
