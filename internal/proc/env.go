package proc

import (
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/symbols"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// loopFrame is one entry of ProcEnv.LoopStack: the instruction suffixes
// BreakIns/ContinueIns jump to when they find an enclosing loop, captured
// by whatever compiled the loop (the continue target is normally the
// loop's condition-test Tag; the break target is the Tag immediately past
// the loop body).
type loopFrame struct {
	tag      string
	continueTo []Instruction
	breakTo    []Instruction
}

// ProcEnv is one process's execution environment, grounded verbatim in
// shape on original_source/src/runtime/proc.rs::ProcEnv.
type ProcEnv struct {
	Pid SId

	SelfStack []ids.NodeRef
	CallStack []ids.DataRef
	NewStack  []ids.NodeRef
	Stack     []value.Val
	Table     *symbols.Table

	LoopStack   []loopFrame
	ReturnStack []string

	// Scheduler is the process's owning Scheduler, set by Scheduler.Spawn.
	// Instructions that need to start new concurrent work (an async library
	// call, a `spawn` expression) reach it through here rather than
	// threading a Scheduler parameter through every Exec signature. Nil for
	// a Process built directly via NewProcessFor outside a Scheduler (e.g.
	// in a unit test) — such instructions degrade to running synchronously.
	Scheduler *Scheduler

	// AwaitResult/AwaitErr are how a Scheduler resuming a waiting process
	// hands back the awaited target's outcome: AwaitResume reads and clears
	// whichever is set immediately after being woken.
	AwaitResult *value.Val
	AwaitErr    *stoferrors.Error

	// From is the node considered the caller's scope for permission checks.
	From *ids.NodeRef
}

// SId aliases ids.SId for readability within this package's exported API.
type SId = ids.SId

func NewEnv(pid SId, self ids.NodeRef) *ProcEnv {
	return &ProcEnv{
		Pid:       pid,
		SelfStack: []ids.NodeRef{self},
		Table:     symbols.New(),
	}
}

// SelfPtr returns the current self reference (innermost object context).
func (e *ProcEnv) SelfPtr() ids.NodeRef {
	return e.SelfStack[len(e.SelfStack)-1]
}

func (e *ProcEnv) PushSelf(n ids.NodeRef) { e.SelfStack = append(e.SelfStack, n) }
func (e *ProcEnv) PopSelf() {
	if len(e.SelfStack) > 1 {
		e.SelfStack = e.SelfStack[:len(e.SelfStack)-1]
	}
}

func (e *ProcEnv) PushValue(v value.Val) { e.Stack = append(e.Stack, v) }

func (e *ProcEnv) PopValue() (value.Val, bool) {
	if len(e.Stack) == 0 {
		return value.Val{}, false
	}
	v := e.Stack[len(e.Stack)-1]
	e.Stack = e.Stack[:len(e.Stack)-1]
	return v, true
}

// PushLoopTag opens a loop's break/continue scope: continueTo is where
// ContinueIns resumes execution (typically the loop's condition-test Tag),
// breakTo is where BreakIns resumes (just past the loop). PopLoopTag closes
// it once the loop's compiled instructions reach their natural exit.
func (e *ProcEnv) PushLoopTag(tag string, continueTo, breakTo []Instruction) {
	e.LoopStack = append(e.LoopStack, loopFrame{tag: tag, continueTo: continueTo, breakTo: breakTo})
}

func (e *ProcEnv) PopLoopTag() {
	if len(e.LoopStack) > 0 {
		e.LoopStack = e.LoopStack[:len(e.LoopStack)-1]
	}
}

// CurrentLoopTag reports the innermost enclosing loop's tag name, if any.
func (e *ProcEnv) CurrentLoopTag() (string, bool) {
	if len(e.LoopStack) == 0 {
		return "", false
	}
	return e.LoopStack[len(e.LoopStack)-1].tag, true
}

// currentLoopFrame is CurrentLoopTag's internal counterpart, used by
// BreakIns/ContinueIns to fetch the actual jump targets rather than just
// the tag name.
func (e *ProcEnv) currentLoopFrame() (loopFrame, bool) {
	if len(e.LoopStack) == 0 {
		return loopFrame{}, false
	}
	return e.LoopStack[len(e.LoopStack)-1], true
}
