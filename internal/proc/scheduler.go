package proc

import (
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

// stepBudget bounds how many instructions a single process runs per
// scheduler tick before yielding to its siblings, matching the
// cooperative, single-threaded scheduling model of spec.md §5.
const stepBudget = 4096

// Scheduler runs a document's processes cooperatively: one goroutine, one
// tick at a time, no preemption. Grounded on original_source/src/core/
// processes.rs's SProcesses bookkeeping (running/waiting/done/errored),
// generalized to the richer ProcRes{Wait,SleepFor,Sleep} variants from
// runtime/proc.rs.
type Scheduler struct {
	mainPid ids.SId

	running  map[ids.SId]*Process
	waiting  map[ids.SId]*Process // blocked on another pid (ResWait)
	sleeping map[ids.SId]sleeper  // blocked until a time or wake-ref

	done    map[ids.SId]*Process
	errored map[ids.SId]*stoferrors.Error
}

type sleeper struct {
	proc  *Process
	until time.Time
	ref   ids.SId // non-empty: wake when WakeRef(ref) is called instead of by time
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		running:  make(map[ids.SId]*Process),
		waiting:  make(map[ids.SId]*Process),
		sleeping: make(map[ids.SId]sleeper),
		done:     make(map[ids.SId]*Process),
		errored:  make(map[ids.SId]*stoferrors.Error),
	}
}

// Spawn schedules a new process rooted at self, running ins. If this is the
// first process spawned, it becomes the main process.
func (s *Scheduler) Spawn(self ids.NodeRef, ins Instructions) ids.SId {
	pid := ids.NewSId()
	if s.mainPid == "" {
		s.mainPid = pid
	}
	p := NewProcessFor(pid, self, ins)
	p.Env.Scheduler = s
	s.running[pid] = p
	return pid
}

// Await blocks the calling process (identified by waiterPid) until target
// completes, implementing spawn/await/Promise semantics: the waiter moves
// to the waiting set and is woken once target lands in done or errored.
func (s *Scheduler) Await(waiterPid, target ids.SId) {
	if proc, ok := s.running[waiterPid]; ok {
		delete(s.running, waiterPid)
		s.waiting[waiterPid] = proc
		t := target
		proc.Waiting = &t
		if err, gone := s.errored[target]; gone {
			s.wakeWaitersOn(target, err)
		} else if _, finished := s.done[target]; finished {
			s.wakeWaitersOn(target, nil)
		}
	}
}

// SleepFor parks a process for a duration.
func (s *Scheduler) SleepFor(pid ids.SId, d time.Duration, now time.Time) {
	if proc, ok := s.running[pid]; ok {
		delete(s.running, pid)
		s.sleeping[pid] = sleeper{proc: proc, until: now.Add(d)}
	}
}

// SleepOn parks a process until WakeRef(ref) is called.
func (s *Scheduler) SleepOn(pid ids.SId, ref ids.SId) {
	if proc, ok := s.running[pid]; ok {
		delete(s.running, pid)
		s.sleeping[pid] = sleeper{proc: proc, ref: ref}
	}
}

// WakeRef resumes every process sleeping on the given reference.
func (s *Scheduler) WakeRef(ref ids.SId) {
	for pid, sl := range s.sleeping {
		if sl.ref == ref {
			s.running[pid] = sl.proc
			delete(s.sleeping, pid)
		}
	}
}

// Cancel terminates a process (e.g. its parent document was closed) by
// removing it from every queue and recording it as errored with
// WaitTargetGone; every waiter on it is woken with that error, which the
// waiter's AwaitResume re-raises at its await site.
func (s *Scheduler) Cancel(pid ids.SId) {
	delete(s.running, pid)
	delete(s.waiting, pid)
	delete(s.sleeping, pid)
	err := stoferrors.New(stoferrors.KindWaitTargetGone, "process %s was cancelled", pid)
	s.errored[pid] = err
	s.wakeWaitersOn(pid, err)
}

// wakeWaitersOn resumes every process awaiting target, handing each one
// target's outcome through its own AwaitResult/AwaitErr rather than forcing
// the waiter itself into the errored set — that decision belongs to the
// waiter's own AwaitResume instruction (and any try/catch wrapped around
// its await), matching spec.md §4.F's "the target's error is re-raised in
// the awaiting process" (re-raised there, not unconditionally propagated).
func (s *Scheduler) wakeWaitersOn(target ids.SId, failWith *stoferrors.Error) {
	done, hasResult := s.done[target]
	for pid, proc := range s.waiting {
		if proc.Waiting == nil || *proc.Waiting != target {
			continue
		}
		delete(s.waiting, pid)
		proc.Waiting = nil
		if failWith != nil {
			proc.Env.AwaitErr = failWith
		} else if hasResult {
			proc.Env.AwaitResult = done.Result
		}
		s.running[pid] = proc
	}
}

// Tick advances every runnable process by one scheduling round: running
// processes get a step budget each, sleepers whose time/ref has arrived are
// requeued, and processes that finish wake whoever is awaiting them. A
// process woken during the round first runs on the next Tick.
func (s *Scheduler) Tick(g *graph.Graph, now time.Time) {
	for pid, sl := range s.sleeping {
		if sl.ref == "" && !sl.until.After(now) {
			s.running[pid] = sl.proc
			delete(s.sleeping, pid)
		}
	}

	runnable := make([]ids.SId, 0, len(s.running))
	for pid := range s.running {
		runnable = append(runnable, pid)
	}
	for _, pid := range runnable {
		proc, ok := s.running[pid]
		if !ok {
			continue
		}
		res := proc.Progress(g, stepBudget)
		switch res.Kind {
		case ResMore:
			// still running, stays in s.running for the next tick
		case ResDone:
			delete(s.running, pid)
			if proc.Err != nil {
				s.errored[pid] = proc.Err
				s.wakeWaitersOn(pid, proc.Err)
			} else {
				s.done[pid] = proc
				s.wakeWaitersOn(pid, nil)
			}
		case ResWait:
			s.Await(pid, res.WaitPid)
		case ResSleepFor:
			s.SleepFor(pid, res.SleepFor, now)
		case ResSleep:
			s.SleepOn(pid, res.WakeRef)
		}
	}
}

// Idle reports whether nothing can make progress without external input
// (e.g. a timer firing) — all remaining processes are sleeping or waiting.
func (s *Scheduler) Idle() bool {
	return len(s.running) == 0
}

func (s *Scheduler) Done(pid ids.SId) (*Process, bool) {
	p, ok := s.done[pid]
	return p, ok
}

func (s *Scheduler) Errored(pid ids.SId) (*stoferrors.Error, bool) {
	e, ok := s.errored[pid]
	return e, ok
}

func (s *Scheduler) MainPid() ids.SId { return s.mainPid }

// Process returns the live process for pid, searching every queue it could
// currently be parked in — used by an embedder that just called Spawn and
// needs to pre-bind parameters into the new process's environment before
// the scheduler's next Tick runs it.
func (s *Scheduler) Process(pid ids.SId) (*Process, bool) {
	if p, ok := s.running[pid]; ok {
		return p, true
	}
	if p, ok := s.waiting[pid]; ok {
		return p, true
	}
	if sl, ok := s.sleeping[pid]; ok {
		return sl.proc, true
	}
	if p, ok := s.done[pid]; ok {
		return p, true
	}
	return nil, false
}
