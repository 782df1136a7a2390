package cotask

import (
	"fmt"
	"strings"
)

// Poll is the embedder-supplied hook invoked at the end of every tick, after
// the tick's ready set has been fully drained (spec.md §5's ordering
// guarantee). Its return value signals "more work pending" (non-zero) or
// "quiescent" (zero) — spec.md §4.4. ud is whatever was passed to WithPoll.
type Poll func(sched *Scheduler, ud any) int

// Scheduler owns the three system signals (running, ready, error), the main
// task, and the poll hook — spec.md §3's "Scheduler State". A Scheduler is
// not safe for concurrent use; every method must be called from the single
// goroutine driving it (see doc.go's Thread Safety section).
type Scheduler struct {
	running Signal
	ready   Signal
	errq    Signal
	main    *Task
	current *Task

	poll   Poll
	pollUD any
	logger Logger

	nextTaskID   uint64
	nextSignalID uint64
	userSignals  []*Signal
}

// NewScheduler constructs a Scheduler and wraps mainCoro as its main task,
// pinned as a member of running for its entire lifetime per spec.md §4.5.
// mainCoro's Resume is never called by the scheduler itself: the main task
// represents the host's own thread of control, already "running" by
// definition, so the embedder should not call Once/Loop from inside it via
// a Resume the scheduler does not know about — see [Scheduler.Current].
func NewScheduler(mainCoro Coroutine, opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	sched := &Scheduler{
		poll:   cfg.poll,
		pollUD: cfg.pollUD,
		logger: cfg.logger,
	}
	if sched.logger == nil {
		sched.logger = NoOpLogger{}
	}
	sched.running.sched = sched
	sched.running.head.init()
	sched.ready.sched = sched
	sched.ready.head.init()
	sched.errq.sched = sched
	sched.errq.head.init()

	sched.main = newTask(sched, mainCoro)
	sched.nextTaskID++
	sched.main.id = sched.nextTaskID
	sched.main.waitat = &sched.running.head
	sched.main.link.appendTo(&sched.running.head)
	sched.current = sched.main

	sched.logger.Log(LogEntry{Level: LevelInfo, Message: "scheduler started", TaskID: sched.main.id})
	return sched, nil
}

// Main returns the task wrapping the host's own coroutine.
func (sched *Scheduler) Main() *Task { return sched.main }

// Current returns whichever task is presently running: the one whose body
// is executing on the call stack that reaches this method, or the main task
// between ticks.
func (sched *Scheduler) Current() *Task { return sched.current }

// NewTask creates a new task wrapping coro, in Hold (spec.md §4.3's
// "new(coro) → Hold (then typically ready)"). Call Ready on the result to
// make it schedulable.
func (sched *Scheduler) NewTask(coro Coroutine) *Task {
	t := newTask(sched, coro)
	sched.nextTaskID++
	t.id = sched.nextTaskID
	return t
}

// NewSignal creates a fresh, empty, valid Signal owned by the caller.
func (sched *Scheduler) NewSignal() *Signal {
	s := &Signal{sched: sched}
	s.head.init()
	sched.nextSignalID++
	s.id = sched.nextSignalID
	sched.userSignals = append(sched.userSignals, s)
	return s
}

// SetPoll replaces the scheduler's poll hook.
func (sched *Scheduler) SetPoll(poll Poll, ud any) {
	sched.poll = poll
	sched.pollUD = ud
}

// Errors returns the tasks currently parked in the error system signal, in
// FIFO order, without draining them — the non-destructive counterpart to
// Collect, for embedders that want to inspect before deciding how to
// collect (spec.md §6's errors() iterator).
func (sched *Scheduler) Errors() []*Task {
	var out []*Task
	for t := sched.errq.head.walkNext(nil); t != nil; t = sched.errq.head.walkNext(&t.link) {
		out = append(out, t)
	}
	return out
}

// resume is the shared engine behind Scheduler.wakeup (the tick loop and
// signal wakeups) and Task.Wakeup (host-forced resume): link the task under
// running, call its coroutine, and apply the resulting transition — spec.md
// §4.3's resume protocol.
func (sched *Scheduler) resume(t *Task, args []any) (ResumeOutcome, []any, error) {
	prev := sched.current
	sched.current = t
	t.waitat = &sched.running.head
	t.link.appendTo(&sched.running.head)

	outcome, values, err := t.coro.Resume(args)

	sched.current = prev
	switch outcome {
	case Returned:
		sched.finishReturn(t, values)
	case Errored:
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		sched.finishError(t, msg)
	}
	return outcome, values, err
}

// wakeup is resume guarded by the status check spec.md §4.3 states for the
// internally-driven wakeup paths (signal emit/one, the ready-set drain):
// only Ready/Waiting/Hold/Error tasks may be woken this way.
func (sched *Scheduler) wakeup(t *Task, args []any) {
	switch t.Status() {
	case StatusDead, StatusFinished, StatusRunning:
		return
	}
	sched.resume(t, args)
}

// finishReturn transitions t to Finished: its context becomes its return
// values (I5, P6), it leaves running, and its joiners are drained with a
// successful wakeup payload.
func (sched *Scheduler) finishReturn(t *Task, values []any) {
	t.context = values
	t.link.removeSelf()
	t.waitat = nil
	sched.logger.Log(LogEntry{Level: LevelDebug, Message: "task finished", TaskID: t.id})
	sched.drainJoined(t, append([]any{true}, values...))
}

// finishError transitions t to Error: its context becomes the sole error
// message (I4), it is linked under the error system signal, and its
// joiners are drained with a failure wakeup payload.
func (sched *Scheduler) finishError(t *Task, msg string) {
	t.context = []any{msg}
	t.waitat = &sched.errq.head
	t.link.appendTo(&sched.errq.head)
	sched.logger.Log(LogEntry{Level: LevelWarn, Message: "task errored", TaskID: t.id, Err: &TaskError{TaskID: t.id, Message: msg}})
	sched.drainJoined(t, []any{nil, msg})
}

// drainJoined wakes every task joined onto t with args, invalidating t's
// joined queue in the process (I5) — the joined-drain protocol of spec.md
// §4.3, routed through wakeup so the single-fire guarantee (spec.md §4.2)
// applies to joiners too. A joined queue that is already invalidated has
// nothing left to wake, so it is left as it is.
func (sched *Scheduler) drainJoined(t *Task, args []any) {
	if !t.joined.valid() {
		return
	}
	scratch := newHead()
	scratch.replace(&t.joined)
	for {
		j := scratch.walkNext(nil)
		if j == nil {
			break
		}
		j.link.removeSelf()
		sched.wakeup(j, args)
	}
}

// Once drives a single tick, per spec.md §4.4:
//  1. Snapshot and drain the current ready set, resuming each task with its
//     own saved context (nargs == -1 in spec.md's terms).
//  2. Invoke the poll hook, if any.
//  3. Return -1 if the error signal is non-empty, 1 if there is more work
//     (poll said so, or the new ready set is non-empty), else 0.
func (sched *Scheduler) Once() int {
	scratch := newHead()
	scratch.replace(&sched.ready.head)
	sched.ready.head.init()
	for {
		t := scratch.walkNext(nil)
		if t == nil {
			break
		}
		t.link.removeSelf()
		sched.wakeup(t, t.context)
	}

	more := 0
	if sched.poll != nil {
		more = sched.poll(sched, sched.pollUD)
	}

	if !sched.errq.head.empty() {
		return -1
	}
	if more != 0 || !sched.ready.head.empty() {
		return 1
	}
	return 0
}

// Loop drives Once until it returns <= 0. It reports true on clean
// quiescence (0), false once errors are pending (-1).
func (sched *Scheduler) Loop() bool {
	for {
		r := sched.Once()
		if r <= 0 {
			return r == 0
		}
	}
}

// Collect drains the error signal. For each errored task it appends
// "task(<id>): " followed by either userFn's returned message (if consumed
// is true, in which case the task is then deleted) or the task's own error
// message (in which case the task is deleted only when userFn is nil,
// otherwise it is re-linked back into the error signal) — spec.md §4.4 and
// §7's collect/callback contract. Passing a nil userFn reproduces "collect()
// with no callback": every errored task is formatted and deleted.
func (sched *Scheduler) Collect(userFn func(t *Task) (msg string, consumed bool)) string {
	scratch := newHead()
	scratch.replace(&sched.errq.head)
	sched.errq.head.init()

	var sb strings.Builder
	for {
		t := scratch.walkNext(nil)
		if t == nil {
			break
		}
		t.link.removeSelf()

		fmt.Fprintf(&sb, "task(%d): ", t.id)
		msg, consumed := "", false
		if userFn != nil {
			msg, consumed = userFn(t)
		}
		if !consumed {
			if m, ok := t.errorMessage(); ok {
				msg = m
			}
		}
		sb.WriteString(msg)
		sb.WriteByte('\n')

		if userFn == nil || consumed {
			_ = t.Delete()
		} else {
			t.waitat = &sched.errq.head
			t.link.appendTo(&sched.errq.head)
		}
	}
	return sb.String()
}

// errorMessage returns the task's parked error message, if it currently has
// one (I4: "top of the value stack is a string error message").
func (t *Task) errorMessage() (string, bool) {
	if len(t.context) == 0 {
		return "", false
	}
	s, ok := t.context[0].(string)
	return s, ok
}
