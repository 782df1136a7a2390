package cotask

import "fmt"

// Status classifies a Task's current position in its lifecycle. It is never
// stored directly on a Task; Task.Status derives it from coroutine liveness
// and queue membership, per spec.md §4.3.
type Status int

const (
	StatusHold Status = iota
	StatusReady
	StatusRunning
	StatusWaiting
	StatusFinished
	StatusError
	StatusDead
)

// String returns the exact spellings external callers match on, including
// the historical "waitting" and "finish" (spec.md §6, kept verbatim for
// source compatibility with existing script consumers per spec.md §9).
func (s Status) String() string {
	switch s {
	case StatusHold:
		return "hold"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusWaiting:
		return "waitting"
	case StatusFinished:
		return "finish"
	case StatusError:
		return "error"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Task is a schedulable unit: a Coroutine plus the queue membership that
// decides when it next runs. Every Task belongs to exactly one Scheduler and
// must only be used from that Scheduler's goroutine.
type Task struct {
	id      uint64
	sched   *Scheduler
	link    node // this task's membership link; link.task == this task
	coro    Coroutine
	waitat  *node // queue root link is linked under; nil means self-linked (Hold)
	joined  node  // head of the tasks currently joined to this one; task == nil
	context []any // the task's context/value stack
}

// newTask wires up a freshly allocated Task's intrusive links. It always
// starts in Hold: a self-linked head, an empty (valid) joined queue, and a
// nil waitat — matching spec.md §4.3's "new(coro) → Hold".
func newTask(sched *Scheduler, coro Coroutine) *Task {
	t := &Task{sched: sched, coro: coro}
	t.link.task = t
	t.link.init()
	t.joined.init()
	return t
}

// ID returns the task's identity, stable for its lifetime (including after
// Delete, so a stale reference can still be described in log output).
func (t *Task) ID() uint64 { return t.id }

// Status reports the task's current lifecycle state, per spec.md §4.3.
func (t *Task) Status() Status {
	if t.coro == nil {
		return StatusDead
	}
	switch t.waitat {
	case &t.sched.running.head:
		return StatusRunning
	case &t.sched.ready.head:
		return StatusReady
	case &t.sched.errq.head:
		return StatusError
	}
	if !t.joined.valid() {
		return StatusFinished
	}
	if t.waitat == nil {
		return StatusHold
	}
	return StatusWaiting
}

// Signal returns the user-created Signal the task is currently waiting on,
// or nil if it is not (including when it is Hold, a system-signal member, or
// joined onto another task, which has no exported Signal wrapper).
func (t *Task) Signal() *Signal {
	switch t.waitat {
	case nil, &t.sched.running.head, &t.sched.ready.head, &t.sched.errq.head:
		return nil
	}
	for _, s := range t.sched.userSignals {
		if t.waitat == &s.head {
			return s
		}
	}
	return nil
}

// Context gets or sets the task's context/value stack. With no arguments it
// only reads the current context; with arguments it replaces the context
// and returns the new value.
func (t *Task) Context(ctx ...any) []any {
	if len(ctx) > 0 {
		t.context = ctx
	}
	return t.context
}

// relink is the shared engine behind Wait, Ready, Hold, and Join: it moves
// the task's membership link to target (nil means self-linked / Hold), sets
// its context, and — if the task is the one currently running — yields the
// underlying coroutine so control actually leaves its frame, per spec.md
// §4.3's "From Running, also yields the coroutine." The return value is
// only meaningful in that case: it is whatever args the eventual resume
// delivers (emit's nargs, a join's wakeup payload, and so on); callers not
// currently running get nil back immediately, since nothing resumed them.
//
// spec.md states this yield-on-Running behavior only for wait(); this
// package applies it uniformly to ready()/hold()/join() called by a task on
// itself too, since the host-facing API defaults their target task argument
// to "the current task" (spec.md §6) and a self-ready/self-hold call from
// inside a running body is only meaningful if it actually yields. See
// DESIGN.md for this decision.
func (t *Task) relink(target *node, ctx []any) []any {
	t.context = ctx
	t.waitat = target
	if target == nil {
		t.link.removeSelf()
	} else {
		t.link.appendTo(target)
	}
	if t.sched.current == t {
		return t.coro.Yield(ctx)
	}
	return nil
}

// Wait moves the task onto signal s (nil is equivalent to Hold). Called on
// the current task, it blocks until something wakes the task up again and
// returns the values delivered by that wakeup.
func (t *Task) Wait(s *Signal, ctx ...any) []any {
	if s == nil {
		return t.Hold(ctx...)
	}
	return t.relink(&s.head, ctx)
}

// Ready moves the task onto the scheduler's ready set.
func (t *Task) Ready(ctx ...any) []any {
	return t.relink(&t.sched.ready.head, ctx)
}

// Hold unlinks the task from any signal, parking it until something else
// readies, waits, or wakes it up explicitly.
func (t *Task) Hold(ctx ...any) []any {
	return t.relink(nil, ctx)
}

// Join waits for other (defaulting to t itself, matching spec.md §6's
// "jointo defaults to t") to finish, error, or be deleted. It fails if other
// is already Dead, Finished, or Error — spec.md §4.3 requires the target be
// "alive and not yet finished/errored/dead". On success, called on the
// current task, it blocks and returns the joined-drain payload (spec.md
// §4.3): (true, returns…), (nil, errmsg), or (nil, "task deleted", ctx…).
func (t *Task) Join(other *Task, ctx ...any) ([]any, error) {
	if other == nil {
		other = t
	}
	switch other.Status() {
	case StatusDead, StatusFinished, StatusError:
		return nil, &MisuseError{Op: "Join", Cause: fmt.Errorf("task(%d): %w", other.id, ErrTaskNotJoinable)}
	}
	return t.relink(&other.joined, ctx), nil
}

// Error forces the task into the Error state with msg as its sole context
// value. Called on the currently-running task, it raises within the
// coroutine (spec.md §4.3: "From Running, raises within the coroutine"),
// implemented as a panic the Coroutine's body wrapper recovers (see
// Fiber.run). Called on any other non-Dead, non-Finished task, it parks the
// task in the error signal and performs the joined-drain protocol directly,
// without resuming the task itself (its joiners are woken).
func (t *Task) Error(msg string) error {
	if t.sched.current == t {
		panic(&erroredPanic{msg: msg})
	}
	switch t.Status() {
	case StatusDead, StatusFinished:
		return &MisuseError{Op: "Error", Cause: fmt.Errorf("task(%d) is %s: %w", t.id, t.Status(), ErrMisuse)}
	}
	t.sched.finishError(t, msg)
	return nil
}

// Wakeup force-resumes the task regardless of its current Ready/Waiting/
// Hold/Error status, passing args as the values it receives. It reports
// (true, results) on a yield or a normal return, and (false, []any{errmsg})
// if the resume ends in an error — spec.md §6's wakeup return convention.
func (t *Task) Wakeup(args ...any) (bool, []any) {
	switch t.Status() {
	case StatusDead, StatusFinished, StatusRunning:
		return false, nil
	}
	outcome, values, err := t.sched.resume(t, args)
	if outcome == Errored {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		return false, []any{msg}
	}
	return true, values
}

// Delete force-terminates the task: Dead afterward, its coroutine handle
// released, and any joiners drained with a "task deleted" wakeup payload
// (spec.md §4.3's joined-drain protocol). It is a misuse to delete the
// currently-running task (there is no frame to unwind to).
func (t *Task) Delete() error {
	if t.Status() == StatusDead {
		return nil
	}
	if t.sched.current == t {
		return &MisuseError{Op: "Delete", Cause: ErrRunningTask}
	}
	ctx := append([]any(nil), t.context...)
	t.link.removeSelf()
	t.waitat = nil
	if t.joined.valid() {
		t.sched.drainJoined(t, append([]any{nil, "task deleted"}, ctx...))
	}
	t.coro = nil
	return nil
}
