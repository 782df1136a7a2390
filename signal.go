package cotask

// Signal is an unordered wait-queue: any task may wait on it, and it is
// woken up en masse (Emit), one at a time (One), or by moving every member
// straight into the scheduler's ready set (Ready) without resuming them
// synchronously. Grounded on spec.md §4.2; the three system signals
// (running/ready/error) on Scheduler are unexported Signal values reached
// only through Task.Status and the tick loop, never through this type's own
// methods.
type Signal struct {
	sched *Scheduler
	head  node
	id    uint64
}

// ID returns the signal's identity, stable for its lifetime.
func (s *Signal) ID() uint64 { return s.id }

func (s *Signal) checkValid(op string) error {
	if !s.head.valid() {
		return &MisuseError{Op: op, Cause: ErrSignalDeleted}
	}
	return nil
}

// snapshot detaches the signal's current members onto a fresh scratch head
// and leaves s.head empty (but valid) for reuse — the building block behind
// Emit's and Ready's single-fire pass (spec.md §4.1's replace,
// immediately re-initialized per spec.md §4.4's "replace(scratch, ready);
// reinitialize ready as empty").
func (s *Signal) snapshot() *node {
	scratch := newHead()
	scratch.replace(&s.head)
	s.head.init()
	return scratch
}

// Emit wakes every task currently waiting on s exactly once, passing args as
// each one's resume arguments, and returns how many were woken. A task that
// re-waits on s during its own resumption is not woken again by this call
// (spec.md §4.2's single-fire guarantee): the re-wait relinks onto the
// already-emptied live head, which this call's snapshot walk never visits.
func (s *Signal) Emit(args ...any) (int, error) {
	if err := s.checkValid("Emit"); err != nil {
		return 0, err
	}
	scratch := s.snapshot()
	n := 0
	for {
		t := scratch.walkNext(nil)
		if t == nil {
			break
		}
		t.link.removeSelf()
		s.sched.wakeup(t, args)
		n++
	}
	return n, nil
}

// Ready moves every task currently waiting on s directly into the
// scheduler's ready set, setting its context to args, without resuming it
// synchronously — spec.md §4.2's "as emit, but ... moves it to the
// scheduler's ready set."
func (s *Signal) Ready(args ...any) (int, error) {
	if err := s.checkValid("Ready"); err != nil {
		return 0, err
	}
	scratch := s.snapshot()
	n := 0
	for {
		t := scratch.walkNext(nil)
		if t == nil {
			break
		}
		t.context = args
		t.waitat = &s.sched.ready.head
		t.link.appendTo(&s.sched.ready.head)
		n++
	}
	return n, nil
}

// One wakes only the first (FIFO) task waiting on s, if any.
func (s *Signal) One(args ...any) (bool, error) {
	if err := s.checkValid("One"); err != nil {
		return false, err
	}
	t := s.head.walkNext(nil)
	if t == nil {
		return false, nil
	}
	t.link.removeSelf()
	s.sched.wakeup(t, args)
	return true, nil
}

// Delete invalidates the signal (s.head.prev == nil afterward), then wakes
// every member it had with a "signal deleted" payload. Afterward Emit,
// Ready, and One return ErrSignalDeleted and calling Delete again is a
// no-op; Next, Count, Index, and Filter do not check for deletion.
func (s *Signal) Delete() error {
	if err := s.checkValid("Delete"); err != nil {
		return nil // already deleted: idempotent, matching spec.md's treatment of removeself
	}
	scratch := newHead()
	scratch.replace(&s.head) // invalidates s.head permanently; no reinit
	for {
		t := scratch.walkNext(nil)
		if t == nil {
			break
		}
		t.link.removeSelf()
		s.sched.wakeup(t, []any{nil, "signal deleted"})
	}
	return nil
}

// Next returns the task following after in s's wait-queue (the first member
// if after is nil), or nil once the walk completes.
func (s *Signal) Next(after *Task) *Task {
	var curr *node
	if after != nil {
		curr = &after.link
	}
	return s.head.walkNext(curr)
}

// Count returns the number of tasks currently waiting on s.
func (s *Signal) Count() int { return s.head.count() }

// Index returns the i'th (1-based) task waiting on s, or nil if out of
// range. Negative i counts from the tail.
func (s *Signal) Index(i int) *Task { return s.head.index(i) }

// Filter calls fn once for every task currently waiting on s, in FIFO
// order. It snapshots each member's next link before invoking fn, so fn may
// safely relink the current member (wait, ready, hold, join, wakeup) without
// disrupting the walk — spec.md §4.2's filter contract.
func (s *Signal) Filter(fn func(t *Task, ctx ...any)) {
	for m := s.head.next; m != &s.head; {
		next := m.next
		t := m.task
		m = next
		if t != nil {
			fn(t, t.context...)
		}
	}
}
