package cotask

// node is the intrusive circular-doubly-linked-list link used for both a
// signal's wait-set and a task's membership. A node with task == nil is a
// stand-alone queue head (a [Signal]'s head, or a scratch root used by the
// tick loop and by Emit's single-fire snapshot); a node with task != nil
// is a member link owned by exactly one *Task.
//
// An empty queue's head satisfies head.prev == head.next == head. A node
// with prev == nil is invalidated: it can no longer be linked into or
// walked as a queue. Signal.Delete and a finished task's joined queue both
// leave their head invalidated.
type node struct {
	prev, next *node
	task       *Task
}

// newHead returns an initialized, empty, stand-alone queue head.
func newHead() *node {
	n := &node{}
	n.init()
	return n
}

// init sets n up as a fresh, empty, stand-alone queue head.
func (n *node) init() {
	n.prev, n.next = n, n
}

// valid reports whether n can still be linked into / walked as a queue.
func (n *node) valid() bool {
	return n.prev != nil
}

// empty reports whether the queue rooted at n currently has no members.
// Only meaningful when n is itself a head and n.valid().
func (n *node) empty() bool {
	return n.next == n
}

// removeSelf unlinks n from whatever queue it is currently a member of.
// It is idempotent: a no-op on an invalidated or already self-linked node.
func (n *node) removeSelf() {
	if n.prev == nil || n.next == n {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = n, n
}

// appendTo links n as the new last member of the queue rooted at target,
// first removing n from wherever it currently sits. If target is invalid,
// n simply ends up self-linked (Hold).
func (n *node) appendTo(target *node) {
	n.removeSelf()
	if target == nil || !target.valid() {
		return
	}
	last := target.prev
	last.next = n
	n.prev = last
	n.next = target
	target.prev = n
}

// replace moves the entire cycle rooted at donor so that it is rooted at n
// instead, then invalidates donor (donor.prev = donor.next = nil). If donor
// was empty, n becomes empty. Used to snapshot a queue's current members in
// O(1) — the signal/ready-set single-fire pattern and tick-loop draining
// both depend on this never walking the member list.
func (n *node) replace(donor *node) {
	if donor.empty() {
		n.init()
	} else {
		n.next = donor.next
		n.prev = donor.prev
		n.next.prev = n
		n.prev.next = n
	}
	donor.prev, donor.next = nil, nil
}

// walkNext returns the task following curr in the queue rooted at n (the
// first member when curr is nil), or nil once the walk completes. Safe to
// call again after curr has been unlinked from n, as long as curr.next was
// captured before the re-link — callers that mutate membership during a
// walk (e.g. [Signal.Filter]) must snapshot next themselves before invoking
// any callback that might relink the current member.
func (n *node) walkNext(curr *node) *Task {
	var m *node
	if curr == nil {
		m = n.next
	} else {
		m = curr.next
	}
	if m == n {
		return nil
	}
	return m.task
}

// count returns the number of members in the queue rooted at n.
func (n *node) count() int {
	c := 0
	for m := n.next; m != n; m = m.next {
		c++
	}
	return c
}

// index returns the i'th member (1-based) of the queue rooted at n, or nil
// if out of range. Negative i counts from the tail (-1 is the last member).
func (n *node) index(i int) *Task {
	if i == 0 {
		return nil
	}
	if i > 0 {
		m := n.next
		for ; i > 1 && m != n; i-- {
			m = m.next
		}
		if m == n {
			return nil
		}
		return m.task
	}
	m := n.prev
	for ; i < -1 && m != n; i++ {
		m = m.prev
	}
	if m == n {
		return nil
	}
	return m.task
}
