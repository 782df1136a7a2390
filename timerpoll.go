package cotask

import (
	"container/heap"
	"time"
)

// timerEntry is a single scheduled wakeup. Grounded directly on eventloop's
// timer{when, task} struct (loop.go), with the event-loop's Task swapped for
// the one thing a timer fires here: a signal to emit.
type timerEntry struct {
	when   time.Time
	signal *Signal
	args   []any
	id     uint64
}

// timerHeap is a min-heap of pending timers ordered by deadline, the same
// container/heap.Interface implementation shape as eventloop's timerHeap.
type timerHeap []timerEntry

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].when.Before(h[j].when) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)         { *h = append(*h, x.(timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TimerPoll is a ready-made Poll hook (see Scheduler.SetPoll and WithPoll)
// that fires signals after a delay, backed by a container/heap min-heap of
// deadlines — the same pattern eventloop uses for its own ScheduleTimer, but
// exercised here as an external collaborator plugged in through the
// scheduler's public poll seam (spec.md §5: "an embedder implements
// [timeouts] by emitting a signal from poll") instead of being built into
// the tick loop itself.
//
// TimerPoll is not safe for concurrent use, matching the Scheduler it is
// meant to be installed on.
type TimerPoll struct {
	heap   timerHeap
	nextID uint64
	now    func() time.Time
}

// NewTimerPoll returns an empty TimerPoll. now defaults to time.Now if nil,
// letting tests substitute a deterministic clock.
func NewTimerPoll(now func() time.Time) *TimerPoll {
	if now == nil {
		now = time.Now
	}
	return &TimerPoll{now: now}
}

// Schedule arranges for signal to be emitted with args after delay elapses,
// returning an id usable with Cancel.
func (p *TimerPoll) Schedule(delay time.Duration, signal *Signal, args ...any) uint64 {
	p.nextID++
	heap.Push(&p.heap, timerEntry{when: p.now().Add(delay), signal: signal, args: args, id: p.nextID})
	return p.nextID
}

// Cancel removes a pending timer by id, reporting whether it was found.
func (p *TimerPoll) Cancel(id uint64) bool {
	for i, e := range p.heap {
		if e.id == id {
			heap.Remove(&p.heap, i)
			return true
		}
	}
	return false
}

// Pending returns the number of timers not yet fired.
func (p *TimerPoll) Pending() int { return p.heap.Len() }

// Poll fires every timer whose deadline has passed, emitting its signal, and
// reports whether any timer remains pending (the scheduler's "more work"
// signal per spec.md §4.4). Install with WithPoll(timerPoll.Poll, nil) or
// Scheduler.SetPoll.
func (p *TimerPoll) Poll(sched *Scheduler, ud any) int {
	now := p.now()
	for p.heap.Len() > 0 && !p.heap[0].when.After(now) {
		e := heap.Pop(&p.heap).(timerEntry)
		_, _ = e.signal.Emit(e.args...)
	}
	if p.heap.Len() > 0 {
		return 1
	}
	return 0
}
