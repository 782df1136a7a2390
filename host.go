package cotask

// Binding implements the "Host Bindings" component (spec.md §2 item 5) as a
// plain Go API rather than wiring into any specific script runtime — none
// is in scope per spec.md §1. Its method names and signatures mirror
// spec.md §6 one-to-one, so a concrete language binding (Lua, Goja/JS, a
// DSL) only needs a thin shim translating script values to Go values; none
// of that shim is implemented here.
type Binding struct {
	Scheduler *Scheduler
}

// NewBinding wraps sched as a host-facing Binding.
func NewBinding(sched *Scheduler) *Binding {
	return &Binding{Scheduler: sched}
}

func (b *Binding) self(t *Task) *Task {
	if t == nil {
		return b.Scheduler.Current()
	}
	return t
}

// TaskNew creates a new task running fn, in Ready with args as its first
// resume arguments — spec.md §6's "task.new(fn, args...) → new task in
// Ready with fn as its body."
func (b *Binding) TaskNew(fn FiberFunc, args ...any) *Task {
	t := b.Scheduler.NewTask(NewFiber(fn))
	t.Ready(args...)
	return t
}

// TaskWait changes t's (or, if t is nil, the current task's) wait target.
// Called on the current task, it blocks and returns whatever values its
// eventual resume delivers.
func (b *Binding) TaskWait(t *Task, s *Signal, ctx ...any) []any {
	t = b.self(t)
	return t.Wait(s, ctx...)
}

// TaskReady moves t (or the current task) onto the ready set.
func (b *Binding) TaskReady(t *Task, ctx ...any) []any {
	t = b.self(t)
	return t.Ready(ctx...)
}

// TaskHold unlinks t (or the current task) from any signal.
func (b *Binding) TaskHold(t *Task, ctx ...any) []any {
	t = b.self(t)
	return t.Hold(ctx...)
}

// TaskWakeup force-resumes t, returning (ok, results…) per spec.md §6's
// wakeup return convention.
func (b *Binding) TaskWakeup(t *Task, args ...any) (bool, []any) {
	return t.Wakeup(args...)
}

// TaskJoin makes t (defaulting to the current task) wait for jointo
// (defaulting to t) to finish, error, or be deleted. Called on the current
// task, it blocks and returns the joined-drain payload on success.
func (b *Binding) TaskJoin(t, jointo *Task, ctx ...any) ([]any, error) {
	t = b.self(t)
	return t.Join(jointo, ctx...)
}

// TaskDelete force-terminates t.
func (b *Binding) TaskDelete(t *Task) error {
	return t.Delete()
}

// TaskStatus reports t's (or the current task's) status string, using the
// exact spellings spec.md §6 lists (including "waitting" and "finish").
func (b *Binding) TaskStatus(t *Task) string {
	t = b.self(t)
	return t.Status().String()
}

// TaskContext gets or sets t's context/value stack.
func (b *Binding) TaskContext(t *Task, ctx ...any) []any {
	t = b.self(t)
	return t.Context(ctx...)
}

// SignalNew creates a fresh, empty signal.
func (b *Binding) SignalNew() *Signal {
	return b.Scheduler.NewSignal()
}

// SignalDelete deletes s, waking every member with a "signal deleted"
// payload.
func (b *Binding) SignalDelete(s *Signal) error {
	return s.Delete()
}

// SignalEmit wakes every current member of s exactly once.
func (b *Binding) SignalEmit(s *Signal, args ...any) (int, error) {
	return s.Emit(args...)
}

// SignalReady moves every current member of s onto the ready set.
func (b *Binding) SignalReady(s *Signal, args ...any) (int, error) {
	return s.Ready(args...)
}

// SignalOne wakes only the first member of s.
func (b *Binding) SignalOne(s *Signal, args ...any) (bool, error) {
	return s.One(args...)
}

// SignalFilter calls fn once for every task currently waiting on s.
func (b *Binding) SignalFilter(s *Signal, fn func(t *Task, ctx ...any)) {
	s.Filter(fn)
}

// SignalNext returns the task following t in s (the first member if t is
// nil), 1-based semantics handled by Signal.Index for the indexed variant.
func (b *Binding) SignalNext(s *Signal, t *Task) *Task {
	return s.Next(t)
}

// SignalCount returns the number of tasks currently waiting on s.
func (b *Binding) SignalCount(s *Signal) int {
	return s.Count()
}

// SignalIndex returns the i'th (1-based, negative-from-tail) task waiting
// on s.
func (b *Binding) SignalIndex(s *Signal, i int) *Task {
	return s.Index(i)
}

// Once drives a single scheduler tick.
func (b *Binding) Once() int {
	return b.Scheduler.Once()
}

// Loop drives ticks until quiescent or errors are pending.
func (b *Binding) Loop() bool {
	return b.Scheduler.Loop()
}

// SetPoll installs the scheduler's poll hook.
func (b *Binding) SetPoll(poll Poll, ud any) {
	b.Scheduler.SetPoll(poll, ud)
}

// Errors returns the tasks currently parked in the error signal.
func (b *Binding) Errors() []*Task {
	return b.Scheduler.Errors()
}

// Collect drains the error signal into a formatted string.
func (b *Binding) Collect(fn func(t *Task) (msg string, consumed bool)) string {
	return b.Scheduler.Collect(fn)
}
