// Package cotask provides a cooperative task scheduler intended for
// embedding inside a host scripting interpreter.
//
// # Architecture
//
// The scheduler multiplexes [Task] values — each backed by an opaque
// [Coroutine] handle that can suspend and resume at arbitrary points — onto
// a single goroutine. Tasks synchronize and communicate via [Signal]: an
// unordered wait-queue that any task may wait on, and which is woken up en
// masse ([Signal.Emit]) or one at a time ([Signal.One]). A pluggable
// [Poll] hook, configured with [WithPoll], lets the embedder integrate
// external event sources (I/O readiness, timers) into every scheduling
// tick — see [TimerPoll] for a ready-made deadline-based one.
//
// # Task Lifecycle
//
// A task moves between [StatusHold], [StatusReady], [StatusRunning],
// [StatusWaiting], [StatusFinished], [StatusError], and [StatusDead].
// Status is never stored directly; it is derived from the task's coroutine
// liveness, its membership in one of the scheduler's system signals, and
// whether its join queue has been drained. See [Task.Status].
//
// # Tick Loop
//
// [Scheduler.Once] drives a single tick: it drains the current ready set,
// resuming each task exactly once, then invokes the poll hook. Call
// [Scheduler.Loop] to drive ticks until the scheduler is quiescent or an
// unhandled task error is pending; call [Scheduler.Collect] to format and
// drain the error queue.
//
// # Thread Safety
//
// A [Scheduler] is not safe for concurrent use: it is a single-threaded,
// cooperative design with no preemption. All of its methods — [Scheduler.Once],
// [Scheduler.Loop], [Task.Wait], [Signal.Emit], and so on — must be called
// from the same goroutine. The bundled [Fiber] coroutine backend parks a
// second goroutine per task, but that goroutine and the scheduler goroutine
// are never runnable simultaneously: they hand off control one at a time
// over an unbuffered channel, standing in for the stackful resume/yield
// primitive a real scripting host would provide natively.
//
// # Host Bindings
//
// [Binding] exposes the script-facing API surface (task.new, task.wait,
// signal.emit, and so on) as plain Go methods, so a concrete language
// binding only needs a thin shim translating script values to Go values.
package cotask
