package cotask

import "fmt"

// FiberFunc is the body of a Fiber-backed task. It receives the Fiber itself
// (so it can call Yield) and its resume arguments, and returns its final
// results or an error.
type FiberFunc func(f *Fiber, args []any) ([]any, error)

// fiberSignal is what the body goroutine hands back across yieldCh: either a
// suspension (Yielded, with the yielded values) or a terminal outcome
// (Returned/Errored).
type fiberSignal struct {
	outcome ResumeOutcome
	values  []any
	err     error
}

// Fiber is the bundled default Coroutine implementation: it backs a task
// with a goroutine parked on a pair of unbuffered channels, handing control
// back and forth one side at a time so that the fiber goroutine and the
// scheduler goroutine are never runnable simultaneously — see doc.go's
// Thread Safety section and SPEC_FULL.md §4B. This is the same "OS thread
// parked one-at-a-time" design spec.md §9 names as an option for hosts
// without stackful coroutines, and is thematically grounded on the
// dedicated-goroutine-per-coroutine shape of the iolang VM scheduler kept in
// the example pack, adapted here to a single goroutine per Fiber rather than
// a shared scheduler goroutine coordinating many.
type Fiber struct {
	body     FiberFunc
	resumeCh chan []any
	yieldCh  chan fiberSignal
	started  bool
	done     bool
}

// NewFiber wraps body as a Coroutine, ready for its first Resume.
func NewFiber(body FiberFunc) *Fiber {
	return &Fiber{
		body:     body,
		resumeCh: make(chan []any),
		yieldCh:  make(chan fiberSignal),
	}
}

// Resume implements Coroutine. The first call lazily starts the body
// goroutine; every subsequent call hands args to a pending Yield.
func (f *Fiber) Resume(args []any) (ResumeOutcome, []any, error) {
	if f.done {
		return Returned, nil, fmt.Errorf("cotask: resume of a finished fiber: %w", ErrTaskDead)
	}
	if !f.started {
		f.started = true
		go f.run(args)
	} else {
		f.resumeCh <- args
	}
	sig := <-f.yieldCh
	if sig.outcome != Yielded {
		f.done = true
	}
	return sig.outcome, sig.values, sig.err
}

// Yield implements Coroutine: called by the body (via the *Fiber it was
// given), it suspends the goroutine until the next Resume.
func (f *Fiber) Yield(ctx []any) []any {
	f.yieldCh <- fiberSignal{outcome: Yielded, values: ctx}
	return <-f.resumeCh
}

// run is the body goroutine's entry point. It recovers both the
// erroredPanic a task's own call to Task.Error raises (see task.go) and any
// other panic from the body, translating both into an Errored outcome —
// mirroring eventloop's safeExecute/safeExecuteFn panic-to-error recovery.
func (f *Fiber) run(args []any) {
	var result []any
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if ep, ok := r.(*erroredPanic); ok {
					err = fmt.Errorf("%s", ep.msg)
				} else {
					err = fmt.Errorf("cotask: task panic: %v", r)
				}
			}
		}()
		result, err = f.body(f, args)
	}()
	if err != nil {
		f.yieldCh <- fiberSignal{outcome: Errored, err: err}
	} else {
		f.yieldCh <- fiberSignal{outcome: Returned, values: result}
	}
}
