package cotask

// ResumeOutcome classifies how a Coroutine.Resume call ended.
type ResumeOutcome int

const (
	// Yielded means the coroutine suspended itself by calling Yield; it can
	// be resumed again later.
	Yielded ResumeOutcome = iota
	// Returned means the coroutine's body ran to completion.
	Returned
	// Errored means the coroutine's body ended with an error.
	Errored
)

func (o ResumeOutcome) String() string {
	switch o {
	case Yielded:
		return "yielded"
	case Returned:
		return "returned"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Coroutine is the opaque cooperative execution context a Task wraps. It
// models spec.md's "coroutine handle" primitive pair resume/yield directly,
// but trades the Lua-style value-stack-plus-function-in-slot-one convention
// for a plain Go argument/result slice — a substitution spec.md §9
// explicitly licenses ("implementers targeting a different execution
// substrate can replace it with an explicit args tuple").
//
// Implementations must never run concurrently with the Scheduler that owns
// them: Resume must not return until the coroutine has yielded, returned, or
// errored, and the coroutine's body must not touch the Scheduler or any Task
// except through the handle passed to it (see Fiber for the bundled
// implementation of that contract).
type Coroutine interface {
	// Resume continues the coroutine. args are the values it receives: the
	// call arguments on the first Resume, or the wakeup values delivered to
	// a pending Yield call on every subsequent Resume. Resume must not be
	// called again until the previous call has returned.
	Resume(args []any) (ResumeOutcome, []any, error)

	// Yield suspends the coroutine from within its own body, handing ctx
	// back to whoever called Resume, and blocks until the coroutine is
	// resumed again, returning that resume's args. Calling Yield from
	// outside the coroutine's own body is undefined; Task only ever calls
	// it on the coroutine currently identified as the scheduler's current
	// task (see Task.relink).
	Yield(ctx []any) []any
}
