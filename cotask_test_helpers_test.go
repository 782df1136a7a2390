package cotask

// mainCoroutine is a placeholder Coroutine for the scheduler's main task in
// tests: the scheduler never calls Resume/Yield on it directly (the main
// task represents the host's own already-running thread), so it only needs
// to satisfy the interface.
type mainCoroutine struct{}

func (mainCoroutine) Resume(args []any) (ResumeOutcome, []any, error) {
	return Returned, nil, nil
}

func (mainCoroutine) Yield(ctx []any) []any { return ctx }

func newTestScheduler() *Scheduler {
	sched, err := NewScheduler(mainCoroutine{})
	if err != nil {
		panic(err)
	}
	return sched
}
