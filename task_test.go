package cotask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskNewStartsHold(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) {
		return nil, nil
	}))
	assert.Equal(t, StatusHold, task.Status())
	assert.Equal(t, "hold", task.Status().String())
}

func TestHoldIsIdempotent(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))
	task.Hold("a")
	task.Hold("b")
	assert.Equal(t, StatusHold, task.Status())
	assert.Equal(t, []any{"b"}, task.Context())
}

func TestReadyDoesNotDuplicateQueueMembership(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))
	task.Ready()
	task.Ready()
	assert.Equal(t, 1, sched.ready.head.count())
}

func TestWaitMovesBetweenSignals(t *testing.T) {
	sched := newTestScheduler()
	s1 := sched.NewSignal()
	s2 := sched.NewSignal()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))

	task.Wait(s1)
	assert.Same(t, s1, task.Signal())
	assert.Equal(t, 1, s1.Count())

	task.Wait(s2)
	assert.Same(t, s2, task.Signal())
	assert.Equal(t, 0, s1.Count())
	assert.Equal(t, 1, s2.Count())
}

func TestWaitNilSignalIsHold(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))
	task.Wait(nil, "ctx")
	assert.Equal(t, StatusHold, task.Status())
	assert.Equal(t, []any{"ctx"}, task.Context())
}

func TestJoinRejectsTerminalTarget(t *testing.T) {
	sched := newTestScheduler()
	b := NewBinding(sched)

	p := b.TaskNew(func(f *Fiber, args []any) ([]any, error) { return []any{1}, nil })
	require.Equal(t, 0, sched.Once())
	require.Equal(t, StatusFinished, p.Status())

	q := b.TaskNew(func(f *Fiber, args []any) ([]any, error) { return nil, nil })
	_, err := q.Join(p)
	assert.ErrorIs(t, err, ErrTaskNotJoinable)
	var misuse *MisuseError
	assert.ErrorAs(t, err, &misuse)
}

func TestJoinDefaultsToSelf(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))
	_, err := task.Join(nil)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, task.Status())
	assert.Nil(t, task.Signal()) // joined queues have no exported Signal wrapper
}

func TestErrorOnNonRunningTaskDrainsJoiners(t *testing.T) {
	sched := newTestScheduler()
	b := NewBinding(sched)

	// p never runs its own body: it stays parked in Hold so the test can
	// force it into Error directly, exercising Task.Error's non-Running
	// branch rather than a body returning an error.
	p := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))

	var q *Task
	q = b.TaskNew(func(f *Fiber, args []any) ([]any, error) {
		results, err := q.Join(p)
		if err != nil {
			return nil, err
		}
		return results, nil
	})
	require.Equal(t, 0, sched.Once()) // lets q run up to its Join(p) and park
	require.Equal(t, StatusWaiting, q.Status())

	err := p.Error("boom")
	require.NoError(t, err)
	assert.Equal(t, StatusError, p.Status())
	assert.Equal(t, StatusFinished, q.Status())
	assert.Equal(t, []any{nil, "boom"}, q.Context())
}

func TestWakeupForceResumesHeldTask(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) {
		return args, nil
	}))
	task.Hold()

	ok, results := task.Wakeup("x", "y")
	assert.True(t, ok)
	assert.Equal(t, []any{"x", "y"}, results)
	assert.Equal(t, StatusFinished, task.Status())
}

func TestWakeupReportsErroredOutcome(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) {
		return nil, assertError("kaboom")
	}))
	task.Hold()

	ok, results := task.Wakeup()
	assert.False(t, ok)
	assert.Equal(t, []any{"kaboom"}, results)
	assert.Equal(t, StatusError, task.Status())
}

func TestWakeupNoOpOnFinishedTask(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return []any{1}, nil }))
	task.Ready()
	sched.Once()
	require.Equal(t, StatusFinished, task.Status())

	ok, results := task.Wakeup()
	assert.False(t, ok)
	assert.Nil(t, results)
}

func TestDeleteDrainsJoinersWithDeletedPayload(t *testing.T) {
	sched := newTestScheduler()
	b := NewBinding(sched)

	p := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))

	var q *Task
	q = b.TaskNew(func(f *Fiber, args []any) ([]any, error) {
		results, err := q.Join(p)
		if err != nil {
			return nil, err
		}
		return results, nil
	})
	require.Equal(t, 0, sched.Once()) // lets q run up to its Join(p) and park

	require.NoError(t, p.Delete())
	assert.Equal(t, StatusDead, p.Status())
	assert.Equal(t, StatusFinished, q.Status())
	assert.Equal(t, []any{nil, "task deleted"}, q.Context())
}

func TestDeleteRefusesRunningTask(t *testing.T) {
	sched := newTestScheduler()
	var self *Task
	self = sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) {
		err := self.Delete()
		return []any{err}, nil
	}))
	self.Ready()
	sched.Once()

	result := self.Context()
	require.Len(t, result, 1)
	err, ok := result[0].(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrRunningTask)
}

func TestDeleteIsIdempotent(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))
	require.NoError(t, task.Delete())
	assert.Equal(t, StatusDead, task.Status())
	assert.NoError(t, task.Delete())
}

func TestContextGetSet(t *testing.T) {
	sched := newTestScheduler()
	task := sched.NewTask(NewFiber(func(f *Fiber, args []any) ([]any, error) { return nil, nil }))
	assert.Nil(t, task.Context())
	got := task.Context(1, 2, 3)
	assert.Equal(t, []any{1, 2, 3}, got)
	assert.Equal(t, []any{1, 2, 3}, task.Context())
}
