package cotask

import (
	"errors"
	"fmt"
)

// Sentinel errors, in the style of eventloop's ErrLoopAlreadyRunning family:
// comparable with errors.Is, wrapped by the richer struct types below when a
// call site has more to say.
var (
	// ErrMisuse is the root of every error returned for an operation invoked
	// on a task or signal in a state that does not support it (a deleted
	// signal, a dead task, an operation that requires the current task).
	ErrMisuse = errors.New("cotask: misuse")

	// ErrSignalDeleted is returned by Signal.Emit, Signal.Ready, and
	// Signal.One when called after the signal has been deleted. Next, Count,
	// Index, and Filter do not check for deletion.
	ErrSignalDeleted = errors.New("cotask: signal deleted")

	// ErrTaskNotJoinable is returned by Join when the target task is Dead,
	// Finished, or Error at the time of the call.
	ErrTaskNotJoinable = errors.New("cotask: join target is not alive")

	// ErrTaskDead is returned by operations that require a live coroutine.
	ErrTaskDead = errors.New("cotask: task is dead")

	// ErrRunningTask is returned by operations that are never valid against
	// the currently-running task (for example, force-deleting it).
	ErrRunningTask = errors.New("cotask: task is currently running")
)

// MisuseError reports a host-level misuse of the API: an operation attempted
// against a task or signal in a state that does not support it. Grounded on
// eventloop's TypeError/RangeError struct-error shape (Cause/Message/Error/
// Unwrap), trimmed to the one field this package needs beyond the sentinel.
type MisuseError struct {
	Op    string
	Cause error
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("cotask: misuse in %s: %v", e.Op, e.Cause)
}

func (e *MisuseError) Unwrap() error { return e.Cause }

func (e *MisuseError) Is(target error) bool { return target == ErrMisuse }

// TaskError reports a task-local error: the task's body returned an error or
// panicked, and the message has been parked on the task's context stack as
// the sole value (I4). The scheduler attaches one as the Err of the log
// entry it writes when a task errors; Collect and Task.Wakeup report the
// message as a plain string rather than as a TaskError.
type TaskError struct {
	TaskID  uint64
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("cotask: task(%d): %s", e.TaskID, e.Message)
}

// erroredPanic is the internal payload a running task's own call to
// Task.Error panics with. A Coroutine implementation's body wrapper (see
// Fiber.run) recovers it and reports the outcome as Errored, mirroring
// eventloop's safeExecute panic-to-error translation but routed through the
// task's own value rather than a generic recover-and-log.
type erroredPanic struct {
	msg string
}
