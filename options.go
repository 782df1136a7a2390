package cotask

import "fmt"

// schedulerOptions collects everything an Option may configure, resolved
// once by NewScheduler. Modeled directly on eventloop's loopOptions.
type schedulerOptions struct {
	poll   Poll
	pollUD any
	logger Logger
}

// Option configures a Scheduler at construction time. Modeled on
// eventloop's LoopOption/loopOptionImpl: a functional-options interface
// rather than bare functions, so a future option can carry validation logic
// without changing NewScheduler's signature.
type Option interface {
	applyScheduler(*schedulerOptions) error
}

type schedulerOptionFunc func(*schedulerOptions) error

func (f schedulerOptionFunc) applyScheduler(o *schedulerOptions) error { return f(o) }

// WithPoll installs the poll hook and its user data at construction time,
// equivalent to calling Scheduler.SetPoll immediately after NewScheduler.
func WithPoll(poll Poll, ud any) Option {
	return schedulerOptionFunc(func(o *schedulerOptions) error {
		o.poll = poll
		o.pollUD = ud
		return nil
	})
}

// WithLogger installs a structured Logger. Passing nil is an error: use
// NoOpLogger explicitly if logging should be suppressed, so a silent typo
// doesn't read as "logging configured."
func WithLogger(logger Logger) Option {
	return schedulerOptionFunc(func(o *schedulerOptions) error {
		if logger == nil {
			return fmt.Errorf("cotask: WithLogger requires a non-nil Logger: %w", ErrMisuse)
		}
		o.logger = logger
		return nil
	})
}

// resolveOptions applies opts in order, mirroring eventloop's
// resolveLoopOptions (including its tolerance of nil entries in the slice).
func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
