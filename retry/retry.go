// Package retry provides a bounded retry executor: it invokes an
// operation until it succeeds or a maximum attempt count is exhausted,
// pausing for a fixed delay between attempts.
//
// Every failure is treated identically. There is no jitter, no
// exponential backoff, and no per-error discrimination; the operation
// runs to either success or exhaustion, and on exhaustion the last
// error surfaces unchanged.
package retry

import "time"

// DefaultDelay is the pause between attempts when no delay is
// configured with WithDelay.
const DefaultDelay = 100 * time.Millisecond

// Op represents an operation that either produces a value or fails
// with an error.
type Op[T any] func() (T, error)

// Clock abstracts the wait between attempts so that tests can run
// without real sleeps.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// NewClock returns a Clock backed by real time.
func NewClock() Clock { return realClock{} }

type config struct {
	delay   time.Duration
	clock   Clock
	onRetry func(attempt int, err error)
}

type Option func(*config)

// WithDelay sets the pause between attempts.
func WithDelay(delay time.Duration) Option {
	return func(c *config) {
		c.delay = delay
	}
}

// WithClock can be used to change the clock that the executor sleeps
// on. This is useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithOnRetry registers a hook that is called after a failed attempt,
// right before the executor goes to sleep. The hook receives the
// number of the attempt that just failed and its error. It never fires
// for a success or for the terminal failure.
func WithOnRetry(hook func(attempt int, err error)) Option {
	return func(c *config) {
		c.onRetry = hook
	}
}

// Do invokes op until it succeeds or maxAttempts is exhausted. On
// success the value is returned immediately. On failure, the executor
// sleeps for the configured delay and tries again; once the attempt
// count reaches maxAttempts the last error is returned unchanged, with
// no further attempts.
//
// `maxAttempts` has to be greater than 0.
func Do[T any](op Op[T], maxAttempts int, opts ...Option) (T, error) {
	if maxAttempts <= 0 {
		panic("maxAttempts must be greater than 0")
	}

	cfg := &config{
		delay: DefaultDelay,
		clock: realClock{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	for attempt := 1; ; attempt++ {
		value, err := op()
		if err == nil {
			return value, nil
		}

		if attempt == maxAttempts {
			return value, err
		}

		if cfg.onRetry != nil {
			cfg.onRetry(attempt, err)
		}
		cfg.clock.Sleep(cfg.delay)
	}
}

// Fn is a convenience wrapper around Do for operations that produce no
// value.
func Fn(op func() error, maxAttempts int, opts ...Option) error {
	_, err := Do(func() (struct{}, error) {
		return struct{}{}, op()
	}, maxAttempts, opts...)
	return err
}
