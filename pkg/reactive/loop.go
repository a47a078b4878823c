package reactive

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultIdleTimeout is how long idle work may be starved by a busy loop
// before it runs anyway.
const DefaultIdleTimeout = 50 * time.Millisecond

// Loop is a single-goroutine cooperative event loop. It owns the microtask
// and idle queues that the Microtask and Idle schedules flush through, and an
// inbox through which other goroutines hand work back.
//
// Only Post is safe to call from other goroutines.
type Loop struct {
	mu    sync.Mutex
	inbox []func()
	wake  chan struct{}

	microtasks []func()
	idle       []func()
	idleSince  time.Time

	// outstanding counts tasks started but not yet resolved.
	outstanding atomic.Int64

	errs     []error
	draining bool

	idleTimeout time.Duration
	logger      *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithIdleTimeout sets how long idle callbacks may wait on a busy loop.
func WithIdleTimeout(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.idleTimeout = d
		}
	}
}

// WithLoopLogger sets the logger used for loop diagnostics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a new Loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:        make(chan struct{}, 1),
		idleTimeout: DefaultIdleTimeout,
		logger:      slog.Default().With("component", "loop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// QueueMicrotask appends fn to the microtask queue. Microtasks run on the
// next Drain, in order; microtasks queued while draining run in the same
// Drain.
func (l *Loop) QueueMicrotask(fn func()) {
	l.microtasks = append(l.microtasks, fn)
}

// RequestIdle appends fn to the idle queue.
func (l *Loop) RequestIdle(fn func()) {
	if len(l.idle) == 0 {
		l.idleSince = time.Now()
	}
	l.idle = append(l.idle, fn)
}

// Post hands fn to the loop goroutine. It is safe to call from any
// goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending reports whether any work is queued or outstanding.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	inbox := len(l.inbox)
	l.mu.Unlock()
	return inbox > 0 || len(l.microtasks) > 0 || len(l.idle) > 0 || l.outstanding.Load() > 0
}

// Drain runs posted work and microtasks until both queues are empty, then
// returns the unhandled errors reported meanwhile. Drain called from inside
// a microtask is a no-op.
func (l *Loop) Drain() error {
	if l.draining {
		return nil
	}
	l.draining = true
	defer func() { l.draining = false }()

	for {
		posted := l.takeInbox()
		if len(posted) == 0 && len(l.microtasks) == 0 {
			break
		}
		for _, fn := range posted {
			l.call(fn)
			l.runMicrotasks()
		}
		l.runMicrotasks()
	}
	return l.takeErrors()
}

// RunIdle drains, runs the idle callbacks queued so far, and drains again.
func (l *Loop) RunIdle() error {
	err := l.Drain()
	idle := l.idle
	l.idle = nil
	for _, fn := range idle {
		l.call(fn)
	}
	return errors.Join(err, l.Drain())
}

// Settle runs the loop until no work is queued and no task is outstanding,
// or ctx is done. It is meant for tests and static rendering.
func (l *Loop) Settle(ctx context.Context) error {
	var errs []error
	for {
		if err := l.Drain(); err != nil {
			errs = append(errs, err)
		}
		if len(l.idle) > 0 {
			if err := l.RunIdle(); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if l.outstanding.Load() == 0 && !l.hasInbox() {
			return errors.Join(errs...)
		}
		select {
		case <-ctx.Done():
			return errors.Join(append(errs, ctx.Err())...)
		case <-l.wake:
		}
	}
}

// Run drives the loop until ctx is done or an unhandled error surfaces.
// Idle callbacks run as soon as the inbox is empty, or after the idle
// timeout if the loop stays busy.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(l.idleTimeout)
	defer timer.Stop()

	for {
		if err := l.Drain(); err != nil {
			return err
		}
		if len(l.idle) > 0 && (!l.hasInbox() || time.Since(l.idleSince) >= l.idleTimeout) {
			if err := l.RunIdle(); err != nil {
				return err
			}
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(l.idleTimeout)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timer.C:
		}
	}
}

func (l *Loop) runMicrotasks() {
	for len(l.microtasks) > 0 {
		fn := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.call(fn)
	}
	l.microtasks = nil
}

func (l *Loop) takeInbox() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	posted := l.inbox
	l.inbox = nil
	return posted
}

func (l *Loop) hasInbox() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inbox) > 0
}

// call runs fn, reporting a panic as an unhandled error.
func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.report(recovered(r))
		}
	}()
	fn()
}

// report records an unhandled error for the caller of the current flush.
func (l *Loop) report(err error) {
	if err == nil {
		return
	}
	l.logger.Warn("unhandled error", "error", err)
	l.errs = append(l.errs, err)
}

func (l *Loop) takeErrors() error {
	if len(l.errs) == 0 {
		return nil
	}
	errs := l.errs
	l.errs = nil
	return errors.Join(errs...)
}

func (l *Loop) begin() { l.outstanding.Add(1) }
func (l *Loop) end()   { l.outstanding.Add(-1) }
