package reactive

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Cleanup is a function returned by effects to release resources.
// It runs before the effect re-runs and when the effect is disposed.
type Cleanup func()

// teardown is the normalized result of one effect run: a cleanup available
// now, or a task that will yield one.
type teardown struct {
	now   Cleanup
	later *Task[Cleanup]
}

// effect is a callback re-run when one of its declared sources changes.
type effect struct {
	id       uint64
	owner    *Owner
	schedule Schedule
	deps     []*node

	// Exactly one of fn and async is set.
	fn    func() Cleanup
	async func(ctx context.Context) (Cleanup, error)

	cleanup Cleanup
	cancel  context.CancelCauseFunc

	// gen increments on every run so a late async cleanup can tell whether
	// it still belongs to the latest run.
	gen      uint64
	disposed bool
}

// Effect registers fn to run on the Microtask schedule once, and again
// whenever any of deps changes. It returns a function that disposes the
// effect.
//
// Dependencies are not traced: reading a Getter that is not listed in deps
// does not subscribe the effect to it.
//
// Example:
//
//	stop := owner.Effect(func() reactive.Cleanup {
//	    fmt.Println("name is", name.Get())
//	    return nil
//	}, name)
func (o *Owner) Effect(fn func() Cleanup, deps ...Source) func() {
	return o.EffectOn(Microtask, fn, deps...)
}

// EffectOn is Effect with an explicit schedule. Immediate effects run for
// the first time before EffectOn returns.
func (o *Owner) EffectOn(s Schedule, fn func() Cleanup, deps ...Source) func() {
	return o.register(&effect{fn: fn}, s, deps)
}

// EffectAsync registers an effect whose body runs as a Task. The cleanup it
// returns is stored once the task resolves on the loop, so it may run later
// than a synchronous cleanup would. The task's context is cancelled when the
// effect re-runs or is disposed; a cleanup that arrives after that point is
// invoked immediately instead of stored.
func (o *Owner) EffectAsync(s Schedule, fn func(ctx context.Context) (Cleanup, error), deps ...Source) func() {
	return o.register(&effect{async: fn}, s, deps)
}

func (o *Owner) register(e *effect, s Schedule, deps []Source) func() {
	if o.disposed {
		return func() {}
	}
	if s >= numSchedules {
		panic(fmt.Sprintf("weft: unknown schedule %d", s))
	}

	e.id = nextID()
	e.owner = o
	e.schedule = s
	e.deps = make([]*node, 0, len(deps))
	for _, d := range deps {
		if d == nil {
			continue
		}
		n := d.sourceNode()
		e.deps = append(e.deps, n)
		o.rt.subscribe(n, e)
	}
	o.disposables = append(o.disposables, disposable{effect: e})

	if s == Immediate {
		o.rt.run(e)
	} else {
		o.rt.schedule(e)
	}

	return func() {
		if e.disposed {
			return
		}
		e.owner.removeEffect(e)
		e.owner.rt.disposeEffect(e)
	}
}

// run executes e once: previous teardown first, then the callback. It
// reports whether the effect actually ran.
func (rt *runtime) run(e *effect) bool {
	if e.disposed || e.owner.disposed {
		return false
	}
	start := time.Now()
	e.gen++

	rt.teardown(e)

	td, err := rt.invoke(e)
	if err == nil {
		rt.attach(e, td)
	}
	rt.observer.EffectDone(e.schedule, start, err)
	if err != nil {
		e.owner.Fail(err)
	}
	return true
}

// invoke calls the user callback, recovering panics into an EffectError.
func (rt *runtime) invoke(e *effect) (td teardown, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EffectError{
				EffectID: e.id,
				OwnerID:  e.owner.id,
				Schedule: e.schedule,
				Panic:    r,
				Err:      recovered(r),
			}
		}
	}()

	if e.fn != nil {
		return teardown{now: e.fn()}, nil
	}

	fn := e.async
	id, ownerID, sched := e.id, e.owner.id, e.schedule
	ctx, cancel := context.WithCancelCause(e.owner.Context())
	e.cancel = cancel
	task := spawn(ctx, cancel, rt.loop, func(ctx context.Context) (Cleanup, error) {
		c, err := fn(ctx)
		if err != nil {
			return c, &EffectError{EffectID: id, OwnerID: ownerID, Schedule: sched, Err: err}
		}
		return c, nil
	})
	return teardown{later: task}, nil
}

// attach stores the teardown of the run that just finished.
func (rt *runtime) attach(e *effect, td teardown) {
	if td.later == nil {
		e.cleanup = td.now
		return
	}

	gen := e.gen
	td.later.settle(func(c Cleanup, err error) {
		if err != nil && !e.disposed && !isCancellation(err) {
			e.owner.Fail(err)
		}
		if c == nil {
			return
		}
		if e.disposed || e.gen != gen {
			rt.safeCleanup(e.owner, c)
			return
		}
		e.cleanup = c
	})
}

// teardown runs and clears e's current cleanup and cancels its in-flight
// async run.
func (rt *runtime) teardown(e *effect) {
	if e.cancel != nil {
		e.cancel(ErrTaskCancelled)
		e.cancel = nil
	}
	if c := e.cleanup; c != nil {
		e.cleanup = nil
		rt.safeCleanup(e.owner, c)
	}
}

// safeCleanup runs c, routing a panic through the owner's error chain.
func (rt *runtime) safeCleanup(o *Owner, c Cleanup) {
	defer func() {
		if r := recover(); r != nil {
			o.Fail(recovered(r))
		}
	}()
	c()
}

// disposeEffect unsubscribes e, drops it from its queue and runs its latest
// cleanup.
func (rt *runtime) disposeEffect(e *effect) {
	if e.disposed {
		return
	}
	e.disposed = true
	for _, n := range e.deps {
		rt.unsubscribe(n, e)
	}
	e.deps = nil
	rt.unschedule(e)
	rt.teardown(e)
}

// isCancellation reports whether err only says the run was cancelled.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrTaskCancelled) ||
		errors.Is(err, ErrDisposed)
}
