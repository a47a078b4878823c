package reactive

import (
	"context"
	"errors"
)

// Task is a future computed on its own goroutine and resolved on the loop
// goroutine. Continuations registered with Then run on the loop, and only if
// the task was not cancelled first.
type Task[T any] struct {
	loop   *Loop
	cancel context.CancelCauseFunc

	done      bool
	cancelled bool
	value     T
	err       error

	thens   []func(T, error)
	settles []func(T, error)
}

// Go starts fn on a new goroutine under o's context, which is cancelled when
// o is disposed. The task is resolved on o's Loop; a task whose context was
// cancelled before fn returned resolves with the cancellation cause:
// ErrTaskCancelled after Cancel, ErrDisposed after o is disposed.
//
// Example:
//
//	t := reactive.Go(owner, func(ctx context.Context) (*User, error) {
//	    return api.FetchUser(ctx, id)
//	})
//	t.Then(func(u *User, err error) { setUser.Set(u) })
func Go[T any](o *Owner, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancelCause(o.Context())
	return spawn(ctx, cancel, o.rt.loop, fn)
}

// GoOn starts fn on a new goroutine and resolves it on loop. It is the
// ownerless form of Go.
func GoOn[T any](ctx context.Context, loop *Loop, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancelCause(ctx)
	return spawn(ctx, cancel, loop, fn)
}

func spawn[T any](ctx context.Context, cancel context.CancelCauseFunc, loop *Loop, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := &Task[T]{loop: loop, cancel: cancel}
	loop.begin()
	go func() {
		v, err := call(ctx, fn)
		if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
			err = context.Cause(ctx)
		}
		loop.Post(func() {
			defer loop.end()
			t.resolve(v, err)
		})
	}()
	return t
}

// call runs fn, turning a panic into an error.
func call[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return fn(ctx)
}

func (t *Task[T]) resolve(v T, err error) {
	if t.done {
		return
	}
	t.done = true
	t.value, t.err = v, err
	t.cancel(nil)

	for _, fn := range t.settles {
		fn(v, err)
	}
	t.settles = nil

	thens := t.thens
	t.thens = nil
	if t.cancelled {
		return
	}
	for _, fn := range thens {
		fn(v, err)
	}
}

// Then registers fn to run on the loop once the task resolves. If the task
// has already resolved, fn is queued as a microtask. Continuations of a
// cancelled task never run.
func (t *Task[T]) Then(fn func(T, error)) {
	if t.cancelled {
		return
	}
	if t.done {
		v, err := t.value, t.err
		t.loop.QueueMicrotask(func() {
			if !t.cancelled {
				fn(v, err)
			}
		})
		return
	}
	t.thens = append(t.thens, fn)
}

// settle registers fn to run at resolution even if the task was cancelled.
// The runtime uses it so a late cleanup is never lost.
func (t *Task[T]) settle(fn func(T, error)) {
	if t.done {
		fn(t.value, t.err)
		return
	}
	t.settles = append(t.settles, fn)
}

// Cancel cancels the task's context and drops its pending continuations.
func (t *Task[T]) Cancel() {
	if t.cancelled {
		return
	}
	t.cancelled = true
	t.thens = nil
	t.cancel(ErrTaskCancelled)
}

// Done reports whether the task has resolved.
func (t *Task[T]) Done() bool {
	return t.done
}

// Cancelled reports whether Cancel was called.
func (t *Task[T]) Cancelled() bool {
	return t.cancelled
}

// Result returns the resolved value and error. It is only meaningful once
// Done reports true.
func (t *Task[T]) Result() (T, error) {
	return t.value, t.err
}
