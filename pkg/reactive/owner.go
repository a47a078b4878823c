package reactive

import "context"

// Owner is a reactive scope that owns effects, cleanups and child owners.
// When an Owner is disposed, its children are disposed first (last created
// first), then its own effects and cleanups run in reverse registration
// order. Disposal happens once; later calls are no-ops.
//
// Owners form a hierarchy that mirrors the rendered component tree. Every
// owner in a tree shares the root's dependency graph and pending queues.
type Owner struct {
	id     uint64
	rt     *runtime
	parent *Owner

	children    []*Owner
	disposables []disposable

	values  map[any]any
	onError func(error)

	ctx    context.Context
	cancel context.CancelCauseFunc

	disposed bool
}

// disposable is either an effect or a plain cleanup, kept together so they
// unwind in one registration order.
type disposable struct {
	effect  *effect
	cleanup func()
}

// NewRoot creates a root Owner whose Microtask and Idle effects flush
// through loop.
func NewRoot(loop *Loop, opts ...Option) *Owner {
	if loop == nil {
		loop = NewLoop()
	}
	o := &Owner{id: nextID(), rt: newRuntime(loop, opts)}
	o.rt.observer.OwnerCreated()
	return o
}

// Child creates a child Owner sharing this owner's runtime. The child is
// disposed when this owner is. Creating a child of a disposed owner yields an
// owner that is already disposed.
func (o *Owner) Child() *Owner {
	c := &Owner{id: nextID(), rt: o.rt, parent: o}
	if o.disposed {
		c.disposed = true
		return c
	}
	o.children = append(o.children, c)
	o.rt.observer.OwnerCreated()
	return c
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// Disposed reports whether Dispose has been called on this owner or an
// ancestor.
func (o *Owner) Disposed() bool {
	return o.disposed
}

// Loop returns the loop this owner's tree schedules on.
func (o *Owner) Loop() *Loop {
	return o.rt.loop
}

// Context returns a context cancelled when the owner is disposed. Its cause
// is then ErrDisposed.
func (o *Owner) Context() context.Context {
	if o.ctx == nil {
		o.ctx, o.cancel = context.WithCancelCause(context.Background())
		if o.disposed {
			o.cancel(ErrDisposed)
		}
	}
	return o.ctx
}

// OnCleanup registers fn to run when the owner is disposed. If the owner is
// already disposed, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed {
		o.rt.safeCleanup(o, fn)
		return
	}
	o.disposables = append(o.disposables, disposable{cleanup: fn})
}

// OnError installs the error handler for this owner. Effect failures in this
// owner or any descendant without a closer handler are delivered to it.
func (o *Owner) OnError(handler func(error)) {
	o.onError = handler
}

// Fail delivers err to the nearest handler on the parent chain starting at o.
// Without a handler the error is reported to the loop and surfaces from the
// next Drain, Settle or Run.
func (o *Owner) Fail(err error) {
	if err == nil {
		return
	}
	for cur := o; cur != nil; cur = cur.parent {
		if cur.onError == nil {
			continue
		}
		if herr := o.callHandler(cur.onError, err); herr != nil {
			// A failing handler escalates past itself.
			if cur.parent != nil {
				cur.parent.Fail(herr)
			} else {
				o.rt.loop.report(herr)
			}
		}
		return
	}
	o.rt.loop.report(err)
}

func (o *Owner) callHandler(h func(error), err error) (herr error) {
	defer func() {
		if r := recover(); r != nil {
			herr = recovered(r)
		}
	}()
	h(err)
	return nil
}

// Provide stores a value visible to this owner and its descendants.
func (o *Owner) Provide(key, value any) {
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// Lookup finds the nearest value provided under key on o's parent chain.
func Lookup[T any](o *Owner, key any) (T, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		if v, ok := cur.values[key]; ok {
			t, ok := v.(T)
			return t, ok
		}
	}
	var zero T
	return zero, false
}

// Dispose disposes this owner and everything it owns.
func (o *Owner) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	children := o.children
	o.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	ds := o.disposables
	o.disposables = nil
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].effect != nil {
			o.rt.disposeEffect(ds[i].effect)
		} else {
			o.rt.safeCleanup(o, ds[i].cleanup)
		}
	}

	if o.cancel != nil {
		o.cancel(ErrDisposed)
	}
	o.rt.observer.OwnerDisposed()
}

func (o *Owner) removeChild(child *Owner) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) removeEffect(e *effect) {
	for i, d := range o.disposables {
		if d.effect == e {
			o.disposables = append(o.disposables[:i], o.disposables[i+1:]...)
			return
		}
	}
}
