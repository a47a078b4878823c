package reactive

import (
	"log/slog"
	"sync/atomic"
)

// globalIDCounter is the source of unique IDs for owners, cells and effects.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are monotonically increasing, which
// is what gives flushes their registration order.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// runtime is the state shared by every Owner in one tree. It is created with
// the root and handed to each child by reference.
type runtime struct {
	loop     *Loop
	logger   *slog.Logger
	observer Observer
	debug    bool

	// subs is the dependency graph: source node to subscribed effects, in
	// subscription order.
	subs map[*node][]*effect

	queues [numSchedules]*queue

	batchDepth int
}

// Option configures a root Owner.
type Option func(*runtime)

// WithLogger sets the logger used by the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithObserver installs an Observer for runtime events.
func WithObserver(obs Observer) Option {
	return func(rt *runtime) {
		if obs != nil {
			rt.observer = obs
		}
	}
}

// WithDebug enables debug logging of every flush.
func WithDebug(debug bool) Option {
	return func(rt *runtime) {
		rt.debug = debug
	}
}

func newRuntime(loop *Loop, opts []Option) *runtime {
	rt := &runtime{
		loop:     loop,
		logger:   slog.Default().With("component", "reactive"),
		observer: NopObserver{},
		subs:     make(map[*node][]*effect),
	}
	for s := Schedule(0); s < numSchedules; s++ {
		rt.queues[s] = newQueue(s)
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// subscribe adds e as a dependent of n.
func (rt *runtime) subscribe(n *node, e *effect) {
	for _, existing := range rt.subs[n] {
		if existing == e {
			return
		}
	}
	rt.subs[n] = append(rt.subs[n], e)
}

// unsubscribe removes e from n's dependents.
func (rt *runtime) unsubscribe(n *node, e *effect) {
	subs := rt.subs[n]
	for i, existing := range subs {
		if existing == e {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(rt.subs, n)
		return
	}
	rt.subs[n] = subs
}

// notify schedules every effect subscribed to n.
func (rt *runtime) notify(n *node) {
	subs := rt.subs[n]
	if len(subs) == 0 {
		return
	}
	// Copy: scheduling an Immediate effect may re-enter subscribe/unsubscribe.
	for _, e := range append([]*effect(nil), subs...) {
		rt.schedule(e)
	}
}

// subscriberCount reports how many effects depend on n.
func (rt *runtime) subscriberCount(n *node) int {
	return len(rt.subs[n])
}
