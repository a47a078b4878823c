package reactive

import (
	"slices"
	"time"
)

// Schedule identifies the batching policy an effect runs under. Each root
// Owner keeps one pending queue per Schedule, shared by all its descendants.
type Schedule uint8

const (
	// Microtask effects are coalesced until the Loop drains its microtask
	// queue. This is the default for user effects.
	Microtask Schedule = iota

	// Immediate effects run synchronously: their first run happens during
	// registration and later triggers flush before the triggering Set returns.
	Immediate

	// Idle effects are coalesced until the Loop goes idle or its idle
	// timeout elapses.
	Idle

	numSchedules
)

// String returns a human-readable name for the schedule.
func (s Schedule) String() string {
	switch s {
	case Microtask:
		return "microtask"
	case Immediate:
		return "immediate"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// maxFlushRounds bounds how many times a single flush may re-drain its queue
// because effects keep triggering each other.
const maxFlushRounds = 1000

// queue is the pending-effect set for one Schedule.
type queue struct {
	schedule Schedule
	pending  map[*effect]struct{}

	// requested is true from the moment the strategy is asked to flush until
	// that flush has drained the set.
	requested bool
	flushing  bool
}

func newQueue(s Schedule) *queue {
	return &queue{schedule: s, pending: make(map[*effect]struct{})}
}

// schedule adds e to its queue. Re-adding a pending effect is a no-op.
func (rt *runtime) schedule(e *effect) {
	if e.disposed || e.owner.disposed {
		return
	}
	q := rt.queues[e.schedule]
	if _, ok := q.pending[e]; ok {
		return
	}
	q.pending[e] = struct{}{}
	if q.requested {
		return
	}
	q.requested = true
	rt.request(q)
}

// request asks q's strategy to call flush once.
func (rt *runtime) request(q *queue) {
	switch q.schedule {
	case Immediate:
		if rt.batchDepth > 0 {
			return
		}
		rt.flush(q)
	case Idle:
		rt.loop.RequestIdle(func() { rt.flush(q) })
	default:
		rt.loop.QueueMicrotask(func() { rt.flush(q) })
	}
}

// unschedule removes e from its pending queue if present.
func (rt *runtime) unschedule(e *effect) {
	delete(rt.queues[e.schedule].pending, e)
}

// flush drains q, running pending effects in registration order. Effects
// added while the flush runs are picked up by the same flush, so the loop is
// never re-entered.
func (rt *runtime) flush(q *queue) {
	if q.flushing {
		return
	}
	q.flushing = true
	start := time.Now()
	ran := 0

	defer func() {
		q.flushing = false
		q.requested = false
		rt.observer.FlushDone(q.schedule, start, ran)
	}()

	for round := 0; len(q.pending) > 0; round++ {
		if round >= maxFlushRounds {
			clear(q.pending)
			rt.loop.report(ErrFlushLimit)
			rt.logger.Warn("effect flush did not settle", "schedule", q.schedule.String(), "rounds", round)
			return
		}

		batch := make([]*effect, 0, len(q.pending))
		for e := range q.pending {
			batch = append(batch, e)
		}
		clear(q.pending)
		slices.SortFunc(batch, func(a, b *effect) int {
			switch {
			case a.id < b.id:
				return -1
			case a.id > b.id:
				return 1
			}
			return 0
		})

		for _, e := range batch {
			if rt.run(e) {
				ran++
			}
		}
	}

	if rt.debug {
		rt.logger.Debug("flushed effects", "schedule", q.schedule.String(), "effects", ran, "duration", time.Since(start))
	}
}

// Batch runs fn and defers Immediate flushes until the outermost Batch
// returns, so several Set calls trigger each immediate effect once.
//
// Microtask and Idle effects are unaffected; they already coalesce.
func Batch(o *Owner, fn func()) {
	rt := o.rt
	rt.batchDepth++
	defer func() {
		rt.batchDepth--
		if rt.batchDepth == 0 {
			q := rt.queues[Immediate]
			if q.requested && !q.flushing {
				rt.flush(q)
			}
		}
	}()
	fn()
}
