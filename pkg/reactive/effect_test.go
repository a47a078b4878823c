package reactive

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEffectRunsOnceOnSchedule(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	runs := 0
	root.Effect(func() Cleanup {
		runs++
		return nil
	})

	if runs != 0 {
		t.Fatalf("microtask effect ran before drain, runs = %d", runs)
	}
	if err := loop.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}

	// A zero-dependency effect never runs again.
	if err := loop.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if runs != 1 {
		t.Errorf("runs after second drain = %d, want 1", runs)
	}
}

func TestEffectDependencyIsolation(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	a, setA := State(root, 0)
	b, setB := State(root, 0)

	runs := 0
	branch := false
	root.Effect(func() Cleanup {
		runs++
		_ = a.Get()
		if branch {
			_ = b.Get()
		}
		return nil
	}, a)
	mustDrain(t, loop)

	setB.Set(1)
	mustDrain(t, loop)
	if runs != 1 {
		t.Errorf("undeclared dependency triggered a run, runs = %d", runs)
	}

	setA.Set(1)
	mustDrain(t, loop)
	if runs != 2 {
		t.Errorf("declared dependency did not trigger, runs = %d", runs)
	}
}

func TestEffectCoalescesWithinFlush(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	a, setA := State(root, 0)
	b, setB := State(root, 0)

	runs := 0
	root.Effect(func() Cleanup {
		runs++
		return nil
	}, a, b)
	mustDrain(t, loop)

	setA.Set(1)
	setB.Set(1)
	setA.Set(2)
	mustDrain(t, loop)

	if runs != 2 {
		t.Errorf("runs = %d, want 2 (one initial, one coalesced)", runs)
	}
}

func TestEffectsFlushInRegistrationOrder(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	a, setA := State(root, 0)
	b, setB := State(root, 0)

	var order []string
	root.Effect(func() Cleanup {
		order = append(order, "first")
		return nil
	}, a)
	root.Child().Effect(func() Cleanup {
		order = append(order, "second")
		return nil
	}, b)
	mustDrain(t, loop)
	order = nil

	setB.Set(1)
	setA.Set(1)
	mustDrain(t, loop)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestEffectCleanupRunsBeforeRerunAndOnDispose(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)

	v, setV := State(root, 0)
	var log []string
	root.EffectOn(Immediate, func() Cleanup {
		log = append(log, "run")
		return func() { log = append(log, "cleanup") }
	}, v)

	setV.Set(1)
	root.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestEffectDisposerRemovesPendingRun(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	v, setV := State(root, 0)
	runs, cleanups := 0, 0
	stop := root.Effect(func() Cleanup {
		runs++
		return func() { cleanups++ }
	}, v)
	mustDrain(t, loop)

	setV.Set(1) // now pending
	stop()
	mustDrain(t, loop)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if cleanups != 1 {
		t.Errorf("cleanups = %d, want 1", cleanups)
	}
	if n := root.rt.subscriberCount(v.sourceNode()); n != 0 {
		t.Errorf("subscribers after dispose = %d, want 0", n)
	}

	stop() // idempotent
	if cleanups != 1 {
		t.Errorf("second stop ran cleanup again")
	}
}

func TestImmediateEffectRunsDuringRegistration(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	v, setV := State(root, "a")
	var seen []string
	root.EffectOn(Immediate, func() Cleanup {
		seen = append(seen, v.Get())
		return nil
	}, v)

	if len(seen) != 1 {
		t.Fatalf("immediate effect did not run at registration")
	}
	setV.Set("b")
	if len(seen) != 2 || seen[1] != "b" {
		t.Errorf("seen = %v, want [a b]", seen)
	}
}

func TestImmediateFlushIsNotReentrant(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	a, setA := State(root, 0)
	b, setB := State(root, 0)

	var order []string
	root.EffectOn(Immediate, func() Cleanup {
		order = append(order, "a-start")
		setB.Set(a.Get())
		order = append(order, "a-end")
		return nil
	}, a)
	root.EffectOn(Immediate, func() Cleanup {
		order = append(order, "b")
		return nil
	}, b)
	order = nil

	setA.Set(1)

	want := []string{"a-start", "a-end", "b"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestBatchDefersImmediateEffects(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	a, setA := State(root, 0)
	b, setB := State(root, 0)

	runs := 0
	root.EffectOn(Immediate, func() Cleanup {
		runs++
		return nil
	}, a, b)

	Batch(root, func() {
		setA.Set(1)
		setB.Set(1)
		if runs != 1 {
			t.Errorf("immediate effect ran inside batch")
		}
	})

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestIdleEffectsWaitForIdle(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	v, setV := State(root, 0)
	runs := 0
	root.EffectOn(Idle, func() Cleanup {
		runs++
		return nil
	}, v)

	mustDrain(t, loop)
	if runs != 0 {
		t.Fatalf("idle effect ran on drain")
	}
	if err := loop.RunIdle(); err != nil {
		t.Fatalf("RunIdle: %v", err)
	}
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}

	setV.Set(1)
	setV.Set(2)
	if err := loop.RunIdle(); err != nil {
		t.Fatalf("RunIdle: %v", err)
	}
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestFlushLimitStopsCycles(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	v, setV := State(root, 0)
	root.Effect(func() Cleanup {
		setV.Update(func(n int) int { return n + 1 })
		return nil
	}, v)

	err := loop.Drain()
	if !errors.Is(err, ErrFlushLimit) {
		t.Errorf("Drain error = %v, want ErrFlushLimit", err)
	}
}

func TestEffectAsyncStoresResolvedCleanup(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)

	v, setV := State(root, 0)
	var log []string
	root.EffectAsync(Microtask, func(ctx context.Context) (Cleanup, error) {
		return func() { log = append(log, "cleanup") }, nil
	}, v)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if len(log) != 0 {
		t.Fatalf("cleanup ran early: %v", log)
	}

	setV.Set(1)
	if err := loop.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("cleanup should run before rerun, log = %v", log)
	}

	root.Dispose()
	if len(log) != 2 {
		t.Errorf("cleanup should run on dispose, log = %v", log)
	}
}

func TestEffectAsyncErrorReachesHandler(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	boom := errors.New("boom")
	var got error
	root.OnError(func(err error) { got = err })

	root.EffectAsync(Microtask, func(ctx context.Context) (Cleanup, error) {
		return nil, boom
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	var ee *EffectError
	if !errors.As(got, &ee) || !errors.Is(got, boom) {
		t.Errorf("handler got %v, want EffectError wrapping boom", got)
	}
}

func TestEffectAsyncCancelledRunIsNotAnError(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	var handled []error
	root.OnError(func(err error) { handled = append(handled, err) })

	n, setN := State(root, 0)
	var runs atomic.Int32
	causes := make(chan error, 2)
	root.EffectAsync(Immediate, func(ctx context.Context) (Cleanup, error) {
		if runs.Add(1) > 1 {
			return nil, nil
		}
		<-ctx.Done()
		causes <- context.Cause(ctx)
		return nil, ctx.Err()
	}, n)
	setN.Set(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if got := <-causes; !errors.Is(got, ErrTaskCancelled) {
		t.Errorf("superseded run cause = %v, want ErrTaskCancelled", got)
	}
	if len(handled) != 0 {
		t.Errorf("handler got %v, want nothing", handled)
	}
}

func mustDrain(t *testing.T, loop *Loop) {
	t.Helper()
	if err := loop.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}
