package reactive

import (
	"errors"
	"testing"
)

func TestOwnerBasic(t *testing.T) {
	root := NewRoot(NewLoop())

	if root.ID() == 0 {
		t.Error("owner should have non-zero ID")
	}
	if root.Parent() != nil {
		t.Error("root owner should have nil parent")
	}
	if root.Disposed() {
		t.Error("new owner should not be disposed")
	}

	child := root.Child()
	if child.Parent() != root {
		t.Error("child parent should be root")
	}
	if child.Loop() != root.Loop() {
		t.Error("child should share the root loop")
	}
}

func TestOwnerDisposeCascade(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	child := root.Child()
	grandchild := child.Child()

	v, setV := State(root, 0)
	calls := 0
	runs := 0
	grandchild.Effect(func() Cleanup {
		runs++
		return func() { calls++ }
	}, v)
	mustDrain(t, loop)

	root.Dispose()

	if !child.Disposed() || !grandchild.Disposed() {
		t.Fatal("descendants should be disposed")
	}
	if calls != 1 {
		t.Errorf("cleanup calls = %d, want 1", calls)
	}

	setV.Set(1)
	mustDrain(t, loop)
	if runs != 1 {
		t.Errorf("effect ran after disposal, runs = %d", runs)
	}
	if calls != 1 {
		t.Errorf("cleanup calls after trigger = %d, want 1", calls)
	}

	root.Dispose()
	if calls != 1 {
		t.Errorf("double dispose ran cleanup again")
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	root := NewRoot(NewLoop())
	child1 := root.Child()
	child2 := root.Child()

	var order []string
	root.OnCleanup(func() { order = append(order, "root-1") })
	child1.OnCleanup(func() { order = append(order, "child1") })
	child2.OnCleanup(func() { order = append(order, "child2") })
	root.OnCleanup(func() { order = append(order, "root-2") })

	root.Dispose()

	want := []string{"child2", "child1", "root-2", "root-1"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestOwnerChildRemovedFromParentOnDispose(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	child := root.Child()
	child.Dispose()

	if len(root.children) != 0 {
		t.Errorf("parent still holds %d children", len(root.children))
	}
}

func TestOwnerOnCleanupAfterDisposeRunsImmediately(t *testing.T) {
	root := NewRoot(NewLoop())
	root.Dispose()

	ran := false
	root.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup on disposed owner should run immediately")
	}

	if c := root.Child(); !c.Disposed() {
		t.Error("child of disposed owner should be disposed")
	}
}

func TestOwnerContextCancelledOnDispose(t *testing.T) {
	root := NewRoot(NewLoop())
	child := root.Child()
	ctx := child.Context()

	root.Dispose()

	select {
	case <-ctx.Done():
	default:
		t.Error("owner context should be cancelled on dispose")
	}
}

func TestOwnerProvideLookup(t *testing.T) {
	type themeKey struct{}

	root := NewRoot(NewLoop())
	defer root.Dispose()

	root.Provide(themeKey{}, "dark")
	child := root.Child().Child()

	theme, ok := Lookup[string](child, themeKey{})
	if !ok || theme != "dark" {
		t.Errorf("Lookup = %q, %v; want dark, true", theme, ok)
	}

	child.Provide(themeKey{}, "light")
	if theme, _ := Lookup[string](child, themeKey{}); theme != "light" {
		t.Errorf("nearest value should win, got %q", theme)
	}
	if theme, _ := Lookup[string](root, themeKey{}); theme != "dark" {
		t.Errorf("child value leaked to root, got %q", theme)
	}

	if _, ok := Lookup[int](child, themeKey{}); ok {
		t.Error("Lookup with wrong type should fail")
	}
}

func TestEffectPanicReachesNearestHandler(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	var rootErr, midErr error
	root.OnError(func(err error) { rootErr = err })
	mid := root.Child()
	mid.OnError(func(err error) { midErr = err })
	leaf := mid.Child()

	leaf.Effect(func() Cleanup {
		panic("kaboom")
	})
	mustDrain(t, loop)

	if rootErr != nil {
		t.Errorf("root handler should not be called, got %v", rootErr)
	}
	var ee *EffectError
	if !errors.As(midErr, &ee) {
		t.Fatalf("mid handler got %v, want EffectError", midErr)
	}
	if ee.Panic != "kaboom" {
		t.Errorf("Panic = %v, want kaboom", ee.Panic)
	}
	if ee.OwnerID != leaf.ID() {
		t.Errorf("OwnerID = %d, want %d", ee.OwnerID, leaf.ID())
	}
}

func TestUnhandledEffectErrorSurfacesFromDrain(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	after := false
	root.Effect(func() Cleanup {
		panic(errors.New("unhandled"))
	})
	root.Effect(func() Cleanup {
		after = true
		return nil
	})

	err := loop.Drain()
	var ee *EffectError
	if !errors.As(err, &ee) {
		t.Fatalf("Drain error = %v, want EffectError", err)
	}
	if !after {
		t.Error("later effects in the same flush should still run")
	}
	if err := loop.Drain(); err != nil {
		t.Errorf("errors should be reported once, got %v", err)
	}
}

func TestFailingHandlerEscalates(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	var got error
	root.OnError(func(err error) { got = err })
	child := root.Child()
	child.OnError(func(err error) { panic("handler broke") })

	child.Fail(errors.New("first"))

	var pe *PanicError
	if !errors.As(got, &pe) {
		t.Errorf("root handler got %v, want PanicError", got)
	}
}
