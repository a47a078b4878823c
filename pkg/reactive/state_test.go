package reactive

import "testing"

func TestStateGetSet(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	get, set := State(root, 1)
	if got := get.Get(); got != 1 {
		t.Fatalf("initial value = %d, want 1", got)
	}

	set.Set(5)
	if got := get.Get(); got != 5 {
		t.Errorf("after Set = %d, want 5", got)
	}

	set.Update(func(n int) int { return n * 2 })
	if got := get.Get(); got != 10 {
		t.Errorf("after Update = %d, want 10", got)
	}
}

func TestStateCustomEqualsGatesUpdates(t *testing.T) {
	loop := NewLoop()
	root := NewRoot(loop)
	defer root.Dispose()

	get, set := State(root, 2, WithEquals(func(a, b int) bool {
		return a == b || a*2 == b
	}))

	runs := 0
	root.EffectOn(Immediate, func() Cleanup {
		runs++
		return nil
	}, get)
	if runs != 1 {
		t.Fatalf("initial runs = %d, want 1", runs)
	}

	set.Set(4) // equals(2, 4) is true
	if got := get.Get(); got != 2 {
		t.Errorf("value after equal Set = %d, want 2", got)
	}
	if runs != 1 {
		t.Errorf("runs after equal Set = %d, want 1", runs)
	}

	set.Set(2)
	if runs != 1 {
		t.Errorf("runs after same Set = %d, want 1", runs)
	}

	set.Set(3)
	if got := get.Get(); got != 3 {
		t.Errorf("value after real Set = %d, want 3", got)
	}
	if runs != 2 {
		t.Errorf("runs after real Set = %d, want 2", runs)
	}
}

func TestStateDefaultEqualityIsIdentity(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	items := []string{"a"}
	get, set := State(root, items)

	runs := 0
	root.EffectOn(Immediate, func() Cleanup {
		runs++
		return nil
	}, get)

	set.Set(items)
	if runs != 1 {
		t.Errorf("same slice should not notify, runs = %d", runs)
	}

	set.Set([]string{"a"})
	if runs != 2 {
		t.Errorf("equal-valued new slice should notify, runs = %d", runs)
	}
}

func TestIdentical(t *testing.T) {
	type pair struct{ a, b int }
	m := map[string]int{}
	s := []int{1, 2}

	tests := []struct {
		name string
		eq   bool
		got  bool
	}{
		{"ints", true, identical(1, 1)},
		{"strings differ", false, identical("a", "b")},
		{"structs", true, identical(pair{1, 2}, pair{1, 2})},
		{"same map", true, identical(m, m)},
		{"different maps", false, identical(m, map[string]int{})},
		{"same slice", true, identical(s, s)},
		{"resliced", false, identical(s, s[:1])},
		{"nil any", true, identical[any](nil, nil)},
		{"nil vs value", false, identical[any](nil, 1)},
		{"mixed dynamic types", false, identical[any](1, "1")},
	}
	for _, tt := range tests {
		if tt.got != tt.eq {
			t.Errorf("%s: identical = %v, want %v", tt.name, tt.got, tt.eq)
		}
	}
}

func TestProject(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	get, _ := State(root, "hello")
	if n := Project(get, func(s string) int { return len(s) }); n != 5 {
		t.Errorf("Project = %d, want 5", n)
	}
}

func TestMemoRecomputesOnDependencyChange(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	count, setCount := State(root, 2)
	computes := 0
	doubled := Memo(root, func() int {
		computes++
		return count.Get() * 2
	}, count)

	if doubled.Get() != 4 {
		t.Fatalf("memo = %d, want 4", doubled.Get())
	}

	setCount.Set(5)
	if doubled.Get() != 10 {
		t.Errorf("memo after change = %d, want 10", doubled.Get())
	}
	if computes != 2 {
		t.Errorf("computes = %d, want 2", computes)
	}
}

func TestMemoOnlyNotifiesOnChange(t *testing.T) {
	root := NewRoot(NewLoop())
	defer root.Dispose()

	n, setN := State(root, 1)
	parity := Memo(root, func() int { return n.Get() % 2 }, n)

	runs := 0
	root.EffectOn(Immediate, func() Cleanup {
		runs++
		return nil
	}, parity)

	setN.Set(3) // parity unchanged
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	setN.Set(4)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}
