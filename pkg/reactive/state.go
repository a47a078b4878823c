package reactive

import "reflect"

// node is the identity of a reactive value in the dependency graph.
type node struct {
	id uint64
}

// Source is anything that can be declared as an effect dependency.
// Getter is the only implementation; the key is the Getter's identity, not
// its value.
type Source interface {
	sourceNode() *node
}

// Reader is a type-erased Source whose current value can be read. The
// renderer uses it for getter-driven attributes and children.
type Reader interface {
	Source
	Read() any
}

// cell backs one State or Memo.
type cell[T any] struct {
	node
	rt    *runtime
	value T
	equal func(T, T) bool
}

func (c *cell[T]) write(v T) {
	if c.equal(c.value, v) {
		return
	}
	c.value = v
	c.rt.notify(&c.node)
}

// Getter is the read handle of a reactive cell. It is a small value type;
// copies share identity.
type Getter[T any] struct {
	c *cell[T]
}

// Get returns the current value. It never subscribes anything.
func (g Getter[T]) Get() T {
	return g.c.value
}

// Read returns the current value as any. Implements Reader.
func (g Getter[T]) Read() any {
	return g.c.value
}

// ID returns the unique identifier of the underlying cell.
func (g Getter[T]) ID() uint64 {
	return g.c.id
}

// Valid reports whether g refers to a cell. The zero Getter does not.
func (g Getter[T]) Valid() bool {
	return g.c != nil
}

func (g Getter[T]) sourceNode() *node {
	return &g.c.node
}

// Project returns fn applied to the current value of g.
func Project[T, R any](g Getter[T], fn func(T) R) R {
	return fn(g.Get())
}

// Setter is the write handle of a reactive cell.
type Setter[T any] struct {
	c *cell[T]
}

// Set stores v and notifies dependents, unless v equals the current value
// under the cell's equality function, in which case nothing happens.
func (s Setter[T]) Set(v T) {
	s.c.write(v)
}

// Update computes the next value from the current one and stores it under
// the same equality rule as Set.
func (s Setter[T]) Update(fn func(T) T) {
	s.c.write(fn(s.c.value))
}

// StateOption configures a cell.
type StateOption[T any] func(*cell[T])

// WithEquals sets the equality function used to decide whether a write is a
// change.
func WithEquals[T any](fn func(a, b T) bool) StateOption[T] {
	return func(c *cell[T]) {
		if fn != nil {
			c.equal = fn
		}
	}
}

// State creates a reactive cell owned by o.
//
// Example:
//
//	count, setCount := reactive.State(owner, 0)
//	setCount.Update(func(n int) int { return n + 1 })
func State[T any](o *Owner, initial T, opts ...StateOption[T]) (Getter[T], Setter[T]) {
	c := &cell[T]{
		node:  node{id: nextID()},
		rt:    o.rt,
		value: initial,
		equal: identical[T],
	}
	for _, opt := range opts {
		opt(c)
	}
	return Getter[T]{c: c}, Setter[T]{c: c}
}

// Memo creates a derived cell recomputed by an Immediate effect on deps.
// Recomputation goes through the equality gate, so dependents of the memo are
// only notified when the derived value actually changes.
//
// Example:
//
//	doubled := reactive.Memo(owner, func() int { return count.Get() * 2 }, count)
func Memo[T any](o *Owner, fn func() T, deps ...Source) Getter[T] {
	return MemoEq(o, fn, nil, deps...)
}

// MemoEq is Memo with a custom equality function.
func MemoEq[T any](o *Owner, fn func() T, equal func(a, b T) bool, deps ...Source) Getter[T] {
	var zero T
	get, set := State(o, zero, WithEquals(equal))
	o.EffectOn(Immediate, func() Cleanup {
		set.Set(fn())
		return nil
	}, deps...)
	return get
}

// identical is the default equality: == for comparable values, reference
// identity for slices, maps, funcs, and channels.
func identical[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ta := reflect.TypeOf(av)
	if ta != reflect.TypeOf(bv) {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(av, bv)
	}

	ra, rb := reflect.ValueOf(av), reflect.ValueOf(bv)
	switch ta.Kind() {
	case reflect.Slice:
		if ra.IsNil() || rb.IsNil() {
			return ra.IsNil() && rb.IsNil()
		}
		return ra.Len() == rb.Len() && ra.Pointer() == rb.Pointer()
	case reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	default:
		// Non-comparable structs and arrays have no identity.
		return false
	}
}

// comparableEqual compares two values of a comparable type. Structs holding
// interfaces can still panic on ==, which is treated as "changed".
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
