package element

import "github.com/vango-dev/weft/pkg/reactive"

// row is one rendered item of a For list.
type row[T any, K comparable] struct {
	key      K
	index    reactive.Setter[int]
	data     reactive.Setter[T]
	owner    *reactive.Owner
	rendered Element
}

// For renders each item of a reactive slice, identifying items by key.
//
// Each item is rendered once by fn, under its own owner, and receives
// reactive handles to its data and position:
//
//	element.For(todos, func(t Todo) int { return t.ID },
//	    func(item reactive.Getter[Todo], index reactive.Getter[int]) element.Element {
//	        return element.H("li", reactive.Memo(...))
//	    })
//
// When the slice changes:
//   - an item whose key persists keeps its rendered output, which is moved
//     and has its index and data updated
//   - a new key takes over the slot at its position if that slot's key is
//     gone, updating the slot's data in place
//   - any other new key gets a freshly rendered slot
//   - slots left unused are disposed once the new order is in place
func For[T any, K comparable](each reactive.Getter[[]T], key func(T) K, fn func(item reactive.Getter[T], index reactive.Getter[int]) Element) *Component {
	return Func("For", func(s *Scope) Element {
		var rows []*row[T, K]
		var stale []*reactive.Owner

		list := reactive.MemoEq(s.Owner, func() Fragment {
			items := each.Get()
			next := make([]*row[T, K], len(items))
			keys := make([]K, len(items))
			used := make([]bool, len(rows))

			live := make(map[K]struct{}, len(items))
			for i, item := range items {
				keys[i] = key(item)
				live[keys[i]] = struct{}{}
			}

			prev := make(map[K]int, len(rows))
			for j := len(rows) - 1; j >= 0; j-- {
				prev[rows[j].key] = j
			}

			// Persisting keys claim their slots first.
			for i := range items {
				j, ok := prev[keys[i]]
				if !ok || used[j] {
					continue
				}
				used[j] = true
				r := rows[j]
				r.index.Set(i)
				r.data.Set(items[i])
				next[i] = r
			}

			for i, item := range items {
				if next[i] != nil {
					continue
				}
				if i < len(rows) && !used[i] {
					if _, kept := live[rows[i].key]; !kept {
						used[i] = true
						r := rows[i]
						r.key = keys[i]
						r.index.Set(i)
						r.data.Set(item)
						next[i] = r
						continue
					}
				}

				owner := s.Owner.Child()
				data, setData := reactive.State(owner, item)
				index, setIndex := reactive.State(owner, i)
				next[i] = &row[T, K]{
					key:      keys[i],
					index:    setIndex,
					data:     setData,
					owner:    owner,
					rendered: s.ResolveIn(owner, fn(data, index)),
				}
			}

			// Unused rows are disposed on commit. Their cleanups may detach
			// nodes the swap still anchors on.
			for j, r := range rows {
				if !used[j] {
					stale = append(stale, r.owner)
				}
			}
			rows = next

			out := make(Fragment, len(rows))
			for i, r := range rows {
				out[i] = r.rendered
			}
			return out
		}, sameElements, each)

		return Dynamic{Reader: &rowsReader{Getter: list, stale: &stale}}
	})
}

// rowsReader disposes the owners of removed rows once the list's new
// order has been committed.
type rowsReader struct {
	reactive.Getter[Fragment]
	stale *[]*reactive.Owner
}

func (r *rowsReader) Commit() {
	for _, o := range *r.stale {
		o.Dispose()
	}
	*r.stale = nil
}

// Show renders then while cond is true and otherwise when it is false.
// Either branch may be nil.
func Show(cond reactive.Getter[bool], then, otherwise Element) *Component {
	return Func("Show", func(s *Scope) Element {
		branch := reactive.Memo(s.Owner, func() Element {
			if cond.Get() {
				return orEmpty(then)
			}
			return orEmpty(otherwise)
		}, cond)
		return Dynamic{Reader: branch}
	})
}

func orEmpty(el Element) Element {
	if el == nil {
		return Fragment{}
	}
	return el
}

func sameElements(a, b Fragment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameElement(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameElement compares by identity. Element values whose dynamic type is
// not comparable are never the same.
func sameElement(a, b Element) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
