package render

// Slot is the mounted output of one element: either a single instance or
// an ordered group of slots. Dynamic and async parts of the tree replace
// the content of their slot in place.
type Slot[I comparable] struct {
	node  I
	leaf  bool
	items []*Slot[I]
}

func leafSlot[I comparable](node I) *Slot[I] {
	return &Slot[I]{node: node, leaf: true}
}

func groupSlot[I comparable](items ...*Slot[I]) *Slot[I] {
	return &Slot[I]{items: items}
}

// Nodes returns the instances currently held by the slot, in order.
func (s *Slot[I]) Nodes() []I {
	return s.appendNodes(make([]I, 0, s.Len()))
}

// Len returns the number of instances held by the slot.
func (s *Slot[I]) Len() int {
	if s.leaf {
		return 1
	}
	n := 0
	for _, item := range s.items {
		n += item.Len()
	}
	return n
}

func (s *Slot[I]) appendNodes(dst []I) []I {
	if s.leaf {
		return append(dst, s.node)
	}
	for _, item := range s.items {
		dst = item.appendNodes(dst)
	}
	return dst
}

// set swaps the content of a group slot.
func (s *Slot[I]) set(items ...*Slot[I]) {
	s.leaf = false
	s.items = items
}
