package render

// replace swaps the instances prev for next in parent.
//
// When both sequences are identical nothing is touched. Otherwise each
// instance of next is inserted after a running anchor that starts at the
// last instance of prev, and then every instance of prev that does not
// appear in next is removed. Instances present in both are moved, not
// recreated.
func (r *Renderer[I]) replace(parent I, prev, next []I) {
	if equalNodes(prev, next) {
		return
	}

	if len(prev) == 0 {
		for _, n := range next {
			r.adapter.AppendInstance(parent, n, false)
		}
		return
	}

	anchor := prev[len(prev)-1]
	for _, n := range next {
		if n != anchor {
			r.adapter.InsertInstanceAfter(parent, anchor, n)
		}
		anchor = n
	}

	keep := make(map[I]struct{}, len(next))
	for _, n := range next {
		keep[n] = struct{}{}
	}
	for _, n := range prev {
		if _, ok := keep[n]; ok {
			continue
		}
		r.adapter.RemoveInstance(parent, n)
		r.observer.InstanceRemoved()
	}
}

func equalNodes[I comparable](a, b []I) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
