package demo

import (
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

// Counter renders a counter with increment and decrement buttons.
func Counter(start int) element.Element {
	return element.Func("Counter", func(s *element.Scope) element.Element {
		count, setCount := reactive.State(s.Owner, start)
		parity := reactive.Memo(s.Owner, func() string {
			if count.Get()%2 == 0 {
				return "even"
			}
			return "odd"
		}, count)

		step := func(delta int) func() {
			return func() { setCount.Update(func(n int) int { return n + delta }) }
		}

		return element.H("section", element.Class("counter"),
			element.H("button", element.Class("dec"), element.OnClick(step(-1)), "-"),
			element.H("output", count),
			element.H("button", element.Class("inc"), element.OnClick(step(1)), "+"),
			element.H("small", element.A("class", parity), parity),
		)
	})
}
