// Package reactive provides the reactive core for weft.
//
// Unlike auto-tracking signal libraries, dependencies are declared explicitly.
// Reading a Getter never subscribes anything; an effect is re-run only when one
// of the sources passed to it at registration changes.
//
// # Core Types
//
// Owner is a disposal and scheduling scope. Owners form a tree rooted at a
// root Owner that holds the shared dependency graph and pending queues:
//
//	loop := reactive.NewLoop()
//	root := reactive.NewRoot(loop)
//	defer root.Dispose()
//
// State creates a cell and returns its read and write handles:
//
//	count, setCount := reactive.State(root, 0)
//	setCount.Set(5)
//	setCount.Update(func(n int) int { return n + 1 })
//
// Effects run when their declared dependencies change:
//
//	root.Effect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	}, count)
//
// # Scheduling
//
// Every effect runs on a Schedule. Immediate effects run synchronously at
// registration and when triggered. Microtask effects (the default) are
// coalesced until the Loop drains its microtask queue. Idle effects wait for
// the Loop to go idle or for its idle timeout. Within one flush an effect runs
// at most once, and effects run in registration order.
//
// # Thread Safety
//
// An Owner tree is confined to the goroutine driving its Loop. Other
// goroutines hand work back through Loop.Post; Go does this for async tasks.
package reactive
