// Package render lowers element descriptions onto a mutable target.
//
// A Renderer is generic over the target's instance type and talks to the
// target only through an Adapter. The same renderer drives the live
// in-memory DOM (package dom) and the HTML string target (package html).
//
// # Rendering
//
// Render walks an element.Element and creates instances for it:
//
//	r := render.New[*dom.Node](dom.NewAdapter(doc))
//	m, err := r.Render(ctx, owner, doc.Body(), app)
//
// Reactive parts of the tree (element.Dynamic children and attributes
// whose value is a reactive.Reader) are bound with Immediate effects. When
// they change, only the affected range of sibling instances is replaced.
//
// # Slots
//
// The mounted output is tracked as a tree of Slots. A Slot is either a
// single instance or a group of slots. Dynamic and async parts swap their
// slot content in place, so an enclosing group always flattens to the
// instances currently in the target.
//
// # Static mode
//
// When the adapter does not allow effects, every reactive value is read
// once and async components are awaited inline. This is how the HTML
// target produces complete documents.
//
// # Hydration
//
// Hydrate renders in hydrating mode: the adapter reuses existing target
// instances by position instead of creating them, and static properties
// are not written again. Reactive bindings are still established, so the
// tree is live once Hydrate returns.
package render
