// Package dom is an in-memory document model and the live render target.
//
// A Document holds a tree of element, text and comment Nodes. Every node
// carries an ID that stays stable for its lifetime, which is what live
// sessions use to address nodes in patches.
//
// # Rendering
//
// Adapter implements render.Adapter over *Node:
//
//	doc := dom.NewDocument()
//	r := render.New[*dom.Node](dom.NewAdapter(doc))
//	m, err := r.RenderRoot(ctx, owner, app)
//
// Elements under <svg> are created in the SVG namespace until a
// foreignObject switches back to HTML. The value, checked and selected
// attributes of form controls are stored as properties rather than
// attributes.
//
// # Events
//
// Attributes named "on:<event><Modifiers>" register listeners. Modifiers
// are any combination of Once, Capture, Passive and NoPassive, matched
// case-insensitively at the end of the name:
//
//	element.On("clickOnce", func(e *dom.Event) { ... })
//	element.On("scrollPassiveCapture", onScroll)
//
// Dispatch delivers an event through the capture, target and bubble
// phases.
//
// # Mutations
//
// A Recorder attached to a Document receives every change made to the
// connected tree. Changes to detached subtrees are not recorded; the
// subtree is sent whole when it is inserted.
package dom
