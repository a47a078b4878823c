// Package element provides the element description model for weft.
//
// An Element describes what to render. It is one of a closed set of
// variants, distinguished by Kind:
//
//   - *Intrinsic: a target-native element identified by a string tag
//   - *Component: a function producing another Element, optionally async
//   - Fragment: an ordered sequence of elements
//   - Dynamic: a reactive child, re-rendered when its Reader changes
//   - Primitive: a string, number, bool or nil, rendered as text
//   - Instance: already-rendered output passed through untouched
//
// Elements are immutable once built. Build them with the variadic helpers:
//
//	element.H("div", element.Class("card"),
//	    element.H("h1", "Title"),
//	    count,
//	)
//
// # Iteration
//
// For renders a keyed list. Items whose key persists across updates keep
// their rendered output and subscriptions; only genuinely new keys cost a
// new render.
package element
