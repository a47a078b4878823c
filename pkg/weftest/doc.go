// Package weftest provides testing helpers for weft components.
//
// Mount renders an element into an in-memory DOM with its own loop, the
// same way a live session does, and returns a Harness for driving it:
//
//	func TestCounter(t *testing.T) {
//	    h := weftest.Mount(t, Counter(0))
//	    h.Click("button.inc")
//	    h.ExpectText(t, "output", "1")
//	}
//
// Every interaction settles the loop before returning, so microtask and
// idle effects as well as async components have run by the time the
// assertion is made.
//
// # Selectors
//
// Find and the interaction helpers take a small selector: a tag, a .class,
// a #id or an [attr=value] test, or a combination such as
// "li.done[data-id=3]". Compounds separated by spaces match descendants,
// as in "li[data-id=3] button". Other combinators are not supported.
//
// # Static Rendering
//
// RenderToString renders through the HTML target:
//
//	weftest.ExpectContains(t, Profile(1, users), "Ada Lovelace")
package weftest
