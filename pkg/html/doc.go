// Package html renders elements to HTML text.
//
// It provides a static render.Adapter whose instances are a lightweight
// *Node tree, and a Writer that serializes that tree to HTML5 with:
//
//   - text and attribute escaping
//   - void elements without closing tags
//   - boolean attributes written by presence only
//   - an empty comment placeholder (<!---->) wherever the tree renders
//     nothing, so a client can hydrate by position
//   - optional pretty printing
//
// Event listener attributes are dropped. Reactive values are read once and
// async components are awaited, bounded by the context.
//
// # Basic Usage
//
//	out, err := html.Render(ctx, app)
//
// To render a complete document:
//
//	err := html.RenderPage(ctx, w, html.PageData{Title: "Home", Body: app})
//
// When w is an http.ResponseWriter, the head is flushed before the body is
// rendered.
package html
