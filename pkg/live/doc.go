// Package live serves server-driven sessions over WebSocket.
//
// Each connection gets a Session that owns a reactive root, a Loop and a
// dom.Document. On connect the app is prerendered statically into the
// document and then hydrated, which binds its listeners and reactive values
// to the existing nodes. The client receives the body tree once, then a
// stream of patches: every mutation recorded on the document is batched
// and sent as JSON after the loop finishes the work that caused it.
//
// Client events arrive as {type, id, event, value, key} messages. They are
// posted to the session loop and dispatched through dom.Dispatch, so
// listeners run on the loop goroutine like every other reactive update.
//
// # Usage
//
//	h := live.NewHandler(func() element.Element { return app() })
//	mux.Handle("/live", h)
//	mux.Handle(html.DefaultClientScript, live.ClientHandler())
//
// The page served over HTTP loads the client with html.PageData.Live.
package live
