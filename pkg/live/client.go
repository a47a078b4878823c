package live

import (
	_ "embed"
	"net/http"
)

// ClientJS is the browser client. It replaces the body with the tree sent
// on init, applies patches, and forwards delegated events.
//
//go:embed client.js
var ClientJS []byte

// ClientHandler serves ClientJS.
func ClientHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(ClientJS)
	})
}
