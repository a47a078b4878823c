package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

func counter() element.Element {
	return element.Func("Counter", func(s *element.Scope) element.Element {
		count, setCount := reactive.State(s.Owner, 0)
		return element.H("button",
			element.OnClick(func() { setCount.Update(func(n int) int { return n + 1 }) }),
			count,
		)
	})
}

func echo() element.Element {
	return element.Func("Echo", func(s *element.Scope) element.Element {
		text, setText := reactive.State(s.Owner, "")
		return element.H("form",
			element.H("input", element.OnInput(func(v string) { setText.Set(v) })),
			element.H("output", text),
		)
	})
}

func startServer(t *testing.T, app App, opts ...Option) (*Handler, string) {
	t.Helper()
	h := NewHandler(app, opts...)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Shutdown(ctx)
		srv.Close()
	})
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m ServerMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func sendEvent(t *testing.T, conn *websocket.Conn, m ClientMessage) {
	t.Helper()
	m.Type = TypeEvent
	if err := conn.WriteJSON(m); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSessionSendsInitTree(t *testing.T) {
	_, url := startServer(t, counter)
	conn := dial(t, url)

	init := readMessage(t, conn)
	if init.Type != TypeInit {
		t.Fatalf("first message type = %q, want %q", init.Type, TypeInit)
	}
	if init.Session == "" {
		t.Error("init carries no session id")
	}
	if init.Tree == nil || init.Tree.Tag != "body" {
		t.Fatalf("init tree = %+v, want body", init.Tree)
	}
	if len(init.Tree.Children) != 1 {
		t.Fatalf("body has %d children, want 1", len(init.Tree.Children))
	}
	button := init.Tree.Children[0]
	if button.Tag != "button" || len(button.Children) != 1 || button.Children[0].Text != "0" {
		t.Errorf("unexpected button snapshot %+v", button)
	}
}

func TestSessionPatchesAfterClick(t *testing.T) {
	_, url := startServer(t, counter)
	conn := dial(t, url)

	button := readMessage(t, conn).Tree.Children[0]
	sendEvent(t, conn, ClientMessage{ID: button.ID, Event: "click"})

	patch := readMessage(t, conn)
	if patch.Type != TypePatch || patch.Seq != 1 {
		t.Fatalf("got %s seq %d, want patch seq 1", patch.Type, patch.Seq)
	}
	var ops []dom.Op
	for _, m := range patch.Mutations {
		ops = append(ops, m.Op)
	}
	if diff := cmp.Diff([]dom.Op{dom.OpInsert, dom.OpRemove}, ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if ins := patch.Mutations[0]; ins.Parent != button.ID || ins.Node == nil || ins.Node.Text != "1" {
		t.Errorf("unexpected insert %+v", ins)
	}
	if rm := patch.Mutations[1]; rm.ID != button.Children[0].ID {
		t.Errorf("removed %d, want old text %d", rm.ID, button.Children[0].ID)
	}

	sendEvent(t, conn, ClientMessage{ID: button.ID, Event: "click"})
	if next := readMessage(t, conn); next.Seq != 2 {
		t.Errorf("second patch seq = %d, want 2", next.Seq)
	}
}

func TestSessionSyncsInputValue(t *testing.T) {
	_, url := startServer(t, echo)
	conn := dial(t, url)

	form := readMessage(t, conn).Tree.Children[0]
	input := form.Children[0]
	value := "hi"
	sendEvent(t, conn, ClientMessage{ID: input.ID, Event: "input", Value: &value})

	patch := readMessage(t, conn)
	var texts []string
	for _, m := range patch.Mutations {
		if m.Op == dom.OpSetProp {
			t.Errorf("synced value was echoed back: %+v", m)
		}
		if m.Node != nil {
			texts = append(texts, m.Node.Text)
		}
	}
	if diff := cmp.Diff([]string{"hi"}, texts); diff != "" {
		t.Errorf("inserted text mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionIgnoresBadMessages(t *testing.T) {
	_, url := startServer(t, counter)
	conn := dial(t, url)
	button := readMessage(t, conn).Tree.Children[0]

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(ClientMessage{Type: "unknown"})
	sendEvent(t, conn, ClientMessage{ID: 99999, Event: "click"})
	sendEvent(t, conn, ClientMessage{ID: button.ID, Event: "click"})

	if m := readMessage(t, conn); m.Type != TypePatch || m.Seq != 1 {
		t.Errorf("got %s seq %d, want the click patch", m.Type, m.Seq)
	}
}

func TestHandlerLimitsSessions(t *testing.T) {
	h, url := startServer(t, counter, WithConfig(Config{MaxSessions: 1}))
	conn := dial(t, url)
	readMessage(t, conn)

	if h.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", h.Count())
	}
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second dial succeeded, want rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("response = %v, want 503", resp)
	}
}

func TestHandlerShutdownClosesSessions(t *testing.T) {
	h, url := startServer(t, counter)
	conn := dial(t, url)
	readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if h.Count() != 0 {
		t.Errorf("Count() = %d after shutdown, want 0", h.Count())
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after shutdown = %v, want normal closure", err)
	}
}

func TestClientHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ClientHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_weft/client.js", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "WebSocket") {
		t.Error("client script not served")
	}
}
