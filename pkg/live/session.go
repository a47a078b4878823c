package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
)

// ErrSendQueueFull is reported when a client does not keep up with patches.
var ErrSendQueueFull = errors.New("live: send queue full")

// App builds the element tree for a new session.
type App func() element.Element

// Session is one live connection. Its document and reactive tree are only
// touched on the loop goroutine, which Run drives.
type Session struct {
	ID string

	conn     *websocket.Conn
	cfg      Config
	app      App
	logger   *slog.Logger
	observer Observer
	renderer []render.Option

	loop *reactive.Loop
	root *reactive.Owner
	doc  *dom.Document
	rec  *dom.Recorder
	seq  uint64

	send     chan []byte
	stop     chan struct{}
	stopOnce sync.Once
	closed   atomic.Bool
	started  time.Time
}

func newSession(conn *websocket.Conn, app App, cfg Config, logger *slog.Logger, observer Observer, ropts []render.Option, reactiveOpts []reactive.Option) *Session {
	id := uuid.NewString()
	logger = logger.With("session", id)
	loop := reactive.NewLoop(reactive.WithLoopLogger(logger), reactive.WithIdleTimeout(cfg.IdleTimeout))

	s := &Session{
		ID:       id,
		conn:     conn,
		cfg:      cfg,
		app:      app,
		logger:   logger,
		observer: observer,
		renderer: append([]render.Option{render.WithLogger(logger)}, ropts...),
		loop:     loop,
		root:     reactive.NewRoot(loop, append([]reactive.Option{reactive.WithLogger(logger)}, reactiveOpts...)...),
		doc:      dom.NewDocument(),
		send:     make(chan []byte, cfg.SendQueue),
		stop:     make(chan struct{}),
	}
	s.root.OnError(s.reportError)
	return s
}

// Run serves the session until the client disconnects, ctx is done or an
// unhandled error escapes the loop.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	s.started = time.Now()
	s.observer.SessionOpened()
	defer func() { s.observer.SessionClosed(time.Since(s.started)) }()

	readDone := make(chan struct{})
	writeDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		s.readLoop()
	}()
	go func() {
		defer close(writeDone)
		defer cancel()
		s.writeLoop(ctx)
	}()

	s.loop.Post(func() {
		if err := s.mount(ctx); err != nil {
			s.logger.Error("mount failed", "error", err)
			cancel()
		}
	})
	err := s.loop.Run(ctx)

	cancel()
	s.closed.Store(true)
	s.root.Dispose()
	<-writeDone
	s.conn.Close()
	<-readDone

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close ends the session. It is safe to call from any goroutine.
func (s *Session) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// mount prerenders the app into the document, hydrates it and sends the
// resulting tree to the client.
func (s *Session) mount(ctx context.Context) error {
	body := s.doc.Body()

	pctx, cancel := context.WithTimeout(ctx, s.cfg.PrerenderTimeout)
	defer cancel()
	static := reactive.NewRoot(s.loop, reactive.WithLogger(s.logger))
	static.OnError(func(err error) {
		s.logger.Warn("prerender error", "error", err)
	})
	sr := render.New[*dom.Node](dom.NewAdapter(s.doc, dom.Static(), dom.WithLogger(s.logger)), s.renderer...)
	_, err := sr.Render(pctx, static, body, s.app())
	static.Dispose()
	if err != nil {
		return fmt.Errorf("prerender: %w", err)
	}

	lr := render.New[*dom.Node](dom.NewAdapter(s.doc, dom.WithLogger(s.logger)), s.renderer...)
	if _, err := lr.Hydrate(ctx, s.root, body, s.app()); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}

	s.rec = dom.NewRecorder()
	s.rec.OnRecord(func() { s.loop.Post(s.flush) })
	s.doc.Record(s.rec)

	s.enqueue(ServerMessage{Type: TypeInit, Session: s.ID, Tree: body.Snapshot()})
	s.logger.Info("session mounted")
	return nil
}

// flush sends the mutations recorded since the last flush as one patch.
func (s *Session) flush() {
	muts := s.rec.Take()
	if len(muts) == 0 {
		return
	}
	s.seq++
	s.enqueue(ServerMessage{Type: TypePatch, Seq: s.seq, Mutations: muts})
	s.observer.PatchSent(len(muts))
}

// dispatch delivers a client event to the target's listeners.
func (s *Session) dispatch(m ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panic", "panic", r, "stack", string(debug.Stack()))
			s.reportError(&reactive.PanicError{Value: r})
		}
	}()

	target := s.doc.NodeByID(m.ID)
	if target == nil {
		s.logger.Debug("event for unknown node", "id", m.ID, "event", m.Event)
		return
	}

	ev := dom.NewEvent(m.Event)
	ev.Key = m.Key
	if m.Value != nil {
		target.SyncProp("value", *m.Value)
		ev.Value = *m.Value
	}
	if m.Checked != nil {
		target.SyncProp("checked", *m.Checked)
	}
	dom.Dispatch(target, ev)
}

func (s *Session) reportError(err error) {
	s.logger.Error("session error", "error", err)
	msg := "internal error"
	if s.cfg.Debug {
		msg = err.Error()
	}
	s.enqueue(ServerMessage{Type: TypeError, Error: msg})
}

// enqueue marshals m and hands it to the write loop. A full queue closes
// the session.
func (s *Session) enqueue(m ServerMessage) {
	if s.closed.Load() {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		s.logger.Error("encode message", "type", m.Type, "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("closing slow client", "error", ErrSendQueueFull)
		s.closed.Store(true)
		s.Close()
	}
}

// readLoop decodes client messages and posts them to the loop. It returns
// when the connection fails or closes.
func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		var m ClientMessage
		if err := json.Unmarshal(data, &m); err != nil {
			s.logger.Warn("message decode error", "error", err)
			continue
		}
		if m.Type != TypeEvent {
			s.logger.Warn("unknown message type", "type", m.Type)
			continue
		}
		s.loop.Post(func() { s.dispatch(m) })
	}
}

// writeLoop is the only writer on the connection. It sends queued messages
// and heartbeat pings until ctx is done.
func (s *Session) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Error("write error", "error", err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		case <-ctx.Done():
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			s.conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		}
	}
}
