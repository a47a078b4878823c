package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
)

// Handler upgrades requests to WebSocket and runs a Session per connection.
type Handler struct {
	app      App
	cfg      Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
	observer Observer
	render   []render.Option
	reactive []reactive.Option

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// Option configures a Handler.
type Option func(*Handler)

// WithConfig sets the session configuration. Zero fields take defaults.
func WithConfig(cfg Config) Option {
	return func(h *Handler) { h.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver installs a session Observer.
func WithObserver(obs Observer) Option {
	return func(h *Handler) {
		if obs != nil {
			h.observer = obs
		}
	}
}

// WithRenderOptions passes options to every session renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(h *Handler) { h.render = append(h.render, opts...) }
}

// WithReactiveOptions passes options to every session root.
func WithReactiveOptions(opts ...reactive.Option) Option {
	return func(h *Handler) { h.reactive = append(h.reactive, opts...) }
}

// NewHandler creates a Handler serving app.
func NewHandler(app App, opts ...Option) *Handler {
	h := &Handler{
		app:      app,
		cfg:      DefaultConfig(),
		logger:   slog.Default().With("component", "live"),
		observer: NopObserver{},
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.cfg = h.cfg.withDefaults()
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  h.cfg.ReadBufferSize,
		WriteBufferSize: h.cfg.WriteBufferSize,
		CheckOrigin:     h.cfg.CheckOrigin,
	}
	return h
}

// ServeHTTP upgrades the connection and blocks until the session ends.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxSessions > 0 && h.Count() >= h.cfg.MaxSessions {
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	s := newSession(conn, h.app, h.cfg, h.logger, h.observer, h.render, h.reactive)
	h.add(s)
	defer h.remove(s)

	if err := s.Run(r.Context()); err != nil {
		s.logger.Error("session ended", "error", err)
		return
	}
	s.logger.Debug("session closed")
}

func (h *Handler) add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
	h.wg.Add(1)
}

func (h *Handler) remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s.ID)
	h.wg.Done()
}

// Count returns the number of open sessions.
func (h *Handler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Shutdown closes every open session and waits for them to end, or for ctx
// to be done.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	for _, s := range h.sessions {
		s.Close()
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
