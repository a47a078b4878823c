package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/html"
	"github.com/vango-dev/weft/pkg/live"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
	"github.com/vango-dev/weft/pkg/telemetry"
)

// pageTimeout bounds the server render of a page.
const pageTimeout = 5 * time.Second

// server serves one app: the prerendered page, its live endpoint, the
// client script, health and metrics.
type server struct {
	name   string
	app    func() element.Element
	cfg    *config.Config
	logger *slog.Logger

	observer telemetry.Observer
	registry *prometheus.Registry
	live     *live.Handler
	router   chi.Router
}

func newServer(name string, app func() element.Element, cfg *config.Config, logger *slog.Logger) *server {
	s := &server{name: name, app: app, cfg: cfg, logger: logger}

	var observers []telemetry.Observer
	if cfg.Server.Metrics {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, telemetry.NewMetrics(telemetry.WithRegistry(s.registry)))
	}
	if cfg.Server.Tracing {
		observers = append(observers, telemetry.NewTracer())
	}
	s.observer = telemetry.Tee(observers...)

	s.live = live.NewHandler(live.App(app),
		live.WithConfig(live.Config{
			IdleTimeout: cfg.IdleTimeout(),
			Debug:       cfg.Scheduler.Debug,
		}),
		live.WithLogger(logger.With("component", "live")),
		live.WithObserver(s.observer),
		live.WithRenderOptions(render.WithObserver(s.observer)),
		live.WithReactiveOptions(s.reactiveOptions()...),
	)

	s.router = s.routes()
	return s
}

func (s *server) reactiveOptions() []reactive.Option {
	return []reactive.Option{
		reactive.WithObserver(s.observer),
		reactive.WithDebug(s.cfg.Scheduler.Debug),
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Handle(html.DefaultClientScript, live.ClientHandler())
	r.Handle(s.cfg.Server.Live, s.live)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}
	return r
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// logRequests logs each request after it completes. WebSocket upgrades are
// logged when the session ends.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pageTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := html.RenderPage(ctx, w, html.PageData{
		Title: s.name,
		Meta:  []html.MetaTag{{Name: "viewport", Content: "width=device-width, initial-scale=1"}},
		Body:  s.app(),
		Live: &html.LiveClient{
			Endpoint: s.cfg.Server.Live,
			Script:   html.DefaultClientScript,
			Debug:    s.cfg.Scheduler.Debug,
		},
	},
		html.WithLogger(s.logger.With("component", "html")),
		html.WithObserver(s.observer),
		html.WithReactiveOptions(s.reactiveOptions()...),
	)
	if err != nil {
		s.logger.Warn("page rendered with errors", "app", s.name, "error", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Status   string `json:"status"`
		App      string `json:"app"`
		Sessions int    `json:"sessions"`
	}{"ok", s.name, s.live.Count()})
}

// Shutdown closes live sessions.
func (s *server) Shutdown(ctx context.Context) error {
	return s.live.Shutdown(ctx)
}
