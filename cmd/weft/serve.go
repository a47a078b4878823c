package main

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/errors"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var (
		appName string
		host    string
		port    int
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an app with live updates",
		Long: `Serve an app over HTTP.

The page is rendered on the server, then the browser connects to the
live endpoint and the server keeps the component tree, sending DOM
patches as state changes.

Routes:
  /                  the prerendered page
  /live              live session WebSocket (server.live in weft.json)
  /_weft/client.js   the live client
  /healthz           health check
  /metrics           Prometheus metrics (with --metrics)

Examples:
  weft serve
  weft serve --app todos --port 8080
  weft serve --metrics --tracing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Server.Host = host
			}
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("metrics") {
				cfg.Server.Metrics = metrics
			}
			if flags.Changed("tracing") {
				cfg.Server.Tracing = tracing
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			app, err := lookupApp(appName)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Address())
			if err != nil {
				return errors.New("E162").Wrap(err)
			}
			c.success("Serving %s on http://%s", appName, ln.Addr())
			return c.serve(ctx, ln, newServer(appName, app, cfg, c.log()))
		},
	}

	cmd.Flags().StringVarP(&appName, "app", "a", "showcase", "App to serve")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Record OpenTelemetry spans")

	return cmd
}

// serve runs srv on ln until ctx is done, then shuts down gracefully.
func (c *cli) serve(ctx context.Context, ln net.Listener, srv *server) error {
	httpServer := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E162").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	c.log().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Sessions first: hijacked connections are not closed by the HTTP
	// server.
	liveErr := srv.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.New("E162").Wrap(err)
	}
	if liveErr != nil {
		return errors.New("E162").Wrap(liveErr)
	}
	return nil
}
