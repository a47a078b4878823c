package html

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
)

// Option configures Render, RenderTo and RenderPage.
type Option func(*config)

type config struct {
	writer   Writer
	logger   *slog.Logger
	observer render.Observer
	reactive []reactive.Option
}

// Pretty enables indented output.
func Pretty() Option {
	return func(c *config) { c.writer.Pretty = true }
}

// WithIndent sets the indentation string used in pretty mode.
func WithIndent(indent string) Option {
	return func(c *config) { c.writer.Indent = indent }
}

// WithLogger sets the logger passed to the renderer and reactive root.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver installs a renderer observer.
func WithObserver(obs render.Observer) Option {
	return func(c *config) { c.observer = obs }
}

// WithReactiveOptions passes options to the reactive root created for the
// render.
func WithReactiveOptions(opts ...reactive.Option) Option {
	return func(c *config) { c.reactive = append(c.reactive, opts...) }
}

func newConfig(opts []Option) config {
	c := config{logger: slog.Default().With("component", "html")}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Build renders el into a fresh Node tree. Errors reported inside the tree
// are collected and returned joined together with the tree that was built;
// failed components leave a placeholder.
func Build(ctx context.Context, el element.Element, opts ...Option) (*Node, error) {
	c := newConfig(opts)
	return c.build(ctx, el)
}

func (c config) build(ctx context.Context, el element.Element) (*Node, error) {
	loop := reactive.NewLoop(reactive.WithLoopLogger(c.logger))
	root := reactive.NewRoot(loop, append([]reactive.Option{reactive.WithLogger(c.logger)}, c.reactive...)...)
	defer root.Dispose()

	var errs []error
	root.OnError(func(err error) {
		errs = append(errs, err)
	})

	ropts := []render.Option{render.WithLogger(c.logger)}
	if c.observer != nil {
		ropts = append(ropts, render.WithObserver(c.observer))
	}
	r := render.New[*Node](NewAdapter(), ropts...)

	container := NewRoot()
	_, err := r.Render(ctx, root, container, el)
	errs = append(errs, err)
	return container, errors.Join(errs...)
}

// Render renders el to an HTML string.
func Render(ctx context.Context, el element.Element, opts ...Option) (string, error) {
	var buf bytes.Buffer
	err := RenderTo(ctx, &buf, el, opts...)
	return buf.String(), err
}

// RenderTo renders el and writes the HTML to w. The output is written even
// when the tree reported errors.
func RenderTo(ctx context.Context, w io.Writer, el element.Element, opts ...Option) error {
	c := newConfig(opts)
	n, err := c.build(ctx, el)
	if werr := c.writer.Write(w, n); werr != nil {
		return werr
	}
	return err
}
