package weftest

import (
	"context"
	"testing"
	"time"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
)

// DefaultTimeout bounds each Settle.
const DefaultTimeout = 5 * time.Second

// Option configures Mount.
type Option func(*config)

type config struct {
	timeout  time.Duration
	reactive []reactive.Option
	render   []render.Option
	expect   bool
}

// WithTimeout sets how long each Settle may wait for async work.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithReactiveOptions passes options to the reactive root.
func WithReactiveOptions(opts ...reactive.Option) Option {
	return func(c *config) { c.reactive = append(c.reactive, opts...) }
}

// WithRenderOptions passes options to the renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(c *config) { c.render = append(c.render, opts...) }
}

// ExpectErrors stops the harness from failing the test when the tree
// reports errors. Inspect them with Errors.
func ExpectErrors() Option {
	return func(c *config) { c.expect = true }
}

// Harness is a mounted element with its document and loop.
type Harness struct {
	tb      testing.TB
	cfg     config
	errs    []error
	checked int

	Doc   *dom.Document
	Loop  *reactive.Loop
	Root  *reactive.Owner
	Mount *render.Mount[*dom.Node]
}

// Mount renders el into the body of a fresh document and settles. The
// root is disposed when the test ends.
func Mount(tb testing.TB, el element.Element, opts ...Option) *Harness {
	tb.Helper()
	cfg := config{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Harness{
		tb:   tb,
		cfg:  cfg,
		Doc:  dom.NewDocument(),
		Loop: reactive.NewLoop(),
	}
	h.Root = reactive.NewRoot(h.Loop, cfg.reactive...)
	h.Root.OnError(func(err error) { h.errs = append(h.errs, err) })
	tb.Cleanup(h.Root.Dispose)

	r := render.New[*dom.Node](dom.NewAdapter(h.Doc), cfg.render...)
	m, err := r.RenderRoot(context.Background(), h.Root, el)
	if err != nil {
		tb.Fatalf("weftest: mount: %v", err)
	}
	h.Mount = m
	h.Settle()
	return h
}

// Settle runs the loop until no work remains and fails the test on
// errors the tree reported since the last check.
func (h *Harness) Settle() {
	h.tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.timeout)
	defer cancel()
	if err := h.Loop.Settle(ctx); err != nil {
		h.tb.Fatalf("weftest: settle: %v", err)
	}
	if !h.cfg.expect {
		for _, err := range h.errs[h.checked:] {
			h.tb.Errorf("weftest: unexpected error: %v", err)
		}
	}
	h.checked = len(h.errs)
}

// Errors returns the errors the tree has reported so far.
func (h *Harness) Errors() []error {
	return h.errs
}

// Body returns the document body.
func (h *Harness) Body() *dom.Node {
	return h.Doc.Body()
}

// HTML serializes the body's content.
func (h *Harness) HTML() string {
	return h.Doc.Body().InnerHTML()
}

// Text returns the body's text content.
func (h *Harness) Text() string {
	return h.Doc.Body().TextContent()
}

// Find returns the first element matching sel, or nil.
func (h *Harness) Find(sel string) *dom.Node {
	h.tb.Helper()
	s := h.parse(sel)
	return h.Doc.Body().Find(s.match)
}

// FindAll returns every element matching sel in document order.
func (h *Harness) FindAll(sel string) []*dom.Node {
	h.tb.Helper()
	s := h.parse(sel)
	return h.Doc.Body().FindAll(s.match)
}

// MustFind is Find that fails the test when nothing matches.
func (h *Harness) MustFind(sel string) *dom.Node {
	h.tb.Helper()
	n := h.Find(sel)
	if n == nil {
		h.tb.Fatalf("weftest: no element matches %q in:\n%s", sel, truncate(h.HTML(), 500))
	}
	return n
}

func (h *Harness) parse(sel string) selector {
	h.tb.Helper()
	s, err := parseSelector(sel)
	if err != nil {
		h.tb.Fatal(err)
	}
	return s
}

// Dispatch sends ev to the element matching sel and settles.
func (h *Harness) Dispatch(sel string, ev *dom.Event) {
	h.tb.Helper()
	dom.Dispatch(h.MustFind(sel), ev)
	h.Settle()
}

// Click dispatches a click.
func (h *Harness) Click(sel string) {
	h.tb.Helper()
	h.Dispatch(sel, dom.NewEvent("click"))
}

// Input sets the value of a form control as if typed, then dispatches an
// input event carrying it.
func (h *Harness) Input(sel, value string) {
	h.tb.Helper()
	n := h.MustFind(sel)
	n.SyncProp("value", value)
	ev := dom.NewEvent("input")
	ev.Value = value
	dom.Dispatch(n, ev)
	h.Settle()
}

// Toggle flips a checkbox and dispatches a change event.
func (h *Harness) Toggle(sel string) {
	h.tb.Helper()
	n := h.MustFind(sel)
	checked, _ := n.Prop("checked").(bool)
	n.SyncProp("checked", !checked)
	dom.Dispatch(n, dom.NewEvent("change"))
	h.Settle()
}

// Submit dispatches a submit event.
func (h *Harness) Submit(sel string) {
	h.tb.Helper()
	h.Dispatch(sel, dom.NewEvent("submit"))
}

// ExpectText asserts that the element matching sel has the given text.
func (h *Harness) ExpectText(t testing.TB, sel, want string) {
	t.Helper()
	n := h.Find(sel)
	if n == nil {
		t.Errorf("no element matches %q in:\n%s", sel, truncate(h.HTML(), 500))
		return
	}
	if got := n.TextContent(); got != want {
		t.Errorf("%s text = %q, want %q", sel, got, want)
	}
}

// ExpectCount asserts how many elements match sel.
func (h *Harness) ExpectCount(t testing.TB, sel string, want int) {
	t.Helper()
	if got := len(h.FindAll(sel)); got != want {
		t.Errorf("%d elements match %q, want %d in:\n%s", got, sel, want, truncate(h.HTML(), 500))
	}
}
