package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

// Renderer lowers elements onto a target through an Adapter.
type Renderer[I comparable] struct {
	adapter  Adapter[I]
	logger   *slog.Logger
	observer Observer
	effects  bool
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

// WithLogger sets the logger used by the renderer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver installs an Observer for renderer events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// New creates a Renderer for the given adapter.
func New[I comparable](adapter Adapter[I], opts ...Option) *Renderer[I] {
	o := options{
		logger:   slog.Default().With("component", "render"),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer[I]{
		adapter:  adapter,
		logger:   o.logger,
		observer: o.observer,
		effects:  adapter.AllowEffects(),
	}
}

// Static reports whether the renderer reads reactive values once instead of
// binding them.
func (r *Renderer[I]) Static() bool {
	return !r.effects
}

// pass holds the state of one Render or Hydrate call. Bindings created
// during the pass keep a pointer to it, so they see hydrating turn off once
// the pass is over.
type pass struct {
	ctx       context.Context
	hydrating bool
	err       error
}

// Render renders el under a child of owner and appends the result to
// parent.
//
// Failures inside the tree (component panics, rejected async loads) are
// delivered to the owner error-handler chain. The returned error is only
// non-nil when ctx ends while awaiting async components in static mode.
func (r *Renderer[I]) Render(ctx context.Context, owner *reactive.Owner, parent I, el element.Element) (*Mount[I], error) {
	return r.mount(ctx, owner, parent, el, false)
}

// Hydrate is like Render but adopts the instances already present under
// parent instead of creating new ones.
func (r *Renderer[I]) Hydrate(ctx context.Context, owner *reactive.Owner, parent I, el element.Element) (*Mount[I], error) {
	return r.mount(ctx, owner, parent, el, true)
}

// RenderRoot renders el into the adapter's default root.
func (r *Renderer[I]) RenderRoot(ctx context.Context, owner *reactive.Owner, el element.Element) (*Mount[I], error) {
	rooter, ok := r.adapter.(DefaultRooter[I])
	if !ok {
		return nil, ErrNoDefaultRoot
	}
	return r.Render(ctx, owner, rooter.DefaultRoot(), el)
}

func (r *Renderer[I]) mount(ctx context.Context, owner *reactive.Owner, parent I, el element.Element, hydrating bool) (*Mount[I], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &pass{ctx: ctx, hydrating: hydrating}
	mo := owner.Child()

	slot := r.render(p, mo, parent, el, 0)
	for _, n := range slot.Nodes() {
		r.adapter.AppendInstance(parent, n, p.hydrating)
	}
	p.hydrating = false

	return &Mount[I]{r: r, parent: parent, slot: slot, owner: mo}, p.err
}

// render dispatches on the element variant. pos is the index in parent at
// which the first produced instance will end up.
func (r *Renderer[I]) render(p *pass, owner *reactive.Owner, parent I, el element.Element, pos int) *Slot[I] {
	switch el := el.(type) {
	case nil:
		return r.marker(p, parent, pos)
	case element.Primitive:
		n := r.adapter.CreateDefaultInstance(parent, el.Value, pos, p.hydrating)
		r.observer.InstanceCreated("")
		return leafSlot(n)
	case element.Instance:
		return r.renderInstance(p, owner, parent, el, pos)
	case element.Fragment:
		return r.renderFragment(p, owner, parent, el, pos)
	case *element.Intrinsic:
		if el == nil {
			return r.marker(p, parent, pos)
		}
		return r.renderIntrinsic(p, owner, parent, el, pos)
	case *element.Component:
		if el == nil {
			return r.marker(p, parent, pos)
		}
		if el.IsAsync() {
			return r.renderAsync(p, owner, parent, el, pos)
		}
		return r.renderComponent(p, owner, parent, el, pos)
	case element.Dynamic:
		return r.renderDynamic(p, owner, parent, el, pos)
	default:
		owner.Fail(fmt.Errorf("weft: unknown element %T", el))
		return r.marker(p, parent, pos)
	}
}

// marker creates the empty placeholder that stands in for output with no
// instances, so every slot has an anchor in the target.
func (r *Renderer[I]) marker(p *pass, parent I, pos int) *Slot[I] {
	n := r.adapter.CreateDefaultInstance(parent, nil, pos, p.hydrating)
	r.observer.InstanceCreated("")
	return leafSlot(n)
}

func (r *Renderer[I]) renderInstance(p *pass, owner *reactive.Owner, parent I, el element.Instance, pos int) *Slot[I] {
	switch v := el.Value.(type) {
	case *Slot[I]:
		if v != nil && v.Len() > 0 {
			return v
		}
	case I:
		return leafSlot(v)
	}
	r.logger.Warn("instance has wrong type", "type", fmt.Sprintf("%T", el.Value))
	owner.Fail(fmt.Errorf("%w: %T", ErrInstanceType, el.Value))
	return r.marker(p, parent, pos)
}

func (r *Renderer[I]) renderFragment(p *pass, owner *reactive.Owner, parent I, f element.Fragment, pos int) *Slot[I] {
	if len(f) == 0 {
		return r.marker(p, parent, pos)
	}
	items := make([]*Slot[I], 0, len(f))
	for _, child := range f {
		s := r.render(p, owner, parent, child, pos)
		pos += s.Len()
		items = append(items, s)
	}
	return groupSlot(items...)
}

func (r *Renderer[I]) renderIntrinsic(p *pass, owner *reactive.Owner, parent I, el *element.Intrinsic, pos int) *Slot[I] {
	inst := r.adapter.CreateInstance(parent, el.Tag, pos, p.hydrating)
	r.observer.InstanceCreated(el.Tag)

	for _, a := range el.Attrs {
		r.bindAttr(p, owner, inst, a)
	}

	childPos := 0
	for _, child := range el.Children {
		s := r.render(p, owner, inst, child, childPos)
		for _, n := range s.Nodes() {
			r.adapter.AppendInstance(inst, n, p.hydrating)
		}
		childPos += s.Len()
	}

	if el.Ref != nil && r.effects {
		el.Ref(inst)
	}
	return leafSlot(inst)
}

// bindAttr sets a static attribute once, or keeps a reactive one in sync
// through an Immediate effect.
func (r *Renderer[I]) bindAttr(p *pass, owner *reactive.Owner, inst I, a element.Attr) {
	reader, ok := a.Value.(reactive.Reader)
	if !ok {
		r.adapter.SetProperty(inst, a.Name, a.Value, p.hydrating)
		return
	}
	if !r.effects {
		r.adapter.SetProperty(inst, a.Name, reader.Read(), p.hydrating)
		return
	}
	owner.EffectOn(reactive.Immediate, func() reactive.Cleanup {
		r.adapter.SetProperty(inst, a.Name, reader.Read(), p.hydrating)
		return nil
	}, reader)
}

func (r *Renderer[I]) renderComponent(p *pass, owner *reactive.Owner, parent I, c *element.Component, pos int) *Slot[I] {
	co := owner.Child()
	scope := element.NewScope(co, c.Props, r.resolver(p, parent, pos))

	out, err := callRender(c, scope)
	if err != nil {
		co.Fail(&ComponentError{Component: c.Name, Err: err})
		return r.marker(p, parent, pos)
	}
	return r.render(p, co, parent, out, pos)
}

func callRender(c *element.Component, s *element.Scope) (el element.Element, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &reactive.PanicError{Value: v}
		}
	}()
	if c.Render == nil {
		return nil, nil
	}
	return c.Render(s), nil
}

// resolver returns the function behind Scope.Resolve. Resolved elements are
// rendered at successive positions starting at pos.
func (r *Renderer[I]) resolver(p *pass, parent I, pos int) element.ResolveFunc {
	offset := pos
	return func(o *reactive.Owner, el element.Element) element.Element {
		s := r.render(p, o, parent, el, offset)
		offset += s.Len()
		return element.Instance{Value: s}
	}
}

// renderDynamic binds a reactive child. Each run renders the new value
// under a fresh owner, swaps it into the target, then disposes the owner of
// the previous value.
func (r *Renderer[I]) renderDynamic(p *pass, owner *reactive.Owner, parent I, d element.Dynamic, pos int) *Slot[I] {
	if d.Reader == nil {
		return r.marker(p, parent, pos)
	}
	if !r.effects {
		s := r.render(p, owner, parent, element.From(d.Reader.Read()), pos)
		commit(d)
		return s
	}

	holder := groupSlot[I]()
	var current *reactive.Owner

	owner.EffectOn(reactive.Immediate, func() reactive.Cleanup {
		next := owner.Child()
		s := r.render(p, next, parent, element.From(d.Reader.Read()), pos)
		if len(holder.items) == 0 {
			holder.set(s)
		} else {
			r.replace(parent, holder.Nodes(), s.Nodes())
			holder.set(s)
		}
		if current != nil {
			current.Dispose()
		}
		current = next
		commit(d)
		return nil
	}, d.Reader)

	if len(holder.items) == 0 {
		holder.set(r.marker(p, parent, pos))
	}

	owner.OnCleanup(func() {
		for _, n := range holder.Nodes() {
			r.adapter.RemoveInstance(parent, n)
		}
	})
	return holder
}

func commit(d element.Dynamic) {
	if c, ok := d.Reader.(element.Committer); ok {
		c.Commit()
	}
}

// Mount is a rendered tree attached to a parent instance.
type Mount[I comparable] struct {
	r      *Renderer[I]
	parent I
	slot   *Slot[I]
	owner  *reactive.Owner
}

// Slot returns the live slot of the mounted tree.
func (m *Mount[I]) Slot() *Slot[I] {
	return m.slot
}

// Nodes returns the top-level instances currently mounted.
func (m *Mount[I]) Nodes() []I {
	return m.slot.Nodes()
}

// Owner returns the owner of the mounted tree.
func (m *Mount[I]) Owner() *reactive.Owner {
	return m.owner
}

// Unmount disposes the tree and removes its instances from the parent.
func (m *Mount[I]) Unmount() {
	if m.owner.Disposed() {
		return
	}
	nodes := m.slot.Nodes()
	m.owner.Dispose()
	for _, n := range nodes {
		m.r.adapter.RemoveInstance(m.parent, n)
		m.r.observer.InstanceRemoved()
	}
}
