package render

import (
	"context"
	"time"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

// renderAsync renders a component whose content comes from Load.
//
// Live targets show the fallback, run Load as a task and swap the result in
// when it resolves. A rejected load is reported to the owner chain and the
// fallback stays. Nothing is committed once the component has been
// disposed. Static targets wait for Load inline.
func (r *Renderer[I]) renderAsync(p *pass, owner *reactive.Owner, parent I, c *element.Component, pos int) *Slot[I] {
	co := owner.Child()
	scope := element.NewScope(co, c.Props, r.resolver(p, parent, pos))

	if !r.effects {
		return r.awaitAsync(p, co, parent, c, scope, pos)
	}

	fallbackOwner := co.Child()
	holder := groupSlot(r.render(p, fallbackOwner, parent, orEmpty(c.Fallback), pos))

	finished := false
	start := time.Now()
	task := reactive.Go(co, func(ctx context.Context) (element.Element, error) {
		return c.Load(ctx, scope)
	})
	co.OnCleanup(func() {
		finished = true
		task.Cancel()
	})

	task.Then(func(out element.Element, err error) {
		r.observer.AsyncSettled(c.Name, start, err)
		if finished || co.Disposed() {
			return
		}
		if err != nil {
			r.logger.Error("async component rejected", "component", c.Name, "error", err)
			co.Fail(&ComponentError{Component: c.Name, Err: err})
			return
		}
		finished = true

		next := r.render(p, co.Child(), parent, out, pos)
		r.replace(parent, holder.Nodes(), next.Nodes())
		holder.set(next)
		fallbackOwner.Dispose()
	})

	return holder
}

func (r *Renderer[I]) awaitAsync(p *pass, co *reactive.Owner, parent I, c *element.Component, scope *element.Scope, pos int) *Slot[I] {
	start := time.Now()
	out, err := callLoad(p.ctx, c, scope)
	r.observer.AsyncSettled(c.Name, start, err)

	if err != nil {
		if ctxErr := p.ctx.Err(); ctxErr != nil {
			if p.err == nil {
				p.err = ctxErr
			}
		} else {
			r.logger.Error("async component rejected", "component", c.Name, "error", err)
			co.Fail(&ComponentError{Component: c.Name, Err: err})
		}
		return r.render(p, co, parent, orEmpty(c.Fallback), pos)
	}
	return r.render(p, co, parent, out, pos)
}

// callLoad runs Load on its own goroutine so a load that ignores ctx cannot
// hold a static render past its deadline.
func callLoad(ctx context.Context, c *element.Component, s *element.Scope) (element.Element, error) {
	type result struct {
		el  element.Element
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- result{err: &reactive.PanicError{Value: v}}
			}
		}()
		el, err := c.Load(ctx, s)
		done <- result{el, err}
	}()

	select {
	case res := <-done:
		return res.el, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func orEmpty(el element.Element) element.Element {
	if el == nil {
		return element.Fragment{}
	}
	return el
}
