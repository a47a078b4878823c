package telemetry

import (
	"time"

	"github.com/vango-dev/weft/pkg/live"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
)

// Observer is implemented by Metrics and Tracer.
type Observer interface {
	reactive.Observer
	render.Observer
	live.Observer
}

var (
	_ Observer = (*Metrics)(nil)
	_ Observer = (*Tracer)(nil)
)

// Tee returns an Observer that forwards every event to each non-nil
// observer in order.
func Tee(obs ...Observer) Observer {
	list := make(tee, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type tee []Observer

func (t tee) EffectDone(s reactive.Schedule, start time.Time, err error) {
	for _, o := range t {
		o.EffectDone(s, start, err)
	}
}

func (t tee) FlushDone(s reactive.Schedule, start time.Time, effects int) {
	for _, o := range t {
		o.FlushDone(s, start, effects)
	}
}

func (t tee) OwnerCreated() {
	for _, o := range t {
		o.OwnerCreated()
	}
}

func (t tee) OwnerDisposed() {
	for _, o := range t {
		o.OwnerDisposed()
	}
}

func (t tee) InstanceCreated(tag string) {
	for _, o := range t {
		o.InstanceCreated(tag)
	}
}

func (t tee) InstanceRemoved() {
	for _, o := range t {
		o.InstanceRemoved()
	}
}

func (t tee) AsyncSettled(component string, start time.Time, err error) {
	for _, o := range t {
		o.AsyncSettled(component, start, err)
	}
}

func (t tee) SessionOpened() {
	for _, o := range t {
		o.SessionOpened()
	}
}

func (t tee) SessionClosed(lifetime time.Duration) {
	for _, o := range t {
		o.SessionClosed(lifetime)
	}
}

func (t tee) PatchSent(mutations int) {
	for _, o := range t {
		o.PatchSent(mutations)
	}
}
