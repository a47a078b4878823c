package reactive

import "time"

// Observer receives runtime events from a root Owner and its descendants.
// Implementations must be cheap: they are called inline on the loop goroutine.
type Observer interface {
	// EffectDone is called after every effect run.
	EffectDone(s Schedule, start time.Time, err error)

	// FlushDone is called after a queue flush with the number of effects run.
	FlushDone(s Schedule, start time.Time, effects int)

	// OwnerCreated and OwnerDisposed track the live owner count.
	OwnerCreated()
	OwnerDisposed()
}

// NopObserver implements Observer with no-ops. Embed it to implement only
// the methods you need.
type NopObserver struct{}

func (NopObserver) EffectDone(Schedule, time.Time, error) {}
func (NopObserver) FlushDone(Schedule, time.Time, int)    {}
func (NopObserver) OwnerCreated()                         {}
func (NopObserver) OwnerDisposed()                        {}

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	if len(list) == 1 {
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) EffectDone(s Schedule, start time.Time, err error) {
	for _, o := range m {
		o.EffectDone(s, start, err)
	}
}

func (m multiObserver) FlushDone(s Schedule, start time.Time, effects int) {
	for _, o := range m {
		o.FlushDone(s, start, effects)
	}
}

func (m multiObserver) OwnerCreated() {
	for _, o := range m {
		o.OwnerCreated()
	}
}

func (m multiObserver) OwnerDisposed() {
	for _, o := range m {
		o.OwnerDisposed()
	}
}
