package live

import "time"

// Observer receives session lifecycle events, typically to feed metrics.
type Observer interface {
	SessionOpened()
	SessionClosed(lifetime time.Duration)
	PatchSent(mutations int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) SessionOpened()              {}
func (NopObserver) SessionClosed(time.Duration) {}
func (NopObserver) PatchSent(int)               {}
