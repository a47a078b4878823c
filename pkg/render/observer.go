package render

import "time"

// Observer receives renderer events. It is called inline on the loop
// goroutine.
type Observer interface {
	// InstanceCreated is called for every instance the renderer creates.
	// tag is empty for default instances.
	InstanceCreated(tag string)

	// InstanceRemoved is called when the renderer removes an instance.
	InstanceRemoved()

	// AsyncSettled is called when an async component's load returns.
	AsyncSettled(component string, start time.Time, err error)
}

// NopObserver implements Observer with no-ops.
type NopObserver struct{}

func (NopObserver) InstanceCreated(string)                {}
func (NopObserver) InstanceRemoved()                      {}
func (NopObserver) AsyncSettled(string, time.Time, error) {}
