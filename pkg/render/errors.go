package render

import (
	"errors"
	"fmt"
)

// ErrInstanceType is reported when an element.Instance holds a value that is
// neither a Slot nor an instance of the renderer's target type.
var ErrInstanceType = errors.New("weft: instance does not belong to this target")

// ErrNoDefaultRoot is returned by RenderRoot when the adapter has no default
// root.
var ErrNoDefaultRoot = errors.New("weft: adapter has no default root")

// ComponentError wraps a failure raised while rendering or loading a
// component.
type ComponentError struct {
	Component string
	Err       error
}

func (e *ComponentError) Error() string {
	name := e.Component
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("component %s: %v", name, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}
