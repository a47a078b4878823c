package element

import "github.com/vango-dev/weft/pkg/reactive"

// ResolveFunc renders el under owner and returns the live result as an
// Instance element.
type ResolveFunc func(owner *reactive.Owner, el Element) Element

// Scope is handed to a component's Render or Load function.
type Scope struct {
	// Owner owns everything the component creates. It is disposed when the
	// component is removed.
	Owner *reactive.Owner

	// Props are the component's properties.
	Props Props

	resolve ResolveFunc
}

// NewScope creates a Scope. Renderers call this; components receive it.
func NewScope(owner *reactive.Owner, props Props, resolve ResolveFunc) *Scope {
	return &Scope{Owner: owner, Props: props, resolve: resolve}
}

// Prop returns the named property, or nil.
func (s *Scope) Prop(name string) any {
	return s.Props[name]
}

// Resolve renders el immediately under the component's owner. The result
// can be placed anywhere in the component's output and keeps updating in
// place.
func (s *Scope) Resolve(el Element) Element {
	return s.ResolveIn(s.Owner, el)
}

// ResolveIn is Resolve with an explicit owner, typically a child of
// s.Owner whose lifetime the caller manages.
func (s *Scope) ResolveIn(owner *reactive.Owner, el Element) Element {
	if s.resolve == nil {
		return el
	}
	return s.resolve(owner, el)
}
