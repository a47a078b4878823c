package element

import (
	"context"

	"github.com/vango-dev/weft/pkg/reactive"
)

// Kind is the element variant discriminator.
type Kind uint8

const (
	KindIntrinsic Kind = iota // <div>, <svg>, etc.
	KindComponent             // Function producing an element
	KindFragment              // Grouping without wrapper
	KindDynamic               // Reactive child
	KindPrimitive             // Text-like value
	KindInstance              // Already-rendered output
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindIntrinsic:
		return "Intrinsic"
	case KindComponent:
		return "Component"
	case KindFragment:
		return "Fragment"
	case KindDynamic:
		return "Dynamic"
	case KindPrimitive:
		return "Primitive"
	case KindInstance:
		return "Instance"
	default:
		return "Unknown"
	}
}

// Element is a description of something to render. The set of
// implementations is closed.
type Element interface {
	Kind() Kind
	isElement()
}

// Attr is a single attribute. Value may be a reactive.Reader, in which case
// the renderer keeps the target property in sync with it.
type Attr struct {
	Name  string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Name == ""
}

// Props holds component properties.
type Props map[string]any

// Intrinsic is a target-native element.
type Intrinsic struct {
	Tag      string
	Attrs    []Attr
	Children []Element

	// Ref is called with the created instance when effects are enabled.
	Ref func(instance any)
}

// ComponentFunc renders a component synchronously.
type ComponentFunc func(s *Scope) Element

// LoadFunc renders a component asynchronously. It runs on its own goroutine
// and must not touch reactive state; ctx is cancelled when the component is
// disposed.
type LoadFunc func(ctx context.Context, s *Scope) (Element, error)

// Component is a function-tagged element. Exactly one of Render and Load is
// set. Fallback is shown until Load resolves.
type Component struct {
	Name     string
	Props    Props
	Render   ComponentFunc
	Load     LoadFunc
	Fallback Element
}

// IsAsync reports whether the component resolves asynchronously.
func (c *Component) IsAsync() bool {
	return c.Load != nil
}

// Fragment is an ordered sequence of elements.
type Fragment []Element

// Dynamic is a reactive child. The value read from Reader is normalized with
// From and rendered; it is re-rendered whenever Reader changes.
type Dynamic struct {
	Reader reactive.Reader
}

// Committer is implemented by a Dynamic's Reader that needs to know when
// each rendered value has been swapped into the target.
type Committer interface {
	Commit()
}

// Primitive is a text-like value: string, number, bool or nil.
type Primitive struct {
	Value any
}

// Instance wraps already-rendered output: either a bare target instance or
// the live handle returned by Scope.Resolve.
type Instance struct {
	Value any
}

func (*Intrinsic) Kind() Kind { return KindIntrinsic }
func (*Component) Kind() Kind { return KindComponent }
func (Fragment) Kind() Kind   { return KindFragment }
func (Dynamic) Kind() Kind    { return KindDynamic }
func (Primitive) Kind() Kind  { return KindPrimitive }
func (Instance) Kind() Kind   { return KindInstance }

func (*Intrinsic) isElement() {}
func (*Component) isElement() {}
func (Fragment) isElement()   {}
func (Dynamic) isElement()    {}
func (Primitive) isElement()  {}
func (Instance) isElement()   {}
