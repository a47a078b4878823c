package render

// Adapter is the interface between the renderer and a concrete target.
//
// pos is the index among parent's children at which the renderer expects
// the instance; adapters use it to find existing instances when hydrating.
// RemoveInstance and InsertInstanceAfter must tolerate instances that are
// not, or not yet, children of parent.
type Adapter[I comparable] interface {
	// CreateInstance creates an instance for an intrinsic element.
	CreateInstance(parent I, tag string, pos int, hydrating bool) I

	// CreateDefaultInstance creates an instance for a primitive value. A nil
	// value asks for an empty placeholder.
	CreateDefaultInstance(parent I, value any, pos int, hydrating bool) I

	// AppendInstance appends inst as the last child of parent.
	AppendInstance(parent, inst I, hydrating bool)

	// RemoveInstance removes inst from parent.
	RemoveInstance(parent, inst I)

	// InsertInstanceAfter moves or inserts inst right after sibling.
	InsertInstanceAfter(parent, sibling, inst I)

	// SetProperty sets a named property or attribute on inst.
	SetProperty(inst I, name string, value any, hydrating bool)

	// AllowEffects reports whether the target is live. Static targets get
	// every reactive value read once.
	AllowEffects() bool
}

// DefaultRooter is implemented by adapters that have a natural root
// instance, such as a document body.
type DefaultRooter[I comparable] interface {
	DefaultRoot() I
}
