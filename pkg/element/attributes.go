package element

import "strings"

// EventPrefix marks an attribute as an event listener. The rest of the name
// is the event name followed by optional modifiers, e.g. "on:clickOnce".
const EventPrefix = "on:"

// A creates an attribute with the given name and value. Value may be a
// reactive.Reader.
func A(name string, value any) Attr {
	return Attr{Name: name, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return A("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return A("class", strings.Join(classes, " ")) }

// Style sets the style attribute.
func Style(style string) Attr { return A("style", style) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return A("data-"+key, value) }

// Href sets the href attribute.
func Href(url string) Attr { return A("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return A("type", t) }

// Value sets the value property.
func Value(v any) Attr { return A("value", v) }

// Checked sets the checked property.
func Checked(v any) Attr { return A("checked", v) }

// Disabled sets the disabled attribute.
func Disabled(v any) Attr { return A("disabled", v) }

// On attaches an event listener. Event may carry modifiers as a suffix:
// Once, Capture, Passive and NoPassive, in any combination and case.
// The handler is interpreted by the target adapter.
func On(event string, handler any) Attr {
	return A(EventPrefix+event, handler)
}

// OnClick attaches a click listener.
func OnClick(handler any) Attr { return On("click", handler) }

// OnInput attaches an input listener.
func OnInput(handler any) Attr { return On("input", handler) }

// IsEvent reports whether name is an event listener attribute.
func IsEvent(name string) bool {
	return strings.HasPrefix(name, EventPrefix)
}
