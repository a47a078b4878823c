package element

import (
	"fmt"

	"github.com/vango-dev/weft/pkg/reactive"
)

// RefFunc receives the instance created for an Intrinsic. Pass one to H to
// set Intrinsic.Ref.
type RefFunc func(instance any)

// H creates an Intrinsic element with the given tag.
// Arguments can be:
//   - Attr: an attribute
//   - []Attr: multiple attributes
//   - RefFunc: the element ref
//   - Element: a child
//   - []Element: multiple children
//   - reactive.Reader: a reactive child
//   - string, numbers, bool: a text child
//   - nil: ignored
//
// Anything else becomes a child through From.
func H(tag string, args ...any) *Intrinsic {
	el := &Intrinsic{Tag: tag}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if !v.IsEmpty() {
				el.Attrs = append(el.Attrs, v)
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					el.Attrs = append(el.Attrs, a)
				}
			}
		case RefFunc:
			el.Ref = v
		case []Element:
			el.Children = append(el.Children, v...)
		default:
			el.Children = append(el.Children, From(v))
		}
	}

	return el
}

// From normalizes an arbitrary value into an Element.
//
//   - Element values are returned as is
//   - nil, strings, bools and numbers become Primitive
//   - []Element and []any become Fragment
//   - reactive.Reader becomes Dynamic
//   - anything else is treated as an already-rendered Instance
func From(v any) Element {
	switch v := v.(type) {
	case nil:
		return Primitive{}
	case *Intrinsic:
		if v == nil {
			return Primitive{}
		}
		return v
	case *Component:
		if v == nil {
			return Primitive{}
		}
		return v
	case Element:
		return v
	case []Element:
		return Fragment(v)
	case []any:
		f := make(Fragment, 0, len(v))
		for _, item := range v {
			f = append(f, From(item))
		}
		return f
	case reactive.Reader:
		return Dynamic{Reader: v}
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Primitive{Value: v}
	case fmt.Stringer:
		return Primitive{Value: v.String()}
	default:
		return Instance{Value: v}
	}
}

// Group groups children without a wrapper element.
func Group(children ...any) Fragment {
	f := make(Fragment, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		f = append(f, From(c))
	}
	return f
}

// Text creates a text element.
func Text(content string) Primitive {
	return Primitive{Value: content}
}

// Textf creates a formatted text element.
func Textf(format string, args ...any) Primitive {
	return Text(fmt.Sprintf(format, args...))
}

// Func creates a synchronous component.
func Func(name string, render ComponentFunc, props ...Props) *Component {
	return &Component{Name: name, Render: render, Props: mergeProps(props)}
}

// Async creates a component whose content is produced by load. Fallback is
// shown until load returns.
func Async(name string, load LoadFunc, fallback Element, props ...Props) *Component {
	return &Component{Name: name, Load: load, Fallback: fallback, Props: mergeProps(props)}
}

func mergeProps(props []Props) Props {
	switch len(props) {
	case 0:
		return nil
	case 1:
		return props[0]
	}
	merged := Props{}
	for _, p := range props {
		for k, v := range p {
			merged[k] = v
		}
	}
	return merged
}

// TextOf returns the text a primitive value renders as. ok is false for nil,
// which renders as an empty placeholder.
func TextOf(v any) (text string, ok bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
