package html

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Void elements have no closing tag and never hold children.
var voidElements = set(
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
)

// Inline elements stay on one line when pretty printing.
var inlineElements = set(
	"a", "abbr", "b", "bdi", "bdo", "br", "button", "cite", "code", "data",
	"dfn", "em", "i", "kbd", "label", "mark", "q", "rb", "rp", "rt", "rtc",
	"ruby", "s", "samp", "small", "span", "strong", "sub", "sup", "time",
	"u", "var", "wbr",
)

// Boolean attributes are written by name only when true and omitted when
// false.
var booleanAttrs = set(
	"allowfullscreen", "async", "autofocus", "autoplay", "checked",
	"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
	"inert", "ismap", "itemscope", "loop", "multiple", "muted", "nomodule",
	"novalidate", "open", "playsinline", "readonly", "required", "reversed",
	"selected",
)

// Raw text elements hold unescaped content.
var rawTextElements = set("script", "style")

// IsVoidElement reports whether tag has no closing tag.
func IsVoidElement(tag string) bool {
	_, ok := voidElements[tag]
	return ok
}

// IsBooleanAttr reports whether name is a presence-only attribute.
func IsBooleanAttr(name string) bool {
	_, ok := booleanAttrs[name]
	return ok
}

// IsRawText reports whether the content of tag is written unescaped.
func IsRawText(tag string) bool {
	_, ok := rawTextElements[tag]
	return ok
}

func isInlineElement(tag string) bool {
	_, ok := inlineElements[tag]
	return ok
}
