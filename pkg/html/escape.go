package html

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// Attribute values also escape whitespace that would otherwise be
	// normalized away by parsers.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// EscapeText escapes s for inclusion in HTML text content.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes s for inclusion in a quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// escapeComment keeps comment text from closing the comment early.
func escapeComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
