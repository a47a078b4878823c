package html

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/weft/pkg/element"
)

// Writer serializes a Node tree to HTML.
type Writer struct {
	// Pretty enables indented output. Use it in development only: the
	// added whitespace becomes text nodes that hydration does not expect.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// String serializes n to a string.
func (wr Writer) String(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := wr.Write(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write serializes n to w. A RootNode writes only its children.
func (wr Writer) Write(w io.Writer, n *Node) error {
	if wr.Indent == "" {
		wr.Indent = "  "
	}
	return wr.writeNode(w, n, 0)
}

func (wr Writer) writeNode(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case RootNode:
		for _, c := range n.Children {
			if err := wr.writeNode(w, c, depth); err != nil {
				return err
			}
		}
		return nil
	case ElementNode:
		return wr.writeElement(w, n, depth)
	case TextNode:
		if n.Parent != nil && IsRawText(n.Parent.Tag) {
			_, err := io.WriteString(w, n.Text)
			return err
		}
		_, err := io.WriteString(w, EscapeText(n.Text))
		return err
	case PlaceholderNode:
		_, err := io.WriteString(w, "<!---->")
		return err
	default:
		return fmt.Errorf("html: unknown node kind %d", n.Kind)
	}
}

func (wr Writer) writeElement(w io.Writer, n *Node, depth int) error {
	if wr.Pretty && depth > 0 {
		if err := wr.writeIndent(w, depth); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}
	if err := writeAttrs(w, n.Attrs); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if IsVoidElement(n.Tag) {
		return wr.newline(w)
	}

	block := wr.Pretty && hasElementChild(n) && !isInlineElement(n.Tag) && !IsRawText(n.Tag)
	if block {
		if err := wr.newline(w); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		d := depth + 1
		if !block {
			d = 0
		}
		if err := wr.writeNode(w, c, d); err != nil {
			return err
		}
	}
	if block {
		if err := wr.writeIndent(w, depth); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</"+n.Tag+">"); err != nil {
		return err
	}
	return wr.newline(w)
}

func hasElementChild(n *Node) bool {
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			return true
		}
	}
	return false
}

// writeAttrs writes attributes in name order. nil and false values are
// omitted; true is written by presence only.
func writeAttrs(w io.Writer, attrs map[string]any) error {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := attrs[name]
		if b, ok := value.(bool); ok {
			if !b {
				continue
			}
			if IsBooleanAttr(name) {
				if _, err := io.WriteString(w, " "+name); err != nil {
					return err
				}
				continue
			}
		}
		s, ok := attrString(value)
		if !ok {
			continue
		}
		if s == "" && IsBooleanAttr(name) {
			if _, err := io.WriteString(w, " "+name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, EscapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

func attrString(value any) (string, bool) {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, " "), true
	case func(any), func(), func(string):
		return "", false
	default:
		return element.TextOf(v)
	}
}

func (wr Writer) writeIndent(w io.Writer, depth int) error {
	_, err := io.WriteString(w, strings.Repeat(wr.Indent, depth))
	return err
}

func (wr Writer) newline(w io.Writer) error {
	if !wr.Pretty {
		return nil
	}
	_, err := io.WriteString(w, "\n")
	return err
}
