package dom

import (
	"sort"
	"strings"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/html"
)

// HTML serializes the whole document, including the doctype.
func (d *Document) HTML() string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>")
	d.html.writeHTML(&sb)
	return sb.String()
}

// OuterHTML serializes n and its descendants.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.Children {
		c.writeHTML(&sb)
	}
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	switch n.Type {
	case TextNode:
		if n.Parent != nil && html.IsRawText(n.Parent.Tag) {
			sb.WriteString(n.Text)
		} else {
			sb.WriteString(html.EscapeText(n.Text))
		}
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(strings.ReplaceAll(n.Text, "--", "- -"))
		sb.WriteString("-->")
	case DocumentNode:
		for _, c := range n.Children {
			c.writeHTML(sb)
		}
	case ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Tag)
		for _, a := range n.attrs {
			writeAttr(sb, a.Name, a.Value, false)
		}
		n.writeProps(sb)
		sb.WriteByte('>')
		if n.Namespace == HTMLNamespace && html.IsVoidElement(n.Tag) {
			return
		}
		for _, c := range n.Children {
			c.writeHTML(sb)
		}
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteByte('>')
	}
}

// writeProps reflects form properties back into markup so server-rendered
// controls show their state.
func (n *Node) writeProps(sb *strings.Builder) {
	names := make([]string, 0, len(n.props))
	for name := range n.props {
		if _, isAttr := n.Attr(name); !isAttr {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		switch v := n.props[name].(type) {
		case nil:
		case bool:
			if v {
				writeAttr(sb, name, "", true)
			}
		default:
			text, _ := element.TextOf(v)
			writeAttr(sb, name, text, false)
		}
	}
}

func writeAttr(sb *strings.Builder, name, value string, presence bool) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	if presence || (value == "" && html.IsBooleanAttr(name)) {
		return
	}
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeAttr(value))
	sb.WriteByte('"')
}
