package weftest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/weft/pkg/dom"
)

// selector is a chain of compounds joined by the descendant combinator.
type selector []compound

// compound is a tag, class, id and attribute test on one element.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   [][2]string
}

// anyValue marks an attribute test without a value.
const anyValue = "\x00"

func parseSelector(s string) (selector, error) {
	parts := splitOutsideBrackets(strings.TrimSpace(s))
	if len(parts) == 0 {
		return nil, fmt.Errorf("weftest: empty selector")
	}
	sel := make(selector, 0, len(parts))
	for _, part := range parts {
		c, err := parseCompound(part)
		if err != nil {
			return nil, err
		}
		sel = append(sel, c)
	}
	return sel, nil
}

// splitOutsideBrackets splits s on whitespace that is not inside [...].
func splitOutsideBrackets(s string) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
	)
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func parseCompound(s string) (compound, error) {
	var c compound
	if strings.ContainsAny(outsideBrackets(s), ">+~,") {
		return c, fmt.Errorf("weftest: selector %q: only the descendant combinator is supported", s)
	}

	i := strings.IndexAny(s, ".#[")
	if i < 0 {
		c.tag = s
		return c, nil
	}
	c.tag = s[:i]
	s = s[i:]

	for s != "" {
		switch s[0] {
		case '.', '#':
			end := strings.IndexAny(s[1:], ".#[")
			name := s[1:]
			if end >= 0 {
				name = s[1 : end+1]
			}
			if name == "" {
				return c, fmt.Errorf("weftest: selector: empty name after %q", s[0])
			}
			if s[0] == '.' {
				c.classes = append(c.classes, name)
			} else {
				c.id = name
			}
			s = s[1+len(name):]
		case '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return c, fmt.Errorf("weftest: selector: unclosed [")
			}
			name, value, hasValue := strings.Cut(s[1:end], "=")
			value = strings.Trim(value, `"'`)
			if !hasValue {
				value = anyValue
			}
			c.attrs = append(c.attrs, [2]string{strings.TrimSpace(name), value})
			s = s[end+1:]
		default:
			return c, fmt.Errorf("weftest: selector: unexpected %q", s[0])
		}
	}
	return c, nil
}

func (sel selector) match(n *dom.Node) bool {
	last := len(sel) - 1
	if last < 0 || !sel[last].match(n) {
		return false
	}
	i := last - 1
	for cur := n.Parent; cur != nil && i >= 0; cur = cur.Parent {
		if sel[i].match(cur) {
			i--
		}
	}
	return i < 0
}

func (c compound) match(n *dom.Node) bool {
	if n.Type != dom.ElementNode {
		return false
	}
	if c.tag != "" && !strings.EqualFold(n.Tag, c.tag) {
		return false
	}
	if c.id != "" {
		if id, _ := n.Attr("id"); id != c.id {
			return false
		}
	}
	if len(c.classes) > 0 {
		class, _ := n.Attr("class")
		have := strings.Fields(class)
		for _, want := range c.classes {
			if !slices.Contains(have, want) {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		v, ok := n.Attr(a[0])
		if !ok || (a[1] != anyValue && v != a[1]) {
			return false
		}
	}
	return true
}

func outsideBrackets(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
