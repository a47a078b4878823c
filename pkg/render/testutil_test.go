package render

import (
	"fmt"
	"sort"
	"strings"
)

// tnode is a minimal mutable tree used as a test target.
type tnode struct {
	tag      string
	text     string
	parent   *tnode
	children []*tnode
	props    map[string]any
}

func (n *tnode) indexOf(child *tnode) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *tnode) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// String serializes the subtree, e.g. <div class=a>hi<!--></div>.
func (n *tnode) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *tnode) write(sb *strings.Builder) {
	switch n.tag {
	case "#text":
		sb.WriteString(n.text)
		return
	case "#marker":
		sb.WriteString("<!-->")
		return
	}
	sb.WriteString("<" + n.tag)
	keys := make([]string, 0, len(n.props))
	for k := range n.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%v", k, n.props[k])
	}
	sb.WriteString(">")
	for _, c := range n.children {
		c.write(sb)
	}
	sb.WriteString("</" + n.tag + ">")
}

// inner serializes only the children.
func (n *tnode) inner() string {
	var sb strings.Builder
	for _, c := range n.children {
		c.write(&sb)
	}
	return sb.String()
}

// testAdapter implements Adapter over tnode and logs every mutation.
type testAdapter struct {
	static  bool
	created int
	calls   []string
}

func (a *testAdapter) adopt(parent *tnode, pos int, hydrating bool) *tnode {
	if hydrating && parent != nil && pos < len(parent.children) {
		return parent.children[pos]
	}
	return nil
}

func (a *testAdapter) CreateInstance(parent *tnode, tag string, pos int, hydrating bool) *tnode {
	if n := a.adopt(parent, pos, hydrating); n != nil {
		return n
	}
	a.created++
	return &tnode{tag: tag}
}

func (a *testAdapter) CreateDefaultInstance(parent *tnode, value any, pos int, hydrating bool) *tnode {
	if n := a.adopt(parent, pos, hydrating); n != nil {
		return n
	}
	a.created++
	if value == nil {
		return &tnode{tag: "#marker"}
	}
	return &tnode{tag: "#text", text: fmt.Sprint(value)}
}

func (a *testAdapter) AppendInstance(parent, inst *tnode, hydrating bool) {
	if hydrating {
		return
	}
	inst.detach()
	inst.parent = parent
	parent.children = append(parent.children, inst)
	a.calls = append(a.calls, "append "+inst.String())
}

func (a *testAdapter) RemoveInstance(parent, inst *tnode) {
	if inst.parent != parent {
		return
	}
	inst.detach()
	a.calls = append(a.calls, "remove "+inst.String())
}

func (a *testAdapter) InsertInstanceAfter(parent, sibling, inst *tnode) {
	if sibling.parent != parent {
		return
	}
	inst.detach()
	i := parent.indexOf(sibling)
	parent.children = append(parent.children, nil)
	copy(parent.children[i+2:], parent.children[i+1:])
	parent.children[i+1] = inst
	inst.parent = parent
	a.calls = append(a.calls, "insert "+inst.String())
}

func (a *testAdapter) SetProperty(inst *tnode, name string, value any, hydrating bool) {
	if hydrating {
		return
	}
	if inst.props == nil {
		inst.props = map[string]any{}
	}
	inst.props[name] = value
	a.calls = append(a.calls, fmt.Sprintf("set %s=%v", name, value))
}

func (a *testAdapter) AllowEffects() bool {
	return !a.static
}

func (a *testAdapter) reset() {
	a.calls = nil
	a.created = 0
}
