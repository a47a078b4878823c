package dom

import (
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	DocumentNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}

// Namespaces.
const (
	HTMLNamespace = ""
	SVGNamespace  = "http://www.w3.org/2000/svg"
)

// Attribute is a name/value pair of an element.
type Attribute struct {
	Name  string
	Value string
}

// Node is a node in a Document.
type Node struct {
	ID        int64
	Type      NodeType
	Tag       string
	Namespace string
	Text      string

	Parent   *Node
	Children []*Node

	attrs     []Attribute
	props     map[string]any
	listeners []*listener
	handlers  map[string]*listener

	doc *Document
}

// Document returns the document the node belongs to.
func (n *Node) Document() *Document {
	return n.doc
}

// Connected reports whether n is attached to its document's tree.
func (n *Node) Connected() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == DocumentNode {
			return true
		}
	}
	return false
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	return n.Parent.indexOf(n)
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// PreviousSibling returns the node before n, or nil.
func (n *Node) PreviousSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the node's attributes in insertion order.
func (n *Node) Attrs() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			if a.Value == value {
				return
			}
			n.attrs[i].Value = value
			n.doc.record(n, Mutation{Op: OpSetAttr, ID: n.ID, Name: name, Value: value})
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	n.doc.record(n, Mutation{Op: OpSetAttr, ID: n.ID, Name: name, Value: value})
}

// RemoveAttr removes an attribute.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.record(n, Mutation{Op: OpRemoveAttr, ID: n.ID, Name: name})
			return
		}
	}
}

// Prop returns a property value.
func (n *Node) Prop(name string) any {
	return n.props[name]
}

// SetProp sets a property.
func (n *Node) SetProp(name string, value any) {
	if old, ok := n.props[name]; ok && sameValue(old, value) {
		return
	}
	n.SyncProp(name, value)
	n.doc.record(n, Mutation{Op: OpSetProp, ID: n.ID, Name: name, Value: value})
}

// SyncProp stores a property value that already holds on the client, such
// as an input's value after the user typed. Nothing is recorded.
func (n *Node) SyncProp(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

func sameValue(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// SetText replaces the content of a text or comment node.
func (n *Node) SetText(text string) {
	if n.Text == text {
		return
	}
	n.Text = text
	n.doc.record(n, Mutation{Op: OpSetText, ID: n.ID, Value: text})
}

// AppendChild appends child, moving it if it is already in a tree.
func (n *Node) AppendChild(child *Node) {
	n.insertAt(len(n.Children), child)
}

// InsertAfter inserts child right after sibling. A nil sibling inserts at
// the front.
func (n *Node) InsertAfter(sibling, child *Node) {
	if sibling == nil {
		n.insertAt(0, child)
		return
	}
	if sibling.Parent != n || sibling == child {
		return
	}
	moved := child.Connected()
	child.detach()
	n.place(n.indexOf(sibling)+1, child, moved)
}

// RemoveChild removes child from n. It is a no-op if child is not a child
// of n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		return
	}
	connected := n.Connected()
	child.detach()
	if connected {
		n.doc.record(n, Mutation{Op: OpRemove, ID: child.ID})
	}
	n.doc.forget(child)
}

func (n *Node) insertAt(i int, child *Node) {
	moved := child.Connected()
	if child.Parent == n && n.indexOf(child) < i {
		i--
	}
	child.detach()
	n.place(i, child, moved)
}

// place attaches a detached child at index i and records the insertion.
func (n *Node) place(i int, child *Node, moved bool) {
	if i > len(n.Children) {
		i = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
	child.Parent = n
	n.doc.remember(child)

	if !n.Connected() {
		return
	}
	m := Mutation{Op: OpInsert, ID: child.ID, Parent: n.ID}
	if prev := child.PreviousSibling(); prev != nil {
		m.After = prev.ID
	}
	if moved {
		m.Op = OpMove
	} else {
		m.Node = child.Snapshot()
	}
	n.doc.record(n, m)
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if i := p.indexOf(n); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// Walk calls fn for n and each descendant in document order. Returning
// false skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in document order for which match is true.
func (n *Node) Find(match func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node in document order for which match is true.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ByTag returns a matcher for elements with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Type == ElementNode && n.Tag == tag
	}
}

// ByAttr returns a matcher for elements whose attribute name equals value.
func ByAttr(name, value string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Attr(name)
		return ok && v == value
	}
}
