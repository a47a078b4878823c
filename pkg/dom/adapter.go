package dom

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/render"
)

// formProperties are attributes stored as properties on form controls.
var formProperties = map[string]map[string]bool{
	"input":    {"value": true, "checked": true},
	"textarea": {"value": true},
	"select":   {"value": true},
	"option":   {"value": true, "selected": true},
}

func isProperty(tag, name string) bool {
	return formProperties[strings.ToLower(tag)][name]
}

// Adapter renders into a Document.
type Adapter struct {
	doc    *Document
	static bool
	logger *slog.Logger
}

var _ render.Adapter[*Node] = (*Adapter)(nil)
var _ render.DefaultRooter[*Node] = (*Adapter)(nil)

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// Static makes the adapter a static target: reactive values are read once
// and no listeners are installed.
func Static() AdapterOption {
	return func(a *Adapter) { a.static = true }
}

// WithLogger sets the logger used to report hydration mismatches.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdapter creates an Adapter for doc.
func NewAdapter(doc *Document, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		doc:    doc,
		logger: slog.Default().With("component", "dom"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Document returns the adapter's document.
func (a *Adapter) Document() *Document {
	return a.doc
}

// DefaultRoot returns the document body.
func (a *Adapter) DefaultRoot() *Node {
	return a.doc.Body()
}

// AllowEffects is false for static adapters.
func (a *Adapter) AllowEffects() bool {
	return !a.static
}

// namespaceFor returns the namespace for a new tag under parent.
func namespaceFor(parent *Node, tag string) string {
	if tag == "svg" {
		return SVGNamespace
	}
	if parent != nil && parent.Namespace == SVGNamespace && parent.Tag != "foreignObject" {
		return SVGNamespace
	}
	return HTMLNamespace
}

func (a *Adapter) CreateInstance(parent *Node, tag string, pos int, hydrating bool) *Node {
	if hydrating {
		if n := existing(parent, pos); n != nil && n.Type == ElementNode && strings.EqualFold(n.Tag, tag) {
			return n
		}
		n := a.doc.CreateElement(tag, namespaceFor(parent, tag))
		a.repair(parent, pos, n)
		return n
	}
	return a.doc.CreateElement(tag, namespaceFor(parent, tag))
}

func (a *Adapter) CreateDefaultInstance(parent *Node, value any, pos int, hydrating bool) *Node {
	text, ok := element.TextOf(value)
	want := TextNode
	if !ok {
		want = CommentNode
	}

	if hydrating {
		if n := existing(parent, pos); n != nil && n.Type == want {
			if n.Text != text {
				a.logger.Warn("hydration text mismatch", "node", n.ID, "have", n.Text, "want", text)
				n.SetText(text)
			}
			return n
		}
	}

	var n *Node
	if ok {
		n = a.doc.CreateText(text)
	} else {
		n = a.doc.CreateComment("")
	}
	if hydrating {
		a.repair(parent, pos, n)
	}
	return n
}

func existing(parent *Node, pos int) *Node {
	if parent == nil || pos < 0 || pos >= len(parent.Children) {
		return nil
	}
	return parent.Children[pos]
}

// repair puts n at pos in parent after a hydration mismatch, replacing the
// node found there.
func (a *Adapter) repair(parent *Node, pos int, n *Node) {
	if parent == nil {
		return
	}
	old := existing(parent, pos)
	if old == nil {
		a.logger.Warn("hydration missing node", "parent", parent.ID, "pos", pos)
		parent.AppendChild(n)
		return
	}
	a.logger.Warn("hydration mismatch", "parent", parent.ID, "pos", pos, "found", old.Tag, "type", old.Type.String())
	parent.InsertAfter(old, n)
	parent.RemoveChild(old)
}

func (a *Adapter) AppendInstance(parent, inst *Node, hydrating bool) {
	if hydrating && inst.Parent == parent {
		return
	}
	parent.AppendChild(inst)
}

func (a *Adapter) RemoveInstance(parent, inst *Node) {
	parent.RemoveChild(inst)
}

func (a *Adapter) InsertInstanceAfter(parent, sibling, inst *Node) {
	if sibling == nil || sibling.Parent != parent {
		return
	}
	parent.InsertAfter(sibling, inst)
}

func (a *Adapter) SetProperty(inst *Node, name string, value any, hydrating bool) {
	if element.IsEvent(name) {
		if !a.static {
			inst.setHandler(name, value)
		}
		return
	}
	if hydrating {
		return
	}
	if isProperty(inst.Tag, name) {
		inst.SetProp(name, value)
		return
	}

	switch v := value.(type) {
	case nil:
		inst.RemoveAttr(name)
	case bool:
		if v {
			inst.SetAttr(name, "")
		} else {
			inst.RemoveAttr(name)
		}
	default:
		text, _ := element.TextOf(v)
		inst.SetAttr(name, text)
	}
}
