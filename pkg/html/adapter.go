package html

import (
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/render"
)

// Adapter is the static render target for HTML output.
type Adapter struct{}

var _ render.Adapter[*Node] = Adapter{}

// NewAdapter returns an Adapter.
func NewAdapter() Adapter {
	return Adapter{}
}

func (Adapter) CreateInstance(parent *Node, tag string, pos int, hydrating bool) *Node {
	return &Node{Kind: ElementNode, Tag: tag}
}

func (Adapter) CreateDefaultInstance(parent *Node, value any, pos int, hydrating bool) *Node {
	text, ok := element.TextOf(value)
	if !ok {
		return &Node{Kind: PlaceholderNode}
	}
	return &Node{Kind: TextNode, Text: text}
}

func (Adapter) AppendInstance(parent, inst *Node, hydrating bool) {
	parent.insert(len(parent.Children), inst)
}

func (Adapter) RemoveInstance(parent, inst *Node) {
	if inst.Parent == parent {
		inst.detach()
	}
}

func (Adapter) InsertInstanceAfter(parent, sibling, inst *Node) {
	if sibling.Parent != parent || sibling == inst {
		return
	}
	inst.detach()
	parent.insert(parent.indexOf(sibling)+1, inst)
}

// SetProperty records an attribute. Event listeners are dropped.
func (Adapter) SetProperty(inst *Node, name string, value any, hydrating bool) {
	if element.IsEvent(name) {
		return
	}
	if inst.Attrs == nil {
		inst.Attrs = make(map[string]any)
	}
	inst.Attrs[name] = value
}

// AllowEffects is always false: HTML output is a snapshot.
func (Adapter) AllowEffects() bool {
	return false
}
