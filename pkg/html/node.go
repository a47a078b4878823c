package html

// NodeKind identifies the kind of a Node.
type NodeKind uint8

const (
	RootNode NodeKind = iota
	ElementNode
	TextNode
	PlaceholderNode
)

// Node is the instance type of the HTML target.
type Node struct {
	Kind     NodeKind
	Tag      string
	Text     string
	Attrs    map[string]any
	Parent   *Node
	Children []*Node
}

// NewRoot returns an empty container node. Its children are written
// without a wrapper.
func NewRoot() *Node {
	return &Node{Kind: RootNode}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}
	if i := n.Parent.indexOf(n); i >= 0 {
		n.Parent.Children = append(n.Parent.Children[:i], n.Parent.Children[i+1:]...)
	}
	n.Parent = nil
}

func (n *Node) insert(i int, child *Node) {
	child.detach()
	if i > len(n.Children) {
		i = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
	child.Parent = n
}
