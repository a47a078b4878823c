package dom

// Document owns a tree of nodes rooted at a document node holding
// <html><head></head><body></body></html>.
type Document struct {
	nextID   int64
	nodes    map[int64]*Node
	root     *Node
	html     *Node
	head     *Node
	body     *Node
	recorder *Recorder
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{nodes: make(map[int64]*Node)}
	d.root = d.newNode(DocumentNode)
	d.nodes[d.root.ID] = d.root
	d.html = d.CreateElement("html", HTMLNamespace)
	d.head = d.CreateElement("head", HTMLNamespace)
	d.body = d.CreateElement("body", HTMLNamespace)
	d.html.AppendChild(d.head)
	d.html.AppendChild(d.body)
	d.root.AppendChild(d.html)
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *Node { return d.body }

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{ID: d.nextID, Type: t, doc: d}
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag, namespace string) *Node {
	n := d.newNode(ElementNode)
	n.Tag = tag
	n.Namespace = namespace
	return n
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	n := d.newNode(TextNode)
	n.Text = text
	return n
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(text string) *Node {
	n := d.newNode(CommentNode)
	n.Text = text
	return n
}

// NodeByID returns the connected node with the given ID.
func (d *Document) NodeByID(id int64) *Node {
	n := d.nodes[id]
	if n == nil || !n.Connected() {
		return nil
	}
	return n
}

// Record attaches r to receive mutations of the connected tree. Pass nil to
// stop recording.
func (d *Document) Record(r *Recorder) {
	d.recorder = r
}

func (d *Document) record(n *Node, m Mutation) {
	if d == nil || d.recorder == nil || !n.Connected() {
		return
	}
	d.recorder.add(m)
}

func (d *Document) remember(n *Node) {
	if d == nil {
		return
	}
	n.Walk(func(c *Node) bool {
		d.nodes[c.ID] = c
		return true
	})
}

func (d *Document) forget(n *Node) {
	if d == nil {
		return
	}
	n.Walk(func(c *Node) bool {
		delete(d.nodes, c.ID)
		return true
	})
}
