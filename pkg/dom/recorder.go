package dom

// Op is the kind of a Mutation.
type Op string

const (
	OpInsert     Op = "insert"
	OpMove       Op = "move"
	OpRemove     Op = "remove"
	OpSetAttr    Op = "attr"
	OpRemoveAttr Op = "removeAttr"
	OpSetProp    Op = "prop"
	OpSetText    Op = "text"
)

// Mutation is one recorded change to a connected tree.
//
// Insert and move place node ID after the node After inside Parent; an
// After of zero means first child. Inserts carry a Snapshot of the new
// subtree.
type Mutation struct {
	Op     Op        `json:"op"`
	ID     int64     `json:"id"`
	Parent int64     `json:"parent,omitempty"`
	After  int64     `json:"after,omitempty"`
	Node   *Snapshot `json:"node,omitempty"`
	Name   string    `json:"name,omitempty"`
	Value  any       `json:"value,omitempty"`
}

// Recorder accumulates mutations until they are taken.
type Recorder struct {
	muts   []Mutation
	notify func()
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnRecord sets fn to be called whenever a mutation is recorded into an
// empty buffer.
func (r *Recorder) OnRecord(fn func()) {
	r.notify = fn
}

func (r *Recorder) add(m Mutation) {
	r.muts = append(r.muts, m)
	if len(r.muts) == 1 && r.notify != nil {
		r.notify()
	}
}

// Len returns the number of pending mutations.
func (r *Recorder) Len() int {
	return len(r.muts)
}

// Take returns the pending mutations and clears them.
func (r *Recorder) Take() []Mutation {
	out := r.muts
	r.muts = nil
	return out
}

// Snapshot is a serializable copy of a subtree.
type Snapshot struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Tag       string            `json:"tag,omitempty"`
	Namespace string            `json:"ns,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Props     map[string]any    `json:"props,omitempty"`
	Text      string            `json:"text,omitempty"`
	Children  []*Snapshot       `json:"children,omitempty"`
}

// Snapshot copies n and its descendants.
func (n *Node) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:        n.ID,
		Type:      n.Type.String(),
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Text:      n.Text,
	}
	if len(n.attrs) > 0 {
		s.Attrs = make(map[string]string, len(n.attrs))
		for _, a := range n.attrs {
			s.Attrs[a.Name] = a.Value
		}
	}
	if len(n.props) > 0 {
		s.Props = make(map[string]any, len(n.props))
		for k, v := range n.props {
			s.Props[k] = v
		}
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}
