// Package dom provides the Document Object Model tree structure: an
// arena of Nodes addressed by dense NodeID, built by htmltree and
// consumed by selector/style/layout.
//
// Nodes are addressed by NodeID rather than *Node so later stages can
// hold cheap, copyable references into the tree instead of pointers.
package dom

// NodeID addresses a Node within a Document's arena. The zero value is
// never a valid node (index 0 of the arena is reserved).
type NodeID int32

// NodeKind is the DOM node type.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindText
	KindComment
	KindDoctype
)

// Node is one entry in a Document's arena.
type Node struct {
	Kind NodeKind

	// Element-only fields.
	Tag         Tag
	UnknownName string // set when Tag == TagUnknown
	Attrs       map[string]string
	SelfClosing bool

	// Text/Comment/Doctype data.
	Text string

	Parent      NodeID
	FirstChild  NodeID
	LastChild   NodeID
	NextSibling NodeID
	PrevSibling NodeID
}

// TagName returns the element's tag name: the known Tag's canonical
// string, or the preserved original name for TagUnknown.
func (n *Node) TagName() string {
	if n.Kind != KindElement {
		return ""
	}
	if n.Tag == TagUnknown {
		return n.UnknownName
	}
	return n.Tag.String()
}

// GetAttribute returns an attribute value, or "" if absent.
func (n *Node) GetAttribute(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	if n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[name]
	return ok
}

// SetAttribute sets an attribute on this node.
func (n *Node) SetAttribute(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// ID returns the element's id attribute.
func (n *Node) ID() string { return n.GetAttribute("id") }

// Classes returns the element's class list, split on ASCII whitespace.
func (n *Node) Classes() []string {
	class := n.GetAttribute("class")
	if class == "" {
		return nil
	}
	var classes []string
	start := -1
	for i := 0; i <= len(class); i++ {
		atEnd := i == len(class)
		isSpace := !atEnd && (class[i] == ' ' || class[i] == '\t' || class[i] == '\n' || class[i] == '\f' || class[i] == '\r')
		if atEnd || isSpace {
			if start >= 0 {
				classes = append(classes, class[start:i])
			}
			start = -1
		} else if start < 0 {
			start = i
		}
	}
	return classes
}

// Document is an arena of Nodes rooted at Root (the #document node).
type Document struct {
	nodes []Node
	Root  NodeID
}

// NewDocument creates an empty Document with its root #document node
// already allocated.
func NewDocument() *Document {
	d := &Document{nodes: make([]Node, 1)} // index 0 reserved as invalid
	d.Root = d.alloc(Node{Kind: KindDocument})
	return d
}

func (d *Document) alloc(n Node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// Node dereferences id. id must be a value returned by one of this
// Document's Create*/Root methods.
func (d *Document) Node(id NodeID) *Node { return &d.nodes[id] }

// Valid reports whether id addresses a real node in this arena.
func (d *Document) Valid(id NodeID) bool { return id > 0 && int(id) < len(d.nodes) }

// CreateElement allocates a new, parentless element node.
func (d *Document) CreateElement(tag Tag, unknownName string) NodeID {
	return d.alloc(Node{Kind: KindElement, Tag: tag, UnknownName: unknownName, Attrs: make(map[string]string)})
}

// CreateText allocates a new, parentless text node.
func (d *Document) CreateText(text string) NodeID {
	return d.alloc(Node{Kind: KindText, Text: text})
}

// CreateComment allocates a new, parentless comment node.
func (d *Document) CreateComment(text string) NodeID {
	return d.alloc(Node{Kind: KindComment, Text: text})
}

// CreateDoctype allocates a new, parentless doctype node.
func (d *Document) CreateDoctype(name string) NodeID {
	return d.alloc(Node{Kind: KindDoctype, Text: name})
}

// AppendChild appends child to parent's child list, detaching child from
// any previous position first.
func (d *Document) AppendChild(parent, child NodeID) {
	d.DetachFromParent(child)
	p := d.Node(parent)
	c := d.Node(child)
	c.Parent = parent
	c.PrevSibling = 0
	c.NextSibling = 0
	if p.LastChild == 0 {
		p.FirstChild = child
		p.LastChild = child
		return
	}
	last := d.Node(p.LastChild)
	last.NextSibling = child
	c.PrevSibling = p.LastChild
	p.LastChild = child
}

// DetachFromParent removes id from its current parent's child list, if any.
func (d *Document) DetachFromParent(id NodeID) {
	n := d.Node(id)
	if n.Parent == 0 {
		return
	}
	parent := d.Node(n.Parent)
	if n.PrevSibling != 0 {
		d.Node(n.PrevSibling).NextSibling = n.NextSibling
	} else {
		parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != 0 {
		d.Node(n.NextSibling).PrevSibling = n.PrevSibling
	} else {
		parent.LastChild = n.PrevSibling
	}
	n.Parent = 0
	n.PrevSibling = 0
	n.NextSibling = 0
}

// Children returns id's children in document order. Allocates a slice;
// callers walking large trees should prefer FirstChild/NextSibling.
func (d *Document) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := d.Node(id).FirstChild; c != 0; c = d.Node(c).NextSibling {
		out = append(out, c)
	}
	return out
}

// Parent returns id's parent, or 0 if id is the root or detached.
func (d *Document) Parent(id NodeID) NodeID { return d.Node(id).Parent }

// Walk performs a pre-order traversal of the subtree rooted at id,
// calling visit for each node including id itself. Traversal stops early
// if visit returns false.
func (d *Document) Walk(id NodeID, visit func(NodeID) bool) {
	if !visit(id) {
		return
	}
	for c := d.Node(id).FirstChild; c != 0; c = d.Node(c).NextSibling {
		d.Walk(c, visit)
	}
}
