package taxonomy

import "cogentcore.org/core/base/keylist"

// Kind distinguishes leaves from internal nodes.
type Kind int

const (
	// KindInternal nodes own children and no row. An empty root is internal.
	KindInternal Kind = iota
	// KindLeaf nodes own exactly one source row and no children.
	KindLeaf
)

func (k Kind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "internal"
}

// Node is one distinct path prefix.
type Node struct {
	Name  string
	Depth int

	kind     Kind
	children keylist.List[string, *Node]
	row      *Row
}

// Kind reports whether the node is a leaf or internal.
func (n *Node) Kind() Kind { return n.kind }

// IsLeaf reports whether the node owns a source row.
func (n *Node) IsLeaf() bool { return n.kind == KindLeaf }

// Children returns the children in first-seen order.
func (n *Node) Children() []*Node { return n.children.Values }

// Child looks up a direct child by name.
func (n *Node) Child(name string) (*Node, bool) {
	return n.children.AtTry(name)
}

// Row returns the source row of a leaf.
func (n *Node) Row() (Row, bool) {
	if n.kind != KindLeaf || n.row == nil {
		return Row{}, false
	}
	return *n.row, true
}

// Links returns the navigation links of the source row, if any.
func (n *Node) Links() []Link {
	if r, ok := n.Row(); ok {
		return r.Links
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children.Values {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool { count++; return true })
	return count
}

// Height returns the depth of the deepest node below n, relative to n.
func (n *Node) Height() int {
	h := 0
	for _, c := range n.children.Values {
		h = max(h, c.Height()+1)
	}
	return h
}

// Find descends from n along names.
func (n *Node) Find(names ...string) (*Node, bool) {
	cur := n
	for _, name := range names {
		next, ok := cur.Child(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (n *Node) child(name string) *Node {
	if c, ok := n.children.AtTry(name); ok {
		return c
	}
	c := &Node{Name: name, Depth: n.Depth + 1}
	n.children.Set(name, c)
	return c
}
