// Package partition computes the sunburst partition of a taxonomy tree.
//
// Compute aggregates leaf values bottom-up and then splits the full circle
// among the root's children in proportion to value, recursively. Radial
// bounds are uniform per depth in area units, so drawing each ring at
// sqrt(y) gives every level the same visual area.
//
// The result is a flat [Layout] indexed by node ID. IDs are assigned in
// breadth-first order with children in first-seen order, which is also the
// draw order. ID 0 is always the root.
package partition

import (
	"math"

	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
)

// FullCircle is the root's angular span.
const FullCircle = 2 * math.Pi

// DefaultRadius is used when Options.Radius is not positive.
const DefaultRadius = 100.0

// LeafValue extracts a leaf's value. Negative and non-finite results are
// clamped to 0.
type LeafValue func(*taxonomy.Node) float64

// MeasureValue reads the leaf's source-row measure.
func MeasureValue(n *taxonomy.Node) float64 {
	row, ok := n.Row()
	if !ok {
		return 0
	}
	return row.Measure.Float()
}

// Options configures Compute.
type Options struct {
	// Radius is the outer radius of the outermost ring in drawing units.
	Radius float64
}

// Node is one laid-out tree node.
type Node struct {
	ID       int
	Name     string
	Depth    int
	Parent   int // -1 for the root
	Children []int

	Value float64

	// X0 and X1 bound the angular span in radians, clockwise from 12 o'clock.
	X0, X1 float64
	// Y0 and Y1 bound the radial span in area units (radius squared).
	Y0, Y1 float64

	Leaf    bool
	Measure taxonomy.Measure
	Links   []taxonomy.Link
}

// Span returns the angular width.
func (n Node) Span() float64 { return n.X1 - n.X0 }

// Layout is a computed partition.
type Layout struct {
	Nodes    []Node
	Radius   float64
	MaxDepth int
	// Unit is the radial band width in area units.
	Unit float64
}

// Compute lays out the tree rooted at root.
func Compute(root *taxonomy.Node, leafValue LeafValue, opts Options) *Layout {
	if leafValue == nil {
		leafValue = MeasureValue
	}
	radius := opts.Radius
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = DefaultRadius
	}

	l := &Layout{Radius: radius}
	if root == nil {
		root = taxonomy.Build(nil, false)
	}

	// Breadth-first flattening: parents always precede their children.
	type item struct {
		n      *taxonomy.Node
		parent int
	}
	queue := []item{{n: root, parent: -1}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		id := len(l.Nodes)
		node := Node{
			ID:     id,
			Name:   it.n.Name,
			Depth:  it.n.Depth,
			Parent: it.parent,
			Leaf:   it.n.IsLeaf(),
			Links:  it.n.Links(),
		}
		if row, ok := it.n.Row(); ok {
			node.Measure = row.Measure
		}
		if node.Leaf {
			node.Value = clamp(leafValue(it.n))
		}
		l.Nodes = append(l.Nodes, node)
		if it.parent >= 0 {
			p := &l.Nodes[it.parent]
			p.Children = append(p.Children, id)
		}
		l.MaxDepth = max(l.MaxDepth, node.Depth)

		for _, c := range it.n.Children() {
			queue = append(queue, item{n: c, parent: id})
		}
	}

	// Post-order aggregation: walking BFS order backwards visits every child
	// before its parent. Spans are split on leaf values scaled by the largest
	// leaf, which cannot overflow; Value saturates at MaxFloat64.
	scale := 0.0
	for _, n := range l.Nodes {
		scale = max(scale, n.Value)
	}
	weight := make([]float64, len(l.Nodes))
	if scale > 0 {
		for i, n := range l.Nodes {
			weight[i] = n.Value / scale
		}
	}
	for i := len(l.Nodes) - 1; i > 0; i-- {
		p := l.Nodes[i].Parent
		weight[p] += weight[i]
		l.Nodes[p].Value = saturate(l.Nodes[p].Value + l.Nodes[i].Value)
	}

	l.Unit = radius * radius / float64(l.MaxDepth+1)

	l.Nodes[0].X0, l.Nodes[0].X1 = 0, FullCircle
	for i := range l.Nodes {
		n := &l.Nodes[i]
		n.Y0 = float64(n.Depth) * l.Unit
		n.Y1 = float64(n.Depth+1) * l.Unit
		l.split(n, weight)
	}
	return l
}

// split assigns the angular spans of n's children in proportion to their
// weights.
func (l *Layout) split(n *Node, weight []float64) {
	if len(n.Children) == 0 {
		return
	}
	span := n.X1 - n.X0
	total := weight[n.ID]
	if total <= 0 {
		for _, c := range n.Children {
			l.Nodes[c].X0, l.Nodes[c].X1 = n.X0, n.X0
		}
		return
	}

	cum := 0.0
	x := n.X0
	last := len(n.Children) - 1
	for i, c := range n.Children {
		child := &l.Nodes[c]
		cum += weight[c]
		child.X0 = x
		if i == last {
			child.X1 = n.X1
		} else {
			child.X1 = n.X0 + cum/total*span
		}
		x = child.X1
	}
}

func saturate(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func clamp(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Root returns the root node.
func (l *Layout) Root() *Node { return &l.Nodes[0] }

// Len returns the number of nodes, root included.
func (l *Layout) Len() int { return len(l.Nodes) }

// Node returns the node with the given ID.
func (l *Layout) Node(id int) (*Node, bool) {
	if id < 0 || id >= len(l.Nodes) {
		return nil, false
	}
	return &l.Nodes[id], true
}

// Total returns the root value.
func (l *Layout) Total() float64 { return l.Nodes[0].Value }

// Lineage returns the IDs from the root down to id, both included.
func (l *Layout) Lineage(id int) []int {
	if _, ok := l.Node(id); !ok {
		return nil
	}
	var up []int
	for cur := id; cur >= 0; cur = l.Nodes[cur].Parent {
		up = append(up, cur)
	}
	for i, j := 0, len(up)-1; i < j; i, j = i+1, j-1 {
		up[i], up[j] = up[j], up[i]
	}
	return up
}

// Chain returns the IDs from the root's child down to id, excluding the
// root and including id. The chain of the root is empty.
func (l *Layout) Chain(id int) []int {
	lin := l.Lineage(id)
	if len(lin) == 0 {
		return nil
	}
	return lin[1:]
}

// Ancestors returns the strict ancestors of id below the root, root-down.
func (l *Layout) Ancestors(id int) []int {
	chain := l.Chain(id)
	if len(chain) == 0 {
		return nil
	}
	return chain[:len(chain)-1]
}

// Path returns the names along Chain(id).
func (l *Layout) Path(id int) []string {
	chain := l.Chain(id)
	out := make([]string, len(chain))
	for i, c := range chain {
		out[i] = l.Nodes[c].Name
	}
	return out
}

// Find resolves a name path below the root to a node ID.
func (l *Layout) Find(names ...string) (int, bool) {
	cur := 0
	for _, name := range names {
		next := -1
		for _, c := range l.Nodes[cur].Children {
			if l.Nodes[c].Name == name {
				next = c
				break
			}
		}
		if next < 0 {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// Leaves returns the IDs of all leaf nodes in draw order.
func (l *Layout) Leaves() []int {
	var out []int
	for _, n := range l.Nodes {
		if n.Leaf {
			out = append(out, n.ID)
		}
	}
	return out
}
