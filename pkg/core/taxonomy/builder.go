package taxonomy

// BuildStats summarizes one fold.
type BuildStats struct {
	Rows        int `json:"rows"`
	Overwritten int `json:"overwritten"`
	Shadowed    int `json:"shadowed"`
	NullSkipped int `json:"null_skipped"`
}

// Builder folds rows into a tree one at a time. A Builder is not safe for
// concurrent use.
type Builder struct {
	includeNull bool
	root        *Node
	stats       BuildStats
	done        bool
}

// NewBuilder returns a Builder. When includeNull is false, null path
// segments are skipped.
func NewBuilder(includeNull bool) *Builder {
	return &Builder{
		includeNull: includeNull,
		root:        &Node{Name: RootName},
	}
}

// Add folds one row into the tree. Calls after Finish are ignored.
func (b *Builder) Add(row Row) {
	if b.done {
		return
	}
	b.stats.Rows++

	cur := b.root
	for _, k := range row.Path {
		if k.Null && !b.includeNull {
			b.stats.NullSkipped++
			continue
		}
		cur = cur.child(k.String())
	}

	if cur.row != nil {
		b.stats.Overwritten++
	}
	r := row
	cur.row = &r
}

// Finish freezes the tree and returns its root. Nodes that received a row
// and also have children drop the row.
func (b *Builder) Finish() (*Node, BuildStats) {
	if !b.done {
		b.done = true
		b.root.Walk(func(n *Node) bool {
			switch {
			case len(n.children.Values) > 0:
				if n.row != nil {
					b.stats.Shadowed++
					n.row = nil
				}
				n.kind = KindInternal
			case n.row != nil:
				n.kind = KindLeaf
			default:
				n.kind = KindInternal
			}
			return true
		})
	}
	return b.root, b.stats
}

// Build folds rows into a tree in one call.
func Build(rows []Row, includeNull bool) *Node {
	root, _ := BuildWithStats(rows, includeNull)
	return root
}

// BuildWithStats is Build that also reports fold statistics.
func BuildWithStats(rows []Row, includeNull bool) (*Node, BuildStats) {
	b := NewBuilder(includeNull)
	for _, r := range rows {
		b.Add(r)
	}
	return b.Finish()
}
