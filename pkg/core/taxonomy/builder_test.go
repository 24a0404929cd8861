package taxonomy

import (
	"reflect"
	"testing"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name        string
		rows        []Row
		includeNull bool
		check       func(t *testing.T, root *Node)
	}{
		{
			name: "Empty",
			rows: nil,
			check: func(t *testing.T, root *Node) {
				if root.Name != RootName {
					t.Errorf("root name = %q, want %q", root.Name, RootName)
				}
				if len(root.Children()) != 0 {
					t.Errorf("children = %d, want 0", len(root.Children()))
				}
				if root.Kind() != KindInternal {
					t.Errorf("kind = %v, want internal", root.Kind())
				}
			},
		},
		{
			name: "SharedPrefix",
			rows: []Row{
				{Path: Path("A", "X"), Measure: M(3)},
				{Path: Path("A", "Y"), Measure: M(1)},
				{Path: Path("B"), Measure: M(4)},
			},
			check: func(t *testing.T, root *Node) {
				if got := names(root.Children()); !reflect.DeepEqual(got, []string{"A", "B"}) {
					t.Errorf("root children = %v, want [A B]", got)
				}
				a, _ := root.Child("A")
				if got := names(a.Children()); !reflect.DeepEqual(got, []string{"X", "Y"}) {
					t.Errorf("A children = %v, want [X Y]", got)
				}
				if a.IsLeaf() {
					t.Error("A should be internal")
				}
				b, _ := root.Child("B")
				row, ok := b.Row()
				if !ok || row.Measure.Value != 4 {
					t.Errorf("B row = %+v, %v", row, ok)
				}
			},
		},
		{
			name: "FirstSeenOrder",
			rows: []Row{
				{Path: Path("z", "1")},
				{Path: Path("a", "1")},
				{Path: Path("z", "0")},
				{Path: Path("m")},
			},
			check: func(t *testing.T, root *Node) {
				if got := names(root.Children()); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
					t.Errorf("root children = %v, want [z a m]", got)
				}
				z, _ := root.Child("z")
				if got := names(z.Children()); !reflect.DeepEqual(got, []string{"1", "0"}) {
					t.Errorf("z children = %v, want [1 0]", got)
				}
			},
		},
		{
			name: "NullSkipped",
			rows: []Row{{Path: []Key{Null(), K("X")}, Measure: M(10)}},
			check: func(t *testing.T, root *Node) {
				if got := names(root.Children()); !reflect.DeepEqual(got, []string{"X"}) {
					t.Errorf("root children = %v, want [X]", got)
				}
			},
		},
		{
			name:        "NullKept",
			rows:        []Row{{Path: []Key{Null(), K("X")}, Measure: M(10)}},
			includeNull: true,
			check: func(t *testing.T, root *Node) {
				n, ok := root.Find(NullLabel, "X")
				if !ok {
					t.Fatal("null/X not found")
				}
				if !n.IsLeaf() {
					t.Error("X should be a leaf")
				}
			},
		},
		{
			name: "AllNullFoldsIntoRoot",
			rows: []Row{{Path: []Key{Null(), Null()}, Measure: M(2)}},
			check: func(t *testing.T, root *Node) {
				if len(root.Children()) != 0 {
					t.Errorf("children = %d, want 0", len(root.Children()))
				}
				row, ok := root.Row()
				if !ok || row.Measure.Value != 2 {
					t.Errorf("root row = %+v, %v", row, ok)
				}
			},
		},
		{
			name: "DuplicatePathLastWins",
			rows: []Row{
				{Path: Path("A"), Measure: M(1)},
				{Path: Path("A"), Measure: M(7)},
			},
			check: func(t *testing.T, root *Node) {
				a, _ := root.Child("A")
				row, _ := a.Row()
				if row.Measure.Value != 7 {
					t.Errorf("A measure = %v, want 7", row.Measure.Value)
				}
			},
		},
		{
			name: "PrefixRowShadowed",
			rows: []Row{
				{Path: Path("A"), Measure: M(5)},
				{Path: Path("A", "B"), Measure: M(2)},
			},
			check: func(t *testing.T, root *Node) {
				a, _ := root.Child("A")
				if a.IsLeaf() {
					t.Error("A should be internal")
				}
				if _, ok := a.Row(); ok {
					t.Error("A should not keep its row")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Build(tt.rows, tt.includeNull))
		})
	}
}

func TestBuildStats(t *testing.T) {
	rows := []Row{
		{Path: Path("A"), Measure: M(1)},
		{Path: Path("A"), Measure: M(2)},
		{Path: Path("A", "B"), Measure: M(3)},
		{Path: []Key{Null(), K("C")}, Measure: M(4)},
	}
	_, stats := BuildWithStats(rows, false)
	want := BuildStats{Rows: 4, Overwritten: 1, Shadowed: 1, NullSkipped: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	rows := []Row{
		{Path: Path("q", "w")},
		{Path: Path("e")},
		{Path: Path("q", "r")},
		{Path: []Key{Null(), K("t")}},
	}
	var first []string
	for i := range 5 {
		var order []string
		Build(rows, true).Walk(func(n *Node) bool {
			order = append(order, n.Name)
			return true
		})
		if i == 0 {
			first = order
			continue
		}
		if !reflect.DeepEqual(order, first) {
			t.Fatalf("run %d order = %v, want %v", i, order, first)
		}
	}
}

func TestBuilderAddAfterFinish(t *testing.T) {
	b := NewBuilder(false)
	b.Add(Row{Path: Path("A")})
	root, _ := b.Finish()
	b.Add(Row{Path: Path("B")})
	if root.Count() != 2 {
		t.Errorf("count = %d, want 2", root.Count())
	}
}

func TestNodeHeight(t *testing.T) {
	root := Build([]Row{
		{Path: Path("a", "b", "c")},
		{Path: Path("d")},
	}, false)
	if h := root.Height(); h != 3 {
		t.Errorf("height = %d, want 3", h)
	}
}

func TestMeasureFloat(t *testing.T) {
	tests := []struct {
		m    Measure
		want float64
	}{
		{M(3.5), 3.5},
		{M(-2), 0},
		{Measure{}, 0},
		{Measure{Value: 9}, 0},
	}
	for _, tt := range tests {
		if got := tt.m.Float(); got != tt.want {
			t.Errorf("%+v.Float() = %v, want %v", tt.m, got, tt.want)
		}
	}
}
