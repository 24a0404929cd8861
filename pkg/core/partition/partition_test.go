package partition

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func layoutOf(rows []taxonomy.Row) *Layout {
	return Compute(taxonomy.Build(rows, false), nil, Options{Radius: 100})
}

func sample() []taxonomy.Row {
	return []taxonomy.Row{
		{Path: taxonomy.Path("A", "X"), Measure: taxonomy.M(3)},
		{Path: taxonomy.Path("A", "Y"), Measure: taxonomy.M(1)},
		{Path: taxonomy.Path("B"), Measure: taxonomy.M(4)},
	}
}

func TestComputeSpans(t *testing.T) {
	l := layoutOf(sample())

	a, _ := l.Find("A")
	b, _ := l.Find("B")
	x, _ := l.Find("A", "X")
	y, _ := l.Find("A", "Y")

	tests := []struct {
		name   string
		id     int
		x0, x1 float64
		value  float64
	}{
		{"Root", 0, 0, FullCircle, 8},
		{"A", a, 0, math.Pi, 4},
		{"B", b, math.Pi, FullCircle, 4},
		{"X", x, 0, 3 * math.Pi / 4, 3},
		{"Y", y, 3 * math.Pi / 4, math.Pi, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := l.Nodes[tt.id]
			if !near(n.X0, tt.x0) || !near(n.X1, tt.x1) {
				t.Errorf("span = [%v, %v], want [%v, %v]", n.X0, n.X1, tt.x0, tt.x1)
			}
			if !near(n.Value, tt.value) {
				t.Errorf("value = %v, want %v", n.Value, tt.value)
			}
		})
	}
}

func TestComputeChildrenPartitionParent(t *testing.T) {
	rows := []taxonomy.Row{
		{Path: taxonomy.Path("a", "1"), Measure: taxonomy.M(0.1)},
		{Path: taxonomy.Path("a", "2"), Measure: taxonomy.M(0.2)},
		{Path: taxonomy.Path("a", "3"), Measure: taxonomy.M(0.3)},
		{Path: taxonomy.Path("b", "1", "x"), Measure: taxonomy.M(7)},
		{Path: taxonomy.Path("b", "1", "y"), Measure: taxonomy.M(11)},
		{Path: taxonomy.Path("c"), Measure: taxonomy.M(1.0 / 3)},
	}
	l := layoutOf(rows)

	for _, n := range l.Nodes {
		if len(n.Children) == 0 {
			continue
		}
		first := l.Nodes[n.Children[0]]
		last := l.Nodes[n.Children[len(n.Children)-1]]
		if first.X0 != n.X0 {
			t.Errorf("%s: first child starts at %v, want %v", n.Name, first.X0, n.X0)
		}
		if n.Value > 0 && last.X1 != n.X1 {
			t.Errorf("%s: last child ends at %v, want %v", n.Name, last.X1, n.X1)
		}
		sum := 0.0
		for i, c := range n.Children {
			sum += l.Nodes[c].Value
			if i > 0 && l.Nodes[n.Children[i-1]].X1 != l.Nodes[c].X0 {
				t.Errorf("%s: gap between children %d and %d", n.Name, i-1, i)
			}
		}
		if !near(sum, n.Value) {
			t.Errorf("%s: children sum = %v, want %v", n.Name, sum, n.Value)
		}
	}
}

func TestComputeRadialBands(t *testing.T) {
	l := layoutOf(sample())

	if l.MaxDepth != 2 {
		t.Fatalf("max depth = %d, want 2", l.MaxDepth)
	}
	wantUnit := 100.0 * 100.0 / 3
	if !near(l.Unit, wantUnit) {
		t.Errorf("unit = %v, want %v", l.Unit, wantUnit)
	}
	for _, n := range l.Nodes {
		if !near(n.Y0, float64(n.Depth)*wantUnit) || !near(n.Y1, float64(n.Depth+1)*wantUnit) {
			t.Errorf("%s: radial = [%v, %v]", n.Name, n.Y0, n.Y1)
		}
	}
	outer := l.Nodes[len(l.Nodes)-1]
	if !near(math.Sqrt(outer.Y1), 100) {
		t.Errorf("outer radius = %v, want 100", math.Sqrt(outer.Y1))
	}
}

func TestComputeZeroTotal(t *testing.T) {
	rows := []taxonomy.Row{
		{Path: taxonomy.Path("A"), Measure: taxonomy.M(0)},
		{Path: taxonomy.Path("B"), Measure: taxonomy.Measure{}},
	}
	l := layoutOf(rows)

	for _, id := range l.Root().Children {
		n := l.Nodes[id]
		if n.X0 != 0 || n.X1 != 0 {
			t.Errorf("%s: span = [%v, %v], want zero width at 0", n.Name, n.X0, n.X1)
		}
		if math.IsNaN(n.X0) || math.IsNaN(n.X1) {
			t.Errorf("%s: NaN span", n.Name)
		}
	}
}

func TestComputeNegativeClamped(t *testing.T) {
	rows := []taxonomy.Row{
		{Path: taxonomy.Path("A"), Measure: taxonomy.M(-5)},
		{Path: taxonomy.Path("B"), Measure: taxonomy.M(5)},
	}
	l := layoutOf(rows)

	a, _ := l.Find("A")
	b, _ := l.Find("B")
	if l.Nodes[a].Value != 0 {
		t.Errorf("A value = %v, want 0", l.Nodes[a].Value)
	}
	if l.Nodes[a].Span() != 0 {
		t.Errorf("A span = %v, want 0", l.Nodes[a].Span())
	}
	if !near(l.Nodes[b].Span(), FullCircle) {
		t.Errorf("B span = %v, want full circle", l.Nodes[b].Span())
	}
}

func TestComputeCustomLeafValue(t *testing.T) {
	root := taxonomy.Build(sample(), false)
	l := Compute(root, func(*taxonomy.Node) float64 { return 1 }, Options{})

	if l.Total() != 3 {
		t.Errorf("total = %v, want 3", l.Total())
	}
	if l.Radius != DefaultRadius {
		t.Errorf("radius = %v, want %v", l.Radius, DefaultRadius)
	}
}

func TestComputeEmpty(t *testing.T) {
	l := Compute(nil, nil, Options{Radius: 50})
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
	if l.MaxDepth != 0 || !near(l.Unit, 2500) {
		t.Errorf("max depth = %d, unit = %v", l.MaxDepth, l.Unit)
	}
}

func TestChainAndAncestors(t *testing.T) {
	l := layoutOf(sample())
	a, _ := l.Find("A")
	x, _ := l.Find("A", "X")

	tests := []struct {
		name      string
		id        int
		chain     []int
		ancestors []int
		lineage   []int
	}{
		{"Root", 0, []int{}, nil, []int{0}},
		{"A", a, []int{a}, []int{}, []int{0, a}},
		{"X", x, []int{a, x}, []int{a}, []int{0, a, x}},
		{"Unknown", 99, nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Chain(tt.id); !reflect.DeepEqual(got, tt.chain) {
				t.Errorf("Chain = %v, want %v", got, tt.chain)
			}
			if got := l.Ancestors(tt.id); !reflect.DeepEqual(got, tt.ancestors) {
				t.Errorf("Ancestors = %v, want %v", got, tt.ancestors)
			}
			if got := l.Lineage(tt.id); !reflect.DeepEqual(got, tt.lineage) {
				t.Errorf("Lineage = %v, want %v", got, tt.lineage)
			}
		})
	}

	if got := l.Path(x); !reflect.DeepEqual(got, []string{"A", "X"}) {
		t.Errorf("Path = %v, want [A X]", got)
	}
}

func TestBreadthFirstIDs(t *testing.T) {
	l := layoutOf(sample())
	var got []string
	for _, n := range l.Nodes {
		got = append(got, n.Name)
	}
	want := []string{"root", "A", "B", "X", "Y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if got := l.Leaves(); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Errorf("leaves = %v, want [2 3 4]", got)
	}
}

func TestComputeHugeMeasures(t *testing.T) {
	rows := []taxonomy.Row{
		{Path: taxonomy.Path("A"), Measure: taxonomy.M(math.MaxFloat64)},
		{Path: taxonomy.Path("B"), Measure: taxonomy.M(math.MaxFloat64)},
	}
	l := layoutOf(rows)

	if root := l.Nodes[0].Value; math.IsInf(root, 0) || root != math.MaxFloat64 {
		t.Errorf("root value = %v, want MaxFloat64", root)
	}
	for _, name := range []string{"A", "B"} {
		id, _ := l.Find(name)
		if s := l.Nodes[id].Span(); !near(s, math.Pi) {
			t.Errorf("%s span = %v, want pi", name, s)
		}
	}
}
