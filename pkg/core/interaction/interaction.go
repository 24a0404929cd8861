// Package interaction tracks which node of a sunburst is hovered and
// derives everything the chart shows for that state.
//
// The [Machine] has two states, idle and hovering. Every transition returns
// a complete [Frame]: per-node opacity, the emphasized node set, the centre
// label and the breadcrumb trail. Frames are computed in full before the
// machine's state changes, so moving from one hovered node to another never
// passes through an idle frame.
//
// The machine only reads the layout it was reset with. Each [Machine.Reset]
// starts a new epoch; a [Ref] minted in an older epoch is stale and entering
// it is a no-op.
//
// A Machine is not safe for concurrent use. Callers that receive events
// from several goroutines must serialize them.
package interaction

import (
	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/breadcrumb"
	"github.com/matzehuels/sunburst/pkg/core/color"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/partition"
)

// State is the machine state.
type State int

const (
	Idle State = iota
	Hovering
)

func (s State) String() string {
	if s == Hovering {
		return "hovering"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	if string(b) == "hovering" {
		*s = Hovering
	} else {
		*s = Idle
	}
	return nil
}

// Ref identifies a node within one epoch.
type Ref struct {
	Epoch uint64 `json:"epoch"`
	ID    int    `json:"node"`
}

// Frame is everything derived from one machine state.
type Frame struct {
	Epoch uint64 `json:"epoch"`
	State State  `json:"state"`
	// Node is the hovered node, or -1 when idle.
	Node int `json:"node"`
	// Chain runs from the root's child down to Node. It is empty when idle
	// or when the root is hovered.
	Chain []int `json:"chain"`
	// Emphasized holds the root and Chain while hovering.
	Emphasized []int `json:"emphasized"`
	// Opacity is the fill opacity of every node, indexed by ID.
	Opacity []float64 `json:"opacity"`

	Percentage    string `json:"percentage,omitempty"`
	HasPercentage bool   `json:"has_percentage"`
	Value         string `json:"value,omitempty"`
	// CenterLabel is shown in the chart's hole while hovering.
	CenterLabel string `json:"center_label,omitempty"`

	Trail breadcrumb.Trail `json:"trail"`
}

// IsEmphasized reports whether id is on the hovered chain or is the root
// of a hovered chart.
func (f Frame) IsEmphasized(id int) bool {
	for _, e := range f.Emphasized {
		if e == id {
			return true
		}
	}
	return false
}

// Options configures a Machine.
type Options struct {
	Config config.Chart
	// Format renders absolute values. Defaults to format.Default.
	Format format.Formatter
}

// Machine is the hover state machine for one chart.
type Machine struct {
	opts    Options
	layout  *partition.Layout
	palette *color.Palette
	epoch   uint64
	frame   Frame
}

// New returns a Machine with no layout. Every Enter is a no-op until Reset
// is called.
func New(opts Options) *Machine {
	if opts.Format == nil {
		opts.Format = format.Default
	}
	m := &Machine{opts: opts}
	m.frame = Frame{Node: -1}
	return m
}

// Reset installs a new layout, discards the previous state and returns the
// new epoch. The machine is idle afterwards.
func (m *Machine) Reset(l *partition.Layout) uint64 {
	m.epoch++
	m.layout = l
	m.palette = nil
	if l != nil {
		m.palette = color.NewPalette(l, m.opts.Config)
	}
	m.frame = m.idle()
	return m.epoch
}

// Epoch returns the current epoch.
func (m *Machine) Epoch() uint64 { return m.epoch }

// Layout returns the installed layout.
func (m *Machine) Layout() *partition.Layout { return m.layout }

// Palette returns the fills of the installed layout.
func (m *Machine) Palette() *color.Palette { return m.palette }

// Ref mints a reference to node id in the current epoch.
func (m *Machine) Ref(id int) Ref { return Ref{Epoch: m.epoch, ID: id} }

// Current returns the frame of the current state.
func (m *Machine) Current() Frame { return m.frame }

// State returns the current state.
func (m *Machine) State() State { return m.frame.State }

// Valid reports whether ref names a node of the installed layout.
func (m *Machine) Valid(ref Ref) bool {
	if m.layout == nil || ref.Epoch != m.epoch {
		return false
	}
	_, ok := m.layout.Node(ref.ID)
	return ok
}

// Enter hovers the referenced node. A stale or unknown ref leaves the
// machine unchanged and returns the current frame with false.
func (m *Machine) Enter(ref Ref) (Frame, bool) {
	if !m.Valid(ref) {
		return m.frame, false
	}
	next := m.hover(ref.ID)
	m.frame = next
	return next, true
}

// Leave returns to idle. Leaving while idle is a no-op.
func (m *Machine) Leave() Frame {
	if m.frame.State == Idle {
		return m.frame
	}
	m.frame = m.idle()
	return m.frame
}

func (m *Machine) idle() Frame {
	f := Frame{
		Epoch:      m.epoch,
		State:      Idle,
		Node:       -1,
		Chain:      []int{},
		Emphasized: []int{},
		Trail:      breadcrumb.Build(nil, ""),
	}
	if m.layout != nil {
		f.Opacity = IdleOpacity(m.layout)
	}
	return f
}

func (m *Machine) hover(id int) Frame {
	l := m.layout
	chain := l.Chain(id)

	emphasized := make([]int, 0, len(chain)+1)
	emphasized = append(emphasized, 0)
	emphasized = append(emphasized, chain...)

	opacity := make([]float64, len(l.Nodes))
	for i := range opacity {
		opacity[i] = color.Dimmed
	}
	for _, e := range emphasized {
		opacity[e] = color.Emphasized
	}

	node := l.Nodes[id]
	value := m.opts.Format(node.Value)
	pct, hasPct := format.Percentage(node.Value, l.Total())

	center := value
	if m.opts.Config.ShowPercentage && hasPct {
		center = pct
	}

	crumbs := make([]breadcrumb.Crumb, len(chain))
	for i, c := range chain {
		crumbs[i] = breadcrumb.Crumb{
			NodeID: c,
			Label:  l.Nodes[c].Name,
			Fill:   m.palette.Of(c),
		}
	}

	return Frame{
		Epoch:         m.epoch,
		State:         Hovering,
		Node:          id,
		Chain:         chain,
		Emphasized:    emphasized,
		Opacity:       opacity,
		Percentage:    pct,
		HasPercentage: hasPct,
		Value:         value,
		CenterLabel:   center,
		Trail:         breadcrumb.Build(crumbs, value),
	}
}

// IdleOpacity returns the resting opacity of every node of l.
func IdleOpacity(l *partition.Layout) []float64 {
	out := make([]float64, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = color.Opacity(n.Depth)
	}
	return out
}
