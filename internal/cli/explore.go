package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/interaction"
	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// exploreCommand creates the explore command, a terminal version of the
// interactive chart.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		chartOpts chartFlags
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "explore [query.json|layout.json]",
		Short: "Explore a chart interactively in the terminal",
		Long: `Explore a chart interactively in the terminal.

Moving the cursor hovers a node exactly like the mouse does in the SVG: the
breadcrumb trail shows its ancestry, the centre label its share of the total,
and everything off its path is dimmed. Enter shows the node's drill links.

Accepts a query file or a layout file produced by 'layout'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.loadChart(cmd, args[0], &chartOpts, noCache)
			if err != nil {
				return err
			}
			m, err := newExploreModel(ch)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	chartOpts.register(cmd)
	return cmd
}

// loadChart reads a layout file as is, or lays out a query file.
func (c *CLI) loadChart(cmd *cobra.Command, input string, flags *chartFlags, noCache bool) (chart.Chart, error) {
	if strings.HasSuffix(input, layoutSuffix) {
		return chart.ReadFile(input)
	}
	cfg, err := flags.resolve(cmd)
	if err != nil {
		return chart.Chart{}, err
	}
	rows, err := loadRows(input, &cfg)
	if err != nil {
		return chart.Chart{}, fmt.Errorf("load query %s: %w", input, err)
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return chart.Chart{}, err
	}
	defer runner.Close()
	return runner.Layout(cmd.Context(), rows, pipeline.Options{Chart: cfg, Logger: c.Logger})
}

// =============================================================================
// Key Bindings
// =============================================================================

type exploreKeys struct {
	Up     key.Binding
	Down   key.Binding
	Parent key.Binding
	Child  key.Binding
	Leave  key.Binding
	Drill  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Drill, k.Leave, k.Help, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Parent, k.Child},
		{k.Drill, k.Leave},
		{k.Help, k.Quit},
	}
}

var defaultExploreKeys = exploreKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
	Parent: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "parent")),
	Child:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "first child")),
	Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
	Drill:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "links")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// Model
// =============================================================================

var (
	exploreTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	exploreRowStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	exploreCursor     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// exploreModel is the bubbletea model of the explorer. Rows list every
// non-root node depth-first; the cursor is -1 while idle.
type exploreModel struct {
	chart   chart.Chart
	layout  *partition.Layout
	machine *interaction.Machine
	format  format.Formatter

	rows   []int
	cursor int
	offset int
	height int

	links []taxonomy.Link
	keys  exploreKeys
	help  help.Model
}

func newExploreModel(ch chart.Chart) (exploreModel, error) {
	l, err := ch.Layout()
	if err != nil {
		return exploreModel{}, err
	}
	f := format.Parse(ch.Options.ValueFormat)
	m := interaction.New(interaction.Options{Config: ch.Options, Format: f})
	m.Reset(l)

	return exploreModel{
		chart:   ch,
		layout:  l,
		machine: m,
		format:  f,
		rows:    depthFirst(l),
		cursor:  -1,
		height:  20,
		keys:    defaultExploreKeys,
		help:    help.New(),
	}, nil
}

// depthFirst lists the non-root nodes in pre-order.
func depthFirst(l *partition.Layout) []int {
	out := make([]int, 0, l.Len()-1)
	var visit func(id int)
	visit = func(id int) {
		for _, ch := range l.Nodes[id].Children {
			out = append(out, ch)
			visit(ch)
		}
	}
	visit(0)
	return out
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m = m.moveTo(m.cursor - 1)
			} else if m.cursor < 0 && len(m.rows) > 0 {
				m = m.moveTo(len(m.rows) - 1)
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m = m.moveTo(m.cursor + 1)
			}
		case key.Matches(msg, m.keys.Parent):
			if n, ok := m.selected(); ok && n.Parent > 0 {
				m = m.moveTo(m.rowOf(n.Parent))
			}
		case key.Matches(msg, m.keys.Child):
			if n, ok := m.selected(); ok && len(n.Children) > 0 {
				m = m.moveTo(m.rowOf(n.Children[0]))
			}
		case key.Matches(msg, m.keys.Leave):
			m.machine.Leave()
			m.cursor = -1
			m.links = nil
		case key.Matches(msg, m.keys.Drill):
			if n, ok := m.selected(); ok {
				m.links = n.Links
				if m.links == nil {
					m.links = []taxonomy.Link{}
				}
			}
		}
	}
	return m, nil
}

// moveTo puts the cursor on row i and hovers its node.
func (m exploreModel) moveTo(i int) exploreModel {
	m.cursor = i
	m.links = nil
	m.machine.Enter(m.machine.Ref(m.rows[i]))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m
}

func (m exploreModel) selected() (*partition.Node, bool) {
	if m.cursor < 0 {
		return nil, false
	}
	return m.layout.Node(m.rows[m.cursor])
}

func (m exploreModel) rowOf(id int) int {
	for i, r := range m.rows {
		if r == id {
			return i
		}
	}
	return m.cursor
}

func (m exploreModel) View() string {
	var b strings.Builder
	frame := m.machine.Current()
	palette := m.machine.Palette()

	title := m.chart.ID
	if title == "" {
		title = appName
	}
	b.WriteString(exploreTitleStyle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  total %s", m.format(m.layout.Total()))))
	b.WriteString("\n\n")

	b.WriteString(m.trailView(frame))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		id := m.rows[i]
		n := m.layout.Nodes[id]
		pointer := "  "
		if i == m.cursor {
			pointer = exploreCursor.Render("▸ ")
		}
		line := fmt.Sprintf("%s%s %s  %s",
			strings.Repeat("  ", n.Depth-1), swatch(palette.Of(id)), n.Name, m.format(n.Value))
		style := exploreRowStyle
		if frame.State == interaction.Hovering && !frame.IsEmphasized(id) {
			style = StyleDim
		}
		b.WriteString(pointer + style.Render(line) + "\n")
	}

	if m.links != nil {
		b.WriteString("\n")
		if len(m.links) == 0 {
			b.WriteString(StyleDim.Render("no links"))
			b.WriteString("\n")
		}
		for _, link := range m.links {
			label := link.Label
			if label == "" {
				label = link.URL
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", StyleDim.Render(iconArrow), label, StyleLink.Render(link.URL)))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// trailView renders the breadcrumbs and centre label of f.
func (m exploreModel) trailView(f interaction.Frame) string {
	if f.State != interaction.Hovering {
		return StyleDim.Render("move the cursor to hover a node")
	}
	parts := make([]string, 0, len(f.Trail.Crumbs))
	for _, c := range f.Trail.Crumbs {
		parts = append(parts, crumb(c.Label, c.Fill))
	}
	line := strings.Join(parts, StyleDim.Render(" "+iconArrow+" "))
	line += "  " + exploreLabelStyle.Render(f.Trail.Label)
	if f.CenterLabel != "" && f.CenterLabel != f.Trail.Label {
		line += "  " + StyleNumber.Render(f.CenterLabel)
	}
	return line
}
