// Package color assigns fills and opacities to laid-out nodes.
//
// Fills come from an ordinal scale over the configured colour range: each
// distinct key receives the next colour in first-seen order, cycling when
// the range runs out. The domain is seeded by visiting nodes in draw order,
// so a given layout and config always produce the same colours.
package color

import (
	"cogentcore.org/core/base/keylist"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/partition"
)

// None is the fill of the root.
const None = "none"

// Opacity levels.
const (
	Emphasized = 1.0
	Dimmed     = 0.15
	depthStep  = 0.15
)

// Opacity returns the resting opacity of a node at depth.
func Opacity(depth int) float64 {
	return max(0, 1-depthStep*float64(depth))
}

// Palette is an ordinal colour scale seeded from one layout.
type Palette struct {
	colors  []string
	by      config.ColorBy
	domain  keylist.List[string, string]
	fills   []string
	unknown string
}

// NewPalette assigns colours to every node of l.
func NewPalette(l *partition.Layout, cfg config.Chart) *Palette {
	p := &Palette{
		colors: cfg.ColorRange,
		by:     cfg.ColorBy,
		fills:  make([]string, len(l.Nodes)),
	}
	if len(p.colors) > 0 {
		p.unknown = p.colors[0]
	} else {
		p.unknown = None
	}
	for i := range l.Nodes {
		if i == 0 {
			p.fills[i] = None
			continue
		}
		p.fills[i] = p.assign(Key(l, i, p.by))
	}
	return p
}

// Key returns the ordinal key colouring node id.
func Key(l *partition.Layout, id int, by config.ColorBy) string {
	n, ok := l.Node(id)
	if !ok {
		return ""
	}
	if by == config.ColorByNode {
		return n.Name
	}
	chain := l.Chain(id)
	if len(chain) == 0 {
		return ""
	}
	return l.Nodes[chain[0]].Name
}

func (p *Palette) assign(key string) string {
	if c, ok := p.domain.AtTry(key); ok {
		return c
	}
	if len(p.colors) == 0 {
		return None
	}
	c := p.colors[len(p.domain.Values)%len(p.colors)]
	p.domain.Set(key, c)
	return c
}

// Of returns the fill of node id.
func (p *Palette) Of(id int) string {
	if id < 0 || id >= len(p.fills) {
		return p.unknown
	}
	return p.fills[id]
}

// Lookup returns the colour assigned to an ordinal key.
func (p *Palette) Lookup(key string) (string, bool) {
	return p.domain.AtTry(key)
}

// Keys returns the ordinal domain in first-seen order.
func (p *Palette) Keys() []string { return p.domain.Keys }

// Fills returns the fill of every node, indexed by ID.
func (p *Palette) Fills() []string { return p.fills }

// Of is a one-shot lookup of the fill of node id.
func Of(l *partition.Layout, id int, cfg config.Chart) string {
	return NewPalette(l, cfg).Of(id)
}

// TextOn returns a readable text colour for labels drawn on fill.
func TextOn(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return "#000000"
	}
	l, _, _ := c.Lab()
	if l < 0.6 {
		return "#ffffff"
	}
	return "#000000"
}
