// Package chart is the serialization format for computed sunbursts.
//
// A [Chart] holds a laid-out tree as a flat node list together with the
// options it was computed with. It is what the CLI writes as a layout file,
// what the cache stores and what the chart store persists, so it carries
// both json and bson tags.
//
// The node list round-trips: [FromLayout] followed by [Chart.Layout]
// restores the partition exactly, which lets renderers work from a saved
// file without the original rows.
package chart

import (
	"encoding/json"
	"os"
	"time"

	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/arc"
	"github.com/matzehuels/sunburst/pkg/core/color"
	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// Visualization types.
const (
	VizTypeSunburst = "sunburst"
	VizTypeTree     = "tree"
)

// =============================================================================
// Chart - Unified Serialization Format
// =============================================================================

// Chart is a computed chart.
type Chart struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty"`
	VizType string `json:"viz_type" bson:"viz_type"`

	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Radius   float64 `json:"radius" bson:"radius"`
	Unit     float64 `json:"unit" bson:"unit"`
	MaxDepth int     `json:"max_depth" bson:"max_depth"`

	Options config.Chart        `json:"options" bson:"options"`
	Nodes   []Node              `json:"nodes" bson:"nodes"`
	Stats   taxonomy.BuildStats `json:"stats" bson:"stats"`

	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// IsSunburst returns true if this is a sunburst chart.
func (c *Chart) IsSunburst() bool { return c.VizType == VizTypeSunburst }

// IsTree returns true if this is a tree chart.
func (c *Chart) IsTree() bool { return c.VizType == VizTypeTree }

// Total returns the root value.
func (c *Chart) Total() float64 {
	if len(c.Nodes) == 0 {
		return 0
	}
	return c.Nodes[0].Value
}

// =============================================================================
// Node
// =============================================================================

// Node is one serialized node. Y0 and Y1 are in area units; Arc holds the
// drawable radii.
type Node struct {
	ID       int      `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Depth    int      `json:"depth" bson:"depth"`
	Parent   int      `json:"parent" bson:"parent"`
	Children []int    `json:"children,omitempty" bson:"children,omitempty"`
	Path     []string `json:"path,omitempty" bson:"path,omitempty"`

	Value float64   `json:"value" bson:"value"`
	X0    float64   `json:"x0" bson:"x0"`
	X1    float64   `json:"x1" bson:"x1"`
	Y0    float64   `json:"y0" bson:"y0"`
	Y1    float64   `json:"y1" bson:"y1"`
	Arc   arc.Shape `json:"arc" bson:"arc"`
	Fill  string    `json:"fill" bson:"fill"`

	Leaf    bool            `json:"leaf,omitempty" bson:"leaf,omitempty"`
	Measure *float64        `json:"measure,omitempty" bson:"measure,omitempty"`
	Links   []taxonomy.Link `json:"links,omitempty" bson:"links,omitempty"`
}

// =============================================================================
// Conversion
// =============================================================================

// FromLayout serializes l. A nil palette is computed from cfg.
func FromLayout(l *partition.Layout, cfg config.Chart, palette *color.Palette) Chart {
	if palette == nil {
		palette = color.NewPalette(l, cfg)
	}
	c := Chart{
		VizType:  VizTypeSunburst,
		Width:    float64(cfg.Width),
		Height:   float64(cfg.Height),
		Radius:   l.Radius,
		Unit:     l.Unit,
		MaxDepth: l.MaxDepth,
		Options:  cfg,
		Nodes:    make([]Node, len(l.Nodes)),
	}
	for i, n := range l.Nodes {
		out := Node{
			ID:       n.ID,
			Name:     n.Name,
			Depth:    n.Depth,
			Parent:   n.Parent,
			Children: n.Children,
			Path:     l.Path(n.ID),
			Value:    n.Value,
			X0:       n.X0,
			X1:       n.X1,
			Y0:       n.Y0,
			Y1:       n.Y1,
			Arc:      arc.Project(n),
			Fill:     palette.Of(n.ID),
			Leaf:     n.Leaf,
			Links:    n.Links,
		}
		if n.Measure.Valid {
			v := n.Measure.Value
			out.Measure = &v
		}
		c.Nodes[i] = out
	}
	return c
}

// Layout restores the partition.
func (c *Chart) Layout() (*partition.Layout, error) {
	if len(c.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "chart has no nodes")
	}
	l := &partition.Layout{
		Nodes:    make([]partition.Node, len(c.Nodes)),
		Radius:   c.Radius,
		MaxDepth: c.MaxDepth,
		Unit:     c.Unit,
	}
	for i, n := range c.Nodes {
		if n.ID != i {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has id %d", i, n.ID)
		}
		if i == 0 && n.Parent != -1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "root has parent %d", n.Parent)
		}
		if i > 0 && (n.Parent < 0 || n.Parent >= i) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has invalid parent %d", i, n.Parent)
		}
		for _, ch := range n.Children {
			if ch <= i || ch >= len(c.Nodes) || c.Nodes[ch].Parent != i {
				return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has invalid child %d", i, ch)
			}
		}
		pn := partition.Node{
			ID:       n.ID,
			Name:     n.Name,
			Depth:    n.Depth,
			Parent:   n.Parent,
			Children: n.Children,
			Value:    n.Value,
			X0:       n.X0,
			X1:       n.X1,
			Y0:       n.Y0,
			Y1:       n.Y1,
			Leaf:     n.Leaf,
			Links:    n.Links,
		}
		if n.Measure != nil {
			pn.Measure = taxonomy.M(*n.Measure)
		}
		l.Nodes[i] = pn
	}
	return l, nil
}

// Fills returns the fill of every node, indexed by ID.
func (c *Chart) Fills() []string {
	out := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = n.Fill
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Chart to pretty-printed JSON bytes.
func Marshal(c Chart) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Chart.
func Unmarshal(data []byte) (Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal chart")
	}
	if c.VizType == "" {
		c.VizType = VizTypeSunburst
	}
	if c.VizType != VizTypeSunburst && c.VizType != VizTypeTree {
		return Chart{}, errors.New(errors.ErrCodeInvalidVizType, "unknown viz type %q", c.VizType)
	}
	if len(c.Nodes) == 0 {
		return Chart{}, errors.New(errors.ErrCodeInvalidInput, "chart must contain nodes")
	}
	return c, nil
}

// WriteFile writes a Chart to a JSON file.
func WriteFile(c Chart, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Chart from a JSON file.
func ReadFile(path string) (Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Unmarshal(data)
}
