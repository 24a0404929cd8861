package pipeline

import (
	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout partitions the tree and serializes the result.
// Both viz types share the same partition; the tree view simply ignores
// the angles when drawing.
func GenerateLayout(root *taxonomy.Node, stats taxonomy.BuildStats, opts Options) (chart.Chart, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return chart.Chart{}, err
	}
	l := partition.Compute(root, partition.MeasureValue, partition.Options{Radius: opts.Chart.Radius()})
	c := chart.FromLayout(l, opts.Chart, nil)
	c.VizType = opts.VizType
	c.Stats = stats
	return c, nil
}
