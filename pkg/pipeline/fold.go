package pipeline

import (
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
)

// Fold builds the taxonomy tree from rows. Rows with a null key are kept
// only when the chart shows null points.
func Fold(rows []taxonomy.Row, opts Options) (*taxonomy.Node, taxonomy.BuildStats) {
	return taxonomy.BuildWithStats(rows, opts.Chart.ShowNullPoints)
}
