// Package pkg provides the core libraries for Sunburst chart rendering.
//
// # Overview
//
// Sunburst turns the rows of a tabular query result into a radial partition
// chart: every dimension is a ring, every distinct path prefix an arc whose
// angle is proportional to the summed measure below it. Hovering an arc
// dims everything off its path and shows the breadcrumb trail and its share
// of the total.
//
// # Architecture
//
// The data flow:
//
//	query.json (fields + rows)
//	         ↓
//	    [io] package (rows)
//	         ↓
//	    [core/taxonomy] package (fold rows into a tree)
//	         ↓
//	    [core/partition] package (angles and radii)
//	         ↓
//	    [core/render] packages (SVG, PNG, PDF, DOT)
//
// # Quick Start
//
//	q, _ := io.ImportQuery("sales.json")
//	rows, _ := q.Rows()
//
//	cfg := config.Default()
//	root := taxonomy.Build(rows, cfg.ShowNullPoints)
//	l := partition.Compute(root, nil, partition.Options{Radius: cfg.Radius()})
//
//	svg := sink.RenderSVG(l, sink.WithConfig(cfg), sink.WithInteraction())
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/taxonomy] folds rows into an ordered tree with summed values.
//
// [core/partition] assigns each node its angular span and radial band. The
// radius of a band grows with the square root of its depth so rings have
// equal area.
//
// [core/interaction] is the hover state machine. It owns the emphasis set,
// the opacities, the breadcrumb trail and the centre label of the current
// state, and rejects events for nodes of a replaced layout.
//
// [core/arc], [core/breadcrumb], [core/color] and [core/format] hold the
// geometry, trail layout, palette and number formatting.
//
// ## Rendering
//
// [core/render/sink] draws the sunburst as SVG (optionally with embedded hover
// frames) and converts it to PNG or PDF. [core/render/tree] draws the same
// taxonomy as a Graphviz node-link diagram.
//
// ## Serialization and Storage
//
// [chart] is the document format of a computed chart, used by layout files,
// the cache and the chart store. [cache] caches layouts and artifacts on
// disk or in Redis; [store] keeps charts in memory, on disk or in MongoDB.
//
// ## Orchestration
//
// [pipeline] runs fold → layout → render with caching and is shared by the
// CLI and the [api] server.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [core/taxonomy]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/taxonomy
// [core/partition]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/partition
// [core/interaction]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/interaction
// [core/arc]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/arc
// [core/breadcrumb]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/breadcrumb
// [core/color]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/color
// [core/format]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/format
// [core/render/sink]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/render/sink
// [core/render/tree]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/render/tree
// [chart]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/chart
// [cache]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/api
//
// [core/render]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/core/render
// [io]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/io
package pkg
