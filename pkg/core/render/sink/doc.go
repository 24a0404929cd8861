// Package sink renders a computed sunburst to output formats.
//
// # Overview
//
// A "sink" turns a [partition.Layout] into a final document:
//
//   - SVG: vector output, optionally interactive
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws one path per node with a non-empty arc, in breadth-first
// order, filled from the colour palette at the node's resting opacity. The
// root is drawn without fill. A hidden centre label and an empty breadcrumb
// group sit ready for hover.
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithConfig(cfg),
//	    sink.WithFormatter(query.Formatter()),
//	    sink.WithInteraction(),
//	)
//
// # SVG Options
//
//   - [WithConfig]: chart options (colours, size, labels)
//   - [WithFormatter]: formatter for absolute values
//   - [WithInteraction]: embed hover frames and script
//   - [WithHighlight]: freeze the chart in the hover state of one node
//   - [WithTitle]: document title
//
// # Interaction
//
// With [WithInteraction] the renderer drives an interaction.Machine through
// every node and stores each resulting frame (breadcrumb polygons, centre
// label and emphasized node IDs) in a hidden group. A small script swaps
// frames in on mouseenter and restores resting opacities on mouseleave.
// The restore is deferred by one animation frame and cancelled by the next
// mouseenter, so moving between adjacent arcs never shows an idle chart.
//
// Clicking an arc dispatches a bubbling "sunburst:drill" CustomEvent whose
// detail carries the node's links and the pointer's page coordinates:
//
//	{"links": [{"label": "...", "url": "..."}], "event": {"pageX": 10, "pageY": 20}}
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render static SVG first and convert it with
// rsvg-convert. Interaction options are ignored for these formats.
//
// [partition.Layout]: github.com/matzehuels/sunburst/pkg/core/partition.Layout
package sink
