// Package render converts rendered charts between output formats.
//
// # Overview
//
// Chart renderers in the subpackages produce SVG:
//
//   - [sink]: the sunburst itself, optionally with hover interaction
//   - [tree]: the taxonomy as a node-link diagram drawn by Graphviz
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(layout, sink.WithConfig(cfg))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed the conversions fail with
// errors.ErrCodeUnsupported.
//
// [sink]: github.com/matzehuels/sunburst/pkg/core/render/sink
// [tree]: github.com/matzehuels/sunburst/pkg/core/render/tree
package render
