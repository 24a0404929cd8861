// Package tree renders a sunburst partition as a node-link diagram.
//
// The tree view shows the same hierarchy as the sunburst, top to bottom,
// with every box filled in its sunburst colour. It is meant for inspecting
// deep or lopsided hierarchies whose outer rings become too thin to read.
//
// # Rendering Pipeline
//
//  1. Convert the layout to DOT: [ToDOT]
//  2. Render via Graphviz: [RenderSVG]
//  3. Optional conversion: [RenderPDF] or [RenderPNG]
//
// Graphviz runs in-process through its WebAssembly build, so SVG output
// needs no system binaries. PDF and PNG still go through rsvg-convert.
//
// # Labels
//
// Each box shows the node name. With Options.Detailed it also shows the
// formatted value and the share of the total.
package tree
