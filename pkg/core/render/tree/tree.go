package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sunburst/pkg/core/color"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/render"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds the value and share of total to each label.
	Detailed bool
	// Format renders values in detailed labels. Defaults to format.Default.
	Format format.Formatter
	// Fills colours the boxes, indexed by node ID. Missing entries and
	// color.None fall back to white.
	Fills []string
}

// ToDOT converts a layout to Graphviz DOT format.
// Zero-valued subtrees are drawn with dashed outlines.
func ToDOT(l *partition.Layout, opts Options) string {
	if opts.Format == nil {
		opts.Format = format.Default
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		label := fmtLabel(l, n, opts)
		attrs := fmtAttrs(n, label, fill(opts.Fills, n.ID))
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range l.Nodes {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(n.ID), nodeID(c))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return "n" + strconv.Itoa(id) }

func fill(fills []string, id int) string {
	if id >= len(fills) || fills[id] == "" || fills[id] == color.None {
		return "white"
	}
	return fills[id]
}

func fmtLabel(l *partition.Layout, n partition.Node, opts Options) string {
	name := n.Name
	if n.ID == 0 && name == "" {
		name = "root"
	}
	if !opts.Detailed {
		return name
	}
	parts := []string{name, opts.Format(n.Value)}
	if pct, ok := format.Percentage(n.Value, l.Total()); ok {
		parts = append(parts, pct)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n partition.Node, label, fill string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", fill)}
	if fill != "white" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", color.TextOn(fill)))
	}
	if n.Value <= 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// viewBox so the output scales like the sunburst SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" class="tree" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
