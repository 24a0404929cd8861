package pipeline

import (
	"context"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/render/sink"
	"github.com/matzehuels/sunburst/pkg/core/render/tree"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// Render generates output artifacts in the requested formats.
// The chart's own options decide colours and labels; opts only selects
// formats and render-time extras.
func Render(ctx context.Context, c chart.Chart, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	l, err := c.Layout()
	if err != nil {
		return nil, err
	}
	highlight, err := resolveHighlight(l, opts.Highlight)
	if err != nil {
		return nil, err
	}
	if c.IsTree() {
		return renderTree(ctx, c, l, opts)
	}
	return renderSunburst(ctx, c, l, highlight, opts)
}

// resolveHighlight returns the node ID at path, or -1 for an empty path.
func resolveHighlight(l *partition.Layout, path []string) (int, error) {
	if len(path) == 0 {
		return -1, nil
	}
	id, ok := l.Find(path...)
	if !ok {
		return -1, errors.New(errors.ErrCodeNodeNotFound, "no node at %v", path)
	}
	return id, nil
}

// renderSunburst generates sunburst outputs.
func renderSunburst(ctx context.Context, c chart.Chart, l *partition.Layout, highlight int, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(c, highlight, opts)
	artifacts := make(map[string][]byte)

	for _, f := range opts.Formats {
		var data []byte
		var err error

		switch f {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = chart.Marshal(c)
		case FormatDOT:
			data = []byte(tree.ToDOT(l, treeOptions(c, opts)))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sunburst format: %s", f)
		}

		if err != nil {
			return nil, renderError(f, err)
		}
		artifacts[f] = data
	}

	return artifacts, nil
}

// renderTree generates node-link outputs.
func renderTree(ctx context.Context, c chart.Chart, l *partition.Layout, opts Options) (map[string][]byte, error) {
	dot := tree.ToDOT(l, treeOptions(c, opts))
	artifacts := make(map[string][]byte)

	for _, f := range opts.Formats {
		var data []byte
		var err error

		switch f {
		case FormatSVG:
			data, err = tree.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = tree.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = tree.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = chart.Marshal(c)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format: %s", f)
		}

		if err != nil {
			return nil, renderError(f, err)
		}
		artifacts[f] = data
	}

	return artifacts, nil
}

// renderError keeps the code of a structured cause.
func renderError(format string, err error) error {
	return errors.Wrap(codeOf(err), err, "render %s", format)
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(c chart.Chart, highlight int, opts Options) []sink.SVGOption {
	cfg := c.Options
	cfg.SetDefaults()
	svgOpts := []sink.SVGOption{
		sink.WithConfig(cfg),
		sink.WithFormatter(format.Parse(cfg.ValueFormat)),
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if highlight >= 0 {
		svgOpts = append(svgOpts, sink.WithHighlight(highlight))
	}
	return svgOpts
}

func treeOptions(c chart.Chart, opts Options) tree.Options {
	return tree.Options{
		Detailed: opts.Detailed,
		Format:   format.Parse(c.Options.ValueFormat),
		Fills:    c.Fills(),
	}
}

// RenderFromLayoutData renders output from serialized chart data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	c, err := chart.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Render(ctx, c, opts)
}
