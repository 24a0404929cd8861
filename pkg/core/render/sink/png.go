package sink

import (
	"context"

	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders the chart as PNG via SVG conversion. Hover interaction
// is dropped since raster output cannot carry it.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, l *partition.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	svg := RenderSVG(l, static(r.svgOpts)...)
	return render.ToPNG(ctx, svg, r.scale)
}

// static appends an option that turns interaction back off.
func static(opts []SVGOption) []SVGOption {
	out := append([]SVGOption(nil), opts...)
	return append(out, func(r *svgRenderer) { r.interactive = false })
}
