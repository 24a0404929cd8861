package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// renderFlags are the output flags shared by render and visualize.
type renderFlags struct {
	formats     string
	output      string
	interactive bool
	title       string
	highlight   string
	detailed    bool
	scale       float64
	noCache     bool
	refresh     bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.BoolVarP(&f.interactive, "interactive", "i", true, "embed hover breadcrumbs and drill events (svg)")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.highlight, "highlight", "", "render hovering the node at this path, e.g. \"EMEA/2024\"")
	fs.BoolVar(&f.detailed, "detailed", false, "show values and shares on tree nodes")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
}

func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = pipeline.ParseFormats(f.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	opts.Interactive = f.interactive
	opts.Title = f.title
	opts.Highlight = parseHighlight(f.highlight)
	opts.Detailed = f.detailed
	opts.Scale = f.scale
	opts.Refresh = f.refresh
	return nil
}

// renderCommand creates the render command: query in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		chartOpts  chartFlags
		renderOpts renderFlags
		vizType    string
	)

	cmd := &cobra.Command{
		Use:   "render [query.json]",
		Short: "Render a query result as a sunburst chart",
		Long: `Render a query result as a sunburst chart.

The query file holds the host's query response: field metadata (dimensions and
exactly one measure) and the data rows. Dimensions become the levels of the
chart from the centre outwards; the measure sizes the leaves.

This is a shortcut for 'layout' followed by 'visualize'. Results are cached
locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chartOpts.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{VizType: vizType, Chart: cfg}
			if err := renderOpts.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, renderOpts.output, renderOpts.noCache)
		},
	}

	cmd.Flags().StringVarP(&vizType, "type", "t", pipeline.DefaultVizType, "visualization type: sunburst (default), tree")
	chartOpts.register(cmd)
	renderOpts.register(cmd)

	return cmd
}

// runRender folds the query, lays it out and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	rows, err := loadRows(input, &opts.Chart)
	if err != nil {
		return fmt.Errorf("load query %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, rows, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered", "artifacts", len(result.Artifacts))

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	warnBuild(result.Chart)
	printStats(chartStats{
		nodes:    result.Stats.NodeCount,
		depth:    result.Stats.MaxDepth,
		total:    format.Parse(opts.Chart.ValueFormat)(result.Stats.Total),
		skipped:  result.Stats.Build.NullSkipped,
		cached:   result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		hasCache: !noCache,
	})
	return nil
}

// warnBuild reports rows that did not contribute as written.
func warnBuild(c chart.Chart) {
	if n := c.Stats.Overwritten; n > 0 {
		printWarning("%d row(s) repeated an earlier path; the last one won", n)
	}
	if n := c.Stats.Shadowed; n > 0 {
		printWarning("%d row(s) ended on an inner node and were not drawn", n)
	}
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format. A single format goes to output
// verbatim; several formats share output (or the input name) as base path.
func writeArtifacts(p artifactWriteParams) error {
	formats := p.formats
	if len(formats) == 0 {
		for f := range p.artifacts {
			formats = append(formats, f)
		}
		sort.Strings(formats)
	}

	single := len(formats) == 1 && p.output != ""
	base := basePath(p.output, p.input)

	printSuccess("Render complete")
	for _, f := range formats {
		data, ok := p.artifacts[f]
		if !ok {
			continue
		}
		path := base + "." + f
		if f == pipeline.FormatJSON {
			path = base + layoutSuffix
		}
		if single {
			path = p.output
		}
		if err := writeFile(path, data); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// layoutSuffix names chart documents, which json artifacts are.
const layoutSuffix = ".layout.json"

// basePath derives the output base path. Known format extensions and the
// ".layout.json" suffix are stripped.
func basePath(output, input string) string {
	if output == "" {
		output = strings.TrimSuffix(input, layoutSuffix)
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
