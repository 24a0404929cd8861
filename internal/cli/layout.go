package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		chartOpts chartFlags
		vizType   string
		output    string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [query.json]",
		Short: "Compute a chart layout from a query result",
		Long: `Compute a chart layout from a query result.

The layout command folds the query rows into a tree and computes the radial
partition. The output is a layout.json file (same document as 'render -f json')
that can be rendered with 'visualize' or explored with 'explore'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chartOpts.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{VizType: vizType, Chart: cfg}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&vizType, "type", "t", pipeline.DefaultVizType, "visualization type: sunburst (default), tree")
	chartOpts.register(cmd)

	return cmd
}

// runLayout loads the query, computes the layout, and writes the chart.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	ch, cacheHit, err := runner.LayoutWithCacheInfo(ctx, rows, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + layoutSuffix
	}
	if err := chart.WriteFile(ch, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	warnBuild(ch)
	printStats(chartStats{
		nodes:    len(ch.Nodes),
		depth:    ch.MaxDepth,
		total:    format.Parse(ch.Options.ValueFormat)(ch.Total()),
		skipped:  ch.Stats.NullSkipped,
		cached:   cacheHit,
		hasCache: !noCache,
	})
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)
	printNextStep("Explore", appName+" explore "+outputPath)

	return nil
}
