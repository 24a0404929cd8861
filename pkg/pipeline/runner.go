package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fold → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, rows []taxonomy.Row, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stages 1 and 2: Fold and layout
	layoutStart := time.Now()
	c, hash, layoutHit, err := r.layout(ctx, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.DataHash = hash
	result.Chart = c
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Build = c.Stats
	result.Stats.NodeCount = len(c.Nodes)
	result.Stats.MaxDepth = c.MaxDepth
	result.Stats.Total = c.Total()
	result.CacheInfo.LayoutHit = layoutHit

	if result.Layout, err = c.Layout(); err != nil {
		return nil, err
	}

	r.Logger.Info("computed layout",
		"rows", c.Stats.Rows,
		"nodes", len(c.Nodes),
		"depth", c.MaxDepth,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	if c.Stats.Overwritten > 0 || c.Stats.Shadowed > 0 {
		r.Logger.Warn("some rows did not become leaves",
			"overwritten", c.Stats.Overwritten,
			"shadowed", c.Stats.Shadowed)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo folds rows and computes the chart with caching and
// returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, rows []taxonomy.Row, opts Options) (chart.Chart, bool, error) {
	c, _, hit, err := r.layout(ctx, rows, opts)
	return c, hit, err
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, rows []taxonomy.Row, opts Options) (chart.Chart, error) {
	c, _, err := r.LayoutWithCacheInfo(ctx, rows, opts)
	return c, err
}

func (r *Runner) layout(ctx context.Context, rows []taxonomy.Row, opts Options) (chart.Chart, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return chart.Chart{}, "", false, err
	}
	hooks := observability.Pipeline()

	dataHash, err := cache.HashJSON(rows)
	if err != nil {
		return chart.Chart{}, "", false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash rows")
	}
	cacheKey := r.Keyer.LayoutKey(dataHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := chart.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached, dataHash, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	// Fold
	foldStart := time.Now()
	hooks.OnFoldStart(ctx, len(rows))
	root, stats := Fold(rows, opts)
	hooks.OnFoldComplete(ctx, root.Count(), time.Since(foldStart), nil)
	opts.Logger.Debug("folded rows",
		"rows", stats.Rows,
		"null_skipped", stats.NullSkipped,
		"nodes", root.Count())

	// Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, opts.VizType, root.Count())
	c, err := GenerateLayout(root, stats, opts)
	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(layoutStart), err)
	if err != nil {
		return chart.Chart{}, "", false, err
	}

	// Cache the result
	if data, err := chart.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return c, dataHash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c chart.Chart, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()

	l, err := c.Layout()
	if err != nil {
		return nil, false, err
	}
	highlight, err := resolveHighlight(l, opts.Highlight)
	if err != nil {
		return nil, false, err
	}

	// Compute cache key from chart data, ignoring identity fields that do
	// not change the drawing.
	keyed := c
	keyed.ID = ""
	keyed.CreatedAt = time.Time{}
	layoutData, err := chart.Marshal(keyed)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, f := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f, highlight))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, c, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for f, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f, highlight))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c chart.Chart, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// codeOf returns the code of err, defaulting to ErrCodeInternal.
func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}
