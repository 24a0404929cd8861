package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to the default logger
// when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnFoldStart(_ context.Context, rows int) {
	h.logger.Debug("fold start", "rows", rows)
}

func (h *LogHooks) OnFoldComplete(_ context.Context, nodeCount int, d time.Duration, err error) {
	h.done("fold complete", d, err, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, nodeCount int) {
	h.logger.Debug("layout start", "viz", vizType, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	h.done("layout complete", d, err, "viz", vizType)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render complete", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnHover(_ context.Context, chartID string, node, depth int) {
	h.logger.Debug("hover", "chart", chartID, "node", node, "depth", depth)
}

func (h *LogHooks) OnLeave(_ context.Context, chartID string) {
	h.logger.Debug("leave", "chart", chartID)
}

func (h *LogHooks) OnStale(_ context.Context, chartID string, epoch, current uint64) {
	h.logger.Warn("stale node reference", "chart", chartID, "epoch", epoch, "current", current)
}

var (
	_ PipelineHooks    = (*LogHooks)(nil)
	_ CacheHooks       = (*LogHooks)(nil)
	_ InteractionHooks = (*LogHooks)(nil)
)
