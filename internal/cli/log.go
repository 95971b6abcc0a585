package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 48 holes (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks writes engine events to the logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.RenderHooks    = (*logHooks)(nil)
	_ observability.CacheHooks     = (*logHooks)(nil)
	_ observability.PlacementHooks = (*logHooks)(nil)
)

func (h *logHooks) OnRenderStart(_ context.Context, layers []string) {
	h.logger.Debug("render start", "layers", layers)
}

func (h *logHooks) OnRenderComplete(_ context.Context, layers []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render complete with failures", "layers", len(layers), "duration", d, "err", err)
		return
	}
	h.logger.Debug("render complete", "layers", len(layers), "duration", d)
}

func (h *logHooks) OnLayerFailed(_ context.Context, layer string, err error) {
	h.logger.Debug("layer failed", "layer", layer, "err", err)
}

func (h *logHooks) OnProjectComplete(_ context.Context, holes, skipped int, d time.Duration) {
	h.logger.Debug("projection complete", "holes", holes, "skipped", skipped, "duration", d)
}

func (h *logHooks) OnCacheHit(layer string)   { h.logger.Debug("cache hit", "layer", layer) }
func (h *logHooks) OnCacheMiss(layer string)  { h.logger.Debug("cache miss", "layer", layer) }
func (h *logHooks) OnCacheEvict(layer string) { h.logger.Debug("cache evict", "layer", layer) }

func (h *logHooks) OnPlacement(outcome string) {
	h.logger.Debug("placement", "outcome", outcome)
}
