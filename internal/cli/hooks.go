package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipeflow/pkg/observability"
)

// logHooks writes pipeline, cache and HTTP events to the debug log.
// It is registered by --verbose.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnAnalyzeStart(ctx context.Context, recipeID string, ingredients, instructions int) {
	h.logger.Debug("analyze start", "recipe", recipeID, "ingredients", ingredients, "instructions", instructions)
}

func (h logHooks) OnAnalyzeComplete(ctx context.Context, recipeID string, links int, d time.Duration) {
	h.logger.Debug("analyze done", "recipe", recipeID, "links", links, "duration", d)
}

func (h logHooks) OnLayoutStart(ctx context.Context, mode string, rows int) {
	h.logger.Debug("layout start", "mode", mode, "rows", rows)
}

func (h logHooks) OnLayoutComplete(ctx context.Context, mode string, shapes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "mode", mode, "err", err)
		return
	}
	h.logger.Debug("layout done", "mode", mode, "shapes", shapes, "duration", d)
}

func (h logHooks) OnRenderStart(ctx context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h logHooks) OnCacheHit(ctx context.Context, key string) {
	h.logger.Debug("cache hit", "key", shortKey(key))
}

func (h logHooks) OnCacheMiss(ctx context.Context, key string) {
	h.logger.Debug("cache miss", "key", shortKey(key))
}

func (h logHooks) OnCacheSet(ctx context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", shortKey(key), "bytes", size)
}

func (h logHooks) OnRequest(ctx context.Context, method, route string) {
	loggerFromContext(ctx).Debug("request", "method", method, "route", route)
}

func (h logHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	loggerFromContext(ctx).Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

// shortKey trims a "prefix:sha256" cache key for display.
func shortKey(key string) string {
	if len(key) > 24 {
		return key[:24]
	}
	return key
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)
