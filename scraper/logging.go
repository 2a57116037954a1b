package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/adscout/engine"
	"github.com/use-agent/adscout/extract"
)

// Ensure LoggingRenderer implements engine.Renderer.
var _ engine.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with request logging.
type LoggingRenderer struct {
	next   engine.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next engine.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string, use func(extract.Document) error) (err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url, use)
}
