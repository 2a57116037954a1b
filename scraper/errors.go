package scraper

import (
	"context"
	"errors"

	"github.com/use-agent/adscout/models"
)

// categorizeError wraps raw rod errors into RENDER_FAILED ScrapeErrors,
// naming deadline and cancellation causes in the message.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeRender, "navigation timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeRender, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeRender, msg, err)
	}
}
