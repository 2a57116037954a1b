package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/adscout/models"
)

// ProductService is the extraction surface the handlers depend on.
// *engine.Dispatcher implements it.
type ProductService interface {
	Extract(ctx context.Context, url, mode string) (*models.ProductResult, error)
	Images(ctx context.Context, url string) ([]string, error)
}

// Products returns a handler for POST /api/v1/products.
func Products(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		req.Defaults()

		// ── 2. Extract ──────────────────────────────────────────────
		extractStart := time.Now()
		result, err := svc.Extract(c.Request.Context(), req.URL, req.FetchMode)
		if err != nil {
			respondError(c, err)
			return
		}
		extractionMs := time.Since(extractStart).Milliseconds()

		c.JSON(http.StatusOK, models.ProductResponse{
			Success:       true,
			ProductResult: result,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				ExtractionMs: extractionMs,
			},
		})
	}
}
