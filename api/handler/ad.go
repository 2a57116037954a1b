package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/adscout/api/middleware"
	"github.com/use-agent/adscout/llm"
	"github.com/use-agent/adscout/models"
)

// CreateAd returns a handler for POST /createAd and POST /api/v1/ads.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Extract the product (static tier, then browser fallback).
//  3. Build the audience-targeted prompt and generate copy.
//  4. Respond with the product fields plus the copy.
func CreateAd(svc ProductService, cw llm.CopyWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.AdRequest
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

		// ── 3. Generate ─────────────────────────────────────────────
		genStart := time.Now()
		adCopy, err := cw.Generate(c.Request.Context(), llm.AdPrompt(result.Product, req.Gender, req.AgeGroup))
		generationMs := time.Since(genStart).Milliseconds()
		if err != nil {
			slog.Error("ad copy generation failed",
				"url", req.URL,
				"request_id", middleware.GetRequestID(c),
				"error", err,
			)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.AdResponse{
			Product: result.Product,
			Tier:    result.Tier,
			AdCopy:  adCopy,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				ExtractionMs: extractionMs,
				GenerationMs: generationMs,
			},
		})
	}
}

// ManualAd returns a handler for POST /generateAdPrompt and
// POST /api/v1/ads/manual. No page is scraped.
func ManualAd(cw llm.CopyWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ManualAdRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}

		adCopy, err := cw.Generate(c.Request.Context(), llm.ManualPrompt(req))
		if err != nil {
			slog.Error("manual ad copy generation failed",
				"product", req.ProductName,
				"request_id", middleware.GetRequestID(c),
				"error", err,
			)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ManualAdResponse{
			ManualAdRequest: req,
			AdCopy:          adCopy,
		})
	}
}
