package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/adscout/api/handler"
	"github.com/use-agent/adscout/api/middleware"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/llm"
	"github.com/use-agent/adscout/metrics"
)

// RouterOption configures optional router features.
type RouterOption func(*routerOptions)

type routerOptions struct {
	metrics *metrics.Metrics
}

// WithMetrics instruments requests and extractions and serves GET /metrics.
func WithMetrics(m *metrics.Metrics) RouterOption {
	return func(o *routerOptions) { o.metrics = m }
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger → [Metrics] → CORS
//
// The root-level paths (/createAd, /image-proxy, /generateAdPrompt) are the
// ones existing front ends call; /api/v1 carries the same handlers.
func NewRouter(svc handler.ProductService, cw llm.CopyWriter, cfg *config.Config, startTime time.Time, opts ...RouterOption) *gin.Engine {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	if o.metrics != nil {
		r.Use(o.metrics.Middleware())
		svc = metrics.Instrument(svc, o.metrics)
		r.GET("/metrics", gin.WrapH(o.metrics.Handler()))
	}
	r.Use(middleware.CORS(cfg.CORS))

	createAd := handler.CreateAd(svc, cw)
	images := handler.Images(svc)
	manualAd := handler.ManualAd(cw)

	r.POST("/createAd", createAd)
	r.POST("/image-proxy", images)
	r.POST("/generateAdPrompt", manualAd)

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(startTime))
	v1.POST("/products", handler.Products(svc))
	v1.POST("/ads", createAd)
	v1.POST("/ads/manual", manualAd)
	v1.POST("/images", images)

	return r
}
