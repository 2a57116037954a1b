package models

// Product is the structured data pulled from a product page.
// Every string field is non-empty; Images is never nil.
type Product struct {
	BrandName          string   `json:"brandName"`
	ProductName        string   `json:"productName"`
	ProductDescription string   `json:"productDescription"`
	Images             []string `json:"images"`
}

// Extraction tiers reported in ProductResult.Tier.
const (
	TierStatic  = "static"
	TierDynamic = "dynamic"
)

// ProductResult wraps a Product with the tier that produced it.
type ProductResult struct {
	Product
	Tier string `json:"tier"`
}

// ProductResponse is the response for POST /api/v1/products.
type ProductResponse struct {
	Success bool `json:"success"`

	// Product is embedded so the fields sit at the top level of the JSON body.
	*ProductResult

	Timing TimingInfo   `json:"timing"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// AdResponse is the response for POST /createAd and POST /api/v1/ads.
type AdResponse struct {
	Product
	Tier   string     `json:"tier,omitempty"`
	AdCopy string     `json:"adCopy"`
	Timing TimingInfo `json:"timing"`
}

// ManualAdResponse echoes the manual inputs alongside the generated copy.
type ManualAdResponse struct {
	ManualAdRequest
	AdCopy string `json:"adCopy"`
}

// ImageResponse is the response for POST /image-proxy and POST /api/v1/images.
type ImageResponse struct {
	Images []string `json:"images"`
}

// ErrorResponse is returned by every endpoint on failure.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ExtractionMs is the time spent in the tier dispatcher.
	ExtractionMs int64 `json:"extraction_ms"`

	// GenerationMs is the time spent waiting on the copy generator. Only
	// ad responses set it.
	GenerationMs int64 `json:"generation_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
